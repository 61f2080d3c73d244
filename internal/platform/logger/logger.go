package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger and applies its redaction policy to
// key/value pairs before they are written.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	policy        policy
}

// policy decides what happens to sensitive values. Secrets are always
// replaced when enabled; identities are hashed only where the reader of the
// log is not the owner of the session.
type policy struct {
	enabled        bool
	hashIdentities bool
	salt           string
}

// serverPolicy reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT.
func serverPolicy() policy {
	p := policy{enabled: true, hashIdentities: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		p.enabled = false
	}
	return p
}

// New builds a logger for the given mode ("production"/"prod" or anything
// else for development). LOG_LEVEL overrides the default debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar(), policy: serverPolicy()}, nil
}

// NewStderr is the CLI flavour: console encoding on stderr, warnings only
// unless verbose is set. The user reads their own session id in clear, but
// bearer tokens from the state file stay redacted.
func NewStderr(verbose bool) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return Nop()
	}
	return &Logger{SugaredLogger: zl.Sugar(), policy: policy{enabled: true}}
}

// Nop discards everything. Used by tests and optional collaborators.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func levelFromEnv() zapcore.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return zapcore.DebugLevel
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.DebugLevel
	}
	return lvl
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.policy.apply(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, l.policy.apply(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.policy.apply(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.policy.apply(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.policy.apply(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.policy.apply(keysAndValues)...), policy: l.policy}
}

func (p policy) apply(kv []interface{}) []interface{} {
	if len(kv) == 0 || !p.enabled {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		name := stringify(kv[i])
		out = append(out, name, p.value(strings.ToLower(strings.TrimSpace(name)), kv[i+1]))
	}
	return out
}

func (p policy) value(key string, val interface{}) interface{} {
	switch {
	case key == "":
	case secretKey(key):
		return "[REDACTED]"
	case p.hashIdentities && identityKey(key):
		return fingerprint(p.salt, val)
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = p.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case string:
		if bearerLike(v) {
			return "[REDACTED]"
		}
	}
	return val
}

var secretMarkers = []string{"token", "authorization", "password", "secret", "api_key", "apikey", "signing_key"}

func secretKey(key string) bool {
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return true
		}
	}
	return false
}

func identityKey(key string) bool {
	return strings.Contains(key, "user_id") || strings.Contains(key, "session_id")
}

func fingerprint(salt string, val interface{}) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

// bearerLike catches JWTs logged under an innocuous key.
func bearerLike(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
