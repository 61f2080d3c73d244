package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(p policy) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), policy: p}, logs
}

func TestServerPolicyRedactsSecretsAndHashesIdentities(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")
	t.Setenv("LOG_HASH_SALT", "pepper")
	out := serverPolicy().apply([]interface{}{"api_key", "sk-123", "user_id", "user_abc123xyz", "topic", "graphs"})
	if len(out) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "abc123") {
		t.Fatalf("user_id not hashed: %v", out[3])
	}
	if unsalted := fingerprint("", "user_abc123xyz"); unsalted == hashed {
		t.Fatalf("salt ignored")
	}
	if out[5] != "graphs" {
		t.Fatalf("plain value changed: %v", out[5])
	}
}

func TestServerPolicyCanBeDisabled(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "off")
	out := serverPolicy().apply([]interface{}{"token", "abc"})
	if out[1] != "abc" {
		t.Fatalf("redaction should be off: %v", out)
	}
}

func TestCLIPolicyKeepsIdentityButRedactsToken(t *testing.T) {
	if p := NewStderr(false).policy; !p.enabled || p.hashIdentities {
		t.Fatalf("unexpected cli policy: %+v", p)
	}

	log, logs := observed(NewStderr(false).policy)
	log.With("session_id", "user_abc123xyz").Warn("track failed",
		"token", "secret-token",
		"header", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyX2FiYyJ9.sig",
	)
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session_id"] != "user_abc123xyz" {
		t.Fatalf("session id should be readable: %v", fields["session_id"])
	}
	if fields["token"] != "[REDACTED]" || fields["header"] != "[REDACTED]" {
		t.Fatalf("secrets leaked: %v", fields)
	}
}

func TestWithKeepsPolicy(t *testing.T) {
	log, logs := observed(policy{enabled: true, hashIdentities: true})
	log.With("service", "Test").Info("hello", "user_id", "user_abc123xyz")
	if got := logs.All()[0].ContextMap()["user_id"]; !strings.HasPrefix(got.(string), "hash:") {
		t.Fatalf("child logger lost the policy: %v", got)
	}
}

func TestApplyKeepsDanglingKey(t *testing.T) {
	out := policy{enabled: true}.apply([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestBearerLike(t *testing.T) {
	if !bearerLike("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyX2FiYyJ9.sig") {
		t.Fatalf("expected jwt-shaped string to be detected")
	}
	if bearerLike("v1.2.3") {
		t.Fatalf("version string flagged as token")
	}
}
