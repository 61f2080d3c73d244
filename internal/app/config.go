package app

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/campusai/teachassist/internal/data/db"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/papers"
	"github.com/campusai/teachassist/internal/platform/envutil"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

const serviceName = "teachassist"

type StorageConfig struct {
	// Mode is local, gcs or gcs_emulator. Empty means gcs when a bucket is
	// configured and local otherwise.
	Mode            string
	Dir             string
	Bucket          string
	CredentialsFile string
	EmulatorHost    string
}

type RAGConfig struct {
	TopK         int
	MinScore     float64
	ChunkSize    int
	ChunkOverlap int
	// EmbeddingsProvider is openai or hash. Empty means openai when an
	// OpenAI key is present.
	EmbeddingsProvider string
	HashDim            int
}

type SessionConfig struct {
	SigningKey string
	TTL        time.Duration
	Required   bool
}

type Config struct {
	Port        string
	CORSOrigins []string

	DB db.Config

	RedisAddr   string
	CachePrefix string
	CacheTTL    time.Duration

	Storage StorageConfig
	LLM     llm.Config
	RAG     RAGConfig
	Papers  papers.Config
	Session SessionConfig

	Otel           observability.OtelConfig
	MetricsEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8000"),
		CORSOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", ""),
			PostgresHost:     envutil.String("POSTGRES_HOST", ""),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", serviceName),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "teachassist.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5),
		},
		RedisAddr:   envutil.String("REDIS_ADDR", ""),
		CachePrefix: envutil.String("REDIS_PREFIX", serviceName),
		CacheTTL:    envutil.Duration("CACHE_TTL", 24*time.Hour),
		Storage: StorageConfig{
			Mode:            strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "")),
			Dir:             envutil.String("SYLLABUS_DIR", "data/syllabus"),
			Bucket:          envutil.String("SYLLABUS_BUCKET", ""),
			CredentialsFile: envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
			EmulatorHost:    envutil.String("STORAGE_EMULATOR_HOST", ""),
		},
		LLM: llm.ConfigFromEnv(),
		RAG: RAGConfig{
			TopK:               envutil.Int("RAG_TOP_K", rag.DefaultTopK),
			MinScore:           envutil.Float("RAG_MIN_SCORE", 0),
			ChunkSize:          envutil.Int("RAG_CHUNK_SIZE", rag.DefaultChunkSize),
			ChunkOverlap:       envutil.Int("RAG_CHUNK_OVERLAP", rag.DefaultChunkOverlap),
			EmbeddingsProvider: strings.ToLower(envutil.String("EMBEDDINGS_PROVIDER", "")),
			HashDim:            envutil.Int("HASH_EMBEDDING_DIM", 512),
		},
		Papers: papers.Config{
			ArxivURL:           envutil.String("ARXIV_URL", papers.DefaultArxivURL),
			SemanticScholarURL: envutil.String("SEMANTIC_SCHOLAR_URL", papers.DefaultSemanticScholarURL),
			Timeout:            envutil.Duration("PAPERS_TIMEOUT", 10*time.Second),
			CacheTTL:           envutil.Duration("PAPERS_CACHE_TTL", 6*time.Hour),
			MaxRetries:         envutil.Int("PAPERS_MAX_RETRIES", 1),
			RetryBackoff:       envutil.Duration("PAPERS_RETRY_BACKOFF", time.Second),
		},
		Session: SessionConfig{
			SigningKey: envutil.String("SESSION_SIGNING_KEY", ""),
			TTL:        envutil.Duration("SESSION_TOKEN_TTL", 30*24*time.Hour),
			Required:   envutil.Bool("SESSION_AUTH_REQUIRED", false),
		},
		Otel: observability.OtelConfig{
			Enabled:      envutil.Bool("OTEL_ENABLED", false),
			ServiceName:  envutil.String("OTEL_SERVICE_NAME", serviceName),
			Environment:  envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:      envutil.String("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:     envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio:  envutil.Float("OTEL_SAMPLE_RATIO", 1),
			ExportStdout: envutil.Bool("OTEL_EXPORT_STDOUT", false),
		},
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
	}

	if cfg.LLM.Provider == "" {
		log.Warn("No LLM provider configured; answers come from the offline provider")
		cfg.LLM.Provider = llm.ProviderMock
	}
	if cfg.Session.SigningKey == "" {
		log.Warn("SESSION_SIGNING_KEY is empty; issued session tokens will not survive a restart")
		cfg.Session.SigningKey = randomKey()
	}
	return cfg
}

func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8000"
	}
	return ":" + port
}

func randomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
