package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DBPath          string

	// Adaptive engine tuning file (YAML); empty = built-in defaults
	EngineConfigPath string

	// LLM recommendations
	LLMEnabled bool
	LLMURL     string        // OpenAI-compatible endpoint, e.g. "http://localhost:1234"
	LLMModel   string        // model name, e.g. "qwen3-8b"
	LLMTimeout time.Duration // per recommendation, retries included

	JWTSecret string

	// Optional infrastructure; empty disables the feature
	RedisAddr        string
	PoolCacheTTL     time.Duration
	RabbitMQURI      string
	RabbitMQExchange string
	ConsulAddr       string
	ServiceName      string
	ServiceAddress   string

	// Tracing; empty exporter disables it
	TraceExporter    string
	TraceSampleRatio float64

	ProfileRetryAttempts  int
	ProfileRetryBackoff   time.Duration
	ReconcileInterval     time.Duration
	RecommendationWorkers int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:         mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:       mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:                getenvDefault("DB_PATH", "examprep.db"),
		EngineConfigPath:      os.Getenv("ENGINE_CONFIG"),
		LLMEnabled:            getBoolDefault("LLM_ENABLED", false),
		LLMURL:                getenvDefault("LLM_URL", "http://localhost:1234"),
		LLMModel:              getenvDefault("LLM_MODEL", "qwen3-8b"),
		LLMTimeout:            getDurationDefault("LLM_TIMEOUT", 2*time.Minute),
		JWTSecret:             mustGetenv("JWT_SECRET"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		PoolCacheTTL:          getDurationDefault("POOL_CACHE_TTL", 5*time.Minute),
		RabbitMQURI:           os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange:      getenvDefault("RABBITMQ_EXCHANGE", "examprep.events"),
		ConsulAddr:            os.Getenv("CONSUL_ADDR"),
		ServiceName:           getenvDefault("SERVICE_NAME", "examprep"),
		ServiceAddress:        getenvDefault("SERVICE_ADDRESS", "localhost"),
		TraceExporter:         os.Getenv("OTEL_EXPORTER"),
		TraceSampleRatio:      getFloatDefault("OTEL_SAMPLER_RATIO", 0.1),
		ProfileRetryAttempts:  getIntDefault("PROFILE_RETRY_ATTEMPTS", 3),
		ProfileRetryBackoff:   getDurationDefault("PROFILE_RETRY_BACKOFF", 100*time.Millisecond),
		ReconcileInterval:     getDurationDefault("RECONCILE_INTERVAL", time.Minute),
		RecommendationWorkers: getIntDefault("RECOMMENDATION_WORKERS", 2),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getBoolDefault(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}

func getFloatDefault(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid number: %v", k, v, err)
	}
	return f
}
