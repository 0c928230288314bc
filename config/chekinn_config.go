package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// generateWorkerID creates a unique worker ID using hostname and PID
func generateWorkerID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "worker"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// Neo4j (connection graph)
	Neo4jURL      string
	Neo4jUsername string
	Neo4jPassword string

	// JWT
	JWTSecret string

	// OpenAI (text analysis provider)
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	// Content fetch provider
	FetchAPIURL string
	FetchAPIKey string

	// Worker
	WorkerID        string
	SnowflakeNodeID int64

	// Consumer (Redis Stream)
	ConsumerBatchSize int
	ConsumerBlockMS   int

	// Scrape pacing: external calls are serialized with a fixed delay.
	ScrapeDelay     time.Duration
	ScrapeBatchSize int

	// Reputation
	UnlockThreshold float64
	DecayRate       float64
	DecayGraceDays  int
	DecayCapDays    int
	FreezeDays      int
	DecayInterval   time.Duration

	// Social extraction
	ScrapeConfidenceThreshold float64
	SignalExpiryDays          int

	// Matching
	MatchWindowDays int
	MatchLimit      int

	// CORS
	AllowedOrigins []string

	// Scheduler
	SchedulerEnabled bool
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "chekinn"),
		RedisURL:    getEnv("REDIS_URL", ""),

		Neo4jURL:      getEnv("NEO4J_URL", ""),
		Neo4jUsername: getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.3),

		FetchAPIURL: getEnv("FETCH_API_URL", ""),
		FetchAPIKey: getEnv("FETCH_API_KEY", ""),

		WorkerID:        getEnv("WORKER_ID", generateWorkerID()),
		SnowflakeNodeID: int64(getEnvInt("SNOWFLAKE_NODE_ID", 1)),

		ConsumerBatchSize: getEnvInt("CONSUMER_BATCH_SIZE", 10),
		ConsumerBlockMS:   getEnvInt("CONSUMER_BLOCK_MS", 5000),

		ScrapeDelay:     time.Duration(getEnvInt("SCRAPE_DELAY_MS", 2000)) * time.Millisecond,
		ScrapeBatchSize: getEnvInt("SCRAPE_BATCH_SIZE", 20),

		UnlockThreshold: getEnvFloat("REPUTATION_UNLOCK_THRESHOLD", 15),
		DecayRate:       getEnvFloat("REPUTATION_DECAY_RATE", 0.02),
		DecayGraceDays:  getEnvInt("REPUTATION_DECAY_GRACE_DAYS", 3),
		DecayCapDays:    getEnvInt("REPUTATION_DECAY_CAP_DAYS", 30),
		FreezeDays:      getEnvInt("REPUTATION_FREEZE_DAYS", 7),
		DecayInterval:   time.Duration(getEnvInt("REPUTATION_DECAY_INTERVAL_HOUR", 24)) * time.Hour,

		ScrapeConfidenceThreshold: getEnvFloat("SCRAPE_CONFIDENCE_THRESHOLD", 0.7),
		SignalExpiryDays:          getEnvInt("SIGNAL_EXPIRY_DAYS", 30),

		MatchWindowDays: getEnvInt("MATCH_WINDOW_DAYS", 7),
		MatchLimit:      getEnvInt("MATCH_LIMIT", 10),

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
