package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port    string
	DataDir string // snapshot directory for profiles + interaction history

	// Catalog retrieval
	CatalogPath string // PDF or plain-text catalog file; empty disables retrieval

	// Session lifecycle
	SessionTTLHours int           // sessions idle longer than this are swept
	SweepInterval   time.Duration // how often the background sweep runs

	// Memory bank persistence
	SnapshotEvery int           // snapshot every Nth recorded interaction
	FlushInterval time.Duration // periodic flush floor on top of SnapshotEvery

	// Specialist LLM configuration (OpenAI-compatible endpoint)
	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string
	SpecialistTimeout time.Duration
	LLMRequestsPerSec float64 // outbound rate limit for specialist calls

	// Optional YAML file overriding specialist prompts/vocabularies
	SpecialistsFile string

	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "3001"),
		DataDir: getEnv("DATA_DIR", "data/memory_bank"),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		SessionTTLHours: getIntEnv("SESSION_TTL_HOURS", 24),
		SweepInterval:   getDurationEnv("SESSION_SWEEP_INTERVAL", time.Hour),

		SnapshotEvery: getIntEnv("SNAPSHOT_EVERY", 10),
		FlushInterval: getDurationEnv("SNAPSHOT_FLUSH_INTERVAL", 5*time.Minute),

		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		SpecialistTimeout: getDurationEnv("SPECIALIST_TIMEOUT", 60*time.Second),
		LLMRequestsPerSec: getFloatEnv("LLM_REQUESTS_PER_SEC", 2.0),

		SpecialistsFile: getEnv("SPECIALISTS_FILE", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
	}
}

// SpecialistDef describes one specialist in the optional YAML config.
type SpecialistDef struct {
	Name     string   `yaml:"name"`
	Prompt   string   `yaml:"prompt"`
	Keywords []string `yaml:"keywords"`
}

// SpecialistsConfig is the optional YAML file overriding the built-in
// routing vocabularies and specialist personas.
type SpecialistsConfig struct {
	Specialists     []SpecialistDef `yaml:"specialists"`
	ComplexKeywords []string        `yaml:"complex_keywords"`
}

// LoadSpecialists loads specialist definitions from a YAML file.
func LoadSpecialists(filePath string) (*SpecialistsConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read specialists file: %w", err)
	}

	var cfg SpecialistsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse specialists YAML: %w", err)
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
