// Package config provides configuration for the assistant.
package config

// #region imports
import (
	"os"
	"strconv"
	"time"
)

// #endregion

// #region config

// Config holds the assistant configuration.
type Config struct {
	// Storage
	DBPath string

	// Generation capability
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	LLMTimeout    time.Duration
	LLMMaxRetries int

	// Evaluation capability; empty means the in-process evaluator
	EvalURL     string
	EvalTimeout time.Duration

	// HTTP surface
	HTTPPort int

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		DBPath:        getEnv("ASSISTANT_DB", "assistant.db"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "http://localhost:8000"),
		LLMAPIKey:     getEnv("LLM_API_KEY", ""),
		LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:    time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		LLMMaxRetries: getEnvInt("LLM_MAX_RETRIES", 2),
		EvalURL:       getEnv("EVAL_URL", ""),
		EvalTimeout:   time.Duration(getEnvInt("EVAL_TIMEOUT_MS", 10000)) * time.Millisecond,
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

// #endregion config

// #region helpers

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// #endregion helpers
