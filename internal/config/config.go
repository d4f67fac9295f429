package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ModeDevelopment is the default AppMode; it enables human-readable console
// logging in main.
const ModeDevelopment = "dev"

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string
	AppMode      string
	FiberPrefork bool

	// Amplitude credentials. All three are required.
	APIKey        string
	SecretKey     string
	ManagementKey string

	FunnelBaseURL     string
	ExperimentBaseURL string
	HTTPTimeout       time.Duration

	MetricsRoot      string
	ConversionWindow int
}

// Load reads configuration from environment variables with sane defaults.
// Missing credentials are a configuration error and fail fast.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		AppMode:           strings.ToLower(getEnv("APP_MODE", ModeDevelopment)),
		FiberPrefork:      parseBoolEnv("FIBER_PREFORK", false),
		APIKey:            os.Getenv("AMPLITUDE_API_KEY"),
		SecretKey:         os.Getenv("AMPLITUDE_SECRET_KEY"),
		ManagementKey:     managementKey(),
		FunnelBaseURL:     getEnv("AMPLITUDE_API_URL", "https://amplitude.com"),
		ExperimentBaseURL: getEnv("AMPLITUDE_EXPERIMENT_API_URL", "https://experiment.amplitude.com"),
		HTTPTimeout:       parseDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MetricsRoot:       getEnv("METRICS_ROOT", "metrics"),
		ConversionWindow:  parseIntEnv("CONVERSION_WINDOW", 1800),
	}

	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "AMPLITUDE_API_KEY")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "AMPLITUDE_SECRET_KEY")
	}
	if cfg.ManagementKey == "" {
		missing = append(missing, "AMPLITUDE_MANAGEMENT_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// managementKey accepts the common name variations of the management key.
func managementKey() string {
	for _, key := range []string{
		"AMPLITUDE_MANAGEMENT_KEY",
		"AMPLITUDE_MANAGEMENT_API_KEY",
		"AMPLITUDE_MGMT_KEY",
		"AMPLITUDE_MGMT_API_KEY",
	} {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
