package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Config represents service configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	StorageDir         string
	StorageBaseURL     string
	GeoIPDBPath        string
	FFProbePath        string
	DefaultLocale      string
	CORSOrigins        []string
	MaxDurationSeconds float64
	MaxUploadBytes     int64
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StorageDir:         getEnv("STORAGE_DIR", "./data/uploads"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		FFProbePath:        os.Getenv("FFPROBE_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		MaxDurationSeconds: getEnvFloat("MAX_DURATION_SECONDS", 10),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 50<<20)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	cfg.StorageBaseURL = strings.TrimRight(cfg.StorageBaseURL, "/")

	if cfg.MaxDurationSeconds <= 0 {
		return nil, fmt.Errorf("MAX_DURATION_SECONDS must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// HasDatabase reports whether the optional asset registry is configured.
func (c *Config) HasDatabase() bool {
	return c != nil && c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}
