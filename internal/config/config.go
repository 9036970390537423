package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var ErrMissingCSRFSecret = errors.New("CSRF_SECRET must be set outside dev")

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	ServerPort     string
	Env            string
	CSRFSecret     string
	CSRFTTL        time.Duration
	RedisURL       string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	FrontendURL    string
}

// Load reads .env when present and falls back to the process environment.
// The returned error only reports a missing .env file; the config is usable
// either way.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "kanban_user"),
		DBPassword:     getEnv("DB_PASSWORD", "kanban_pass"),
		DBName:         getEnv("DB_NAME", "kanban_db"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("ENV", "dev"),
		CSRFSecret:     getEnv("CSRF_SECRET", ""),
		CSRFTTL:        getEnvAsDuration("CSRF_TTL", time.Hour),
		RedisURL:       getEnv("REDIS_URL", ""),
		CacheTTL:       getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
	// dev tokens only need to survive one process
	if cfg.CSRFSecret == "" && cfg.IsDev() {
		cfg.CSRFSecret = uuid.NewString()
	}
	return cfg, envErr
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	if c.CSRFSecret == "" {
		return ErrMissingCSRFSecret
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// FrontendOrigins splits FRONTEND_URL on commas.
func (c *Config) FrontendOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.FrontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
