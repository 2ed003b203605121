package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	DBDriver string
	DBDSN    string

	Port    string
	BaseURL string
	WebDir  string

	JWTSecret          string
	TokenLifespanHours int
	AllowRegistration  bool
	CORSOrigins        []string

	RedisAddress    string
	ReportCache     bool
	ReportCacheTTL  time.Duration
	Location        *time.Location
	LedgerPageSize  int
	VisitorRedirect string
	GeminiAPIKey    string
	LogLevel        string
	GormLogLevel    string
}

const (
	defaultPort            = "8080"
	defaultLedgerPageSize  = 4
	defaultVisitorRedirect = "https://utygrowpath.site"
	defaultTimezone        = "Asia/Jakarta"
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := &Config{
		DBDriver:           strings.ToLower(envOr("DB_DRIVER", "mysql")),
		DBDSN:              os.Getenv("DB_DSN"),
		Port:               envOr("PORT", defaultPort),
		WebDir:             envOr("WEB_DIR", "./web"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenLifespanHours: intFromEnv("TOKEN_HOUR_LIFESPAN", 24),
		AllowRegistration:  boolFromEnv("ALLOW_REGISTRATION"),
		CORSOrigins:        listFromEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		RedisAddress:       strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		ReportCache:        boolFromEnv("ENABLE_REPORT_CACHE"),
		ReportCacheTTL:     time.Duration(intFromEnv("REPORT_CACHE_TTL_SECONDS", 120)) * time.Second,
		LedgerPageSize:     intFromEnv("LEDGER_PAGE_SIZE", defaultLedgerPageSize),
		VisitorRedirect:    envOr("VISITOR_REDIRECT_URL", defaultVisitorRedirect),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		GormLogLevel:       envOr("GORM_LOG_LEVEL", "error"),
	}
	cfg.BaseURL = envOr("BASE_URL", "http://localhost:"+cfg.Port)

	loc, err := time.LoadLocation(envOr("TIMEZONE", defaultTimezone))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN not set, please configure your database")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of mysql, postgres, sqlite")
	}
	if c.JWTSecret == "" {
		if c.DBDriver != "sqlite" {
			return errors.New("JWT_SECRET not set")
		}
		log.Println("Warning: JWT_SECRET not set, using development secret")
		c.JWTSecret = "dev-cashflow-secret"
	}
	if c.LedgerPageSize <= 0 {
		c.LedgerPageSize = defaultLedgerPageSize
	}
	if c.TokenLifespanHours <= 0 {
		c.TokenLifespanHours = 24
	}
	return nil
}

// TokenLifespan is the validity window of issued session tokens.
func (c *Config) TokenLifespan() time.Duration {
	return time.Duration(c.TokenLifespanHours) * time.Hour
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func listFromEnv(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
