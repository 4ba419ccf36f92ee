package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	RedisURL         string
	MigrateOnStart   bool
	GeoIPDBPath      string
	AllowedOrigins   []string
	Timezone         string
	PromptProvider   string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	OpenAIOrg        string
	ProviderTimeout  time.Duration
	FreeMaxTokens    int
	PremiumMaxTokens int
	QuotaDailyLimit  int
	TrialDays        int
	PaidDays         int
	MaxQuestionRunes int
	AdminTokenSecret string
	AdminPassHash    string
	AdminActor       string
	AdminTokenTTL    time.Duration
	SweepInterval    time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		MigrateOnStart:   getEnvBool("MIGRATE_ON_START", false),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		Timezone:         getEnv("APP_TIMEZONE", "Asia/Riyadh"),
		PromptProvider:   strings.ToLower(getEnv("PROMPT_PROVIDER", "gemini")),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:        os.Getenv("OPENAI_ORG"),
		ProviderTimeout:  time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 30)),
		FreeMaxTokens:    getEnvInt("FREE_MAX_TOKENS", 1000),
		PremiumMaxTokens: getEnvInt("PREMIUM_MAX_TOKENS", 2000),
		QuotaDailyLimit:  getEnvInt("QUOTA_DAILY_DEFAULT", 10),
		TrialDays:        getEnvInt("TRIAL_DAYS", 15),
		PaidDays:         getEnvInt("PAID_DAYS", 30),
		MaxQuestionRunes: getEnvInt("MAX_QUESTION_RUNES", 2000),
		AdminTokenSecret: os.Getenv("ADMIN_TOKEN_SECRET"),
		AdminPassHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminActor:       getEnv("ADMIN_ACTOR", "admin"),
		AdminTokenTTL:    time.Hour * time.Duration(getEnvInt("ADMIN_TOKEN_TTL_HOURS", 12)),
		SweepInterval:    time.Minute * time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 15)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 45)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AdminTokenSecret == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN_SECRET is required")
	}

	switch cfg.PromptProvider {
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("unsupported PROMPT_PROVIDER %q", cfg.PromptProvider)
	}

	if cfg.TrialDays <= 0 || cfg.PaidDays <= 0 {
		return nil, fmt.Errorf("TRIAL_DAYS and PAID_DAYS must be positive")
	}

	if cfg.QuotaDailyLimit < 0 {
		cfg.QuotaDailyLimit = 0
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location returns the configured local zone used for quota day boundaries.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
