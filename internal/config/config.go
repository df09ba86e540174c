package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries everything main needs to wire the service together.
type AppConfig struct {
	Port string

	// DatabaseURL is the Postgres DSN for the city_info table.
	DatabaseURL string

	// Mongo holds archive records and agent prompt documents. Optional:
	// when unset, archival is skipped and prompts resolve through the
	// cache only.
	MongoURL string
	MongoDB  string

	// RedisAddr is the prompt cache address. Optional.
	RedisAddr string

	// PromptTTL is the freshness window for cached prompt templates.
	PromptTTL time.Duration

	// NoticeURL is the base URL of the notification service.
	NoticeURL string

	// Upstream observation source.
	NMCBaseURL  string
	HTTPTimeout time.Duration

	// Generation backend.
	GeminiAPIKey string
	GeminiModel  string

	// Notification defaults.
	ChatFrom    string
	ChatTo      string
	MailFrom    string
	MailTo      string
	MailSubject string

	// Morning push schedule. Empty PushCities disables the job.
	PushAt     string
	PushCities []string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.MongoURL = os.Getenv("MONGO_URL")
	cfg.MongoDB = os.Getenv("MONGO_DB")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	ttlStr := getenvDefault("PROMPT_CACHE_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROMPT_CACHE_TTL: %w", err)
	}
	cfg.PromptTTL = ttl

	cfg.NoticeURL = os.Getenv("HTTP_NOTICE_URL")
	if cfg.NoticeURL == "" {
		return nil, fmt.Errorf("HTTP_NOTICE_URL is required")
	}

	cfg.NMCBaseURL = getenvDefault("NMC_BASE_URL", "https://www.nmc.cn")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", "gemini-2.5-flash")

	cfg.ChatFrom = getenvDefault("NOTIFY_CHAT_FROM", "@system")
	cfg.ChatTo = getenvDefault("NOTIFY_CHAT_TO", "@doomer")
	cfg.MailFrom = getenvDefault("NOTIFY_MAIL_FROM", "doomer@yuanzhou.site")
	cfg.MailTo = getenvDefault("NOTIFY_MAIL_TO", "yuanzhou0110@qq.com")
	cfg.MailSubject = getenvDefault("NOTIFY_MAIL_SUBJECT", "天气预报")

	cfg.PushAt = getenvDefault("PUSH_AT", "07:00")
	cfg.PushCities = splitList(os.Getenv("PUSH_CITY_CODES"))

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
