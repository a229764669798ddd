package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	SurveyCollection       string
	ResponseCollection     string
	Timeout                time.Duration
	Timezone               string
	ServerLog              *log.Logger
	JWTConfigs             []JWTConfig
	JWTAudience            string
	AllowedOrigins         []string
	DuplicateWindow        time.Duration
	DuplicateStrategy      string
	RespondentCookieSecret []byte
	RespondentCookieSecure bool
	NotifyWebhookURL       string
	NotifyTimeout          time.Duration
	AdminBaseURL           string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	// 重複判定の監視窓。0 を指定すると窓なし（全期間）になる。
	duplicateWindow := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("DUPLICATE_WINDOW")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			duplicateWindow = parsed
		}
	}

	notifyTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			notifyTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	respondentSecret := strings.TrimSpace(os.Getenv("RESPONDENT_COOKIE_SECRET"))
	if respondentSecret == "" {
		log.Fatal("RESPONDENT_COOKIE_SECRET must be configured")
	}
	respondentCookieSecure := strings.EqualFold(strings.TrimSpace(os.Getenv("RESPONDENT_COOKIE_SECURE")), "true")

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "smartsurvey-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set ADMIN_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                   envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:          envOrDefault("MONGO_DB", "smartsurvey"),
		SurveyCollection:       envOrDefault("SURVEY_COLLECTION", "surveys"),
		ResponseCollection:     envOrDefault("RESPONSE_COLLECTION", "responses"),
		Timeout:                timeout,
		Timezone:               envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:              log.New(os.Stdout, "[smartsurvey-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:             jwtConfigs,
		JWTAudience:            jwtAudience,
		AllowedOrigins:         allowedOrigins,
		DuplicateWindow:        duplicateWindow,
		DuplicateStrategy:      strings.TrimSpace(os.Getenv("DUPLICATE_STRATEGY")),
		RespondentCookieSecret: []byte(respondentSecret),
		RespondentCookieSecure: respondentCookieSecure,
		NotifyWebhookURL:       strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")),
		NotifyTimeout:          notifyTimeout,
		AdminBaseURL:           strings.TrimSpace(os.Getenv("ADMIN_BASE_URL")),
	}

	cfg.ServerLog.Printf("loaded config: db=%q surveys=%q responses=%q duplicateWindow=%s",
		cfg.MongoDatabase, cfg.SurveyCollection, cfg.ResponseCollection, cfg.DuplicateWindow)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
