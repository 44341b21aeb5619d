package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"family-journal-go/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	Env            string
	PublicBaseURL  string
	AllowedOrigins []string
	DB             DBConfig
	Supabase       SupabaseConfig
	Invitations    InvitationsConfig
	Insights       InsightsConfig
	AI             AIConfig
	Notion         NotionConfig
	Redis          RedisConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	JWTSecret      string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

type InvitationsConfig struct {
	TTL time.Duration
}

type InsightsConfig struct {
	CacheTTL time.Duration
}

type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type NotionConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	APIBaseURL   string
	Timeout      time.Duration
	StateTTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load(log logger.Logger) Config {
	if err := godotenv.Load(); err == nil {
		log.Info("config: loaded .env")
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		AllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "family_journal"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", getEnv("VITE_SUPABASE_PUBLISHABLE_KEY", "")),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserAvatar: getEnv("AUTH_MOCK_USER_AVATAR_URL", ""),
		},
		Invitations: InvitationsConfig{
			TTL: getEnvDuration("INVITATION_TTL", 7*24*time.Hour),
		},
		Insights: InsightsConfig{
			CacheTTL: getEnvDuration("INSIGHTS_CACHE_TTL", 10*time.Minute),
		},
		AI: AIConfig{
			BaseURL: getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
			APIKey:  getEnv("AI_GATEWAY_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "google/gemini-2.5-flash"),
			Timeout: getEnvDuration("AI_TIMEOUT", 60*time.Second),
		},
		Notion: NotionConfig{
			ClientID:     getEnv("NOTION_CLIENT_ID", ""),
			ClientSecret: getEnv("NOTION_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("NOTION_REDIRECT_URL", ""),
			APIBaseURL:   getEnv("NOTION_API_URL", "https://api.notion.com"),
			Timeout:      getEnvDuration("NOTION_TIMEOUT", 15*time.Second),
			StateTTL:     getEnvDuration("NOTION_STATE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitAndTrim(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
