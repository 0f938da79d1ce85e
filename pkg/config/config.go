package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database       DatabaseConfig
	Redis          RedisConfig
	CORS           CORSConfig
	Log            LogConfig
	LLM            LLMConfig
	Bridge         BridgeConfig
	Catalog        CatalogConfig
	Recommendation RecommendationConfig
	Ops            OpsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LLMConfig points at an OpenAI-compatible chat completions endpoint.
// An empty endpoint or key switches the server to the mock client.
type LLMConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// BridgeConfig describes the CRM/calendar bridge (site HTTP functions).
type BridgeConfig struct {
	BaseURL              string
	APIKey               string
	AutomationWebhookURL string
	Timeout              time.Duration
}

// CatalogConfig locates the course and payment table exports and tunes the
// snapshot cache.
type CatalogConfig struct {
	CoursesURL  string
	PaymentsURL string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// RecommendationConfig tunes the matching and payment engine.
type RecommendationConfig struct {
	MaxCourses         int
	DownPaymentPercent int
	PayInFullDiscount  int
}

// OpsConfig guards operational endpoints behind a shared secret.
type OpsConfig struct {
	BridgeKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.LLM = LLMConfig{
		Endpoint: v.GetString("LLM_ENDPOINT"),
		APIKey:   v.GetString("LLM_API_KEY"),
		Model:    v.GetString("LLM_MODEL"),
		Timeout:  parseDuration(v.GetString("LLM_TIMEOUT"), 25*time.Second),
	}

	cfg.Bridge = BridgeConfig{
		BaseURL:              v.GetString("BRIDGE_BASE_URL"),
		APIKey:               v.GetString("BRIDGE_API_KEY"),
		AutomationWebhookURL: v.GetString("BRIDGE_AUTOMATION_WEBHOOK_URL"),
		Timeout:              parseDuration(v.GetString("BRIDGE_TIMEOUT"), 10*time.Second),
	}

	cfg.Catalog = CatalogConfig{
		CoursesURL:  v.GetString("CATALOG_COURSES_URL"),
		PaymentsURL: v.GetString("CATALOG_PAYMENTS_URL"),
		CacheTTL:    parseDuration(v.GetString("CATALOG_CACHE_TTL"), 15*time.Minute),
		HTTPTimeout: parseDuration(v.GetString("CATALOG_HTTP_TIMEOUT"), 10*time.Second),
	}

	cfg.Recommendation = RecommendationConfig{
		MaxCourses:         v.GetInt("RECOMMENDATION_MAX_COURSES"),
		DownPaymentPercent: v.GetInt("RECOMMENDATION_DOWN_PAYMENT_PERCENT"),
		PayInFullDiscount:  v.GetInt("RECOMMENDATION_PAY_IN_FULL_DISCOUNT"),
	}

	cfg.Ops = OpsConfig{BridgeKey: v.GetString("OPS_BRIDGE_KEY")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "enroll_advisor")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LLM_ENDPOINT", "")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "gpt-4.1-mini")
	v.SetDefault("LLM_TIMEOUT", "25s")

	v.SetDefault("BRIDGE_BASE_URL", "")
	v.SetDefault("BRIDGE_API_KEY", "")
	v.SetDefault("BRIDGE_AUTOMATION_WEBHOOK_URL", "")
	v.SetDefault("BRIDGE_TIMEOUT", "10s")

	v.SetDefault("CATALOG_COURSES_URL", "")
	v.SetDefault("CATALOG_PAYMENTS_URL", "")
	v.SetDefault("CATALOG_CACHE_TTL", "15m")
	v.SetDefault("CATALOG_HTTP_TIMEOUT", "10s")

	v.SetDefault("RECOMMENDATION_MAX_COURSES", 3)
	v.SetDefault("RECOMMENDATION_DOWN_PAYMENT_PERCENT", 10)
	v.SetDefault("RECOMMENDATION_PAY_IN_FULL_DISCOUNT", 100)

	v.SetDefault("OPS_BRIDGE_KEY", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
