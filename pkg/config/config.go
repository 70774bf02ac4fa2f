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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Payment   PaymentConfig
	Media     MediaConfig
	Materials MaterialsConfig
	Courses   CoursesConfig
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

// JWTConfig configures token issuance. Tokens carry a fixed expiry and there
// is no revocation list; logout only clears the client-side cookie.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PaymentConfig holds credentials and URLs for the hosted checkout provider.
type PaymentConfig struct {
	APIBase         string
	SecretKey       string
	WebhookSecret   string
	SuccessURL      string
	CancelURL       string
	Currency        string
	SignatureMaxAge time.Duration
	RequestTimeout  time.Duration
}

// MediaConfig holds credentials for the hosted media store.
type MediaConfig struct {
	UploadURL      string
	APIKey         string
	APISecret      string
	RequestTimeout time.Duration
}

// MaterialsConfig controls material upload validation.
type MaterialsConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// CoursesConfig tunes caching of course listings.
type CoursesConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
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

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 7*24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Payment = PaymentConfig{
		APIBase:         v.GetString("PAYMENT_API_BASE"),
		SecretKey:       v.GetString("PAYMENT_SECRET_KEY"),
		WebhookSecret:   v.GetString("PAYMENT_WEBHOOK_SECRET"),
		SuccessURL:      v.GetString("PAYMENT_SUCCESS_URL"),
		CancelURL:       v.GetString("PAYMENT_CANCEL_URL"),
		Currency:        v.GetString("PAYMENT_CURRENCY"),
		SignatureMaxAge: parseDuration(v.GetString("PAYMENT_SIGNATURE_MAX_AGE"), 5*time.Minute),
		RequestTimeout:  parseDuration(v.GetString("PAYMENT_REQUEST_TIMEOUT"), 15*time.Second),
	}

	cfg.Media = MediaConfig{
		UploadURL:      v.GetString("MEDIA_UPLOAD_URL"),
		APIKey:         v.GetString("MEDIA_API_KEY"),
		APISecret:      v.GetString("MEDIA_API_SECRET"),
		RequestTimeout: parseDuration(v.GetString("MEDIA_REQUEST_TIMEOUT"), 60*time.Second),
	}

	maxUpload := v.GetInt64("MATERIALS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 100 * 1024 * 1024
	}
	cfg.Materials = MaterialsConfig{
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("MATERIALS_ALLOWED_MIME_TYPES")),
	}

	cfg.Courses = CoursesConfig{
		CacheEnabled: v.GetBool("ENABLE_COURSE_CACHE"),
		CacheTTL:     parseDuration(v.GetString("COURSE_CACHE_TTL"), 5*time.Minute),
	}

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
	v.SetDefault("DB_NAME", "coursehub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "coursehub-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PAYMENT_API_BASE", "https://api.stripe.com")
	v.SetDefault("PAYMENT_SECRET_KEY", "")
	v.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_SUCCESS_URL", "http://localhost:3000/dashboard/student/success?session_id={CHECKOUT_SESSION_ID}")
	v.SetDefault("PAYMENT_CANCEL_URL", "http://localhost:3000/dashboard/student/browse")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_SIGNATURE_MAX_AGE", "5m")
	v.SetDefault("PAYMENT_REQUEST_TIMEOUT", "15s")

	v.SetDefault("MEDIA_UPLOAD_URL", "")
	v.SetDefault("MEDIA_API_KEY", "")
	v.SetDefault("MEDIA_API_SECRET", "")
	v.SetDefault("MEDIA_REQUEST_TIMEOUT", "60s")

	v.SetDefault("MATERIALS_MAX_FILE_SIZE", 100*1024*1024)
	v.SetDefault("MATERIALS_ALLOWED_MIME_TYPES", "application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/vnd.ms-powerpoint,application/vnd.openxmlformats-officedocument.presentationml.presentation,application/zip,application/x-zip-compressed,video/mp4,image/jpeg,image/png")

	v.SetDefault("ENABLE_COURSE_CACHE", true)
	v.SetDefault("COURSE_CACHE_TTL", "5m")
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
