package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL string

	JWTSecret string

	MediaUploadDir       string
	MaxUploadMB          int64
	CORSAllowedOrigins   []string
	MediaJanitorInterval time.Duration
	MediaJanitorGrace    time.Duration
}

// Load بارگذاری .env و سپس خواندن متغیرهای محیطی با viper
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && Logger != nil {
		Logger.Info("No .env file found, using system environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MEDIA_UPLOAD_DIR", "./uploads/media")
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MEDIA_JANITOR_INTERVAL", "1h")
	v.SetDefault("MEDIA_JANITOR_GRACE", "24h")
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:              v.GetString("APP_PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		DBDriver:             strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                v.GetString("DB_DSN"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		NatsURL:              v.GetString("NATS_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		MediaUploadDir:       v.GetString("MEDIA_UPLOAD_DIR"),
		MaxUploadMB:          v.GetInt64("MAX_UPLOAD_MB"),
		MediaJanitorInterval: v.GetDuration("MEDIA_JANITOR_INTERVAL"),
		MediaJanitorGrace:    v.GetDuration("MEDIA_JANITOR_GRACE"),
	}
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	// فایل‌های تراکنش‌های در حال اجرا هنوز در post_media ثبت نشده‌اند
	if cfg.MediaJanitorGrace <= 0 {
		return nil, fmt.Errorf("MEDIA_JANITOR_GRACE must be positive, got %s", cfg.MediaJanitorGrace)
	}
	if cfg.MediaJanitorInterval <= 0 {
		return nil, fmt.Errorf("MEDIA_JANITOR_INTERVAL must be positive, got %s", cfg.MediaJanitorInterval)
	}
	return cfg, nil
}
