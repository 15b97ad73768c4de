package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort             string `mapstructure:"APP_PORT"`
	Env                 string `mapstructure:"ENV"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin   int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	RateLimitClients    int    `mapstructure:"RATE_LIMIT_CLIENTS"`
	StoreTimeoutSeconds int    `mapstructure:"STORE_TIMEOUT_SECONDS"`

	// MongoDB.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBName      string `mapstructure:"DB_NAME"`

	// Redis backs the notification queue.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Notification delivery.
	TelegramBotToken     string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	NotifyTimeoutSeconds int    `mapstructure:"NOTIFY_TIMEOUT_SECONDS"`

	// Optional Google Calendar mirror of booked slots.
	GoogleCredentialsPath  string `mapstructure:"GOOGLE_CREDENTIALS_PATH"`
	GoogleCalendarID       string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleCalendarTimezone string `mapstructure:"GOOGLE_CALENDAR_TIMEZONE"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("RATE_LIMIT_CLIENTS", 10000)
	viper.SetDefault("STORE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DB_NAME", "kommunity_konect")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("NOTIFY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("GOOGLE_CREDENTIALS_PATH", "")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CALENDAR_TIMEZONE", "Asia/Kolkata")
}

// LoadConfig reads config.yaml from "." or "./config" when present, then environment variables.
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StoreTimeoutSeconds <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive, got %d", cfg.StoreTimeoutSeconds)
	}
	AppConfig = cfg
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func StoreTimeout() time.Duration {
	return time.Duration(AppConfig.StoreTimeoutSeconds) * time.Second
}

func NotifyTimeout() time.Duration {
	if AppConfig.NotifyTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(AppConfig.NotifyTimeoutSeconds) * time.Second
}
