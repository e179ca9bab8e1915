package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	AMQP    AMQPConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Migrate  bool
}

type RedisConfig struct {
	Host             string
	Port             string
	Password         string
	DB               int
	CategoryCacheTTL time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// AMQPConfig points at the broker that fans booking events out to the notification service.
// An empty URL disables publishing and events are only logged.
type AMQPConfig struct {
	URL      string
	Exchange string
}

type BookingConfig struct {
	// ClaimTriggersConflictSweep runs the accept-time conflict cancellation after a successful claim as well.
	ClaimTriggersConflictSweep bool
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; the environment alone can configure the service
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Bogota")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("CATEGORY_CACHE_TTL", "10m")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("AMQP_EXCHANGE", "marketplace.events")
	v.SetDefault("BOOKING_CLAIM_CONFLICT_SWEEP", false)
}

func fromViper(v *viper.Viper) *Config {
	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	categoryTTL, err := time.ParseDuration(v.GetString("CATEGORY_CACHE_TTL"))
	if err != nil {
		categoryTTL = 10 * time.Minute
	}

	return &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:             v.GetString("REDIS_HOST"),
			Port:             v.GetString("REDIS_PORT"),
			Password:         v.GetString("REDIS_PASSWORD"),
			DB:               v.GetInt("REDIS_DB"),
			CategoryCacheTTL: categoryTTL,
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		Booking: BookingConfig{
			ClaimTriggersConflictSweep: v.GetBool("BOOKING_CLAIM_CONFLICT_SWEEP"),
		},
	}
}
