package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration for the platform
type Config struct {
	Port     int
	LogLevel string
	Env      string
	DB       DBConfig
	Kafka    KafkaConfig
	SMTP     SMTPConfig
	Realtime RealtimeConfig
	Rate     RateLimitConfig
}

// DBConfig holds the Postgres connection settings
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the notification pipeline settings
type KafkaConfig struct {
	Brokers            []string
	NotificationsTopic string
	ConsumerGroup      string
	Enabled            bool
}

// SMTPConfig holds the outbound email settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RealtimeConfig holds WebSocket settings
type RealtimeConfig struct {
	AllowedOrigin string
}

// RateLimitConfig holds the request throttling settings
type RateLimitConfig struct {
	GlobalBurst       float64
	GlobalRate        float64
	IPBurst           float64
	IPRate            float64
	TrustForwardedFor bool
}

// IsDevelopment reports whether the server runs in development mode.
// Development responses may include error detail withheld in production.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "restaurant"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:            strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			NotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "restaurant.notifications"),
			ConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "restaurant-notifier"),
			Enabled:            getEnv("KAFKA_ENABLED", "true") == "true",
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     smtpPort,
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", "noreply@azizrestaurant.com"),
		},
		Realtime: RealtimeConfig{
			AllowedOrigin: getEnv("WS_ALLOWED_ORIGIN", ""),
		},
		Rate: RateLimitConfig{
			GlobalBurst:       getEnvFloat("RATE_GLOBAL_BURST", 200),
			GlobalRate:        getEnvFloat("RATE_GLOBAL_RATE", 100),
			IPBurst:           getEnvFloat("RATE_IP_BURST", 30),
			IPRate:            getEnvFloat("RATE_IP_RATE", 10),
			TrustForwardedFor: getEnv("RATE_TRUST_FORWARDED_FOR", "false") == "true",
		},
	}, nil
}

// GetDBConnString returns the Postgres connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
