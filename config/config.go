package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Mail       MailConfig
	Cloudinary CloudinaryConfig
	Kafka      KafkaConfig
	RateLimit  RateLimitConfig
	Payments   PaymentsConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string // mysql or sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type MailConfig struct {
	Transport string // smtp or log
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	TLS       bool
}

// CloudinaryConfig enables the receipt archive when CloudName is set.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type KafkaConfig struct {
	Brokers            []string
	PaymentStatusTopic string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type PaymentsConfig struct {
	// GuardTransitions switches transitions to a conditional update so that
	// only one concurrent request can move a payment out of pending.
	GuardTransitions bool
	PageSize         int
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "8000"),
			Env:          getEnvOrDefault("APP_ENV", "development"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnvOrDefault("DB_DRIVER", "mysql"),
			DSN:             getEnvOrDefault("DB_DSN", "paydesk:paydesk@tcp(localhost:3306)/paydesk?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Mail: MailConfig{
			Transport: getEnvOrDefault("MAIL_TRANSPORT", "log"),
			Host:      getEnvOrDefault("MAIL_HOST", "localhost"),
			Port:      getEnvAsInt("MAIL_PORT", 587),
			Username:  getEnvOrDefault("MAIL_USERNAME", ""),
			Password:  getEnvOrDefault("MAIL_PASSWORD", ""),
			From:      getEnvOrDefault("MAIL_FROM", "payments@localhost"),
			TLS:       getEnvAsBool("MAIL_TLS", true),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnvOrDefault("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnvOrDefault("CLOUDINARY_API_KEY", ""),
			APISecret: getEnvOrDefault("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnvOrDefault("CLOUDINARY_FOLDER", "receipts"),
		},
		Kafka: KafkaConfig{
			Brokers:            getEnvAsList("KAFKA_BROKERS"),
			PaymentStatusTopic: getEnvOrDefault("KAFKA_PAYMENT_STATUS_TOPIC", "payment_status_updates"),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Payments: PaymentsConfig{
			GuardTransitions: getEnvAsBool("PAYMENTS_GUARD_TRANSITIONS", false),
			PageSize:         getEnvAsInt("PAYMENTS_PAGE_SIZE", 25),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvOrDefault(key, strconv.FormatBool(defaultValue))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnvOrDefault(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
