package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	SMTP   SMTPConfig
	Slack  SlackConfig
	Notify NotifyConfig
	Upload UploadConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	AllowedOrigin string
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	ActivityAdminOnly bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Secure   bool
}

type SlackConfig struct {
	BotToken       string
	DefaultChannel string
}

type NotifyConfig struct {
	Method   string
	Enabled  bool
	Template string
	Timeout  time.Duration
}

type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	tokenTTL, err := time.ParseDuration(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		tokenTTL = 24 * time.Hour
	}
	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "5s"))
	if err != nil {
		notifyTimeout = 5 * time.Second
	}

	return Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Env:           getEnv("APP_ENV", "development"),
			AllowedOrigin: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "guestdesk"),
			Path:     getEnv("DB_PATH", "data/app.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenTTL:          tokenTTL,
			ActivityAdminOnly: getEnvBool("ACTIVITY_LOGS_ADMIN_ONLY", true),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("FROM_EMAIL", getEnv("SMTP_USER", "")),
			Secure:   getEnvBool("SMTP_SECURE", false),
		},
		Slack: SlackConfig{
			BotToken:       getEnv("SLACK_BOT_TOKEN", ""),
			DefaultChannel: getEnv("SLACK_DEFAULT_CHANNEL", "#reception"),
		},
		Notify: NotifyConfig{
			Method:   getEnv("NOTIFY_METHOD", "email"),
			Enabled:  getEnvBool("NOTIFY_ENABLED", true),
			Template: getEnv("NOTIFY_TEMPLATE", ""),
			Timeout:  notifyTimeout,
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "public/uploads"),
			MaxSizeBytes: 5 * 1024 * 1024,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
