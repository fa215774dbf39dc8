package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Cron     CronConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки подключения к Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig - настройки MongoDB для аудита аутентификации
type MongoConfig struct {
	URI    string
	DBName string
}

// KafkaConfig - настройки Kafka producer
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig - настройки подписи токенов
type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

// AuthConfig - режим аутентификации и административные настройки
type AuthConfig struct {
	// Mode: local - проверка JWT своим ключом, supabase - проверка
	// токена через внешний identity provider
	Mode                string
	AdminEmails         []string // allowlist для первого входа через Google
	AdminSeedEmail      string
	AdminSeedPassword   string
	SupabaseURL         string
	SupabaseServiceKey  string
}

// CORSConfig - разрешенные origins
type CORSConfig struct {
	Origins []string
}

// CronConfig - расписание фоновых задач
type CronConfig struct {
	Schedule string
}

const (
	AuthModeLocal    = "local"
	AuthModeSupabase = "supabase"
)

// Load загружает конфигурацию из переменных окружения.
// JWT_SECRET обязателен: без ключа подписи сервис не стартует
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	jwtDuration, err := time.ParseDuration(getEnv("JWT_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DURATION: %w", err)
	}

	authMode := getEnv("AUTH_MODE", AuthModeLocal)
	if authMode != AuthModeLocal && authMode != AuthModeSupabase {
		return nil, fmt.Errorf("invalid AUTH_MODE: %s", authMode)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "3002"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "workout_shop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB", "workout_shop"),
		},
		Kafka: KafkaConfig{
			Brokers: splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "shop_events"),
		},
		JWT: JWTConfig{
			Secret:   jwtSecret,
			Duration: jwtDuration,
		},
		Auth: AuthConfig{
			Mode:               authMode,
			AdminEmails:        splitAndTrim(os.Getenv("ADMIN_EMAILS")),
			AdminSeedEmail:     os.Getenv("ADMIN_EMAIL"),
			AdminSeedPassword:  os.Getenv("ADMIN_PASSWORD"),
			SupabaseURL:        os.Getenv("SUPABASE_URL"),
			SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		},
		CORS: CORSConfig{
			Origins: splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		Cron: CronConfig{
			Schedule: getEnv("CRON_SCHEDULE", "@every 1h"),
		},
	}

	if cfg.Auth.Mode == AuthModeSupabase {
		if cfg.Auth.SupabaseURL == "" || cfg.Auth.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for AUTH_MODE=supabase")
		}
	}

	return cfg, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает connection string для pgx
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// splitAndTrim разбирает строку со списком значений через запятую
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
