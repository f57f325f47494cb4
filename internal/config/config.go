package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig     // Настройки HTTP сервера
	Database   DatabaseConfig   // Настройки подключения к PostgreSQL
	Mongo      MongoConfig      // Настройки документного хранилища
	Kafka      KafkaConfig      // Настройки очереди сообщений
	Enrichment EnrichmentConfig // Настройки внешнего API фактов
	LogLevel   string           `envconfig:"APP_LOG_LEVEL" default:"INFO"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL.
// Все параметры подключения обязательны: их отсутствие - фатальная
// ошибка старта, а не ошибка обработки запроса
type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     string `envconfig:"POSTGRES_PORT" required:"true"`
	Name     string `envconfig:"POSTGRES_DB" required:"true"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"POSTGRES_MIN_CONNS" default:"5"`
}

// MongoConfig содержит настройки подключения к документному хранилищу
type MongoConfig struct {
	User       string `envconfig:"MONGODB_USER" required:"true"`
	Password   string `envconfig:"MONGODB_PASSWORD" required:"true"`
	Host       string `envconfig:"MONGODB_HOST" required:"true"`
	Database   string `envconfig:"MONGODB_DATABASE" default:"local"`
	Collection string `envconfig:"MONGODB_COLLECTION" default:"user_process"`
}

// KafkaConfig содержит настройки подключения к очереди сообщений
type KafkaConfig struct {
	Server string `envconfig:"KAFKA_SERVER" required:"true"`
	Topic  string `envconfig:"KAFKA_TOPIC" default:"test"`
}

// EnrichmentConfig содержит настройки внешнего API фактов
type EnrichmentConfig struct {
	FactURL string `envconfig:"CAT_FACT_URL" default:"https://catfact.ninja/fact"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// URI возвращает строку подключения к MongoDB
func (m MongoConfig) URI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s", m.User, m.Password, m.Host)
}

// SlogLevel преобразует APP_LOG_LEVEL в уровень slog,
// неизвестные значения трактуются как INFO
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
