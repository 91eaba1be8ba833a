package config

import (
	"os"
	"strconv"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	Database  Database  `yaml:"database"`
	Kafka     Kafka     `yaml:"kafka"`
	Scheduler Scheduler `yaml:"scheduler"`
	Metrics   Metrics   `yaml:"metrics"`
	Logger    Logger    `yaml:"logger"`
}

// Database представляет конфигурацию базы данных
type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Kafka представляет конфигурацию Kafka
type Kafka struct {
	Brokers         []string `yaml:"brokers"`
	GroupID         string   `yaml:"group_id"`
	OrderEventTopic string   `yaml:"order_event_topic"`
	DeadLetterTopic string   `yaml:"dead_letter_topic"`
	ConflictTopic   string   `yaml:"conflict_topic"`
}

// Scheduler представляет конфигурацию цикла сверки
type Scheduler struct {
	FeedID         string        `yaml:"feed_id"`
	Workers        int           `yaml:"workers"`
	BatchSize      int           `yaml:"batch_size"`
	MaxAttempts    uint          `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	PollRetryDelay time.Duration `yaml:"poll_retry_delay"`
}

// Metrics представляет конфигурацию HTTP-сервера метрик
type Metrics struct {
	Port string `yaml:"port"`
}

// Logger представляет конфигурацию логгера
type Logger struct {
	Level      string `yaml:"level"`
	Encoding   string `yaml:"encoding"`
	OutputPath string `yaml:"output_path"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() Config {
	return Config{
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "orders"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: Kafka{
			Brokers:         []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			GroupID:         getEnv("KAFKA_GROUP_ID", "ordersync"),
			OrderEventTopic: getEnv("KAFKA_ORDER_EVENT_TOPIC", "upstream.orders"),
			DeadLetterTopic: getEnv("KAFKA_DEAD_LETTER_TOPIC", "ordersync.deadletter"),
			ConflictTopic:   getEnv("KAFKA_CONFLICT_TOPIC", "ordersync.conflicts"),
		},
		Scheduler: Scheduler{
			FeedID:         getEnv("FEED_ID", "upstream.orders"),
			Workers:        getEnvInt("SCHEDULER_WORKERS", 8),
			BatchSize:      getEnvInt("SCHEDULER_BATCH_SIZE", 100),
			MaxAttempts:    uint(getEnvInt("SCHEDULER_MAX_ATTEMPTS", 5)),
			InitialBackoff: getEnvDuration("SCHEDULER_INITIAL_BACKOFF", 100*time.Millisecond),
			MaxBackoff:     getEnvDuration("SCHEDULER_MAX_BACKOFF", 5*time.Second),
			PollRetryDelay: getEnvDuration("SCHEDULER_POLL_RETRY_DELAY", time.Second),
		},
		Metrics: Metrics{
			Port: getEnv("METRICS_PORT", "9090"),
		},
		Logger: Logger{
			Level:      getEnv("LOG_LEVEL", "info"),
			Encoding:   getEnv("LOG_ENCODING", "json"),
			OutputPath: getEnv("LOG_OUTPUT_PATH", "stdout"),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
