package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища пользователей
const (
	StoreDriverPostgres = "postgres"
	StoreDriverGorm     = "gorm"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	// строка подключения к хранилищу: postgres DSN или mongodb URI, в зависимости от StoreDriver
	DatabaseURL   string `env:"DATABASE_URL,required"`
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"InviteLink"`

	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Настройки сессии
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"invitelink"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure bool          `env:"COOKIE_SECURE"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`

	// Настройки для MinIO, хранилище аватаров включается только если задан MINIO_ENDPOINT
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"avatars"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// RabbitMQ опционален: без него аватары выгружаются прямо в запросе регистрации
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"user_registered_queue"`
	}
}

// AvatarStorageEnabled сообщает, настроено ли S3-хранилище аватаров
func (c *Config) AvatarStorageEnabled() bool {
	return c.MinioEndpoint != ""
}

// MessagingEnabled сообщает, настроен ли RabbitMQ
func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	// env.Parse обрабатывает "required" и "envDefault", парсит типы (bool, time.Duration)
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	// "required" в env проверяет только наличие переменной, пустое значение пропускает
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL не может быть пустым")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET не может быть пустым")
	}

	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverGorm, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("неизвестный STORE_DRIVER: %q", c.StoreDriver)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL должен быть положительным, получено %s", c.SessionTTL)
	}

	// bcrypt принимает стоимость в диапазоне 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST вне диапазона 4..31: %d", c.BcryptCost)
	}

	if c.AvatarStorageEnabled() && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY_ID и MINIO_SECRET_ACCESS_KEY обязательны при заданном MINIO_ENDPOINT")
	}

	return nil
}
