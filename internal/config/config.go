// Package config читает и хранит конфигурацию приложения.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config представляет конфигурацию приложения, загружаемую из YAML и окружения.
type Config struct {
	Telegram struct {
		Token       string        `yaml:"token"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
		AdminKey    string        `yaml:"admin_key"`
	} `yaml:"telegram"`

	Delivery struct {
		WhatsAppNumber string `yaml:"whatsapp_number"`
		QueueSize      int    `yaml:"queue_size"`
		Webhook        struct {
			URL             string        `yaml:"url"`
			Token           string        `yaml:"token"`
			Timeout         time.Duration `yaml:"timeout"`
			RetryCount      int           `yaml:"retry_count"`
			RetryWait       time.Duration `yaml:"retry_wait"`
			MaxRetryElapsed time.Duration `yaml:"max_retry_elapsed"`
		} `yaml:"webhook"`
	} `yaml:"delivery"`

	Storage struct {
		Path         string        `yaml:"path"`
		SaveInterval time.Duration `yaml:"save_interval"`
	} `yaml:"storage"`

	Logging struct {
		Level     string `yaml:"level"`
		File      string `yaml:"file"`
		MaxSize   int    `yaml:"max_size"`
		MaxAge    int    `yaml:"max_age"`
		MaxBackup int    `yaml:"max_backup"`
		Console   bool   `yaml:"console"`
	} `yaml:"logging"`

	Survey struct {
		SessionTimeout  time.Duration `yaml:"session_timeout"`
		MaxSessions     int           `yaml:"max_sessions"`
		GracefulTimeout time.Duration `yaml:"graceful_timeout"`
	} `yaml:"survey"`
}

// NewConfig создает и возвращает конфигурацию с безопасными значениями по умолчанию.
func NewConfig() *Config {
	cfg := &Config{}

	cfg.Telegram.PollTimeout = 10 * time.Second

	// Delivery настройки по умолчанию
	cfg.Delivery.QueueSize = 100
	cfg.Delivery.Webhook.Timeout = 30 * time.Second
	cfg.Delivery.Webhook.RetryCount = 3
	cfg.Delivery.Webhook.RetryWait = 500 * time.Millisecond
	cfg.Delivery.Webhook.MaxRetryElapsed = 10 * time.Second

	// Storage настройки по умолчанию
	cfg.Storage.Path = "data"
	cfg.Storage.SaveInterval = 15 * time.Minute

	// Logging настройки по умолчанию
	cfg.Logging.Level = "info"
	cfg.Logging.File = "logs/bot.log"
	cfg.Logging.MaxSize = 10 // МБ
	cfg.Logging.MaxAge = 30  // дней
	cfg.Logging.MaxBackup = 5

	// Survey настройки по умолчанию
	cfg.Survey.SessionTimeout = 24 * time.Hour
	cfg.Survey.MaxSessions = 10000
	cfg.Survey.GracefulTimeout = 30 * time.Second

	return cfg
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл (если он есть),
// затем переменные окружения. Отсутствующий файл не считается ошибкой.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile накладывает значения из YAML-файла на текущую конфигурацию.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}
	return nil
}

// ApplyEnv переопределяет значения из переменных окружения.
// Некорректные числовые значения игнорируются.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := getenv("ADMIN_KEY"); v != "" {
		c.Telegram.AdminKey = v
	}
	if v := getenv("WHATSAPP_NUMBER"); v != "" {
		c.Delivery.WhatsAppNumber = strings.TrimPrefix(v, "+")
	}
	if v := getenv("WEBHOOK_URL"); v != "" {
		c.Delivery.Webhook.URL = v
	}
	if v := getenv("WEBHOOK_TOKEN"); v != "" {
		c.Delivery.Webhook.Token = v
	}
	if n, ok := positiveInt(getenv("WEBHOOK_RETRY_COUNT")); ok {
		c.Delivery.Webhook.RetryCount = n
	}
	if n, ok := positiveInt(getenv("WEBHOOK_RETRY_WAIT_MS")); ok {
		c.Delivery.Webhook.RetryWait = time.Duration(n) * time.Millisecond
	}
	if n, ok := positiveInt(getenv("WEBHOOK_MAX_RETRY_ELAPSED_SEC")); ok {
		c.Delivery.Webhook.MaxRetryElapsed = time.Duration(n) * time.Second
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := getenv("DATA_PATH"); v != "" {
		c.Storage.Path = v
	}
	if n, ok := positiveInt(getenv("SESSION_TIMEOUT_MIN")); ok {
		c.Survey.SessionTimeout = time.Duration(n) * time.Minute
	}
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Validate проверяет обязательные поля конфигурации и возвращает ошибку при отсутствии.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("не указан токен Telegram")
	}
	if c.Survey.SessionTimeout <= 0 {
		return fmt.Errorf("таймаут анкеты должен быть положительным")
	}
	if c.Survey.MaxSessions <= 0 {
		return fmt.Errorf("максимальное число анкет должно быть положительным")
	}
	if c.Delivery.QueueSize <= 0 {
		return fmt.Errorf("размер очереди доставки должен быть положительным")
	}
	for _, r := range c.Delivery.WhatsAppNumber {
		if r < '0' || r > '9' {
			return fmt.Errorf("номер WhatsApp должен содержать только цифры с кодом страны")
		}
	}
	return nil
}

// RecipientsFile возвращает путь к файлу получателей анкет.
func (c *Config) RecipientsFile() string {
	return strings.TrimSuffix(c.Storage.Path, "/") + "/recipients.json"
}

// FAQFile возвращает путь к файлу FAQ.
func (c *Config) FAQFile() string {
	return strings.TrimSuffix(c.Storage.Path, "/") + "/faq.json"
}

// LogMaxSize возвращает предельный размер файла логов в байтах.
func (c *Config) LogMaxSize() int64 { return int64(c.Logging.MaxSize) * 1024 * 1024 }

// LogMaxAge возвращает предельный возраст файла логов.
func (c *Config) LogMaxAge() time.Duration { return time.Duration(c.Logging.MaxAge) * 24 * time.Hour }
