package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTelegramAPIURL базовый URL Bot API, к нему дописываются токен и метод
	DefaultTelegramAPIURL = "https://api.telegram.org/bot"

	// DefaultWebhookJSONKey имя поля, в котором текст сообщения отправляется в webhook
	DefaultWebhookJSONKey = "question"

	EncodingForm = "form"
	EncodingJSON = "json"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Logs     LogsConfig     `toml:"logs" yaml:"logs"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
	Telegram TelegramConfig `toml:"telegram" yaml:"telegram"`
	Webhook  WebhookConfig  `toml:"webhook" yaml:"webhook"`
	Worker   WorkerConfig   `toml:"worker" yaml:"worker"`
}

// LogsConfig содержит настройки логирования
type LogsConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"` // Пусто - только stdout
}

// ServerConfig содержит настройки HTTP сервера (health, status, metrics)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" yaml:"http_port"`
	ReadTimeout     int `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MetricsConfig содержит настройки метрик Prometheus
// HTTP сервер поднимается только если метрики включены
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled"`
	Path        string `toml:"path" yaml:"path"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
}

// TelegramConfig содержит настройки Telegram Bot
type TelegramConfig struct {
	BotToken       string `toml:"bot_token" yaml:"bot_token"`
	APIURL         string `toml:"api_url" yaml:"api_url"`
	PollTimeout    int    `toml:"poll_timeout" yaml:"poll_timeout"`       // long polling timeout (в секундах)
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"` // запас сверх poll_timeout для HTTP клиента (в секундах)
}

// WebhookConfig содержит настройки внешнего webhook
type WebhookConfig struct {
	URL      string `toml:"url" yaml:"url"`
	JSONKey  string `toml:"json_key" yaml:"json_key"`
	Encoding string `toml:"encoding" yaml:"encoding"` // form или json
	Timeout  int    `toml:"timeout" yaml:"timeout"`   // в секундах
}

// WorkerConfig содержит настройки цикла опроса
type WorkerConfig struct {
	ErrorDelay    int `toml:"error_delay" yaml:"error_delay"`       // пауза после неудачного getUpdates (в секундах), <0 - без паузы
	StatsInterval int `toml:"stats_interval" yaml:"stats_interval"` // интервал вывода статистики (в секундах), 0 - выключено
}

// Load загружает конфигурацию из файла (TOML или YAML) с поддержкой переменных окружения
// Отсутствие файла не является ошибкой: вся конфигурация может прийти из окружения
func Load(path string) (*Config, error) {
	var cfg Config

	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Переопределяем значения из переменных окружения (если они установлены)
	overrideFromEnv(&cfg)

	// Валидация конфигурации
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile загружает переменные из .env файла в окружение процесса
// Уже установленные переменные не перезаписываются, отсутствие файла игнорируется
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// decodeFile выбирает декодер по расширению файла
func decodeFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}

	return nil
}

// overrideFromEnv переопределяет значения из переменных окружения
func overrideFromEnv(cfg *Config) {
	// Telegram
	if v := os.Getenv("APP_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_API_URL"); v != "" {
		cfg.Telegram.APIURL = v
	}
	setInt(&cfg.Telegram.PollTimeout, "TELEGRAM_POLL_TIMEOUT")

	// Webhook
	if v := os.Getenv("WEBHOOK"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("WEBHOOK_POST_KEY"); v != "" {
		cfg.Webhook.JSONKey = v
	}
	if v := os.Getenv("WEBHOOK_ENCODING"); v != "" {
		cfg.Webhook.Encoding = v
	}
	setInt(&cfg.Webhook.Timeout, "WEBHOOK_TIMEOUT")

	// Logs
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logs.File = v
	}

	// Server
	setInt(&cfg.Server.HTTPPort, "HTTP_PORT")

	// Metrics
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// Worker
	setInt(&cfg.Worker.ErrorDelay, "WORKER_ERROR_DELAY")
	setInt(&cfg.Worker.StatsInterval, "WORKER_STATS_INTERVAL")
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// validate проверяет корректность конфигурации и проставляет значения по умолчанию
func validate(cfg *Config) error {
	// Telegram validation
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (APP_TOKEN)")
	}
	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = DefaultTelegramAPIURL
	}
	if cfg.Telegram.PollTimeout < 0 {
		return fmt.Errorf("telegram poll timeout must not be negative")
	}
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 300
	}
	if cfg.Telegram.RequestTimeout <= 0 {
		cfg.Telegram.RequestTimeout = 30
	}

	// Webhook validation
	if cfg.Webhook.URL == "" {
		return fmt.Errorf("webhook url is required (WEBHOOK)")
	}
	u, err := url.ParseRequestURI(cfg.Webhook.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("webhook url must be an absolute http(s) URL: %q", cfg.Webhook.URL)
	}
	if cfg.Webhook.JSONKey == "" {
		cfg.Webhook.JSONKey = DefaultWebhookJSONKey
	}
	cfg.Webhook.Encoding = strings.ToLower(cfg.Webhook.Encoding)
	if cfg.Webhook.Encoding == "" {
		cfg.Webhook.Encoding = EncodingForm
	}
	if cfg.Webhook.Encoding != EncodingForm && cfg.Webhook.Encoding != EncodingJSON {
		return fmt.Errorf("webhook encoding must be %q or %q", EncodingForm, EncodingJSON)
	}
	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = 30
	}

	// Logs defaults
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}

	// Server defaults
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.HTTPPort < 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "webhookrelay"
	}

	// Worker defaults
	if cfg.Worker.ErrorDelay == 0 {
		cfg.Worker.ErrorDelay = 1
	}
	if cfg.Worker.ErrorDelay < 0 {
		cfg.Worker.ErrorDelay = 0 // отрицательное значение отключает паузу
	}
	if cfg.Worker.StatsInterval < 0 {
		cfg.Worker.StatsInterval = 0
	}

	return nil
}
