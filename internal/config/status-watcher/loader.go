package status_watcher_config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	serviceName = "status-watcher"

	envAPIToken       = "PRACTICUM_TOKEN"
	envTelegramToken  = "TELEGRAM_TOKEN"
	envChatID         = "TELEGRAM_CHAT_ID"
	envChatIDFallback = "CHAT_ID"

	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
)

// LoadDotEnv copies variables from a .env file into the process environment.
// Variables already set are left untouched; a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("api.endpoint", DefaultEndpoint)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.user_agent", "homework-watcher/1.0")
	v.SetDefault("api.verify_tls", true)

	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.timeout", "5s")

	v.SetDefault("poll.interval", "300s")
	v.SetDefault("poll.from_date", 0)

	v.SetDefault("notify.attempts", 3)
	v.SetDefault("notify.backoff_base", "500ms")
	v.SetDefault("notify.backoff_max", "5s")

	v.SetDefault("events.enable", false)
	v.SetDefault("events.brokers", []string{"localhost:9094"})
	v.SetDefault("events.topic", "homework.status.changed")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", serviceName)
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("server.metrics_addr", ":8085")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.env", "dev")
	v.SetDefault("log.version", "dev")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.token", envAPIToken, "API_TOKEN")
	_ = v.BindEnv("telegram.token", envTelegramToken, "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", envChatID, envChatIDFallback)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
