package status_watcher_config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NordCoder/homework-watcher/internal/obs"
)

var ErrMissingSecret = errors.New("missing required environment variable")

type API struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	VerifyTLS bool          `mapstructure:"verify_tls"`
}

type Telegram struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	ChatID  string        `mapstructure:"chat_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Poll struct {
	Interval time.Duration `mapstructure:"interval"`
	FromDate int64         `mapstructure:"from_date"`
}

type Notify struct {
	Attempts    int           `mapstructure:"attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
}

type Events struct {
	Enable  bool     `mapstructure:"enable"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	Env        string `mapstructure:"env"`
	Version    string `mapstructure:"version"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type OTEL struct {
	Enable      bool    `mapstructure:"enable"`
	Endpoint    string  `mapstructure:"otlp_endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type Config struct {
	API      API      `mapstructure:"api"`
	Telegram Telegram `mapstructure:"telegram"`
	Poll     Poll     `mapstructure:"poll"`
	Notify   Notify   `mapstructure:"notify"`
	Events   Events   `mapstructure:"events"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
	OTEL     OTEL     `mapstructure:"otel"`
}

// Validate checks the secrets the watcher cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.API.Token) == "" {
		missing = append(missing, envAPIToken)
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		missing = append(missing, envTelegramToken)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		missing = append(missing, envChatID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return nil
}

func (l Log) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:      l.Level,
		Pretty:     l.Pretty,
		App:        serviceName,
		Env:        l.Env,
		Ver:        l.Version,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

func (o OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      o.Enable,
		Endpoint:    o.Endpoint,
		ServiceName: o.ServiceName,
		SampleRatio: o.SampleRatio,
	}
}
