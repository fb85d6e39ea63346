package fluentlogger

import (
	"errors"
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config - подключение к Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // обычно 24224
	TagPrefix string // префикс всех тегов сервиса

	// Async не блокирует запрос, пока Fluent Bit недоступен.
	Async   bool
	Timeout time.Duration
}

func (c Config) Validate() error {
	if c.TagPrefix == "" {
		return errors.New("fluentd tag prefix is required")
	}
	if c.Host == "" {
		return errors.New("fluentd host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("fluentd port must be positive, got %d", c.Port)
	}
	return nil
}

// NewClient создает клиента. Соединение не проверяется: первая ошибка
// появится при первой отправке записи.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      cfg.Async,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return client, nil
}
