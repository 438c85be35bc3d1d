package notify

import (
	"log/slog"

	"github.com/segyhp/loanshrk/internal/config"
)

// NewFromConfig builds the notifier selected by NOTIFY_BACKEND
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (Notifier, error) {
	if cfg.Notify.Backend == config.NotifyAMQP {
		return NewAMQPNotifier(cfg.Notify.AMQPURL, cfg.Notify.Exchange, cfg.Notify.RoutingKey, logger)
	}
	return NewLogNotifier(logger), nil
}
