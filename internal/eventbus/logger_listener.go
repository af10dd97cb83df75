package eventbus

import (
	"context"

	"github.com/annel0/blockworld/internal/logging"
)

// StartLoggingListener подписывается на события и пишет их в log на уровне TRACE.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus, f Filter, log *logging.Logger) (Subscription, error) {
	sub, err := bus.Subscribe(ctx, f, func(ctx context.Context, ev *Envelope) {
		log.Trace("[EventBus] %s %s src=%s prio=%d %s", ev.ID, ev.EventType, ev.Source, ev.Priority, ev.Payload)
	})
	if err != nil {
		return nil, err
	}
	log.Info("🪵 LoggingListener: подписка на события активирована")
	return sub, nil
}
