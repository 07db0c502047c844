package events

import (
	"context"

	"github.com/rs/zerolog"

	"socialnet/internal/metrics"
)

// Notifier publishes best effort: failures are counted and logged, never
// returned, so a broker outage cannot fail a request that already committed.
type Notifier struct {
	pub     Publisher
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewNotifier(pub Publisher, m *metrics.Metrics, log zerolog.Logger) *Notifier {
	if pub == nil {
		pub = Nop{}
	}
	return &Notifier{pub: pub, metrics: m, log: log}
}

func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n == nil {
		return
	}
	err := n.pub.Publish(context.WithoutCancel(ctx), event)
	n.metrics.EventPublished(string(event.Type), err)
	if err != nil {
		n.log.Warn().Err(err).
			Str("event", string(event.Type)).
			Str("actor_id", event.ActorID).
			Msg("publish event failed")
	}
}
