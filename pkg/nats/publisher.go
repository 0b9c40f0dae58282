package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sony/gobreaker/v2"
)

var _ messaging.Publisher = (*NatsPublisher)(nil)

// streamPublisher is the part of jetstream.JetStream used for publishing.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NatsPublisher publishes events to JetStream. Every publish runs through a circuit
// breaker so an unavailable broker fails fast instead of stalling inventory operations.
type NatsPublisher struct {
	js      streamPublisher
	breaker *gobreaker.CircuitBreaker[*jetstream.PubAck]
	retry   config.RetryConfig
}

func NewNatsPublisher(js streamPublisher, cfg config.ResilienceConfig, logger *slog.Logger) *NatsPublisher {
	return &NatsPublisher{
		js:      js,
		breaker: newCircuitBreaker(cfg.CircuitBreaker, logger),
		retry:   cfg.Retry,
	}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	opts := []jetstream.PublishOpt{
		jetstream.WithRetryAttempts(int(p.retry.MaxAttempts)),
		jetstream.WithRetryWait(p.retry.InitialBackoff),
	}
	if identified, ok := event.(messaging.Identified); ok {
		opts = append(opts, jetstream.WithMsgID(identified.MessageID()))
	}
	_, err = p.breaker.Execute(func() (*jetstream.PubAck, error) {
		return p.js.Publish(ctx, event.Subject(), data, opts...)
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}

func newCircuitBreaker(cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[*jetstream.PubAck] {
	st := gobreaker.Settings{
		Name:        "nats-publisher",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not a broker failure
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[*jetstream.PubAck](st)
}
