package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/shelfaware/pkg/logger"
)

// Handler processes one message. It may be called more than once per message.
type Handler func(context.Context, *message.Message) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The message is acked and dropped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Subscribe runs handler for every message on topic until ctx is done.
// The handler's context carries the publisher's trace.
//
// Outcomes per message:
//   - nil: acked
//   - Permanent error: acked, logged and dropped
//   - other error after all retries: nacked for redelivery and sent on the
//     returned channel
//
// The channel is buffered (100) and must be drained by the caller.
// In-flight handlers complete before Close returns.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			err := retryWithBackoff(msgCtx, msg, handler, q.opts.MaxRetries, q.opts.RetryBaseDelay, q.log)
			switch {
			case err == nil:
				msg.Ack()
				q.metrics.handled(msgCtx, topic, "ack")
			case IsPermanent(err):
				q.log.ErrorContext(msgCtx, "events: dropping message",
					"topic", topic, "message_uuid", msg.UUID, "error", err)
				msg.Ack()
				q.metrics.handled(msgCtx, topic, "dropped")
			default:
				msg.Nack()
				q.metrics.handled(msgCtx, topic, "failed")
				select {
				case errCh <- err:
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			}
		}
	}()

	return errCh, nil
}

// retryWithBackoff calls handler up to attempts times, doubling delay after
// each failure. Permanent errors and cancellation stop it early.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	attempts int,
	delay time.Duration,
	log logger.Logger,
) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil || IsPermanent(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_retries", attempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

type busMetrics struct {
	messages metric.Int64Counter
}

func newBusMetrics() *busMetrics {
	c, _ := otel.Meter("github.com/ghuser/shelfaware/pkg/events").Int64Counter(
		"shelfaware.bus.messages",
		metric.WithDescription("Messages consumed from the event bus by outcome"),
	)
	return &busMetrics{messages: c}
}

func (m *busMetrics) handled(ctx context.Context, topic, outcome string) {
	if m == nil || m.messages == nil {
		return
	}
	m.messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("outcome", outcome),
	))
}
