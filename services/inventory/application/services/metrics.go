package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ghuser/shelfaware/services/inventory"

// metrics holds the domain counters exported on /metrics.
type metrics struct {
	eventsRecorded    metric.Int64Counter
	eventsOutOfOrder  metric.Int64Counter
	tagSteals         metric.Int64Counter
	imageReplacements metric.Int64Counter
	scans             metric.Int64Counter
	notifyFailures    metric.Int64Counter
}

func newMetrics() *metrics {
	m := otel.Meter(meterName)
	return &metrics{
		eventsRecorded:    counter(m, "shelfaware.events.recorded", "Item events recorded"),
		eventsOutOfOrder:  counter(m, "shelfaware.events.out_of_order", "Backdated events that did not update item state"),
		tagSteals:         counter(m, "shelfaware.tags.steals", "Tags detached because another tag took their item"),
		imageReplacements: counter(m, "shelfaware.images.replaced", "Image versions replaced"),
		scans:             counter(m, "shelfaware.scans", "Tag scans ingested"),
		notifyFailures:    counter(m, "shelfaware.notify.failures", "Live notifications that failed to publish"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (m *metrics) eventRecorded(ctx context.Context, eventType string) {
	m.eventsRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

func (m *metrics) scanned(ctx context.Context, outcome string) {
	m.scans.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
