package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alturino/journey/cart/internal/otel"
	"github.com/Alturino/journey/cart/internal/store"
)

type metrics struct {
	changes    metric.Int64Counter
	itemsCount metric.Int64Histogram
	handoffs   *prometheus.CounterVec
	sessions   prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	changes, err := otel.Meter.Int64Counter(
		"journey.changes",
		metric.WithDescription("Applied journey changes"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating journey.changes counter with error=%w", err)
	}
	itemsCount, err := otel.Meter.Int64Histogram(
		"journey.items",
		metric.WithDescription("Items in a journey after each change"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating journey.items histogram with error=%w", err)
	}

	m := &metrics{
		changes:    changes,
		itemsCount: itemsCount,
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journey",
			Name:      "handoffs_total",
			Help:      "Journeys handed off to the messaging channel.",
		}, []string{"locale"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "journey",
			Name:      "sessions_loaded",
			Help:      "Journeys held in memory.",
		}),
	}
	for _, collector := range []prometheus.Collector{m.handoffs, m.sessions} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("failed registering prometheus collector with error=%w", err)
		}
	}
	return m, nil
}

func (m *metrics) record(c context.Context, snapshot store.Snapshot) {
	m.changes.Add(c, 1)
	m.itemsCount.Record(c, int64(snapshot.TotalItems))
}
