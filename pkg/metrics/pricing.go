package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records pricing resolution and inventory signals.
type PricingMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	lowStock *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_resolution_duration_seconds",
		Help:    "Duration of pricing resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_requests_total",
		Help: "Pricing requests by discount source applied.",
	}, []string{"discount_source"})
	lowStock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_low_stock_events_total",
		Help: "Inventory updates that landed at or below the reorder level.",
	}, []string{"company_id"})
	reg.MustRegister(duration, requests, lowStock)
	return &PricingMetrics{
		duration: duration,
		requests: requests,
		lowStock: lowStock,
	}
}

// ObserveResolution records the duration of one pricing resolution.
func (m *PricingMetrics) ObserveResolution(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncRequest counts a pricing request by the discount source that won.
func (m *PricingMetrics) IncRequest(source string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncLowStock counts an inventory update crossing the reorder level.
func (m *PricingMetrics) IncLowStock(companyID string) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.WithLabelValues(normalizeLabel(companyID)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
