package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// PrometheusMetrics implements common.Metrics on top of a Prometheus registry.
// Updates to unregistered metrics, or with the wrong number of label values, are ignored.
type PrometheusMetrics struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	lock       sync.RWMutex
}

// New creates a PrometheusMetrics with a fresh registry, including the Go runtime and process collectors.
func New() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewWithRegistry(registry)
}

// NewWithRegistry creates a PrometheusMetrics that registers all metrics in the given registry.
func NewWithRegistry(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &PrometheusMetrics{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Handler returns an HTTP handler serving the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterCounter registers a counter vector. Registering the same name twice is a no-op.
func (m *PrometheusMetrics) RegisterCounter(name, help string, labels ...string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.counters[name]; ok {
		return
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)

	if err := m.registry.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return
		}

		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return
		}

		vec = existing
	}

	m.counters[name] = vec
}

// AddToCounter adds value to the counter with the given label values. Negative values are ignored.
func (m *PrometheusMetrics) AddToCounter(name string, value float64, labelValues ...string) {
	if value < 0 {
		return
	}

	m.lock.RLock()
	vec, ok := m.counters[name]
	m.lock.RUnlock()

	if !ok {
		return
	}

	counter, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return
	}

	counter.Add(value)
}

// CounterValue returns the current value of the counter with the given label values, or 0 if unknown.
func (m *PrometheusMetrics) CounterValue(name string, labelValues ...string) float64 {
	m.lock.RLock()
	vec, ok := m.counters[name]
	m.lock.RUnlock()

	if !ok {
		return 0
	}

	counter, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return 0
	}

	var metric dto.Metric

	if err := counter.Write(&metric); err != nil {
		return 0
	}

	return metric.GetCounter().GetValue()
}

// RegisterHistogram registers a histogram vector. Nil buckets means prometheus.DefBuckets.
func (m *PrometheusMetrics) RegisterHistogram(name, help string, buckets []float64, labels ...string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.histograms[name]; ok {
		return
	}

	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)

	if err := m.registry.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return
		}

		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return
		}

		vec = existing
	}

	m.histograms[name] = vec
}

// Observe records a sample in the histogram with the given label values.
func (m *PrometheusMetrics) Observe(name string, value float64, labelValues ...string) {
	m.lock.RLock()
	vec, ok := m.histograms[name]
	m.lock.RUnlock()

	if !ok {
		return
	}

	observer, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return
	}

	observer.Observe(value)
}

// InitHistogram creates the histogram series with the given label values, with no samples.
func (m *PrometheusMetrics) InitHistogram(name string, labelValues ...string) {
	m.lock.RLock()
	vec, ok := m.histograms[name]
	m.lock.RUnlock()

	if !ok {
		return
	}

	_, _ = vec.GetMetricWithLabelValues(labelValues...)
}

// HistogramSampleCount returns the number of samples recorded by the histogram with the given label values.
func (m *PrometheusMetrics) HistogramSampleCount(name string, labelValues ...string) uint64 {
	m.lock.RLock()
	vec, ok := m.histograms[name]
	m.lock.RUnlock()

	if !ok {
		return 0
	}

	observer, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return 0
	}

	metric, ok := observer.(prometheus.Metric)
	if !ok {
		return 0
	}

	var out dto.Metric

	if err := metric.Write(&out); err != nil {
		return 0
	}

	return out.GetHistogram().GetSampleCount()
}
