package internal

// NoopMetrics discards everything. CounterValue always reports zero.
type NoopMetrics struct{}

func (m *NoopMetrics) RegisterCounter(name, help string, labels ...string) {
}

func (m *NoopMetrics) AddToCounter(name string, value float64, labelValues ...string) {
}

func (m *NoopMetrics) CounterValue(name string, labelValues ...string) float64 {
	return 0
}

func (m *NoopMetrics) RegisterHistogram(name, help string, buckets []float64, labels ...string) {
}

func (m *NoopMetrics) Observe(name string, value float64, labelValues ...string) {
}

func (m *NoopMetrics) InitHistogram(name string, labelValues ...string) {
}
