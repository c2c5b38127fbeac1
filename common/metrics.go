package common

// Metrics is the registry capability used by the API. Counters and histograms are identified by
// name and registered once; label values are given positionally on each update.
// Implementations must be safe for concurrent use.
type Metrics interface {
	RegisterCounter(name, help string, labels ...string)
	AddToCounter(name string, value float64, labelValues ...string)
	CounterValue(name string, labelValues ...string) float64
	RegisterHistogram(name, help string, buckets []float64, labels ...string)
	Observe(name string, value float64, labelValues ...string)

	// InitHistogram creates the series with the given label values without recording a sample, so that
	// it is exposed before the first observation.
	InitHistogram(name string, labelValues ...string)
}
