package restapi

import (
	"sync"
	"time"

	"github.com/peteraglen/unit-monitoring/common"
)

// timerScope records the time between its creation and the first call to Stop in a histogram.
// Later calls to Stop record nothing.
type timerScope struct {
	metrics     common.Metrics
	name        string
	labelValues []string
	started     time.Time
	elapsed     time.Duration
	once        sync.Once
}

func startTimer(metrics common.Metrics, name string, labelValues ...string) *timerScope {
	return &timerScope{
		metrics:     metrics,
		name:        name,
		labelValues: labelValues,
		started:     time.Now(),
	}
}

// Stop records the elapsed time and returns it.
func (t *timerScope) Stop() time.Duration {
	t.once.Do(func() {
		t.elapsed = time.Since(t.started)
		t.metrics.Observe(t.name, t.elapsed.Seconds(), t.labelValues...)
	})

	return t.elapsed
}
