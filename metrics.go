package zne

import (
	"sync"
	"time"
)

// RunMetrics collects execution accounting for one batch of scaled
// circuits.
type RunMetrics struct {
	mu             sync.RWMutex
	CircuitCount   int
	Failures       int
	TotalRunTime   time.Duration
	MaxCircuitTime time.Duration
}

func newRunMetrics() *RunMetrics {
	return &RunMetrics{}
}

func (m *RunMetrics) recordExecution(start time.Time, success bool) {
	duration := time.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.CircuitCount++
	m.TotalRunTime += duration
	if duration > m.MaxCircuitTime {
		m.MaxCircuitTime = duration
	}
	if !success {
		m.Failures++
	}
}

// MetricsSnapshot is a lock-free copy of run accounting.
type MetricsSnapshot struct {
	CircuitCount   int
	Failures       int
	TotalRunTime   time.Duration
	MaxCircuitTime time.Duration
}

// Snapshot returns a copy safe to read while the run is in flight.
func (m *RunMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		CircuitCount:   m.CircuitCount,
		Failures:       m.Failures,
		TotalRunTime:   m.TotalRunTime,
		MaxCircuitTime: m.MaxCircuitTime,
	}
}

// AverageCircuitTime is the mean wall time per executed circuit.
func (m *RunMetrics) AverageCircuitTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.CircuitCount == 0 {
		return 0
	}
	return m.TotalRunTime / time.Duration(m.CircuitCount)
}
