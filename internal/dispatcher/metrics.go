package dispatcher

import (
	"sync"
	"time"

	"github.com/dshills/browsermotion/internal/keybind"
)

// Metrics collects dispatch statistics per action type.
type Metrics struct {
	mu sync.RWMutex

	byType map[keybind.ActionType]*ActionMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
	totalDuration   time.Duration
}

// ActionMetrics holds metrics for one action type.
type ActionMetrics struct {
	Type          keybind.ActionType
	DispatchCount uint64
	ErrorCount    uint64
	NoOpCount     uint64
	MaxDuration   time.Duration
	LastStatus    Status
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		byType: make(map[keybind.ActionType]*ActionMetrics),
	}
}

// RecordDispatch records one top-level dispatch.
func (m *Metrics) RecordDispatch(t keybind.ActionType, duration time.Duration, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	if status == StatusError {
		m.totalErrors++
	}

	am := m.byType[t]
	if am == nil {
		am = &ActionMetrics{Type: t}
		m.byType[t] = am
	}
	am.DispatchCount++
	am.LastStatus = status
	am.LastDispatch = time.Now()
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}
	switch status {
	case StatusError:
		am.ErrorCount++
	case StatusNoOp:
		am.NoOpCount++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the total number of errors.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// ActionStats returns a copy of the metrics for one action type, or nil.
func (m *Metrics) ActionStats(t keybind.ActionType) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	am := m.byType[t]
	if am == nil {
		return nil
	}
	c := *am
	return &c
}
