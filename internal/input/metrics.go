package input

import (
	"sync/atomic"
	"time"
)

// Metrics counts recognizer outcomes.
type Metrics struct {
	keystrokes     atomic.Uint64
	ignored        atomic.Uint64
	resets         atomic.Uint64
	expired        atomic.Uint64
	fullMatches    atomic.Uint64
	partialMatches atomic.Uint64
	deadEnds       atomic.Uint64
	dispatchPanics atomic.Uint64

	peakDispatch atomic.Int64
}

// Stats is a snapshot of Metrics.
type Stats struct {
	Keystrokes     uint64
	Ignored        uint64
	Resets         uint64
	Expired        uint64
	FullMatches    uint64
	PartialMatches uint64
	DeadEnds       uint64
	DispatchPanics uint64

	PeakDispatchLatency time.Duration
}

func (m *Metrics) recordOutcome(o Outcome) {
	m.keystrokes.Add(1)
	switch o {
	case OutcomeIgnored:
		m.ignored.Add(1)
	case OutcomeReset:
		m.resets.Add(1)
	case OutcomeFull:
		m.fullMatches.Add(1)
	case OutcomePartial:
		m.partialMatches.Add(1)
	case OutcomeDeadEnd:
		m.deadEnds.Add(1)
	}
}

func (m *Metrics) recordDispatch(latency time.Duration) {
	ns := latency.Nanoseconds()
	for {
		current := m.peakDispatch.Load()
		if ns <= current {
			return
		}
		if m.peakDispatch.CompareAndSwap(current, ns) {
			return
		}
	}
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Keystrokes:          m.keystrokes.Load(),
		Ignored:             m.ignored.Load(),
		Resets:              m.resets.Load(),
		Expired:             m.expired.Load(),
		FullMatches:         m.fullMatches.Load(),
		PartialMatches:      m.partialMatches.Load(),
		DeadEnds:            m.deadEnds.Load(),
		DispatchPanics:      m.dispatchPanics.Load(),
		PeakDispatchLatency: time.Duration(m.peakDispatch.Load()),
	}
}
