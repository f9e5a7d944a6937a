// Package timer implements the countdown shown in the bar.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the colour band the bar is drawn in.
type Phase string

const (
	PhaseNormal   Phase = "normal"
	PhaseWarning  Phase = "warning"
	PhaseCritical Phase = "critical"
	PhasePaused   Phase = "paused"
	PhaseDone     Phase = "done"
)

// Thresholds are progress fractions at which the phase changes.
type Thresholds struct {
	Warning  float64
	Critical float64
}

var DefaultThresholds = Thresholds{Warning: 0.6, Critical: 0.8}

// Snapshot is the timer state handed to the front end.
type Snapshot struct {
	TotalSeconds     int     `json:"totalSeconds"`
	ElapsedSeconds   int     `json:"elapsedSeconds"`
	RemainingSeconds int     `json:"remainingSeconds"`
	Progress         float64 `json:"progress"`
	Running          bool    `json:"running"`
	Phase            Phase   `json:"phase"`
	Display          string  `json:"display"`
}

// Timer counts elapsed whole seconds against a total. It is safe for
// concurrent use; Tick is normally driven by a Runner.
type Timer struct {
	mu         sync.Mutex
	total      int
	elapsed    int
	running    bool
	thresholds Thresholds
	onDone     func(Snapshot)
}

// New creates a stopped timer. A non-positive total falls back to five
// minutes.
func New(total time.Duration, th Thresholds) *Timer {
	secs := int(total / time.Second)
	if secs <= 0 {
		secs = 300
	}
	if th.Warning <= 0 || th.Critical <= th.Warning {
		th = DefaultThresholds
	}
	return &Timer{total: secs, thresholds: th}
}

// OnDone registers fn to run once each time the countdown reaches zero. fn is
// called without the timer lock held.
func (t *Timer) OnDone(fn func(Snapshot)) {
	t.mu.Lock()
	t.onDone = fn
	t.mu.Unlock()
}

// Start resumes counting. Starting a finished timer restarts it.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.elapsed >= t.total {
		t.elapsed = 0
	}
	t.running = true
}

func (t *Timer) Pause() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Reset stops the timer and clears elapsed time.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.running = false
	t.elapsed = 0
	t.mu.Unlock()
}

// Set changes the total and resets.
func (t *Timer) Set(d time.Duration) error {
	secs := int(d / time.Second)
	if secs <= 0 {
		return fmt.Errorf("duration must be at least one second")
	}
	t.mu.Lock()
	t.total = secs
	t.elapsed = 0
	t.running = false
	t.mu.Unlock()
	return nil
}

// Tick advances a running timer by one second and reports whether it changed.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return false
	}
	t.elapsed++
	finished := t.elapsed >= t.total
	if finished {
		t.elapsed = t.total
		t.running = false
	}
	snap := t.snapshotLocked()
	done := t.onDone
	t.mu.Unlock()

	if finished && done != nil {
		done(snap)
	}
	return true
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Snapshot {
	remaining := t.total - t.elapsed
	if remaining < 0 {
		remaining = 0
	}
	progress := float64(t.elapsed) / float64(t.total)
	return Snapshot{
		TotalSeconds:     t.total,
		ElapsedSeconds:   t.elapsed,
		RemainingSeconds: remaining,
		Progress:         progress,
		Running:          t.running,
		Phase:            t.phase(progress),
		Display:          FormatSeconds(remaining),
	}
}

func (t *Timer) phase(progress float64) Phase {
	switch {
	case t.elapsed >= t.total:
		return PhaseDone
	case !t.running && t.elapsed > 0:
		return PhasePaused
	case progress >= t.thresholds.Critical:
		return PhaseCritical
	case progress >= t.thresholds.Warning:
		return PhaseWarning
	default:
		return PhaseNormal
	}
}

// FormatSeconds renders secs as MM:SS. Minutes are not wrapped into hours.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
