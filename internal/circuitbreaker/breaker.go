package circuitbreaker

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrOpen is returned by Allow while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config tunes a Breaker. A zero Threshold disables it.
type Config struct {
	// Threshold is the number of consecutive failures that opens the breaker.
	Threshold int
	// Cooldown is how long the breaker stays open before letting probes through.
	Cooldown time.Duration
	// Probes is the number of half-open successes needed to close again.
	Probes int
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Breaker fails fast after repeated upstream failures. Only failures the
// caller reports count; a rejected request that reached a healthy server
// should be recorded as a success.
type Breaker struct {
	config Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time

	allowed  atomic.Int64
	rejected atomic.Int64
	changes  atomic.Int32
}

func New(config Config) *Breaker {
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.Probes <= 0 {
		config.Probes = 1
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Breaker{config: config}
}

// Allow returns ErrOpen while the breaker is open. Once the cooldown has
// elapsed it moves to half-open and lets calls through.
func (b *Breaker) Allow() error {
	if b.config.Threshold <= 0 {
		b.allowed.Add(1)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.config.Now().Sub(b.openedAt) < b.config.Cooldown {
			b.rejected.Add(1)
			return ErrOpen
		}
		b.transition(StateHalfOpen)
	}
	b.allowed.Add(1)
	return nil
}

// Record reports the outcome of an allowed call.
func (b *Breaker) Record(success bool) {
	if b.config.Threshold <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.config.Threshold {
			b.open()
		}
	case StateHalfOpen:
		if !success {
			b.open()
			return
		}
		b.successes++
		if b.successes >= b.config.Probes {
			b.failures, b.successes = 0, 0
			b.transition(StateClosed)
		}
	case StateOpen:
		// a call allowed before the breaker opened finished late
	}
}

func (b *Breaker) open() {
	b.openedAt = b.config.Now()
	b.successes = 0
	b.transition(StateOpen)
}

func (b *Breaker) transition(state State) {
	if b.state != state {
		b.state = state
		b.changes.Add(1)
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Allowed:      b.allowed.Load(),
		Rejected:     b.rejected.Load(),
		StateChanges: b.changes.Load(),
		CurrentState: b.State().String(),
	}
}

type MetricsSnapshot struct {
	Allowed      int64
	Rejected     int64
	StateChanges int32
	CurrentState string
}
