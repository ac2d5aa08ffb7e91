package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig mirrors the ACCOUNT_CIRCUIT_* settings. Non-positive
// values fall back to the defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

// StateListener is told about every state change, outside the breaker lock.
type StateListener func(from, to CircuitState)

// CircuitBreaker guards calls to a remote dependency. It opens after
// FailureThreshold consecutive failures and lets HalfOpenMaxReq probes
// through once OpenTimeout has passed. All probes must succeed to close it.
type CircuitBreaker struct {
	threshold int
	cooldown  time.Duration
	probes    int
	now       func() time.Time

	mu        sync.Mutex
	listener  StateListener
	state     CircuitState
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	b := &CircuitBreaker{
		threshold: cfg.FailureThreshold,
		cooldown:  cfg.OpenTimeout,
		probes:    cfg.HalfOpenMaxReq,
		now:       time.Now,
		state:     CircuitStateClosed,
	}
	if b.threshold < 1 {
		b.threshold = defaultFailureThreshold
	}
	if b.cooldown <= 0 {
		b.cooldown = defaultOpenTimeout
	}
	if b.probes < 1 {
		b.probes = defaultHalfOpenMaxReq
	}
	return b
}

// OnStateChange registers listener. It replaces any earlier listener.
func (b *CircuitBreaker) OnStateChange(listener StateListener) {
	b.mu.Lock()
	b.listener = listener
	b.mu.Unlock()
}

// Execute runs fn when the breaker allows it. Errors for which isFailure
// returns false count as successes; a nil isFailure counts every error.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}
	return err
}

func (b *CircuitBreaker) Allow() error {
	var admitted bool
	b.transition(func() {
		if b.state == CircuitStateOpen && b.cooledDown() {
			b.enter(CircuitStateHalfOpen)
		}
		switch b.state {
		case CircuitStateClosed:
			admitted = true
		case CircuitStateHalfOpen:
			if b.inFlight < b.probes {
				b.inFlight++
				admitted = true
			}
		}
	})
	if !admitted {
		return ErrCircuitOpen
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.transition(func() {
		switch b.state {
		case CircuitStateClosed:
			b.failures = 0
		case CircuitStateHalfOpen:
			b.releaseProbe()
			b.successes++
			if b.successes >= b.probes && b.inFlight == 0 {
				b.enter(CircuitStateClosed)
			}
		}
	})
}

func (b *CircuitBreaker) RecordFailure() {
	b.transition(func() {
		switch b.state {
		case CircuitStateClosed:
			b.failures++
			if b.failures >= b.threshold {
				b.enter(CircuitStateOpen)
			}
		case CircuitStateHalfOpen:
			b.releaseProbe()
			b.enter(CircuitStateOpen)
		case CircuitStateOpen:
			b.openedAt = b.now()
		}
	})
}

// State reports an open breaker whose cooldown has elapsed as half-open.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

// transition runs mutate under the lock and notifies the listener after
// unlocking when the state changed.
func (b *CircuitBreaker) transition(mutate func()) {
	b.mu.Lock()
	from := b.state
	mutate()
	to, listener := b.state, b.listener
	b.mu.Unlock()

	if listener != nil && from != to {
		listener(from, to)
	}
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cooldown
}

func (b *CircuitBreaker) releaseProbe() {
	if b.inFlight > 0 {
		b.inFlight--
	}
}

func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.inFlight = 0
	b.successes = 0
	switch state {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}
