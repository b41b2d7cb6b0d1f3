package fallback

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	// DefaultFailureThreshold is number of consecutive failures opening breaker.
	DefaultFailureThreshold = 5
	// DefaultRecoveryTimeout is time breaker stays open before letting a trial call through.
	DefaultRecoveryTimeout = 60 * time.Second
)

// BreakerStatus is snapshot of circuit breaker state.
type BreakerStatus struct {
	Open         bool       `json:"isOpen"`
	State        string     `json:"state"`
	FailureCount int        `json:"failureCount"`
	LastFailure  *time.Time `json:"lastFailureTime"`
	NextRetry    *time.Time `json:"nextRetryTime"`
}

// Breaker guards CMS calls. It opens after threshold consecutive failures,
// half-opens after recovery timeout and closes on first success.
type Breaker struct {
	threshold int
	recovery  time.Duration
	clock     Clock
	onChange  func(open bool)

	mu          sync.Mutex
	cb          *gobreaker.TwoStepCircuitBreaker[struct{}]
	failures    int
	lastFailure *time.Time
}

// NewBreaker returns new closed Breaker. onChange, when set, is called on every open/close transition.
func NewBreaker(threshold int, recovery time.Duration, clock Clock, onChange func(open bool)) *Breaker {
	b := &Breaker{
		threshold: max(threshold, 1),
		recovery:  recovery,
		clock:     clock,
		onChange:  onChange,
	}
	b.cb = b.newCircuitBreaker()

	return b
}

func (b *Breaker) newCircuitBreaker() *gobreaker.TwoStepCircuitBreaker[struct{}] {
	return gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "cms",
		MaxRequests: 1,
		Timeout:     b.recovery,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(b.threshold)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			if b.onChange != nil && (from == gobreaker.StateOpen || to == gobreaker.StateOpen) {
				b.onChange(to == gobreaker.StateOpen)
			}
		},
	})
}

// Allow reports whether call may proceed. Caller must report call outcome with done.
// Returns gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests when call is rejected.
func (b *Breaker) Allow() (func(success bool), error) {
	b.mu.Lock()
	cb := b.cb
	b.mu.Unlock()

	done, err := cb.Allow()
	if err != nil {
		return nil, err
	}

	return func(success bool) {
		b.record(success)
		done(success)
	}, nil
}

// Open reports whether breaker rejects calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	cb := b.cb
	b.mu.Unlock()

	return cb.State() == gobreaker.StateOpen
}

// Status returns breaker snapshot.
func (b *Breaker) Status() BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.cb.State()
	status := BreakerStatus{
		Open:         state == gobreaker.StateOpen,
		State:        state.String(),
		FailureCount: b.failures,
	}
	if b.lastFailure != nil {
		last := *b.lastFailure
		status.LastFailure = &last
		if status.Open {
			next := last.Add(b.recovery)
			status.NextRetry = &next
		}
	}

	return status
}

// Reset closes breaker and clears failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	wasOpen := b.cb.State() == gobreaker.StateOpen
	b.cb = b.newCircuitBreaker()
	b.failures = 0
	b.lastFailure = nil
	b.mu.Unlock()

	if wasOpen && b.onChange != nil {
		b.onChange(false)
	}
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.failures = 0
		return
	}

	b.failures++
	now := b.clock.Now()
	b.lastFailure = &now
}
