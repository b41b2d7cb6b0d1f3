package fallback_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/internal/fallback"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitBreakerOpensAfterThreshold(t *testing.T) {
	var changes []bool
	breaker := fallback.NewBreaker(5, time.Minute, fakeClock{now: now}, func(open bool) {
		changes = append(changes, open)
	})

	for i := 0; i < 4; i++ {
		fail(t, breaker)
	}
	assert.False(t, breaker.Status().Open, "shouldn't open before threshold")

	fail(t, breaker)

	status := breaker.Status()
	assert.True(t, status.Open, "should open after 5 consecutive failures")
	assert.Equal(t, "open", status.State, "should report open state")
	assert.Equal(t, 5, status.FailureCount, "should count failures")
	require.NotNil(t, status.LastFailure, "should record last failure")
	assert.Equal(t, now, *status.LastFailure, "should record last failure time")
	require.NotNil(t, status.NextRetry, "should report next retry")
	assert.Equal(t, now.Add(time.Minute), *status.NextRetry, "should retry after recovery timeout")
	assert.Equal(t, []bool{true}, changes, "should notify about opening")

	_, err := breaker.Allow()
	assert.ErrorIs(t, err, gobreaker.ErrOpenState, "should reject calls while open")
}

func TestUnitBreakerSuccessResetsFailures(t *testing.T) {
	breaker := fallback.NewBreaker(5, time.Minute, fakeClock{now: now}, nil)

	for i := 0; i < 3; i++ {
		fail(t, breaker)
	}
	succeed(t, breaker)

	status := breaker.Status()
	assert.False(t, status.Open, "should stay closed")
	assert.Equal(t, 0, status.FailureCount, "should reset failures")
	assert.Nil(t, status.NextRetry, "shouldn't report next retry while closed")

	for i := 0; i < 4; i++ {
		fail(t, breaker)
	}
	assert.False(t, breaker.Status().Open, "should count consecutive failures from last success")
}

func TestUnitBreakerHalfOpen(t *testing.T) {
	tests := map[string]struct {
		success     bool
		wantState   string
		wantOpen    bool
		wantFailure int
		wantChanges []bool
	}{
		"success closes": {
			success:     true,
			wantState:   "closed",
			wantOpen:    false,
			wantFailure: 0,
			wantChanges: []bool{true, false},
		},
		"failure reopens": {
			success:     false,
			wantState:   "open",
			wantOpen:    true,
			wantFailure: 2,
			wantChanges: []bool{true, false, true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var changes []bool
			breaker := fallback.NewBreaker(1, 20*time.Millisecond, fakeClock{now: now}, func(open bool) {
				changes = append(changes, open)
			})

			fail(t, breaker)
			require.True(t, breaker.Open(), "should open after single failure")

			time.Sleep(50 * time.Millisecond)
			assert.Equal(t, "half-open", breaker.Status().State, "should half-open after recovery timeout")
			assert.False(t, breaker.Open(), "should let trial call through")

			done, err := breaker.Allow()
			require.NoError(t, err, "should allow trial call")
			done(tt.success)

			status := breaker.Status()
			assert.Equal(t, tt.wantState, status.State, "should transition after trial call")
			assert.Equal(t, tt.wantOpen, status.Open, "should report open flag")
			assert.Equal(t, tt.wantFailure, status.FailureCount, "should count failures")
			assert.Equal(t, tt.wantChanges, changes, "should notify about transitions")
		})
	}
}

func TestUnitBreakerReset(t *testing.T) {
	var changes []bool
	breaker := fallback.NewBreaker(2, time.Minute, fakeClock{now: now}, func(open bool) {
		changes = append(changes, open)
	})

	fail(t, breaker)
	fail(t, breaker)
	require.True(t, breaker.Open(), "should open")

	breaker.Reset()

	status := breaker.Status()
	assert.False(t, status.Open, "should close")
	assert.Equal(t, "closed", status.State, "should close")
	assert.Zero(t, status.FailureCount, "should clear failures")
	assert.Nil(t, status.LastFailure, "should clear last failure")
	assert.Equal(t, []bool{true, false}, changes, "should notify about closing")

	succeed(t, breaker)
}

func fail(t *testing.T, breaker *fallback.Breaker) {
	t.Helper()

	done, err := breaker.Allow()
	require.NoError(t, err, "should allow call")
	done(false)
}

func succeed(t *testing.T, breaker *fallback.Breaker) {
	t.Helper()

	done, err := breaker.Allow()
	require.NoError(t, err, "should allow call")
	done(true)
}
