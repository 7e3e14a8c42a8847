package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownTicksAndExpires(t *testing.T) {
	var mu sync.Mutex
	var ticks []int
	expired := make(chan struct{})

	startCountdown(3,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() { close(expired) },
	)

	select {
	case <-expired:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not expire")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{2, 1}, ticks)
}

func TestCountdownCancelStopsCallbacks(t *testing.T) {
	var mu sync.Mutex
	tickCount := 0
	expired := false

	c := startCountdown(10,
		func(int) {
			mu.Lock()
			tickCount++
			mu.Unlock()
		},
		func() {
			mu.Lock()
			expired = true
			mu.Unlock()
		},
	)

	time.Sleep(1500 * time.Millisecond)
	c.cancel()

	mu.Lock()
	seen := tickCount
	mu.Unlock()

	// No callbacks after cancellation, even with ticks still due.
	time.Sleep(1500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, seen, tickCount)
	assert.False(t, expired)
}

func TestCountdownCancelIdempotent(t *testing.T) {
	c := startCountdown(5, func(int) {}, func() {})
	c.cancel()
	c.cancel()

	// Cancel after expiry is also safe.
	done := make(chan struct{})
	c2 := startCountdown(1, func(int) {}, func() { close(done) })
	<-done
	c2.cancel()
}
