package services

import (
	"sync"
	"time"
)

// countdown runs a once-per-second timer for an active poll. onTick fires
// with strictly decreasing remaining seconds; onExpire fires exactly once
// when the time is up. Cancel is idempotent and wins any race with an
// in-flight tick: the stop channel is re-checked before every callback.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(seconds int, onTick func(remaining int), onExpire func()) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go c.run(seconds, onTick, onExpire)
	return c
}

func (c *countdown) run(seconds int, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining--
			select {
			case <-c.stop:
				return
			default:
			}
			if remaining <= 0 {
				onExpire()
				return
			}
			onTick(remaining)
		}
	}
}

// cancel stops the countdown. Safe to call multiple times and after expiry.
func (c *countdown) cancel() {
	c.once.Do(func() { close(c.stop) })
}
