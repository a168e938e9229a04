package game

import (
	"time"

	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// TickerFactory abstracts time so tests can drive the countdown by
// hand. The returned stop function releases the ticker.
type TickerFactory interface {
	Create(d time.Duration) (<-chan time.Time, func())
}

type tickerFactory struct{}

func (tickerFactory) Create(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func NewTickerFactory() TickerFactory {
	return tickerFactory{}
}

// countdown is one room's phase clock. The goroutine only forwards
// ticks onto the room actor; all state lives with the room, so a
// replaced or cancelled countdown is recognized there by handle
// identity and its late ticks fall through as no-ops.
type countdown struct {
	remaining int
	onExpire  func()
	stop      chan struct{}
}

// startPhaseTimer replaces any live timer, announces the starting value
// and schedules one tick per second. Zero seconds short-circuits:
// onExpire runs synchronously and no goroutine is spawned.
func (r *Room) startPhaseTimer(seconds int, onExpire func()) {
	r.cancelPhaseTimer()

	if seconds < 0 {
		logger.Warningf("[Room %s] invalid timer duration %d, clamping to 0", r.id, seconds)
		seconds = 0
	}
	r.timeLeft = seconds
	r.broadcast(Event{Name: EvTimeUpdate, Data: seconds})

	if seconds == 0 {
		onExpire()
		return
	}

	c := &countdown{remaining: seconds, onExpire: onExpire, stop: make(chan struct{})}
	r.timer = c

	ticks, stopTicker := r.tickers.Create(time.Second)
	go func() {
		defer stopTicker()
		for {
			select {
			case <-c.stop:
				return
			case <-ticks:
				if !r.post(func() { r.handleTimerTick(c) }) {
					return
				}
			}
		}
	}()
}

// handleTimerTick runs on the room actor. A countdown that is no longer
// the room's current timer has been replaced and its ticks are stale.
func (r *Room) handleTimerTick(c *countdown) {
	if r.timer != c || c.remaining <= 0 {
		return
	}
	c.remaining--
	r.timeLeft = c.remaining
	r.broadcast(Event{Name: EvTimeUpdate, Data: c.remaining})

	if c.remaining == 0 {
		r.timer = nil
		close(c.stop)
		c.onExpire()
	}
}

func (r *Room) cancelPhaseTimer() {
	if r.timer == nil {
		return
	}
	close(r.timer.stop)
	r.timer = nil
}
