package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tangible-xr/tangible/core"
)

// Ticker receives the fixed-timestep callback.
type Ticker interface {
	FixedTick(dt time.Duration)
}

// ClockScheduler drives a Ticker on a fixed interval with drift
// correction. Ticks never overlap: the loop is the only goroutine calling
// FixedTick, which is what lets the interaction core run lock-free.
type ClockScheduler struct {
	ticker   Ticker
	clock    TimeProvider
	interval time.Duration

	nextDeadline time.Time
	tickCount    atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewClockScheduler creates a scheduler with the given tick interval.
func NewClockScheduler(ticker Ticker, clock TimeProvider, interval time.Duration) *ClockScheduler {
	return &ClockScheduler{
		ticker:   ticker,
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// TickCount returns the number of completed ticks.
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Start begins the scheduler loop.
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the current tick to finish.
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.nextDeadline = cs.clock.Now().Add(cs.interval)

	timer := time.NewTimer(cs.interval)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-timer.C:
		}

		now := cs.clock.Now()
		if !now.Before(cs.nextDeadline) {
			cs.ticker.FixedTick(cs.interval)
			cs.tickCount.Add(1)

			cs.nextDeadline = cs.nextDeadline.Add(cs.interval)
			// Resynchronize if we fell too far behind rather than
			// bursting catch-up ticks.
			if now.Sub(cs.nextDeadline) > cs.interval*2 {
				cs.nextDeadline = now.Add(cs.interval)
			}
		}

		sleep := cs.nextDeadline.Sub(cs.clock.Now())
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}
