package engine

import "time"

// TimeProvider supplies the real-time clock used for wall-clock concerns
// (debounce timers) that must not follow the physics clock.
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with monotonic readings.
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a real time provider.
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading.
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
