package ports

import "time"

// Clock abstracts scheduling so timer-driven state can be tested
type Clock interface {
	Now() time.Time
	// AfterFunc runs f on its own goroutine after d
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled task
type Timer interface {
	// Stop prevents the task from running; false if it already ran or was stopped
	Stop() bool
}

// RealClock implements Clock with the time package
type RealClock struct{}

// NewRealClock creates a clock backed by the system time
func NewRealClock() Clock {
	return RealClock{}
}

// Now returns the current time
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f with time.AfterFunc
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
