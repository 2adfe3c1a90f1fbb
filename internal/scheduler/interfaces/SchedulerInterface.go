package interfaces

import "time"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// TimersInterface runs one-shot callbacks keyed by an integer id. Scheduling
// an existing key replaces its pending callback.
type TimersInterface interface {
	Schedule(key int, delay time.Duration, fn func())
	Cancel(key int) bool
	Pending(key int) bool
	Stop()
}
