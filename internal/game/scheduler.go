package game

import "time"

// Timer is a cancellable delayed task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Production rooms use time.AfterFunc; tests swap in a manual
// scheduler so window expiry and bot turns fire on demand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is the wall-clock scheduler.
var RealScheduler Scheduler = realScheduler{}
