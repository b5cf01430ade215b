package schedule

import (
	"sync"
	"time"
)

// Cancel stops a pending callback. It reports whether the call prevented
// the callback from running. Calling it more than once is safe.
type Cancel func() bool

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancel
	Now() time.Time
}

type realScheduler struct{}

// Real returns a Scheduler backed by the time package.
func Real() Scheduler { return realScheduler{} }

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	timer := time.AfterFunc(d, f)
	var once sync.Once
	return func() bool {
		stopped := false
		once.Do(func() { stopped = timer.Stop() })
		return stopped
	}
}
