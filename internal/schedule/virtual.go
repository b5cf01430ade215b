package schedule

import (
	"sync"
	"time"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// VirtualScheduler is a deterministic Scheduler. Time stands still until
// Advance or RunUntilIdle is called; due callbacks then run synchronously on
// the calling goroutine in deadline order.
//
// Callbacks may schedule further callbacks. Do not call Advance from inside
// a callback.
type VirtualScheduler struct {
	mu      sync.Mutex
	current time.Time
	queue   *models.EventQueue
	pending int
}

type virtualCall struct {
	f       func()
	stopped bool
	fired   bool
}

// Virtual returns a VirtualScheduler whose clock starts at start.
func Virtual(start time.Time) *VirtualScheduler {
	return &VirtualScheduler{
		current: start,
		queue:   models.NewEventQueue(),
	}
}

func (v *VirtualScheduler) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Pending returns the number of callbacks that are scheduled and not
// cancelled.
func (v *VirtualScheduler) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

func (v *VirtualScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	if d < 0 {
		d = 0
	}
	call := &virtualCall{f: f}

	v.mu.Lock()
	v.pending++
	deadline := v.current.Add(d)
	v.mu.Unlock()

	v.queue.Enqueue(&models.Event{
		Time: deadline,
		Type: models.EventScheduledCall,
		Data: call,
	})

	return func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		if call.stopped || call.fired {
			return false
		}
		call.stopped = true
		v.pending--
		return true
	}
}

// Advance moves the clock forward by d, running every callback whose
// deadline falls inside the window. It returns the number of callbacks run.
func (v *VirtualScheduler) Advance(d time.Duration) int {
	v.mu.Lock()
	target := v.current.Add(d)
	v.mu.Unlock()

	ran := 0
	for {
		event := v.queue.DequeueDue(target)
		if event == nil {
			break
		}
		if v.fire(event) {
			ran++
		}
	}

	v.mu.Lock()
	v.current = target
	v.mu.Unlock()
	return ran
}

// RunUntilIdle runs callbacks, advancing the clock to each deadline, until
// nothing is pending or limit callbacks have run. A limit <= 0 means no
// limit.
func (v *VirtualScheduler) RunUntilIdle(limit int) int {
	ran := 0
	for limit <= 0 || ran < limit {
		event := v.queue.Dequeue()
		if event == nil {
			break
		}
		if v.fire(event) {
			ran++
		}
	}
	return ran
}

// Step runs the next pending callback, advancing the clock to its deadline.
// It reports whether a callback ran.
func (v *VirtualScheduler) Step() bool {
	return v.RunUntilIdle(1) == 1
}

func (v *VirtualScheduler) fire(event *models.Event) bool {
	call := event.Data.(*virtualCall)

	v.mu.Lock()
	if call.stopped || call.fired {
		v.mu.Unlock()
		return false
	}
	call.fired = true
	v.pending--
	if event.Time.After(v.current) {
		v.current = event.Time
	}
	v.mu.Unlock()

	call.f()
	return true
}
