// Package schedule provides the one-shot callback scheduling used to drive
// timed simulations.
//
// Production code injects Real(), which defers to time.AfterFunc. Tests and
// headless runs inject a VirtualScheduler, whose clock moves only when
// Advance or RunUntilIdle is called, so a delivery run of fifty ticks can be
// replayed deterministically without waiting on wall-clock timers.
package schedule
