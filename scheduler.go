package botconsole

import (
	"sync"
	"time"
)

// Task is a handle to a scheduled callback. Cancel releases it; a cancelled
// task never fires again. Cancel is idempotent.
type Task interface {
	Cancel()
}

// Scheduler arms callbacks. Callbacks run on a goroutine owned by the
// scheduler, so they must do their own locking.
type Scheduler interface {
	// Every calls fn every interval until the task is cancelled.
	Every(interval time.Duration, fn func()) Task
	// After calls fn once after delay unless the task is cancelled first.
	After(delay time.Duration, fn func()) Task
}

// TimeScheduler is a Scheduler backed by the time package.
type TimeScheduler struct{}

// NewTimeScheduler returns the production scheduler.
func NewTimeScheduler() *TimeScheduler {
	return &TimeScheduler{}
}

type tickerTask struct {
	stop     chan struct{}
	stopOnce sync.Once
}

func (t *tickerTask) Cancel() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (s *TimeScheduler) Every(interval time.Duration, fn func()) Task {
	task := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				select {
				case <-task.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return task
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() {
	t.timer.Stop()
}

func (s *TimeScheduler) After(delay time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(delay, fn)}
}
