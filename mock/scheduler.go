package mock

import (
	"sync"
	"time"

	"github.com/m-mizutani/botconsole"
)

var _ botconsole.Scheduler = &Scheduler{}

// Scheduler is a botconsole.Scheduler driven by a virtual clock. Nothing
// fires until Advance is called, and callbacks run on the caller's goroutine.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*scheduledTask
}

type scheduledTask struct {
	s         *Scheduler
	next      time.Duration
	interval  time.Duration
	fn        func()
	cancelled bool
}

func (t *scheduledTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.cancelled = true
}

// NewScheduler creates a scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Every(interval time.Duration, fn func()) botconsole.Task {
	return s.add(interval, interval, fn)
}

func (s *Scheduler) After(delay time.Duration, fn func()) botconsole.Task {
	return s.add(delay, 0, fn)
}

func (s *Scheduler) add(delay, interval time.Duration, fn func()) *scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &scheduledTask{
		s:        s,
		next:     s.now + delay,
		interval: interval,
		fn:       fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the virtual clock forward by d, firing due callbacks in time
// order. Callbacks may cancel or arm tasks.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.nextDue(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			return
		}

		s.now = t.next
		if t.interval > 0 {
			t.next += t.interval
		} else {
			t.cancelled = true
		}
		fn := t.fn
		s.mu.Unlock()

		fn()
	}
}

// nextDue must be called with s.mu held.
func (s *Scheduler) nextDue(target time.Duration) *scheduledTask {
	var due *scheduledTask
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.cancelled {
			continue
		}
		live = append(live, t)
		if t.next <= target && (due == nil || t.next < due.next) {
			due = t
		}
	}
	s.tasks = live
	return due
}

// Pending returns the number of tasks that have not been cancelled or fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
