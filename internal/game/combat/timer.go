package combat

import (
	"container/heap"
	"time"
)

// Task is a deferred callback owned by one agent.
type Task struct {
	owner     string
	fireAt    time.Duration
	seq       uint64
	fn        func()
	index     int
	fired     bool
	cancelled bool
}

// Cancel prevents the callback from firing. Safe to call multiple times and on nil.
//
// Postcondition: the callback will not run after Cancel returns.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Done reports whether the task has fired or been cancelled.
func (t *Task) Done() bool { return t == nil || t.fired || t.cancelled }

// Owner returns the id the task was scheduled under.
func (t *Task) Owner() string { return t.owner }

// FireAt returns the simulated time at which the task is due.
func (t *Task) FireAt() time.Duration { return t.fireAt }

// Scheduler runs deferred callbacks against a simulated clock that only moves
// when Advance is called. It replaces wall-clock timers so that windups and
// channel windows line up exactly with the frames that drive them.
//
// Scheduler is not safe for concurrent use; the simulation is single-threaded.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// NewScheduler returns a Scheduler whose clock reads zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current simulated time. Inside a callback it reads the
// task's due time.
func (s *Scheduler) Now() time.Duration { return s.now }

// After schedules fn to run once the clock has advanced by delay.
// Negative delays are treated as zero.
//
// Precondition: fn must not be nil.
// Postcondition: returns a pending Task.
func (s *Scheduler) After(owner string, delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &Task{owner: owner, fireAt: s.now + delay, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves the clock forward by dt and runs every task that falls due,
// in due-time order with ties broken by scheduling order. Callbacks may
// schedule or cancel other tasks.
//
// Postcondition: Now() has increased by dt.
func (s *Scheduler) Advance(dt time.Duration) {
	end := s.now + dt
	for s.queue.Len() > 0 && s.queue[0].fireAt <= end {
		t := heap.Pop(&s.queue).(*Task)
		if t.cancelled {
			continue
		}
		if t.fireAt > s.now {
			s.now = t.fireAt
		}
		t.fired = true
		t.fn()
	}
	s.now = end
}

// CancelOwner cancels every pending task scheduled under owner and returns
// how many were cancelled.
func (s *Scheduler) CancelOwner(owner string) int {
	n := 0
	for _, t := range s.queue {
		if t.owner == owner && !t.cancelled {
			t.cancelled = true
			n++
		}
	}
	return n
}

// Pending returns the number of live tasks scheduled under owner.
func (s *Scheduler) Pending(owner string) int {
	n := 0
	for _, t := range s.queue {
		if t.owner == owner && !t.cancelled {
			n++
		}
	}
	return n
}

// Len returns the number of live tasks across all owners.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].fireAt != q[j].fireAt {
		return q[i].fireAt < q[j].fireAt
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
