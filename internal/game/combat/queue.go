package combat

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// task is a deferred step. at is measured on the session's virtual clock.
type task struct {
	at    time.Duration
	seq   uint64
	epoch uint64
	name  string
	fn    func()
}

// taskQueue orders tasks by due time, then by scheduling order.
type taskQueue struct {
	now   time.Duration
	seq   uint64
	tasks []task
}

func (q *taskQueue) push(t task) {
	q.seq++
	t.seq = q.seq
	i := slices.IndexFunc(q.tasks, func(o task) bool { return o.at > t.at })
	if i < 0 {
		q.tasks = append(q.tasks, t)
		return
	}
	q.tasks = slices.Insert(q.tasks, i, t)
}

func (q *taskQueue) peek() (task, bool) {
	if len(q.tasks) == 0 {
		return task{}, false
	}
	return q.tasks[0], true
}

func (q *taskQueue) pop() (task, bool) {
	t, ok := q.peek()
	if ok {
		q.tasks = q.tasks[1:]
	}
	return t, ok
}

// schedule queues fn to run delay after the current virtual time. The task
// is dropped if the epoch moves on or the session ends before it runs.
func (s *Session) schedule(delay time.Duration, name string, fn func()) {
	s.queue.push(task{at: s.queue.now + delay, epoch: s.epoch, name: name, fn: fn})
}

// Tick runs the next queued task, advancing the virtual clock to its due time.
//
// Postcondition: Returns false iff the queue was empty.
func (s *Session) Tick() bool {
	t, ok := s.queue.pop()
	if !ok {
		return false
	}
	s.queue.now = t.at
	if !s.active || t.epoch != s.epoch {
		s.logger.Debug("dropping stale task",
			zap.String("task", t.name),
			zap.Uint64("task_epoch", t.epoch),
			zap.Uint64("epoch", s.epoch),
		)
		return true
	}
	t.fn()
	s.notify()
	return true
}

// RunUntilIdle runs tasks until the queue is empty, which happens when the
// session awaits the player or has ended. It returns the number of tasks run.
func (s *Session) RunUntilIdle() int {
	n := 0
	for s.Tick() {
		n++
	}
	return n
}

// Run behaves like RunUntilIdle but waits out each task's delay with p.
//
// Postcondition: Returns nil once the queue is idle, or the pacer's error
// (typically ctx.Err()) with the pending task left queued.
func (s *Session) Run(ctx context.Context, p Pacer) error {
	for {
		next, ok := s.queue.peek()
		if !ok {
			return nil
		}
		if wait := next.at - s.queue.now; wait > 0 {
			if err := p.Wait(ctx, wait); err != nil {
				return err
			}
		}
		s.Tick()
	}
}

// Pending returns the number of queued tasks, stale ones included.
func (s *Session) Pending() int { return len(s.queue.tasks) }

// Clock returns the session's virtual time.
func (s *Session) Clock() time.Duration { return s.queue.now }
