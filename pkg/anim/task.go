package anim

import "time"

// Kind identifies the attribute a task animates. An owner keeps at most one
// task per kind.
type Kind string

const (
	KindPosition  Kind = "position"
	KindFlip      Kind = "flip"
	KindHighlight Kind = "highlight"
	KindAlpha     Kind = "alpha"
)

// Task is one in-flight interpolation of a scalar attribute from From to To.
// Progress is linear in elapsed time; Ease shapes the interpolated value.
type Task struct {
	Kind     Kind
	From     float64
	To       float64
	Start    time.Duration
	Duration time.Duration
	Ease     Easing
}

// Progress returns linear progress in [0,1] at time now.
func (t *Task) Progress(now time.Duration) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return Clamp01(float64(now-t.Start) / float64(t.Duration))
}

// Value returns the eased attribute value at time now.
func (t *Task) Value(now time.Duration) float64 {
	p := t.Progress(now)
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	return Lerp(t.From, t.To, ease(p))
}

// Done reports whether the task has reached its target at time now.
func (t *Task) Done(now time.Duration) bool {
	return t.Progress(now) >= 1
}

// Set holds at most one task per kind. Starting a task of a kind that is
// already running replaces the running task; the caller is expected to have
// snapped the attribute to the replaced task's target first.
type Set struct {
	tasks map[Kind]*Task
}

// Start registers a task, returning the task it replaced (nil if none).
func (s *Set) Start(task *Task) *Task {
	if s.tasks == nil {
		s.tasks = make(map[Kind]*Task)
	}
	prev := s.tasks[task.Kind]
	s.tasks[task.Kind] = task
	return prev
}

// Cancel removes and returns the running task of the given kind.
func (s *Set) Cancel(kind Kind) *Task {
	task, ok := s.tasks[kind]
	if !ok {
		return nil
	}
	delete(s.tasks, kind)
	return task
}

// Len returns the number of running tasks.
func (s *Set) Len() int {
	return len(s.tasks)
}

// Step evaluates every running task at time now, calling apply with the
// current value and whether the task finished. Finished tasks are removed.
func (s *Set) Step(now time.Duration, apply func(kind Kind, value float64, done bool)) {
	for kind, task := range s.tasks {
		done := task.Done(now)
		apply(kind, task.Value(now), done)
		if done {
			delete(s.tasks, kind)
		}
	}
}

// Clear drops every running task without applying it.
func (s *Set) Clear() {
	clear(s.tasks)
}
