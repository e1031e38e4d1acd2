// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"container/heap"
	"sort"
	"time"
)

// Scheduler owns the ready queue of runnable tasks and the timed queue of
// tasks parked on Delay/WaitUntil (§5). Driver is the only caller: it
// Submits newly spawned tasks, pulls the Next runnable one to Step, and
// asks the scheduler to AdvanceTime when the ready queue runs dry but
// timers remain outstanding.
type Scheduler interface {
	Submit(task *Task)
	Next() (*Task, bool)
	Len() int
	ScheduleTimer(task *Task, at float64)
	AdvanceTime() (float64, bool)
	Now() float64
	SetNow(t float64)
}

type timerEntry struct {
	at   float64
	seq  uint64
	task *Task
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// baseScheduler factors the timer machinery shared by every scheduler:
// only the ready-queue discipline differs between FIFO, Priority, and
// Simulation.
type baseScheduler struct {
	timers  timerHeap
	timerSq uint64
	now     float64
}

func (b *baseScheduler) ScheduleTimer(task *Task, at float64) {
	b.timerSq++
	heap.Push(&b.timers, &timerEntry{at: at, seq: b.timerSq, task: task})
}

func (b *baseScheduler) Now() float64     { return b.now }
func (b *baseScheduler) SetNow(t float64) { b.now = t }

func (b *baseScheduler) advanceToNextTimer(readySubmit func(*Task)) (float64, bool) {
	if b.timers.Len() == 0 {
		return b.now, false
	}
	next := b.timers[0].at
	if next > b.now {
		b.now = next
	}
	for b.timers.Len() > 0 && b.timers[0].at <= b.now {
		entry := heap.Pop(&b.timers).(*timerEntry)
		readySubmit(entry.task)
	}
	return b.now, true
}

// FIFOScheduler runs ready tasks in strict arrival order — the natural
// fairness policy for a realtime-flavored driver where task order should
// not depend on scheduling internals.
type FIFOScheduler struct {
	baseScheduler
	ready []*Task
}

func NewFIFOScheduler() *FIFOScheduler { return &FIFOScheduler{} }

func (s *FIFOScheduler) Submit(task *Task) { s.ready = append(s.ready, task) }

func (s *FIFOScheduler) Next() (*Task, bool) {
	if len(s.ready) == 0 {
		return nil, false
	}
	t := s.ready[0]
	s.ready = s.ready[1:]
	return t, true
}

func (s *FIFOScheduler) Len() int { return len(s.ready) }

func (s *FIFOScheduler) AdvanceTime() (float64, bool) {
	return s.advanceToNextTimer(s.Submit)
}

// PriorityScheduler runs the lowest Task.Priority value first, breaking
// ties by arrival order, for workloads that want some tasks to drain
// ahead of others without hand-rolling their own queue.
type PriorityScheduler struct {
	baseScheduler
	ready []*Task
	seq   []uint64
	next  uint64
}

func NewPriorityScheduler() *PriorityScheduler { return &PriorityScheduler{} }

func (s *PriorityScheduler) Submit(task *Task) {
	s.ready = append(s.ready, task)
	s.seq = append(s.seq, s.next)
	s.next++
	s.reorder()
}

func (s *PriorityScheduler) reorder() {
	type entry struct {
		task *Task
		seq  uint64
	}
	entries := make([]entry, len(s.ready))
	for i, t := range s.ready {
		entries[i] = entry{task: t, seq: s.seq[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].task.Priority != entries[j].task.Priority {
			return entries[i].task.Priority < entries[j].task.Priority
		}
		return entries[i].seq < entries[j].seq
	})
	for i, e := range entries {
		s.ready[i] = e.task
		s.seq[i] = e.seq
	}
}

func (s *PriorityScheduler) Next() (*Task, bool) {
	if len(s.ready) == 0 {
		return nil, false
	}
	t := s.ready[0]
	s.ready = s.ready[1:]
	s.seq = s.seq[1:]
	return t, true
}

func (s *PriorityScheduler) Len() int { return len(s.ready) }

func (s *PriorityScheduler) AdvanceTime() (float64, bool) {
	return s.advanceToNextTimer(s.Submit)
}

// SimulationScheduler is the deterministic driver's ready queue: LIFO,
// depth-first (§5, Testable Property #1 — a simulation run must be
// reproducible byte-for-byte given the same program and seed inputs, so
// the discipline has to be fixed and data-independent, not "whichever
// goroutine wakes first").
type SimulationScheduler struct {
	baseScheduler
	ready []*Task
}

func NewSimulationScheduler() *SimulationScheduler { return &SimulationScheduler{} }

func (s *SimulationScheduler) Submit(task *Task) { s.ready = append(s.ready, task) }

func (s *SimulationScheduler) Next() (*Task, bool) {
	n := len(s.ready)
	if n == 0 {
		return nil, false
	}
	t := s.ready[n-1]
	s.ready = s.ready[:n-1]
	return t, true
}

func (s *SimulationScheduler) Len() int { return len(s.ready) }

func (s *SimulationScheduler) AdvanceTime() (float64, bool) {
	return s.advanceToNextTimer(s.Submit)
}

// RealtimeScheduler bridges the engine's cooperative ready queue to real
// wall-clock time: ScheduleTimer arms a genuine time.AfterFunc instead of
// waiting for AdvanceTime to be polled, so Delay/WaitUntil resolve on
// their own schedule even if the driver loop is otherwise idle. Grounded
// on the worker-pool collaborator's dispatcher: a channel-fed queue plus
// goroutines, rather than an in-process data structure the driver steps
// by hand.
type RealtimeScheduler struct {
	baseScheduler
	readyCh chan *Task
	pending chan *Task
}

// NewRealtimeScheduler builds a scheduler backed by a buffered channel of
// the given capacity (0 means unbounded buffering via an internal relay
// goroutine is not attempted — callers size it to their expected task
// fan-out, matching WithTasksBuffer in the collaborator this is grounded
// on).
func NewRealtimeScheduler(buffer int) *RealtimeScheduler {
	return &RealtimeScheduler{readyCh: make(chan *Task, buffer)}
}

func (s *RealtimeScheduler) Submit(task *Task) { s.readyCh <- task }

func (s *RealtimeScheduler) Next() (*Task, bool) {
	select {
	case t := <-s.readyCh:
		return t, true
	default:
		return nil, false
	}
}

func (s *RealtimeScheduler) Len() int { return len(s.readyCh) }

// blockingNext waits for the next task to be submitted, parking the
// driver goroutine instead of polling. Run falls back to this once Next
// and AdvanceTime both report nothing runnable, so a task parked on a
// real Delay/WaitUntil timer (armed via time.AfterFunc on its own
// goroutine, not the polled timer heap) is waited for rather than
// reported as a deadlock. ok is false only if the channel is closed,
// which nothing in this package currently does.
func (s *RealtimeScheduler) blockingNext() (*Task, bool) {
	t, ok := <-s.readyCh
	return t, ok
}

// Now reports the current wall-clock time in Unix seconds; SetNow has no
// effect on it.
func (s *RealtimeScheduler) Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func (s *RealtimeScheduler) ScheduleTimer(task *Task, at float64) {
	delay := time.Duration((at - s.Now()) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() { s.Submit(task) })
}

func (s *RealtimeScheduler) AdvanceTime() (float64, bool) {
	s.now = float64(time.Now().UnixNano()) / 1e9
	return s.now, false
}
