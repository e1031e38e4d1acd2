// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"sync/atomic"
	"time"
)

// ActionKind tags which external effect a driver must perform before the
// requesting task can resume. Handlers hand back a HandlerResult carrying
// an Action, and the driver applies it against the Scheduler (goroutines,
// the clock, semaphore queues), per §5. Two kinds are never emitted: the
// built-in handlers run IO thunks and create semaphores inline, so
// ActionPerformIO and ActionCreateSemaphore do not reach the driver.
type ActionKind int

const (
	ActionSpawnTask ActionKind = iota
	ActionWaitFuture
	ActionGather
	ActionRace
	ActionGatherSpawn
	ActionRaceSpawn
	ActionCancelTask
	ActionCreateSemaphore
	ActionAcquireSemaphore
	ActionReleaseSemaphore
	ActionGetTime
	ActionDelay
	ActionWaitUntil
	ActionPerformIO
	ActionAwaitExternal
)

// Action is a tagged request for the driver to perform one external
// effect and resume the requesting task through its Resume token. Only
// the fields relevant to Kind are populated.
type Action struct {
	Kind      ActionKind
	Prog      DoCtrl
	Progs     []DoCtrl
	Future    *Future
	Futures   []*Future
	Task      *Task
	Sem       *Semaphore
	N         int
	Seconds   float64
	Deadline  time.Time
	Thunk     func() (any, error)
	Awaitable Awaitable
	Resume    *Resume
}

// Resume is a single-shot resumption token handed to a driver alongside
// an Action. Exactly one of Value or Err must be called, exactly once,
// or not at all if the owning task was cancelled first. It generalizes
// the teacher's Affine continuation wrapper to a non-generic shape,
// since the engine's continuations are IR data (DoCtrl/Kontinuation),
// not Go closures — fn re-enters the scheduler for the parked task.
type Resume struct {
	used atomic.Uintptr
	fn   func(value any, err error)
}

// NewResume wraps fn, a scheduler callback that re-enters the engine for
// the parked task, in single-shot enforcement.
func NewResume(fn func(value any, err error)) *Resume {
	return &Resume{fn: fn}
}

// Value resumes the parked task with v. Panics if already resumed.
func (r *Resume) Value(v any) {
	if r.used.Add(1) != 1 {
		panic("doeff: resume token used twice")
	}
	r.fn(v, nil)
}

// Err resumes the parked task by raising err up its kontinuation.
func (r *Resume) Err(err error) {
	if r.used.Add(1) != 1 {
		panic("doeff: resume token used twice")
	}
	r.fn(nil, err)
}

// TryValue is the non-panicking counterpart of Value; it reports whether
// this call actually performed the resumption.
func (r *Resume) TryValue(v any) bool {
	if r.used.Add(1) != 1 {
		return false
	}
	r.fn(v, nil)
	return true
}

// TryErr is the non-panicking counterpart of Err.
func (r *Resume) TryErr(err error) bool {
	if r.used.Add(1) != 1 {
		return false
	}
	r.fn(nil, err)
	return true
}

// Discard marks the token used without invoking it, for a task that was
// cancelled while its action was outstanding.
func (r *Resume) Discard() {
	r.used.Store(1)
}
