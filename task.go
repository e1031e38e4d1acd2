// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Task is one running (or parked, or finished) strand of evaluation.
// IDs are monotonically assigned per §3.5 — unlike Future and Semaphore,
// which use random identifiers, Task identity must be orderable so trace
// output and Gather/Race bookkeeping read in creation order.
type Task struct {
	ID        uint64
	Control   DoCtrl
	K         Kontinuation
	State     *State
	Future    *Future
	Cancelled bool
	Priority  int
	parent    *Task

	// parkedSem and parkedFutures name whatever waiter queue(s) this task
	// is currently sitting in, so ActionCancelTask can pull it back out
	// (§5(a)) instead of leaving a dead waiter behind that would still
	// consume a permit or occupy a Gather/Race slot once woken.
	parkedSem     *Semaphore
	parkedFutures []*Future
}

// NewTask builds a fresh root task evaluating prog against state, with a
// Kontinuation consisting of exactly the mandatory ReturnFrame.
func NewTask(id uint64, prog DoCtrl, state *State) *Task {
	t := &Task{
		ID:      id,
		Control: prog,
		State:   state,
	}
	t.K = Kontinuation{ReturnFrame{TaskID: id}}
	t.Future = NewFuture(id)
	return t
}

// Finished reports whether the task's Future has already settled.
func (t *Task) Finished() bool {
	return t.Future.Settled()
}

// Future is the handle a Spawn effect resumes with: the eventual result
// of the task it names. Futures use random (uuid) identifiers per §3.5 —
// they are referenced by value across handler boundaries and have no
// need for creation-order comparability the way Task IDs do.
type Future struct {
	ID       string
	TaskID   uint64
	done     bool
	value    any
	err      error
	waiters  []*waiter
	cancelCh chan struct{}
}

// waiter is one parked consumer of a Future: either a single Wait, or one
// slot of an in-progress Gather/Race coordinated by the owning task's
// GatherFrame/RaceFrame.
type waiter struct {
	taskID uint64
	notify func(value any, err error)
}

// NewFuture allocates an unsettled Future for the task identified by
// taskID.
func NewFuture(taskID uint64) *Future {
	return &Future{ID: newID(), TaskID: taskID, cancelCh: make(chan struct{})}
}

// Settled reports whether the future has a value or error.
func (f *Future) Settled() bool { return f.done }

// Result returns the settled value/error and whether the future has
// settled yet.
func (f *Future) Result() (any, error, bool) {
	return f.value, f.err, f.done
}

// Resolve settles the future with a value, notifying every waiter in the
// FIFO order they registered (§4.6, §8 fairness property). A future is
// single-settle: resolving one that has already settled is the "future
// resolved twice" protocol violation of §7 and panics with a ResourceError
// rather than silently discarding the new value.
func (f *Future) Resolve(v any) {
	if f.done {
		panic(ResourceError(f.TaskID, "future resolved twice"))
	}
	f.done, f.value = true, v
	f.notifyAll()
}

// Reject settles the future with an error, notifying every waiter. See
// Resolve: settling an already-settled future panics with a ResourceError.
func (f *Future) Reject(err error) {
	if f.done {
		panic(ResourceError(f.TaskID, "future resolved twice"))
	}
	f.done, f.err = true, err
	f.notifyAll()
}

func (f *Future) notifyAll() {
	ws := f.waiters
	f.waiters = nil
	for _, w := range ws {
		w.notify(f.value, f.err)
	}
}

// AddWaiter registers notify to be called once the future settles, or
// immediately if it already has. Waiters are served FIFO.
func (f *Future) AddWaiter(taskID uint64, notify func(value any, err error)) {
	if f.done {
		notify(f.value, f.err)
		return
	}
	f.waiters = append(f.waiters, &waiter{taskID: taskID, notify: notify})
}

// RemoveWaiter drops the waiter registered for taskID, if any is still
// queued, reporting whether one was found. Used to pull a cancelled task
// back out of a future it is parked on (§5(a)) before it ever wakes.
func (f *Future) RemoveWaiter(taskID uint64) bool {
	for i, w := range f.waiters {
		if w.taskID == taskID {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Cancelled reports whether the task owning this future has been asked
// to cancel, for cooperative checks inside long-running handlers.
func (f *Future) Cancelled() bool {
	select {
	case <-f.cancelCh:
		return true
	default:
		return false
	}
}

// requestCancel closes the cancellation channel exactly once.
func (f *Future) requestCancel() {
	select {
	case <-f.cancelCh:
	default:
		close(f.cancelCh)
	}
}
