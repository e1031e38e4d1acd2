// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import "time"

// StepEvent is one entry of an optional execution trace: which task
// advanced and what it produced, in the order Steps were actually taken.
type StepEvent struct {
	TaskID  uint64
	Outcome StepOutcome
}

// RunResult is everything Run/RunAsync hand back once the root task
// settles: its Result, the final Store, an optional trace, and — only
// populated when Result is an error — the Kontinuation and effect the
// root task was evaluating when it failed, for postmortem diagnostics.
type RunResult struct {
	Result             Result
	Store              *Store
	Trace              []StepEvent
	KStackOnError      Kontinuation
	EffectStackOnError EffectValue
}

type runConfig struct {
	env              map[string]any
	store            map[string]any
	rootHandlers     []Handler
	scheduler        Scheduler
	trace            bool
	maxDispatchDepth int
}

func newRunConfig(opts []RunOption) *runConfig {
	cfg := &runConfig{scheduler: NewSimulationScheduler(), maxDispatchDepth: maxDispatchDepth}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// RunOption configures Run/RunAsync, following the functional-options
// shape used throughout this codebase's ambient stack.
type RunOption func(*runConfig)

// WithEnv seeds the root task's reader environment.
func WithEnv(bindings map[string]any) RunOption {
	return func(c *runConfig) { c.env = bindings }
}

// WithStore seeds the root task's mutable store.
func WithStore(initial map[string]any) RunOption {
	return func(c *runConfig) { c.store = initial }
}

// WithRootHandlers installs caller-supplied handlers outermost-first,
// ahead of the built-in default chain but behind any WithHandler scopes
// the program itself introduces (§6.1).
func WithRootHandlers(handlers ...Handler) RunOption {
	return func(c *runConfig) { c.rootHandlers = handlers }
}

// WithScheduler overrides the default SimulationScheduler, e.g. with a
// FIFOScheduler, PriorityScheduler, or RealtimeScheduler.
func WithScheduler(s Scheduler) RunOption {
	return func(c *runConfig) { c.scheduler = s }
}

// WithTrace records a StepEvent for every Step taken during the run.
func WithTrace() RunOption {
	return func(c *runConfig) { c.trace = true }
}

// Run evaluates prog to completion against opts, driving tasks through
// Step until the root task settles. It is suitable for both the
// deterministic SimulationScheduler (the default) and the
// FIFO/Priority/Realtime schedulers — Run itself never assumes which
// discipline is in effect.
func Run(prog DoCtrl, opts ...RunOption) RunResult {
	cfg := newRunConfig(opts)
	handlers := newHandlerStack(cfg.rootHandlers)
	state := &State{Env: NewEnv(cfg.env), Store: NewStore(cfg.store)}
	root := NewTask(nextTaskID(), prog, state)

	sched := cfg.scheduler
	tasks := map[uint64]*Task{root.ID: root}
	sched.Submit(root)

	var trace []StepEvent

	for !root.Future.Settled() {
		t, ok := sched.Next()
		if !ok {
			if _, advanced := sched.AdvanceTime(); advanced {
				continue
			}
			// A RealtimeScheduler's ready queue can run momentarily dry
			// while a task is parked on a Delay/WaitUntil timer armed on
			// its own goroutine (not the polled timer heap AdvanceTime
			// drains) — that is not a deadlock, so block for the next
			// submission instead of bailing out. Every other scheduler's
			// ready queue running dry with no timer to advance to really
			// is a deadlock.
			rt, isRealtime := sched.(*RealtimeScheduler)
			if !isRealtime {
				break
			}
			t, ok = rt.blockingNext()
			if !ok {
				break
			}
		}

		if t.Future.Settled() {
			// Cancelled while already sitting in the ready queue (not
			// parked on a waiter list a cancel could pull it out of): its
			// Future was rejected by ActionCancelTask already, so stepping
			// it further would settle the same Future a second time.
			continue
		}

		var kBefore Kontinuation
		if t.ID == root.ID {
			// raiseError unwinds K to empty on failure, so keep the stack
			// the failing step started from for RunResult.KStackOnError.
			kBefore = append(Kontinuation(nil), t.K...)
		}
		outcome := Step(t, handlers)
		if cfg.trace {
			trace = append(trace, StepEvent{TaskID: t.ID, Outcome: outcome})
		}

		if outcome.Continuing() {
			sched.Submit(t)
			continue
		}

		if action, needsAction := outcome.NeedsAction(); needsAction {
			applyAction(t, action, sched, tasks)
			continue
		}

		if v, done := outcome.Done(); done {
			t.Future.Resolve(v)
			continue
		}

		err, _ := outcome.Failed()
		t.Future.Reject(err)
		if t.ID == root.ID {
			result := RunResult{
				Result:        ErrResult(err),
				Store:         t.State.Store,
				Trace:         trace,
				KStackOnError: kBefore,
			}
			if vmerr, ok := err.(*VMError); ok {
				result.EffectStackOnError = vmerr.Effect
			}
			return result
		}
	}

	value, err, settled := root.Future.Result()
	if !settled {
		return RunResult{
			Result: ErrResult(ResourceError(root.ID, "scheduler ran dry with the root task still parked (deadlock)")),
			Store:  root.State.Store,
			Trace:  trace,
		}
	}
	if err != nil {
		return RunResult{Result: ErrResult(err), Store: root.State.Store, Trace: trace}
	}
	return RunResult{Result: Ok(value), Store: root.State.Store, Trace: trace}
}

// applyAction performs the external effect action requested, resuming t
// (immediately, or later via a registered waiter/timer) once it
// completes.
func applyAction(t *Task, action Action, sched Scheduler, tasks map[uint64]*Task) {
	switch action.Kind {
	case ActionSpawnTask:
		child := NewTask(nextTaskID(), action.Prog, &State{Env: t.State.Env, Store: t.State.Store.Snapshot()})
		tasks[child.ID] = child
		sched.Submit(child)
		action.Resume.Value(child.Future)
		sched.Submit(t)

	case ActionWaitFuture:
		t.parkedFutures = []*Future{action.Future}
		action.Future.AddWaiter(t.ID, func(v any, err error) {
			t.parkedFutures = nil
			if err != nil {
				action.Resume.Err(err)
			} else {
				action.Resume.Value(v)
			}
			sched.Submit(t)
		})

	case ActionGather:
		applyGather(t, action, sched)

	case ActionRace:
		applyRace(t, action, sched, tasks)

	case ActionGatherSpawn:
		futures := spawnSharedChildren(t, action.Progs, sched, tasks)
		applyGather(t, Action{Futures: futures}, sched)

	case ActionRaceSpawn:
		futures := spawnSharedChildren(t, action.Progs, sched, tasks)
		applyRace(t, Action{Futures: futures}, sched, tasks)

	case ActionCancelTask:
		target := action.Task
		if !target.Future.Settled() {
			target.Cancelled = true
			if target.parkedSem != nil {
				target.parkedSem.CancelWaiter(target.ID)
				target.parkedSem = nil
			}
			for _, f := range target.parkedFutures {
				f.RemoveWaiter(target.ID)
			}
			target.parkedFutures = nil
			target.Future.requestCancel()
			target.Future.Reject(TaskCancelledError(target.ID))
		}
		action.Resume.Value(nil)
		sched.Submit(t)

	case ActionCreateSemaphore:
		// handled synchronously by semaphoreHandler; never reaches here.

	case ActionAcquireSemaphore:
		granted := action.Sem.Acquire(t.ID, func() {
			t.parkedSem = nil
			action.Resume.Value(nil)
			sched.Submit(t)
		})
		if granted {
			action.Resume.Value(nil)
			sched.Submit(t)
		} else {
			t.parkedSem = action.Sem
		}

	case ActionReleaseSemaphore:
		if action.Sem.Release() {
			action.Resume.Value(nil)
		} else {
			action.Resume.Err(ResourceError(t.ID, "released more semaphore permits than were ever acquired"))
		}
		sched.Submit(t)

	case ActionGetTime:
		action.Resume.Value(sched.Now())
		sched.Submit(t)

	case ActionDelay:
		action.Resume.Value(nil)
		sched.ScheduleTimer(t, sched.Now()+action.Seconds)

	case ActionWaitUntil:
		action.Resume.Value(nil)
		sched.ScheduleTimer(t, secondsSinceEpoch(action.Deadline))

	case ActionPerformIO:
		// handled synchronously by ioHandler; never reaches here.

	case ActionAwaitExternal:
		await := func() {
			v, err := action.Awaitable.Await()
			if err != nil {
				action.Resume.Err(err)
			} else {
				action.Resume.Value(v)
			}
			sched.Submit(t)
		}
		if _, isRealtime := sched.(*RealtimeScheduler); isRealtime {
			go await()
		} else {
			await()
		}
	}
}

func applyGather(t *Task, action Action, sched Scheduler) {
	ids := make([]uint64, len(action.Futures))
	for i, f := range action.Futures {
		ids[i] = f.TaskID
	}
	frame := newGatherFrame(ids)
	t.K = t.K.push(frame)
	t.parkedFutures = append([]*Future(nil), action.Futures...)

	for i, f := range action.Futures {
		idx := i
		f.AddWaiter(t.ID, func(v any, err error) {
			top, _ := t.K.top()
			gf, ok := top.(GatherFrame)
			if !ok {
				return // gather already finalized by an earlier error
			}
			gf, results, complete := resolveGatherFrame(gf, idx, v, err)
			t.K = t.K.pop().push(gf)
			switch {
			case complete:
				t.parkedFutures = nil
				t.K = t.K.pop()
				t.Control = Pure(results)
				sched.Submit(t)
			case gf.Outstanding == 0 && gf.Err != nil:
				t.parkedFutures = nil
				t.K = t.K.pop()
				t.Control = errCtrl{err: gf.Err}
				sched.Submit(t)
			}
		})
	}
}

func applyRace(t *Task, action Action, sched Scheduler, tasks map[uint64]*Task) {
	ids := make([]uint64, len(action.Futures))
	for i, f := range action.Futures {
		ids[i] = f.TaskID
	}
	frame := newRaceFrame(ids)
	t.K = t.K.push(frame)
	t.parkedFutures = append([]*Future(nil), action.Futures...)

	for _, f := range action.Futures {
		winner := f
		f.AddWaiter(t.ID, func(v any, err error) {
			top, ok := t.K.top()
			rf, ok2 := top.(RaceFrame)
			if !ok || !ok2 || rf.Resolved {
				return
			}
			rf.Resolved = true
			t.K = t.K.pop().push(rf)
			for _, other := range action.Futures {
				if other == winner || other.Settled() {
					continue
				}
				if tk, found := tasks[other.TaskID]; found {
					tk.Cancelled = true
					if tk.parkedSem != nil {
						tk.parkedSem.CancelWaiter(tk.ID)
						tk.parkedSem = nil
					}
					for _, pf := range tk.parkedFutures {
						pf.RemoveWaiter(tk.ID)
					}
					tk.parkedFutures = nil
					tk.Future.requestCancel()
					tk.Future.Reject(TaskCancelledError(tk.ID))
				}
			}
			t.parkedFutures = nil
			t.K = t.K.pop()
			if err != nil {
				t.Control = errCtrl{err: err}
			} else {
				t.Control = Pure(v)
			}
			sched.Submit(t)
		})
	}
}

// spawnSharedChildren spawns each prog as a new child task of t, sharing
// t's Store by reference rather than a snapshot — the §5/§9 exception for
// children gathered/raced together in one call, as opposed to a plain
// SpawnProg outside any Gather/Race, which still snapshots (ActionSpawnTask
// above). Intercept propagation into each prog already happened upstream
// in dispatchPerform/wrapEmbeddedProgs before the action reached here.
func spawnSharedChildren(t *Task, progs []DoCtrl, sched Scheduler, tasks map[uint64]*Task) []*Future {
	futures := make([]*Future, len(progs))
	for i, prog := range progs {
		child := NewTask(nextTaskID(), prog, &State{Env: t.State.Env, Store: t.State.Store})
		tasks[child.ID] = child
		sched.Submit(child)
		futures[i] = child.Future
	}
	return futures
}

func secondsSinceEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// RunAsync evaluates prog on a background goroutine against a
// RealtimeScheduler (unless opts overrides the scheduler) and returns a
// channel that receives exactly one RunResult once the root task
// settles. Use it when the caller's own goroutine must not block on
// Delay/WaitUntil/Await resolving on real wall-clock time.
func RunAsync(prog DoCtrl, opts ...RunOption) <-chan RunResult {
	hasScheduler := false
	for _, o := range opts {
		cfg := &runConfig{}
		o(cfg)
		if cfg.scheduler != nil {
			hasScheduler = true
		}
	}
	if !hasScheduler {
		opts = append(opts, WithScheduler(NewRealtimeScheduler(64)))
	}

	out := make(chan RunResult, 1)
	go func() {
		out <- Run(prog, opts...)
		close(out)
	}()
	return out
}
