// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// concurrencyHandler answers Spawn/Wait/GatherEffect/RaceEffect/Cancel by
// deferring every one of them to the driver's Scheduler (§4.6, §5):
// creating a task, parking on a future, or cancelling a sibling all
// require mutating scheduler-owned bookkeeping (the ready queue, the
// task table) that no handler may touch directly.
func concurrencyHandler(op EffectValue, st *State) HandlerResult {
	switch o := op.(type) {
	case Spawn:
		return PerformAction(Action{Kind: ActionSpawnTask, Prog: o.Prog})
	case Wait:
		return PerformAction(Action{Kind: ActionWaitFuture, Future: o.Future})
	case GatherEffect:
		return PerformAction(Action{Kind: ActionGather, Futures: o.Futures})
	case RaceEffect:
		return PerformAction(Action{Kind: ActionRace, Futures: o.Futures})
	case GatherSpawnEffect:
		return PerformAction(Action{Kind: ActionGatherSpawn, Progs: o.Progs})
	case RaceSpawnEffect:
		return PerformAction(Action{Kind: ActionRaceSpawn, Progs: o.Progs})
	case Cancel:
		return PerformAction(Action{Kind: ActionCancelTask, Task: o.Task})
	default:
		return Delegate()
	}
}

// SpawnProg builds a DoCtrl that spawns prog as a new concurrent task and
// resumes with its Future.
func SpawnProg(prog DoCtrl) DoCtrl {
	return Perform(Spawn{Prog: prog})
}

// WaitFuture builds a DoCtrl that parks until future settles and resumes
// with its value (or raises its error).
func WaitFuture(future *Future) DoCtrl {
	return Perform(Wait{Future: future})
}

// GatherAll builds a DoCtrl that waits for every future in futures and
// resumes with their values in input order (§4.6), regardless of the
// order in which the underlying tasks actually finish.
func GatherAll(futures ...*Future) DoCtrl {
	return Perform(GatherEffect{Futures: futures})
}

// RaceAll builds a DoCtrl that resumes with the first future in futures
// to settle; every other task named is cancelled.
func RaceAll(futures ...*Future) DoCtrl {
	return Perform(RaceEffect{Futures: futures})
}

// CancelTask builds a DoCtrl that requests cancellation of task.
func CancelTask(task *Task) DoCtrl {
	return Perform(Cancel{Task: task})
}

// GatherSpawn builds a DoCtrl that spawns every prog as a child task
// sharing the performer's Store by reference — not a snapshot — then
// waits for all of them and resumes with their values in input order
// (§5, §9: store sharing by reference is only in scope for children of an
// explicit Gather; a plain SpawnProg outside one still snapshots).
func GatherSpawn(progs ...DoCtrl) DoCtrl {
	return Perform(GatherSpawnEffect{Progs: progs})
}

// RaceSpawn builds a DoCtrl that spawns every prog as a child task
// sharing the performer's Store by reference, resumes with the first to
// settle, and cancels the rest.
func RaceSpawn(progs ...DoCtrl) DoCtrl {
	return Perform(RaceSpawnEffect{Progs: progs})
}

// resolveGatherFrame folds one child's settlement into an in-progress
// GatherFrame, returning the updated frame and, if every child has now
// settled without error, the ordered result slice.
func resolveGatherFrame(fr GatherFrame, idx int, value any, err error) (GatherFrame, []any, bool) {
	fr.Outstanding--
	if err != nil && fr.Err == nil {
		fr.Err = err
		fr.ErrTaskID = fr.IDs[idx]
	} else if err == nil {
		fr.Results[idx] = value
	}
	if fr.Outstanding > 0 {
		return fr, nil, false
	}
	if fr.Err != nil {
		return fr, nil, false
	}
	return fr, fr.Results, true
}

// newGatherFrame builds the initial coordination state for a Gather over
// the given task IDs.
func newGatherFrame(ids []uint64) GatherFrame {
	return GatherFrame{IDs: ids, Results: make([]any, len(ids)), Outstanding: len(ids)}
}

// newRaceFrame builds the initial coordination state for a Race over the
// given task IDs.
func newRaceFrame(ids []uint64) RaceFrame {
	return RaceFrame{IDs: ids}
}
