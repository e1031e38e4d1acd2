// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import "sort"

// State is the (Environment, Store) pair threaded through one task's
// evaluation. Env is swapped wholesale by Local/Safe frame entry and
// restored on exit; Store is mutated in place.
type State struct {
	Env   *Env
	Store *Store
}

// outcomeKind tags which of the four StepOutcome shapes a step produced.
type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeNeedsAction
	outcomeDone
	outcomeFailed
)

// StepOutcome is the result of advancing one task by one Step (§4.1);
// see Step for where a step ends.
type StepOutcome struct {
	kind   outcomeKind
	action Action
	value  any
	err    error
}

// Continuing reports whether the engine may call Step again immediately
// (no external action is pending and the task has not terminated).
func (o StepOutcome) Continuing() bool { return o.kind == outcomeContinue }

// NeedsAction reports the pending Action and true, or a zero Action and
// false if no external action was requested.
func (o StepOutcome) NeedsAction() (Action, bool) {
	if o.kind == outcomeNeedsAction {
		return o.action, true
	}
	return Action{}, false
}

// Done reports the terminal value and true if the task completed.
func (o StepOutcome) Done() (any, bool) {
	if o.kind == outcomeDone {
		return o.value, true
	}
	return nil, false
}

// Failed reports the terminal error and true if the task failed.
func (o StepOutcome) Failed() (error, bool) {
	if o.kind == outcomeFailed {
		return o.err, true
	}
	return nil, false
}

// maxDispatchDepth bounds recursive handler-to-handler re-dispatch within
// a single Step call (a handler whose returned IR immediately performs
// another effect, forever). It exists purely to turn an infinite loop
// into a diagnosable error; ordinary programs never approach it.
const maxDispatchDepth = 10000

// Step advances task against handlers (the root HandlerStack) and returns
// the resulting StepOutcome, mutating task's Control/K-stack/State in
// place to reflect the new focus. A step ends when a node pushes a frame,
// a handler requests an Action, or the task terminates; delivering a
// value through frames and dispatching effects happen within the same
// call, so one Step can perform several reductions.
func Step(task *Task, handlers *HandlerStack) StepOutcome {
	return stepDispatch(task, handlers, 0)
}

func stepDispatch(task *Task, handlers *HandlerStack, depth int) StepOutcome {
	if depth > maxDispatchDepth {
		return failTask(HandlerProtocolError(task.ID, nil, "dispatch depth exceeded; likely a handler re-performing without progress"))
	}

	switch ctrl := task.Control.(type) {
	case PureCtrl:
		return resumeValue(task, handlers, ctrl.Value, depth)

	case PerformCtrl:
		return dispatchPerform(task, handlers, ctrl.Effect, depth)

	case errCtrl:
		return raiseError(task, handlers, ctrl.err, depth)

	case MapCtrl:
		task.K = task.K.push(MapFrame{F: ctrl.F})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case FlatMapCtrl:
		task.K = task.K.push(BindFrame{F: ctrl.F})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case CallCtrl:
		return stepCall(task, ctrl)

	case WithHandlerCtrl:
		task.K = task.K.push(HandlerFrame{Handler: ctrl.Handler})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case LocalCtrl:
		prevEnv := task.State.Env
		task.K = task.K.push(LocalFrame{EnvPrev: prevEnv})
		task.State.Env = prevEnv.With(ctrl.Delta)
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case ListenCtrl:
		task.K = task.K.push(ListenFrame{LogMark: task.State.Store.LogLen()})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case SafeCtrl:
		task.K = task.K.push(SafeFrame{EnvPrev: task.State.Env})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	case InterceptCtrl:
		task.K = task.K.push(InterceptFrame{Transform: ctrl.Transform})
		task.Control = ctrl.Inner
		return StepOutcome{kind: outcomeContinue}

	default:
		return failTask(HandlerProtocolError(task.ID, nil, "unknown DoCtrl node"))
	}
}

// stepCall evaluates a Call node's argument IRs left-to-right before
// invoking Kernel. It is implemented as a rewrite into nested FlatMap
// nodes rather than its own frame kind, keeping the frame set exactly the
// one named by §3.4.
func stepCall(task *Task, ctrl CallCtrl) StepOutcome {
	task.Control = buildCallChain(ctrl, 0, nil, make(map[string]any, len(ctrl.Kwargs)))
	return StepOutcome{kind: outcomeContinue}
}

func buildCallChain(ctrl CallCtrl, argIdx int, args []any, kwargs map[string]any) DoCtrl {
	if argIdx < len(ctrl.Args) {
		return FlatMap(ctrl.Args[argIdx], func(v any) DoCtrl {
			return buildCallChain(ctrl, argIdx+1, append(args, v), kwargs)
		})
	}
	pending := make([]string, 0, len(ctrl.Kwargs))
	for name := range ctrl.Kwargs {
		pending = append(pending, name)
	}
	sort.Strings(pending)
	return buildKwargChain(ctrl, pending, args, kwargs)
}

func buildKwargChain(ctrl CallCtrl, pending []string, args []any, kwargs map[string]any) DoCtrl {
	if len(pending) == 0 {
		return ctrl.Kernel(args, kwargs)
	}
	name := pending[0]
	return FlatMap(ctrl.Kwargs[name], func(v any) DoCtrl {
		kwargs[name] = v
		return buildKwargChain(ctrl, pending[1:], args, kwargs)
	})
}

// resumeValue delivers a value to the innermost frame, per the reduction
// table's Pure(v) row.
func resumeValue(task *Task, handlers *HandlerStack, v any, depth int) StepOutcome {
	f, ok := task.K.top()
	if !ok {
		return StepOutcome{kind: outcomeDone, value: v}
	}
	task.K = task.K.pop()

	switch fr := f.(type) {
	case BindFrame:
		task.Control = fr.F(v)
		return stepDispatch(task, handlers, depth)

	case MapFrame:
		task.Control = Pure(fr.F(v))
		return stepDispatch(task, handlers, depth)

	case HandlerFrame:
		return resumeValue(task, handlers, v, depth)

	case LocalFrame:
		task.State.Env = fr.EnvPrev
		return resumeValue(task, handlers, v, depth)

	case ListenFrame:
		full := task.State.Store.Log()
		captured := append([]any(nil), full[fr.LogMark:]...)
		return resumeValue(task, handlers, ListenResult{Value: v, Log: captured}, depth)

	case SafeFrame:
		return resumeValue(task, handlers, Ok(v), depth)

	case InterceptFrame:
		return resumeValue(task, handlers, v, depth)

	case ReturnFrame:
		return StepOutcome{kind: outcomeDone, value: v}

	case GatherFrame, RaceFrame:
		// Gather/Race frames are resolved out-of-band by the scheduler as
		// children settle (see concurrency.go); a direct value resumption
		// through one of them means the frame's coordination already
		// completed and produced v as the aggregate result.
		return resumeValue(task, handlers, v, depth)

	default:
		return failTask(HandlerProtocolError(task.ID, nil, "unknown frame kind on value resumption"))
	}
}

// raiseError walks err up the kontinuation per §4.1/§7: SafeFrame catches
// (restoring Env) and yields Err(err); LocalFrame restores Env and
// re-raises; ListenFrame discards captures and re-raises; ReturnFrame
// fails the task.
func raiseError(task *Task, handlers *HandlerStack, err error, depth int) StepOutcome {
	f, ok := task.K.top()
	if !ok {
		return StepOutcome{kind: outcomeFailed, err: err}
	}
	task.K = task.K.pop()

	switch fr := f.(type) {
	case SafeFrame:
		task.State.Env = fr.EnvPrev
		return resumeValue(task, handlers, ErrResult(err), depth)

	case LocalFrame:
		task.State.Env = fr.EnvPrev
		return raiseError(task, handlers, err, depth)

	case ReturnFrame:
		return StepOutcome{kind: outcomeFailed, err: err}

	default:
		// BindFrame, MapFrame, HandlerFrame, ListenFrame, InterceptFrame,
		// GatherFrame, RaceFrame: none reify an error, all just unwind.
		return raiseError(task, handlers, err, depth)
	}
}

func failTask(err error) StepOutcome {
	return StepOutcome{kind: outcomeFailed, err: err}
}
