// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// dispatchPerform evaluates a PerformCtrl: it first runs eff through any
// InterceptFrames in scope (innermost first, §4.3), then dispatches the
// (possibly rewritten) effect through the scoped/root/builtin handler
// chain, translating the handler's verdict into the matching StepOutcome.
func dispatchPerform(task *Task, handlers *HandlerStack, eff EffectValue, depth int) StepOutcome {
	intercepts := interceptChain(task.K)
	rewritten, replacement := applyIntercepts(intercepts, eff)
	if replacement != nil {
		task.Control = replacement
		return stepDispatch(task, handlers, depth+1)
	}
	rewritten = wrapEmbeddedProgs(rewritten, intercepts)

	scoped := scopedHandlers(task.K)
	chain := handlers.chainFor(scoped)
	res, err := Dispatch(chain, rewritten, task.State, task.ID)
	if err != nil {
		return raiseError(task, handlers, err, depth+1)
	}

	switch res.kind {
	case resultResume:
		return resumeValue(task, handlers, res.value, depth+1)

	case resultThrow:
		return raiseError(task, handlers, res.err, depth+1)

	case resultAction:
		action := res.action
		action.Resume = NewResume(func(value any, err error) {
			if err != nil {
				task.Control = errCtrl{err: err}
			} else {
				task.Control = Pure(value)
			}
		})
		return StepOutcome{kind: outcomeNeedsAction, action: action}

	default:
		return failTask(HandlerProtocolError(task.ID, eff, "handler returned an unrecognized verdict"))
	}
}

// wrapEmbeddedProgs rewrites the IR payload embedded inside a composite
// effect — a spawned child's program — so it stays subject to every
// Intercept transform enclosing this dispatch site, per §4.3's "transforms
// also rewrite IR payloads embedded inside composite effects (e.g.,
// children of Gather)." Spawn counts as a composite effect too: its Prog
// is a whole embedded sub-program, not a scalar payload.
func wrapEmbeddedProgs(eff EffectValue, intercepts []InterceptTransform) EffectValue {
	if len(intercepts) == 0 {
		return eff
	}
	switch o := eff.(type) {
	case Spawn:
		o.Prog = wrapWithIntercepts(o.Prog, intercepts)
		return o
	case GatherSpawnEffect:
		o.Progs = wrapAllWithIntercepts(o.Progs, intercepts)
		return o
	case RaceSpawnEffect:
		o.Progs = wrapAllWithIntercepts(o.Progs, intercepts)
		return o
	default:
		return eff
	}
}

// wrapWithIntercepts nests prog under Intercept(..., transform) once per
// enclosing transform. intercepts is innermost-first (interceptChain's
// order); wrapping outermost-last means the freshly spawned child's own
// InterceptFrame stack — built by stepDispatch pushing one frame per
// InterceptCtrl layer it evaluates through — extracts back out via
// interceptChain in that same innermost-first order, so the child's
// effects are intercepted exactly as the parent's would have been.
func wrapWithIntercepts(prog DoCtrl, intercepts []InterceptTransform) DoCtrl {
	for _, transform := range intercepts {
		prog = Intercept(prog, transform)
	}
	return prog
}

func wrapAllWithIntercepts(progs []DoCtrl, intercepts []InterceptTransform) []DoCtrl {
	wrapped := make([]DoCtrl, len(progs))
	for i, p := range progs {
		wrapped[i] = wrapWithIntercepts(p, intercepts)
	}
	return wrapped
}

// errCtrl is an internal DoCtrl node a Resume token installs as a task's
// next Control when an outstanding Action failed, so the following
// stepDispatch call raises it through the ordinary error path instead of
// resuming with a value. It never appears in IR built by user code.
type errCtrl struct{ err error }

func (errCtrl) doCtrl() {}
