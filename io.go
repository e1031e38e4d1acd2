// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// ioHandler answers IO. Per the decision recorded in DESIGN.md (an IO
// thunk either fully completes or fully fails before the task resumes —
// no partial effects are ever observable across a park), the thunk is
// always run synchronously on the stepping goroutine, under both the
// simulation and the realtime driver; callers who need true off-thread
// concurrency reach for Await/Awaitable instead.
func ioHandler(op EffectValue, st *State) HandlerResult {
	io, ok := op.(IO)
	if !ok {
		return Delegate()
	}
	v, err := io.Thunk()
	if err != nil {
		return Throw(err)
	}
	return Resume(v)
}

// awaitHandler answers Await by handing the Awaitable to the driver,
// which runs it off the stepping goroutine under the realtime driver, or
// simply calls it inline under the simulation driver (where there is no
// "off thread" to speak of).
func awaitHandler(op EffectValue, st *State) HandlerResult {
	await, ok := op.(Await)
	if !ok {
		return Delegate()
	}
	return PerformAction(Action{Kind: ActionAwaitExternal, Awaitable: await.Awaitable})
}

// timeHandler answers GetTimeEffect/Delay/WaitUntil by deferring to the
// driver's Scheduler, which owns the authoritative notion of "now" — real
// wall-clock time under the realtime driver, the advancing virtual clock
// under the simulation driver.
func timeHandler(op EffectValue, st *State) HandlerResult {
	switch o := op.(type) {
	case GetTimeEffect:
		return PerformAction(Action{Kind: ActionGetTime})
	case Delay:
		return PerformAction(Action{Kind: ActionDelay, Seconds: o.Seconds})
	case WaitUntil:
		return PerformAction(Action{Kind: ActionWaitUntil, Deadline: o.Deadline})
	default:
		return Delegate()
	}
}
