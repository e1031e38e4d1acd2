// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package doeff is a CESK-style virtual machine for algebraic effects.
//
// The engine evaluates a first-class control intermediate representation
// ([DoCtrl]) against a (Control, Environment, Store, Kontinuation) machine
// state and dispatches user-defined effects ([EffectValue]) through an
// ordered stack of [Handler] values. On top of the single-step engine sits
// a cooperative task scheduler: tasks spawn, park on futures, semaphores
// and timers, and resume when a [Scheduler] decides they are ready.
//
// # Control IR
//
// Programs are built from a small set of constructors rather than authored
// with host-language generators:
//
//   - [Pure]: lift a value with no effect
//   - [Perform]: request an effect through the handler stack
//   - [Map] / [FlatMap]: functor / monadic bind over the IR
//   - [Call]: lazy application of a kernel to argument sub-trees
//   - [WithHandler]: push a handler scope
//   - [Local]: scope a reader-environment override
//   - [Listen]: capture writer output produced by an inner program
//   - [Safe]: reify thrown errors as [Result] values
//   - [Intercept]: rewrite effect payloads produced by an inner program
//
// # Handlers and dispatch
//
// A [Handler] decides how to fulfill an [EffectValue]: resume the
// performer, throw into it, delegate to the next outer handler, or request
// an external action from the driver. Dispatch is innermost-first; see
// [HandlerStack] and [Dispatch].
//
// # Stepping and drivers
//
// [Step] advances one task until it pushes a frame, requests an external
// action, or terminates; see [StepOutcome].
// [Run] drives a program to completion on a synchronous, single-goroutine
// scheduler loop. [RunAsync] does the same against a real wall clock and
// real external awaits on a background goroutine, returning at once a
// channel that receives the result when the program's root task settles.
//
// # Concurrency
//
// [SpawnProg], futures, [GatherAll], [RaceAll], [WaitFuture], [CancelTask],
// and FIFO semaphores ([NewSem], [AcquireSem], [ReleaseSem]) are effect
// families dispatched by the built-in concurrency handler, which emits
// driver [Action] values rather than mutating scheduler state directly —
// the scheduler remains the single owner of the ready queue, the timed
// queue, and every waiter set.
package doeff
