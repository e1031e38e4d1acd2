// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import "time"

// EffectValue is opaque data identifying a semantic operation requested by
// a Perform node. The built-in families below cover reader, state,
// writer, IO, time, concurrency, semaphore, and external-async effects;
// user code may define its own effect types and handle them with a custom
// Handler — dispatch is a type switch inside the handler, not a closed
// enumeration the engine enforces.
type EffectValue any

// Site is an optional creation-site marker a Perform payload may embed
// for diagnostics. It is never semantic: two effects differing only in
// Site are otherwise identical for dispatch purposes.
type Site struct {
	File string
	Line int
}

// --- Reader family ---

// Ask requests the value bound to Key in the current environment.
type Ask struct {
	Key  string
	Site Site
}

// --- State family ---

// Get requests the current store value at Key.
type Get struct {
	Key  string
	Site Site
}

// Put replaces the store value at Key.
type Put struct {
	Key   string
	Value any
	Site  Site
}

// Modify applies F to the store value at Key and stores the result, as a
// single logical Get-then-Put transition.
type Modify struct {
	Key  string
	F    func(any) any
	Site Site
}

// --- Writer family ---

// Tell appends Entry to the writer log.
type Tell struct {
	Entry any
	Site  Site
}

// --- IO family ---

// IO performs an external synchronous side effect. Thunk's error, if any,
// propagates up the kontinuation as returned; it is not wrapped in a
// VMError.
type IO struct {
	Thunk func() (any, error)
	Site  Site
}

// --- Time family ---

// GetTimeEffect reads the current wall or simulation time.
type GetTimeEffect struct{ Site Site }

// Delay parks the performing task until Seconds have elapsed.
type Delay struct {
	Seconds float64
	Site    Site
}

// WaitUntil parks the performing task until Deadline.
type WaitUntil struct {
	Deadline time.Time
	Site     Site
}

// --- Concurrency family ---

// Spawn creates a new task running Prog and resumes the performer
// immediately with the new task's Future.
type Spawn struct {
	Prog DoCtrl
	Site Site
}

// Wait parks the performing task on Future's waiter queue.
type Wait struct {
	Future *Future
	Site   Site
}

// GatherEffect waits for every future in Futures and resumes with their
// values in input order.
type GatherEffect struct {
	Futures []*Future
	Site    Site
}

// RaceEffect waits for the first future in Futures to settle and cancels
// the rest.
type RaceEffect struct {
	Futures []*Future
	Site    Site
}

// GatherSpawnEffect spawns every program in Progs as a child task that
// shares the performing task's Store by reference (not a snapshot — §5's
// "shared-by-reference only inside an explicit Gather scope"), then waits
// for all of them and resumes with their values in input order.
type GatherSpawnEffect struct {
	Progs []DoCtrl
	Site  Site
}

// RaceSpawnEffect spawns every program in Progs as a child task sharing
// the performing task's Store by reference, resumes with the first to
// settle, and cancels the rest.
type RaceSpawnEffect struct {
	Progs []DoCtrl
	Site  Site
}

// Cancel cancels Task.
type Cancel struct {
	Task *Task
	Site Site
}

// --- Semaphore family ---

// CreateSemaphore allocates a semaphore with N permits.
type CreateSemaphore struct {
	N    int
	Site Site
}

// AcquireSemaphore acquires one permit from Sem, parking the performer at
// the tail of its FIFO waiter queue if none is available.
type AcquireSemaphore struct {
	Sem  *Semaphore
	Site Site
}

// ReleaseSemaphore releases one permit to Sem.
type ReleaseSemaphore struct {
	Sem  *Semaphore
	Site Site
}

// --- External async family ---

// Awaitable is an external asynchronous operation the realtime driver can
// await off the main scheduler goroutine.
type Awaitable interface {
	Await() (any, error)
}

// Await requests the result of an external Awaitable. Only meaningful
// under the realtime/async driver; the synchronous driver treats it as an
// ordinary (blocking) IO call.
type Await struct {
	Awaitable Awaitable
	Site      Site
}
