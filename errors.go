// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import "fmt"

// Namespace prefixes every error message the engine constructs, following
// the sentinel-error convention used across the worker-pool collaborator
// this engine's scheduler is grounded on.
const Namespace = "doeff"

// Kind distinguishes the error taxonomy of §7 without introducing a
// distinct Go type per kind — callers switch on Kind, not on type.
type Kind int

const (
	// KindUnhandledEffect: dispatch chain exhausted without a match.
	KindUnhandledEffect Kind = iota
	// KindHandlerProtocol: handler returned a malformed result.
	KindHandlerProtocol
	// KindAlreadyResumed: a single-shot continuation was invoked twice.
	KindAlreadyResumed
	// KindTaskCancelled: delivered to a cancelled task's wait point.
	KindTaskCancelled
	// KindResource: releasing more semaphore permits than acquired, or a
	// future resolved twice.
	KindResource
	// KindUser: any error propagated from user thunks or effect payloads.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindUnhandledEffect:
		return "UnhandledEffect"
	case KindHandlerProtocol:
		return "HandlerProtocolError"
	case KindAlreadyResumed:
		return "AlreadyResumedError"
	case KindTaskCancelled:
		return "TaskCancelled"
	case KindResource:
		return "ResourceError"
	case KindUser:
		return "UserError"
	default:
		return "UnknownError"
	}
}

// VMError is the concrete error type the engine itself constructs for a
// failed Result, a failed Task, or a rejected Future. It names the Kind,
// the task the error originated in, and — when relevant — the effect
// being dispatched. Errors returned by IO thunks and Awaitables reach
// those same places as returned, without a VMError around them.
type VMError struct {
	Kind   Kind
	TaskID uint64
	Effect EffectValue
	Cause  error
}

func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (task %d): %v", Namespace, e.Kind, e.TaskID, e.Cause)
	}
	return fmt.Sprintf("%s: %s (task %d)", Namespace, e.Kind, e.TaskID)
}

func (e *VMError) Unwrap() error { return e.Cause }

// UnhandledEffect reports a Perform whose dispatch chain delegated all
// the way out without a handler claiming it.
func UnhandledEffect(taskID uint64, eff EffectValue) *VMError {
	return &VMError{Kind: KindUnhandledEffect, TaskID: taskID, Effect: eff}
}

// HandlerProtocolError reports a handler returning a result the step
// engine cannot interpret (e.g. a verdict that is none of Resume, Throw,
// Delegate or PerformAction), or a step that cannot proceed (an unknown
// DoCtrl node or frame kind, or dispatch depth exceeded).
func HandlerProtocolError(taskID uint64, eff EffectValue, detail string) *VMError {
	return &VMError{Kind: KindHandlerProtocol, TaskID: taskID, Effect: eff, Cause: fmt.Errorf("%s", detail)}
}

// AlreadyResumedError reports a single-shot continuation invoked twice.
func AlreadyResumedError(taskID uint64) *VMError {
	return &VMError{Kind: KindAlreadyResumed, TaskID: taskID, Cause: fmt.Errorf("continuation already resumed")}
}

// TaskCancelledError reports delivery of cancellation to a wait point.
func TaskCancelledError(taskID uint64) *VMError {
	return &VMError{Kind: KindTaskCancelled, TaskID: taskID, Cause: fmt.Errorf("task cancelled")}
}

// ResourceError reports a semaphore/future protocol violation.
func ResourceError(taskID uint64, detail string) *VMError {
	return &VMError{Kind: KindResource, TaskID: taskID, Cause: fmt.Errorf("%s", detail)}
}

// UserError wraps an error raised from a user thunk or effect payload.
func UserError(taskID uint64, cause error) *VMError {
	return &VMError{Kind: KindUser, TaskID: taskID, Cause: cause}
}
