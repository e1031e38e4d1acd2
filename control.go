// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// DoCtrl is the control intermediate representation the step engine
// evaluates. Every node is immutable, cheap to share, and forms a finite,
// acyclic tree — dispatch uses a type switch, not a tag field, so DoCtrl
// is a pure marker interface.
type DoCtrl interface {
	doCtrl()
}

// PureCtrl yields Value with no side effect.
type PureCtrl struct{ Value any }

func (PureCtrl) doCtrl() {}

// Pure lifts a value into the control IR.
func Pure(v any) DoCtrl { return PureCtrl{Value: v} }

// PerformCtrl requests Effect via the handler stack.
type PerformCtrl struct{ Effect EffectValue }

func (PerformCtrl) doCtrl() {}

// Perform requests an effect. This is the only source of handler dispatch.
func Perform(e EffectValue) DoCtrl { return PerformCtrl{Effect: e} }

// MapCtrl evaluates Inner and applies F to its value.
type MapCtrl struct {
	Inner DoCtrl
	F     func(any) any
}

func (MapCtrl) doCtrl() {}

// Map applies a pure function to the result of inner.
func Map(inner DoCtrl, f func(any) any) DoCtrl { return MapCtrl{Inner: inner, F: f} }

// FlatMapCtrl is monadic bind: evaluate Inner, then apply F to get the
// next program.
type FlatMapCtrl struct {
	Inner DoCtrl
	F     func(any) DoCtrl
}

func (FlatMapCtrl) doCtrl() {}

// FlatMap sequences inner into f, threading the value of inner through.
func FlatMap(inner DoCtrl, f func(any) DoCtrl) DoCtrl {
	return FlatMapCtrl{Inner: inner, F: f}
}

// CallMeta carries diagnostic metadata attached to a Call node. It is
// never semantic — only used for traces and error snapshots.
type CallMeta struct {
	Name string
	File string
	Line int
}

// CallCtrl is a lazy call: Args are evaluated left-to-right, then Kwargs
// in ascending name order, then Kernel is invoked with the materialized values to produce the
// program that is actually run.
type CallCtrl struct {
	Kernel func(args []any, kwargs map[string]any) DoCtrl
	Args   []DoCtrl
	Kwargs map[string]DoCtrl
	Meta   CallMeta
}

func (CallCtrl) doCtrl() {}

// Call builds a lazy application of kernel to the given argument
// sub-programs. Positional args evaluate first, in order; kwargs follow,
// in ascending name order.
func Call(kernel func(args []any, kwargs map[string]any) DoCtrl, args []DoCtrl, kwargs map[string]DoCtrl, meta CallMeta) DoCtrl {
	return CallCtrl{Kernel: kernel, Args: args, Kwargs: kwargs, Meta: meta}
}

// WithHandlerCtrl pushes Handler as the innermost handler for Inner's scope.
type WithHandlerCtrl struct {
	Handler Handler
	Inner   DoCtrl
}

func (WithHandlerCtrl) doCtrl() {}

// WithHandler scopes handler over inner, innermost of whatever handler
// stack was already in effect.
func WithHandler(handler Handler, inner DoCtrl) DoCtrl {
	return WithHandlerCtrl{Handler: handler, Inner: inner}
}

// LocalCtrl scopes a reader-environment delta over Inner; the prior
// environment is restored on exit regardless of success or error.
type LocalCtrl struct {
	Delta map[string]any
	Inner DoCtrl
}

func (LocalCtrl) doCtrl() {}

// Local overrides reader bindings for the duration of inner.
func Local(delta map[string]any, inner DoCtrl) DoCtrl {
	return LocalCtrl{Delta: delta, Inner: inner}
}

// ListenCtrl captures successful writer output produced while evaluating
// Inner into a ListenResult.
type ListenCtrl struct{ Inner DoCtrl }

func (ListenCtrl) doCtrl() {}

// Listen runs inner and, on success, pairs its value with the writer
// entries appended during its evaluation.
func Listen(inner DoCtrl) DoCtrl { return ListenCtrl{Inner: inner} }

// ListenResult is produced by a Listen frame on success.
type ListenResult struct {
	Value any
	Log   []any
}

// SafeCtrl converts a thrown error from Inner into an Err Result, and a
// successful value into an Ok Result. The reader environment restores on
// exit; the store is never rolled back.
type SafeCtrl struct{ Inner DoCtrl }

func (SafeCtrl) doCtrl() {}

// Safe makes inner total: it always yields a Result, never propagates.
func Safe(inner DoCtrl) DoCtrl { return SafeCtrl{Inner: inner} }

// InterceptTransform rewrites an effect payload before dispatch. Returning
// ok=false means "no change" — the effect passes through unmodified.
// Returning a non-nil replacement DoCtrl entirely replaces the Perform
// node instead of rewriting its payload.
type InterceptTransform func(EffectValue) (rewritten EffectValue, replacement DoCtrl, ok bool)

// InterceptCtrl structurally rewrites effect payloads produced while
// evaluating Inner, including payloads embedded inside composite effects
// (Gather/Race children, Local/Listen sub-programs).
type InterceptCtrl struct {
	Inner     DoCtrl
	Transform InterceptTransform
}

func (InterceptCtrl) doCtrl() {}

// Intercept rewrites effects dispatched during inner's evaluation.
func Intercept(inner DoCtrl, transform InterceptTransform) DoCtrl {
	return InterceptCtrl{Inner: inner, Transform: transform}
}
