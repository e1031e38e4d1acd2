// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Frame is one entry in a task's Kontinuation: it describes what to do
// with a value or an error produced by the focused computation. Dispatch
// over frame kinds uses a type switch, not a tag field, so Frame is a
// pure marker interface — the same defunctionalization style the control
// IR uses for DoCtrl.
type Frame interface {
	frame()
}

// Kontinuation is the ordered frame stack for a task. The last element is
// the top — innermost — frame; ReturnFrame always sits at index 0.
type Kontinuation []Frame

// push returns k with f pushed as the new innermost frame.
func (k Kontinuation) push(f Frame) Kontinuation {
	return append(k, f)
}

// top returns the innermost frame and whether the stack is non-empty.
func (k Kontinuation) top() (Frame, bool) {
	if len(k) == 0 {
		return nil, false
	}
	return k[len(k)-1], true
}

// pop returns the stack with the innermost frame removed.
func (k Kontinuation) pop() Kontinuation {
	if len(k) == 0 {
		return k
	}
	return k[:len(k)-1]
}

// BindFrame resumes with a value v, producing new IR via F(v).
type BindFrame struct{ F func(any) DoCtrl }

func (BindFrame) frame() {}

// MapFrame applies a pure function to the resumed value.
type MapFrame struct{ F func(any) any }

func (MapFrame) frame() {}

// HandlerFrame is a scope marker: delegation search passes through
// HandlerFrames from innermost to outermost.
type HandlerFrame struct{ Handler Handler }

func (HandlerFrame) frame() {}

// LocalFrame restores EnvPrev on either a value or an error.
type LocalFrame struct{ EnvPrev *Env }

func (LocalFrame) frame() {}

// ListenFrame marks where writer capture began. On a value it wraps the
// result into a ListenResult; on an error it discards the capture and
// rethrows.
type ListenFrame struct{ LogMark int }

func (ListenFrame) frame() {}

// SafeFrame reifies the inner computation: a value becomes Ok(value); an
// error restores EnvPrev and becomes Err(error).
type SafeFrame struct{ EnvPrev *Env }

func (SafeFrame) frame() {}

// InterceptFrame rewrites effect payloads dispatched within its scope.
type InterceptFrame struct{ Transform InterceptTransform }

func (InterceptFrame) frame() {}

// ReturnFrame sits at the bottom of every task's Kontinuation: it
// publishes the terminal value or error to the task's Future.
type ReturnFrame struct{ TaskID uint64 }

func (ReturnFrame) frame() {}

// GatherFrame coordinates the children of a Gather effect. Results holds
// a slot per child, filled in as each settles; Outstanding counts how
// many have not yet settled. Err holds the first child error, if any —
// Gather re-raises it once every running child has stopped (§4.6, §7).
type GatherFrame struct {
	IDs         []uint64
	Results     []any
	Outstanding int
	Err         error
	ErrTaskID   uint64
}

func (GatherFrame) frame() {}

// RaceFrame coordinates the children of a Race effect: the first child to
// settle wins and the rest are cancelled.
type RaceFrame struct {
	IDs      []uint64
	Resolved bool
}

func (RaceFrame) frame() {}
