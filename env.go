// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Env is an immutable, shared, copy-on-write mapping from reader keys to
// values. Reader operations (Ask) read it; Local scopes a delta over it
// by producing a new Env and restoring the previous one on frame exit.
type Env struct {
	bindings map[string]any
}

// NewEnv builds an Env from an initial mapping. The caller's map is
// copied; mutating it afterward does not affect the returned Env.
func NewEnv(initial map[string]any) *Env {
	bindings := make(map[string]any, len(initial))
	for k, v := range initial {
		bindings[k] = v
	}
	return &Env{bindings: bindings}
}

// Ask returns the value bound to key and whether it was present.
func (e *Env) Ask(key string) (any, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.bindings[key]
	return v, ok
}

// With returns a new Env with delta merged over the receiver's bindings.
// The receiver is never mutated, so concurrently running sibling scopes
// (e.g. a spawned child observing a snapshot) are unaffected.
func (e *Env) With(delta map[string]any) *Env {
	merged := make(map[string]any, len(e.bindings)+len(delta))
	for k, v := range e.bindings {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] = v
	}
	return &Env{bindings: merged}
}

// Snapshot returns a defensive copy of the Env suitable for handing to a
// spawned child task — snapshot-on-spawn semantics (§5).
func (e *Env) Snapshot() *Env {
	return e.With(nil)
}
