// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Result is the sum type a Safe frame reifies a computation into: Ok
// carries a successful value, Err carries the error that would otherwise
// have propagated up the kontinuation.
type Result struct {
	ok    bool
	value any
	err   error
}

// Ok builds a successful Result.
func Ok(v any) Result { return Result{ok: true, value: v} }

// ErrResult builds a failed Result. Named to avoid colliding with the
// package's error-returning Err* constructors in errors.go.
func ErrResult(err error) Result { return Result{ok: false, err: err} }

// IsOk reports whether the result succeeded.
func (r Result) IsOk() bool { return r.ok }

// IsErr reports whether the result failed.
func (r Result) IsErr() bool { return !r.ok }

// Value returns the success value and true, or nil and false.
func (r Result) Value() (any, bool) {
	if r.ok {
		return r.value, true
	}
	return nil, false
}

// Error returns the failure error and true, or nil and false.
func (r Result) Error() (error, bool) {
	if !r.ok {
		return r.err, true
	}
	return nil, false
}
