// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResumeValue(t *testing.T) {
	var got any
	r := NewResume(func(v any, err error) {
		got = v
		require.NoError(t, err)
	})

	r.Value(42)
	require.Equal(t, 42, got)
}

func TestResumePanicsOnReuse(t *testing.T) {
	r := NewResume(func(any, error) {})
	r.Value(1)

	require.PanicsWithValue(t, "doeff: resume token used twice", func() {
		r.Value(2)
	})
}

func TestResumeErr(t *testing.T) {
	var gotErr error
	r := NewResume(func(v any, err error) { gotErr = err })

	wantErr := errors.New("boom")
	r.Err(wantErr)
	require.Same(t, wantErr, gotErr)
}

func TestResumeTryValueAfterUse(t *testing.T) {
	calls := 0
	r := NewResume(func(any, error) { calls++ })

	require.True(t, r.TryValue(1))
	require.False(t, r.TryValue(2))
	require.False(t, r.TryErr(errors.New("late")))
	require.Equal(t, 1, calls)
}

func TestResumeDiscard(t *testing.T) {
	r := NewResume(func(any, error) { t.Fatal("fn must not run after Discard") })
	r.Discard()
	require.False(t, r.TryValue(nil))
}
