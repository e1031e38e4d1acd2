// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvAsk(t *testing.T) {
	e := NewEnv(map[string]any{"a": 1})
	v, ok := e.Ask("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = e.Ask("missing")
	require.False(t, ok)
}

func TestEnvWithDoesNotMutateReceiver(t *testing.T) {
	base := NewEnv(map[string]any{"a": 1})
	scoped := base.With(map[string]any{"a": 2, "b": 3})

	v, _ := base.Ask("a")
	require.Equal(t, 1, v)
	v, _ = scoped.Ask("a")
	require.Equal(t, 2, v)
	v, _ = scoped.Ask("b")
	require.Equal(t, 3, v)
}

func TestEnvSnapshotIsIndependentCopy(t *testing.T) {
	base := NewEnv(map[string]any{"a": 1})
	snap := base.Snapshot()
	other := snap.With(map[string]any{"a": 99})

	v, _ := base.Ask("a")
	require.Equal(t, 1, v)
	v, _ = snap.Ask("a")
	require.Equal(t, 1, v)
	v, _ = other.Ask("a")
	require.Equal(t, 99, v)
}

func TestEnvAskOnNilReceiver(t *testing.T) {
	var e *Env
	_, ok := e.Ask("a")
	require.False(t, ok)
}
