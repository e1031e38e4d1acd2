// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAskResolvesBoundValue(t *testing.T) {
	prog := Perform(Ask{Key: "name"})
	result := Run(prog, WithEnv(map[string]any{"name": "doeff"}))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	require.Equal(t, "doeff", v)
}

func TestAskUnboundKeyUnhandled(t *testing.T) {
	prog := Perform(Ask{Key: "missing"})
	result := Run(prog)
	require.True(t, result.Result.IsErr())
	err, _ := result.Result.Error()
	vmerr, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, KindUnhandledEffect, vmerr.Kind)
}

func TestLocalOverridesAndRestores(t *testing.T) {
	prog := FlatMap(
		Local(map[string]any{"name": "inner"}, Perform(Ask{Key: "name"})),
		func(innerVal any) DoCtrl {
			return FlatMap(Perform(Ask{Key: "name"}), func(outerVal any) DoCtrl {
				return Pure([2]any{innerVal, outerVal})
			})
		},
	)
	result := Run(prog, WithEnv(map[string]any{"name": "outer"}))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	pair := v.([2]any)
	require.Equal(t, "inner", pair[0])
	require.Equal(t, "outer", pair[1])
}

func TestAskLazyThunkMemoizedOnce(t *testing.T) {
	calls := 0
	thunk := askThunk(func() any {
		calls++
		return calls
	})
	prog := FlatMap(Perform(Ask{Key: "slot"}), func(first any) DoCtrl {
		return FlatMap(Perform(Ask{Key: "slot"}), func(second any) DoCtrl {
			return Pure([2]any{first, second})
		})
	})
	result := Run(prog, WithEnv(map[string]any{"slot": thunk}))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	pair := v.([2]any)
	require.Equal(t, 1, pair[0])
	require.Equal(t, 1, pair[1])
	require.Equal(t, 1, calls)
}
