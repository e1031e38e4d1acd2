// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPutRoundTrip(t *testing.T) {
	prog := FlatMap(Perform(Put{Key: "n", Value: 1}), func(any) DoCtrl {
		return Perform(Get{Key: "n"})
	})
	result := Run(prog, WithStore(map[string]any{"n": 0}))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	require.Equal(t, 1, v)
}

func TestModifyAppliesFunction(t *testing.T) {
	inc := func(v any) any { return v.(int) + 1 }
	prog := Perform(Modify{Key: "n", F: inc})
	result := Run(prog, WithStore(map[string]any{"n": 41}))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	require.Equal(t, 42, v)
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	prog := Perform(Get{Key: "absent"})
	result := Run(prog)
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	require.Nil(t, v)
}

func TestStoreMutationVisibleInFinalStore(t *testing.T) {
	prog := Perform(Put{Key: "n", Value: 99})
	result := Run(prog)
	v, ok := result.Store.Get("n")
	require.True(t, ok)
	require.Equal(t, 99, v)
}

func TestStoreSnapshotIsShallowCopy(t *testing.T) {
	s := NewStore(map[string]any{"n": 1})
	snap := s.Snapshot()
	snap.Put("n", 2)
	v, _ := s.Get("n")
	require.Equal(t, 1, v)
}
