// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTellAppendsToLog(t *testing.T) {
	prog := FlatMap(Perform(Tell{Entry: "a"}), func(any) DoCtrl {
		return Perform(Tell{Entry: "b"})
	})
	result := Run(prog)
	require.Equal(t, []any{"a", "b"}, result.Store.Log())
}

func TestListenCapturesOnlyItsRegion(t *testing.T) {
	region := FlatMap(Perform(Tell{Entry: "inside-1"}), func(any) DoCtrl {
		return Perform(Tell{Entry: "inside-2"})
	})
	prog := FlatMap(Perform(Tell{Entry: "before"}), func(any) DoCtrl {
		return FlatMap(Listen(region), func(v any) DoCtrl {
			return FlatMap(Perform(Tell{Entry: "after"}), func(any) DoCtrl {
				return Pure(v)
			})
		})
	})

	result := Run(prog)
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	lr := v.(ListenResult)
	require.Equal(t, []any{"inside-1", "inside-2"}, lr.Log)
	require.Equal(t, []any{"before", "inside-1", "inside-2", "after"}, result.Store.Log())
}

func TestSafeDoesNotRollBackWritesOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := FlatMap(Perform(Tell{Entry: "before-error"}), func(any) DoCtrl {
		return Perform(IO{Thunk: func() (any, error) { return nil, boom }})
	})
	prog := Safe(failing)

	result := Run(prog)
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	res := v.(Result)
	require.True(t, res.IsErr())
	require.Equal(t, []any{"before-error"}, result.Store.Log())
}
