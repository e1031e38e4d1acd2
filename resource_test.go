// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBracketReleasesOnSuccess(t *testing.T) {
	acquire := Pure("resource")
	release := func(r any) DoCtrl {
		return Perform(Tell{Entry: "released:" + r.(string)})
	}
	use := func(r any) DoCtrl {
		return Pure("used:" + r.(string))
	}

	result := Run(Bracket(acquire, release, use))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	res := v.(Result)
	require.True(t, res.IsOk())
	val, _ := res.Value()
	require.Equal(t, "used:resource", val)
	require.Equal(t, []any{"released:resource"}, result.Store.Log())
}

func TestBracketReleasesOnFailure(t *testing.T) {
	boom := errors.New("use failed")
	acquire := Pure("resource")
	release := func(r any) DoCtrl {
		return Perform(Tell{Entry: "released:" + r.(string)})
	}
	use := func(r any) DoCtrl {
		return Perform(IO{Thunk: func() (any, error) { return nil, boom }})
	}

	result := Run(Bracket(acquire, release, use))
	require.True(t, result.Result.IsOk())
	v, _ := result.Result.Value()
	res := v.(Result)
	require.True(t, res.IsErr())
	require.Equal(t, []any{"released:resource"}, result.Store.Log())
}

func TestOnErrorRunsCleanupAndRethrows(t *testing.T) {
	boom := errors.New("body failed")
	body := Perform(IO{Thunk: func() (any, error) { return nil, boom }})
	cleanup := func(err error) DoCtrl {
		return Perform(Tell{Entry: "cleanup:" + err.Error()})
	}

	result := Run(OnError(body, cleanup))
	require.True(t, result.Result.IsErr())
	require.Equal(t, []any{"cleanup:body failed"}, result.Store.Log())
}

func TestOnErrorSkipsCleanupOnSuccess(t *testing.T) {
	body := Pure("ok")
	cleanup := func(error) DoCtrl {
		return Perform(Tell{Entry: "should-not-run"})
	}

	result := Run(OnError(body, cleanup))
	require.True(t, result.Result.IsOk())
	require.Empty(t, result.Store.Log())
}

func TestTimeoutResolvesWhenWorkFinishesFirst(t *testing.T) {
	fast := Pure("done")
	result := Run(Timeout(fast, 10))
	require.True(t, result.Result.IsOk())
}
