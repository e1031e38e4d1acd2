// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTaskSeedsReturnFrameAndFuture(t *testing.T) {
	st := &State{Env: NewEnv(nil), Store: NewStore(nil)}
	task := NewTask(1, Pure(7), st)

	require.Equal(t, uint64(1), task.ID)
	require.False(t, task.Finished())
	require.Equal(t, 1, len(task.K))
	require.Equal(t, ReturnFrame{TaskID: 1}, task.K[0])
	require.Equal(t, uint64(1), task.Future.TaskID)
}

func TestFutureResolveSettlesOnce(t *testing.T) {
	f := NewFuture(1)
	require.False(t, f.Settled())

	f.Resolve(42)
	require.True(t, f.Settled())
	v, err, done := f.Result()
	require.True(t, done)
	require.Nil(t, err)
	require.Equal(t, 42, v)

	require.PanicsWithError(t, ResourceError(1, "future resolved twice").Error(), func() { f.Resolve(99) })
	v, _, _ = f.Result()
	require.Equal(t, 42, v, "the first settled value must survive a rejected second settle")
}

func TestFutureRejectTwicePanics(t *testing.T) {
	f := NewFuture(1)
	f.Resolve(1)
	require.PanicsWithError(t, ResourceError(1, "future resolved twice").Error(), func() { f.Reject(errors.New("too late")) })
}

func TestFutureRejectSettlesWithError(t *testing.T) {
	f := NewFuture(1)
	cause := errors.New("boom")
	f.Reject(cause)

	_, err, done := f.Result()
	require.True(t, done)
	require.Same(t, cause, err)
}

func TestFutureAddWaiterBeforeSettleNotifiesOnResolve(t *testing.T) {
	f := NewFuture(1)
	var got any
	notified := false
	f.AddWaiter(2, func(v any, err error) {
		notified = true
		got = v
	})
	require.False(t, notified)

	f.Resolve("done")
	require.True(t, notified)
	require.Equal(t, "done", got)
}

func TestFutureAddWaiterAfterSettleNotifiesImmediately(t *testing.T) {
	f := NewFuture(1)
	f.Resolve("done")

	notified := false
	f.AddWaiter(2, func(v any, err error) { notified = true })
	require.True(t, notified)
}

func TestFutureWaitersServedFIFO(t *testing.T) {
	f := NewFuture(1)
	var order []uint64
	f.AddWaiter(2, func(v any, err error) { order = append(order, 2) })
	f.AddWaiter(3, func(v any, err error) { order = append(order, 3) })
	f.AddWaiter(4, func(v any, err error) { order = append(order, 4) })

	f.Resolve(nil)
	require.Equal(t, []uint64{2, 3, 4}, order)
}

func TestFutureCancelledLifecycle(t *testing.T) {
	f := NewFuture(1)
	require.False(t, f.Cancelled())

	f.requestCancel()
	require.True(t, f.Cancelled())

	// idempotent
	f.requestCancel()
	require.True(t, f.Cancelled())
}
