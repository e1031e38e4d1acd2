// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectValuesCarryPayload(t *testing.T) {
	require.Equal(t, "k", Ask{Key: "k"}.Key)
	require.Equal(t, "k", Get{Key: "k"}.Key)

	put := Put{Key: "k", Value: 9}
	require.Equal(t, 9, put.Value)

	mod := Modify{Key: "k", F: func(v any) any { return v.(int) + 1 }}
	require.Equal(t, 2, mod.F(1))

	tell := Tell{Entry: "log line"}
	require.Equal(t, "log line", tell.Entry)
}

func TestIOEffectThunk(t *testing.T) {
	io := IO{Thunk: func() (any, error) { return 5, nil }}
	v, err := io.Thunk()
	require.NoError(t, err)
	require.Equal(t, 5, v)
}

func TestTimeEffects(t *testing.T) {
	d := Delay{Seconds: 1.5}
	require.Equal(t, 1.5, d.Seconds)

	deadline := time.Now().Add(time.Minute)
	w := WaitUntil{Deadline: deadline}
	require.True(t, w.Deadline.Equal(deadline))
}

func TestConcurrencyEffects(t *testing.T) {
	prog := Pure(1)
	spawn := Spawn{Prog: prog}
	require.Equal(t, prog, spawn.Prog)

	fut := NewFuture(1)
	wait := Wait{Future: fut}
	require.Same(t, fut, wait.Future)

	gather := GatherEffect{Futures: []*Future{fut}}
	require.Len(t, gather.Futures, 1)

	race := RaceEffect{Futures: []*Future{fut}}
	require.Len(t, race.Futures, 1)
}

func TestSemaphoreEffects(t *testing.T) {
	create := CreateSemaphore{N: 3}
	require.Equal(t, 3, create.N)

	sem := NewSemaphore(1)
	acq := AcquireSemaphore{Sem: sem}
	rel := ReleaseSemaphore{Sem: sem}
	require.Same(t, sem, acq.Sem)
	require.Same(t, sem, rel.Sem)
}

type fakeAwaitable struct {
	value any
	err   error
}

func (f fakeAwaitable) Await() (any, error) { return f.value, f.err }

func TestAwaitEffect(t *testing.T) {
	aw := fakeAwaitable{value: "ok"}
	req := Await{Awaitable: aw}
	v, err := req.Awaitable.Await()
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}
