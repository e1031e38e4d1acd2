// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func taskWithID(id uint64) *Task {
	return NewTask(id, Pure(nil), &State{Env: NewEnv(nil), Store: NewStore(nil)})
}

func TestFIFOSchedulerOrdersByArrival(t *testing.T) {
	s := NewFIFOScheduler()
	s.Submit(taskWithID(1))
	s.Submit(taskWithID(2))
	s.Submit(taskWithID(3))

	var order []uint64
	for s.Len() > 0 {
		task, ok := s.Next()
		require.True(t, ok)
		order = append(order, task.ID)
	}
	require.Equal(t, []uint64{1, 2, 3}, order)
}

func TestSimulationSchedulerIsLIFO(t *testing.T) {
	s := NewSimulationScheduler()
	s.Submit(taskWithID(1))
	s.Submit(taskWithID(2))
	s.Submit(taskWithID(3))

	var order []uint64
	for s.Len() > 0 {
		task, ok := s.Next()
		require.True(t, ok)
		order = append(order, task.ID)
	}
	require.Equal(t, []uint64{3, 2, 1}, order)
}

func TestPrioritySchedulerOrdersByPriorityThenArrival(t *testing.T) {
	s := NewPriorityScheduler()
	low := taskWithID(1)
	low.Priority = 5
	mid := taskWithID(2)
	mid.Priority = 1
	high := taskWithID(3)
	high.Priority = 1

	s.Submit(low)
	s.Submit(mid)
	s.Submit(high)

	var order []uint64
	for s.Len() > 0 {
		task, ok := s.Next()
		require.True(t, ok)
		order = append(order, task.ID)
	}
	// mid and high share priority 1, so arrival order breaks the tie, and
	// low (priority 5) drains last.
	require.Equal(t, []uint64{2, 3, 1}, order)
}

func TestNextOnEmptySchedulerReturnsFalse(t *testing.T) {
	s := NewFIFOScheduler()
	_, ok := s.Next()
	require.False(t, ok)
}

func TestScheduleTimerFiresInOrderOnAdvanceTime(t *testing.T) {
	s := NewFIFOScheduler()
	later := taskWithID(2)
	sooner := taskWithID(1)
	s.ScheduleTimer(later, 5.0)
	s.ScheduleTimer(sooner, 1.0)

	now, advanced := s.AdvanceTime()
	require.True(t, advanced)
	require.Equal(t, 1.0, now)
	task, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, uint64(1), task.ID)
	_, ok = s.Next()
	require.False(t, ok, "the timer at t=5 has not elapsed yet")
}

func TestAdvanceTimeWithNoTimersReportsNotAdvanced(t *testing.T) {
	s := NewFIFOScheduler()
	now, advanced := s.AdvanceTime()
	require.False(t, advanced)
	require.Equal(t, 0.0, now)
}

func TestRealtimeSchedulerSubmitAndNext(t *testing.T) {
	s := NewRealtimeScheduler(4)
	s.Submit(taskWithID(1))
	task, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, uint64(1), task.ID)

	_, ok = s.Next()
	require.False(t, ok)
}

func TestRealtimeSchedulerTimerFiresAfterDelay(t *testing.T) {
	s := NewRealtimeScheduler(1)
	s.SetNow(float64(time.Now().UnixNano()) / 1e9)
	s.ScheduleTimer(taskWithID(1), s.Now())

	require.Eventually(t, func() bool {
		_, ok := s.Next()
		return ok
	}, time.Second, 5*time.Millisecond)
}
