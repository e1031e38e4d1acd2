// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Semaphore is a counting semaphore with a strict FIFO waiter queue
// (§4.6, §8): the permit released always goes to whichever waiter parked
// first, never to whichever goroutine happens to wake first.
type Semaphore struct {
	ID      string
	permits int
	waiting []*semWaiter

	// outstanding counts permits currently held by some task (granted via
	// Acquire, not yet returned via Release). permits+outstanding is
	// invariant across Acquire/Release; Release with outstanding==0 is an
	// over-release (§7 ResourceError) rather than a free permit.
	outstanding int
}

type semWaiter struct {
	taskID uint64
	notify func()
}

// NewSemaphore allocates a semaphore with n permits available.
func NewSemaphore(n int) *Semaphore {
	return &Semaphore{ID: newID(), permits: n}
}

// Acquire attempts to take one permit immediately. If none is available,
// notify is queued and called exactly once, when a permit is eventually
// released to this waiter; ok reports whether the permit was granted
// synchronously.
func (s *Semaphore) Acquire(taskID uint64, notify func()) (ok bool) {
	if s.permits > 0 {
		s.permits--
		s.outstanding++
		return true
	}
	s.waiting = append(s.waiting, &semWaiter{taskID: taskID, notify: notify})
	return false
}

// CancelWaiter drops the queued waiter for taskID, if still parked,
// reporting whether one was found. Used so a task cancelled while parked
// on a semaphore is removed from the waiter queue and never consumes a
// permit (§5(a), Testable Property #10).
func (s *Semaphore) CancelWaiter(taskID uint64) bool {
	for i, w := range s.waiting {
		if w.taskID == taskID {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// Release returns one permit. If a waiter is queued it is handed the
// permit directly (woken via notify) rather than the permit count being
// incremented, preserving FIFO order under contention. ok is false if more
// permits have now been released than were ever acquired — an over-release
// protocol violation (§7) the caller should surface as a ResourceError
// instead of accepting as a free permit.
func (s *Semaphore) Release() (ok bool) {
	if s.outstanding == 0 {
		return false
	}
	s.outstanding--
	if len(s.waiting) > 0 {
		w := s.waiting[0]
		s.waiting = s.waiting[1:]
		s.outstanding++
		w.notify()
		return true
	}
	s.permits++
	return true
}

// Available reports the current uncontended permit count.
func (s *Semaphore) Available() int { return s.permits }

// Queued reports how many tasks are currently parked on this semaphore.
func (s *Semaphore) Queued() int { return len(s.waiting) }
