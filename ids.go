// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// taskIDSeq is the monotonic source of Task IDs (§3.5): tasks are ordered
// by creation, which trace output and Gather bookkeeping rely on, so
// unlike Future and Semaphore identity they cannot be random.
var taskIDSeq uint64

// nextTaskID returns the next monotonically increasing task identifier,
// starting at 1 so the zero value never names a real task.
func nextTaskID() uint64 {
	return atomic.AddUint64(&taskIDSeq, 1)
}

// newID returns a random identifier for a Future or Semaphore, neither of
// which needs creation-order comparability.
func newID() string {
	return uuid.NewString()
}
