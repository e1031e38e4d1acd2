// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// semaphoreHandler answers CreateSemaphore/AcquireSemaphore/
// ReleaseSemaphore. Creation is pure and handled inline; acquiring or
// releasing a permit may wake a different, FIFO-earliest task and so is
// deferred to the driver's Scheduler (§4.6, §8).
func semaphoreHandler(op EffectValue, st *State) HandlerResult {
	switch o := op.(type) {
	case CreateSemaphore:
		return Resume(NewSemaphore(o.N))
	case AcquireSemaphore:
		return PerformAction(Action{Kind: ActionAcquireSemaphore, Sem: o.Sem})
	case ReleaseSemaphore:
		return PerformAction(Action{Kind: ActionReleaseSemaphore, Sem: o.Sem})
	default:
		return Delegate()
	}
}

// AcquireSem builds a DoCtrl that takes one permit from sem, parking if
// none is immediately available.
func AcquireSem(sem *Semaphore) DoCtrl {
	return Perform(AcquireSemaphore{Sem: sem})
}

// ReleaseSem builds a DoCtrl that returns one permit to sem.
func ReleaseSem(sem *Semaphore) DoCtrl {
	return Perform(ReleaseSemaphore{Sem: sem})
}

// NewSem builds a DoCtrl that allocates a semaphore with n permits.
func NewSem(n int) DoCtrl {
	return Perform(CreateSemaphore{N: n})
}
