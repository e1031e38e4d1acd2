// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// writerHandler answers Tell by appending to the reserved writer log
// (§4.4). Capturing a slice of that log for a scoped region is the
// ListenFrame's job (see step.go's resumeValue), not this handler's —
// Tell itself is oblivious to whether it is nested inside a Listen.
func writerHandler(op EffectValue, st *State) HandlerResult {
	tell, ok := op.(Tell)
	if !ok {
		return Delegate()
	}
	st.Store.AppendLog(tell.Entry)
	return Resume(nil)
}
