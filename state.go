// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// stateHandler answers Get/Put/Modify against the performing task's live
// Store (§4.4). Mutation is immediate and visible to every subsequent
// effect within the task, and — under snapshot-on-spawn — to children
// spawned afterward, but never retroactively to the parent.
func stateHandler(op EffectValue, st *State) HandlerResult {
	switch o := op.(type) {
	case Get:
		v, _ := st.Store.Get(o.Key)
		return Resume(v)
	case Put:
		st.Store.Put(o.Key, o.Value)
		return Resume(nil)
	case Modify:
		return Resume(st.Store.Modify(o.Key, o.F))
	default:
		return Delegate()
	}
}
