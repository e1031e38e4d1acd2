// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// askThunk is a lazy reader binding: a value computed once, on first Ask,
// and memoized thereafter under the reserved __ask_memo__ store key
// (§4.4). Bind a key to an askThunk instead of a plain value when
// building it is expensive and it may never be asked for.
type askThunk func() any

// readerHandler answers Ask against the performing task's live Env. It is
// always present in the builtin chain (§4.4) so Ask never goes unhandled
// as long as the key was bound by Run's WithEnv option or by Local; an
// unbound key is delegated.
func readerHandler(op EffectValue, st *State) HandlerResult {
	ask, ok := op.(Ask)
	if !ok {
		return Delegate()
	}
	if memo, ok := st.Store.Get(askMemoKey(ask.Key)); ok {
		return Resume(memo)
	}
	v, ok := st.Env.Ask(ask.Key)
	if !ok {
		return Delegate()
	}
	if thunk, ok := v.(askThunk); ok {
		resolved := thunk()
		st.Store.Put(askMemoKey(ask.Key), resolved)
		return Resume(resolved)
	}
	return Resume(v)
}
