// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Bracket runs acquire, then use on the acquired resource, then release —
// release always runs, whether use succeeded or raised, mirroring the
// teacher's generic Bracket but reified over Result instead of Either,
// since this engine has one concrete error channel, not a user type
// parameter per call site.
func Bracket(acquire DoCtrl, release func(any) DoCtrl, use func(any) DoCtrl) DoCtrl {
	return FlatMap(acquire, func(resource any) DoCtrl {
		return FlatMap(Safe(use(resource)), func(used any) DoCtrl {
			result := used.(Result)
			return FlatMap(release(resource), func(any) DoCtrl {
				return Pure(result)
			})
		})
	})
}

// OnError runs cleanup only if body raises, then re-raises the original
// error; a successful body's value passes through untouched.
func OnError(body DoCtrl, cleanup func(error) DoCtrl) DoCtrl {
	return FlatMap(Safe(body), func(v any) DoCtrl {
		result := v.(Result)
		if result.IsOk() {
			value, _ := result.Value()
			return Pure(value)
		}
		cause, _ := result.Error()
		return FlatMap(cleanup(cause), func(any) DoCtrl {
			return Perform(IO{Thunk: func() (any, error) { return nil, cause }})
		})
	})
}

// Timeout races prog against a Delay of seconds; if the delay wins, prog
// is cancelled and the returned DoCtrl raises a KindResource VMError.
// Built entirely from the concurrency, time and IO effect families — it
// adds no new IR or frame kind of its own.
func Timeout(prog DoCtrl, seconds float64) DoCtrl {
	return FlatMap(SpawnProg(prog), func(workAny any) DoCtrl {
		work := workAny.(*Future)
		timeoutProg := FlatMap(Perform(Delay{Seconds: seconds}), func(any) DoCtrl {
			return Perform(IO{Thunk: func() (any, error) {
				return nil, ResourceError(work.TaskID, "timed out")
			}})
		})
		return FlatMap(SpawnProg(timeoutProg), func(alarmAny any) DoCtrl {
			alarm := alarmAny.(*Future)
			return RaceAll(work, alarm)
		})
	})
}
