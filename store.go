// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// Reserved store keys (§6.4). Keys beginning with "__" are owned by the
// engine; user programs should treat them as read-only except through the
// effects that manage them (Tell appends to LogKey; the Listen frame reads
// it). ClockKey is read and written only by Store.Clock/SetClock: the
// schedulers keep their own clock and do not update it. GraphKey is
// reserved and nothing in the package reads or writes it.
const (
	LogKey       = "__log__"
	GraphKey     = "__graph__"
	ClockKey     = "__clock__"
	askMemoKeyFn = "__ask_memo__:"
)

func askMemoKey(name string) string { return askMemoKeyFn + name }

// Store is the mutable, task-visible state mapping. Unlike Env it is not
// copy-on-write: mutation through Get/Put/Modify is visible to every
// DoCtrl evaluated within the same task, and — per the spawn policy
// chosen at a given spawn site — may also be visible to children.
type Store struct {
	data map[string]any
}

// NewStore builds a Store from an initial mapping, copying it defensively.
func NewStore(initial map[string]any) *Store {
	data := make(map[string]any, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &Store{data: data}
}

// Get returns the value at key and whether it was present.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Put sets key to value.
func (s *Store) Put(key string, value any) {
	s.data[key] = value
}

// Modify applies f to the current value at key (nil if absent) and stores
// the result, as a single logical transition.
func (s *Store) Modify(key string, f func(any) any) any {
	current, _ := s.data[key]
	next := f(current)
	s.data[key] = next
	return next
}

// AppendLog appends entry to the reserved writer log.
func (s *Store) AppendLog(entry any) {
	log, _ := s.data[LogKey].([]any)
	s.data[LogKey] = append(log, entry)
}

// Log returns the current writer log (never nil).
func (s *Store) Log() []any {
	log, _ := s.data[LogKey].([]any)
	if log == nil {
		return []any{}
	}
	return log
}

// LogLen returns len(Log()) without allocating — used by ListenFrame to
// mark where to start capturing from.
func (s *Store) LogLen() int {
	return len(s.Log())
}

// Snapshot returns a shallow copy of the Store for a spawned child under
// snapshot-on-spawn policy: top-level keys are copied so Put/Modify in the
// child do not mutate the parent's map, but nested mutable values (slices,
// maps) are still shared references, matching Go's normal copy semantics.
func (s *Store) Snapshot() *Store {
	data := make(map[string]any, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}
	return &Store{data: data}
}

// Clock reads the reserved simulation clock key, defaulting to zero.
func (s *Store) Clock() float64 {
	if v, ok := s.data[ClockKey].(float64); ok {
		return v
	}
	return 0
}

// SetClock writes the reserved simulation clock key.
func (s *Store) SetClock(t float64) {
	s.data[ClockKey] = t
}
