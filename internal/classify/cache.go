package classify

import "sync"

// memoTable is a bounded, thread-safe memo for pure string predicates. The
// same titles and locations recur constantly within a run, so caching the
// verdict by exact input string is a pure speed win. Eviction just drops
// arbitrary entries down to half capacity; correctness never depends on
// what stays cached.
type memoTable struct {
	mu  sync.Mutex
	max int
	m   map[string]bool
}

func newMemoTable(max int) *memoTable {
	return &memoTable{max: max, m: make(map[string]bool, max)}
}

func (t *memoTable) lookup(key string, fn func(string) bool) bool {
	t.mu.Lock()
	if v, ok := t.m[key]; ok {
		t.mu.Unlock()
		return v
	}
	t.mu.Unlock()

	v := fn(key)

	t.mu.Lock()
	if len(t.m) >= t.max {
		for k := range t.m {
			delete(t.m, k)
			if len(t.m) <= t.max/2 {
				break
			}
		}
	}
	t.m[key] = v
	t.mu.Unlock()
	return v
}

func (t *memoTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}
