// Package cache provides an unbounded memoization map with hit/miss counters.
package cache

// Memo maps keys to computed values. Entries are never evicted.
// A Memo is not safe for concurrent use.
type Memo[K comparable, V any] struct {
	data map[K]V

	// Stats
	hits   int
	misses int
}

// New creates an empty Memo.
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves an item and records a hit or miss.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

// Set stores an item.
func (m *Memo[K, V]) Set(key K, v V) {
	m.data[key] = v
}

// GetOrCompute returns the cached value for key, or calls fn, stores its
// result and returns it. Errors from fn are returned without caching.
func (m *Memo[K, V]) GetOrCompute(key K, fn func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	m.data[key] = v
	return v, nil
}

// Len returns the number of cached entries.
func (m *Memo[K, V]) Len() int {
	return len(m.data)
}

// Each calls fn for every entry in unspecified order.
func (m *Memo[K, V]) Each(fn func(K, V)) {
	for k, v := range m.data {
		fn(k, v)
	}
}

// Stats returns cache statistics.
func (m *Memo[K, V]) Stats() Stats {
	return Stats{Hits: m.hits, Misses: m.misses, Entries: len(m.data)}
}

// Stats holds lookup counters for a Memo.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}
