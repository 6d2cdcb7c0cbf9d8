package gantt

// memo caches one value for the most recent key.
type memo[K comparable, V any] struct {
	key      K
	val      V
	ok       bool
	computed int
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	if m.ok && m.key == key {
		return m.val
	}
	m.key, m.val, m.ok = key, compute(), true
	m.computed++
	return m.val
}

func (m *memo[K, V]) reset() {
	var zero V
	m.val, m.ok = zero, false
}
