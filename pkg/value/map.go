package value

// Map is an insertion-ordered string-keyed mapping.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set stores value under key. Re-setting an existing key replaces its value
// but keeps its original position.
func (m *Map) Set(key string, value Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Lookup returns the value stored under key, or null.
func (m *Map) Lookup(key string) Value {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Each calls fn for every entry in insertion order, stopping when fn returns
// false.
func (m *Map) Each(fn func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Clone returns a shallow copy; nested values are immutable so sharing them is
// safe.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Each(func(key string, value Value) bool {
		out.Set(key, value)
		return true
	})
	return out
}

// Interface converts the map to map[string]any, dropping order.
func (m *Map) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(key string, value Value) bool {
		out[key] = value.Interface()
		return true
	})
	return out
}

// Equal reports deep equality including key order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, key := range m.keys {
		if o.keys[i] != key {
			return false
		}
		if !m.values[key].Equal(o.values[key]) {
			return false
		}
	}
	return true
}
