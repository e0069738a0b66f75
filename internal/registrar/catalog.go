package registrar

// catalog is a uniquely keyed, insertion-ordered collection.
// Overwriting an existing key keeps the key's original position.
type catalog[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func newCatalog[K comparable, V any]() *catalog[K, V] {
	return &catalog[K, V]{items: make(map[K]V)}
}

func (c *catalog[K, V]) put(key K, value V) {
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = value
}

func (c *catalog[K, V]) get(key K) (V, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *catalog[K, V]) len() int {
	return len(c.keys)
}

func (c *catalog[K, V]) first() (V, bool) {
	if len(c.keys) == 0 {
		var zero V
		return zero, false
	}
	return c.items[c.keys[0]], true
}

// values returns a fresh slice in insertion order.
func (c *catalog[K, V]) values() []V {
	out := make([]V, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}
