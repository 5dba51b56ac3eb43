package value

// Context is a FEEL context: an ordered map from name to Value. Order is
// significant for iteration and for textual serialisation (spec §3) even
// though key lookup itself is unordered; entries are stored in a slice
// rather than a Go map so insertion order survives.
type Context struct {
	entries []ctxEntry
	index   map[string]int
}

type ctxEntry struct {
	Key   string
	Value Value
}

func (Context) Kind() Kind { return KindContext }
func (Context) isValue()   {}

// NewContext returns an empty context ready for Set calls.
func NewContext() Context {
	return Context{index: make(map[string]int)}
}

// Set adds or overwrites an entry. Overwriting an existing key keeps its
// original position, matching how repeated context entry names behave
// under "last write wins" (spec §3).
func (c *Context) Set(key string, v Value) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].Value = v
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, ctxEntry{Key: key, Value: v})
}

// Get looks up a key, returning (value, true) if present.
func (c Context) Get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// GetOrNull is Get with a null fallback for entry access semantics where
// a missing key is null rather than an error (spec §4.5/§8.7).
func (c Context) GetOrNull(key string) Value {
	if v, ok := c.Get(key); ok {
		return v
	}
	return Nil
}

// Keys returns the entry names in insertion order.
func (c Context) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (c Context) Len() int { return len(c.entries) }

// Each calls fn for every entry in insertion order.
func (c Context) Each(fn func(key string, v Value)) {
	for _, e := range c.entries {
		fn(e.Key, e.Value)
	}
}

// Merge returns a new context containing c's entries followed by other's,
// with other's values winning on key collisions but c's position for
// those keys preserved (spec §4.5 context merge "+").
func (c Context) Merge(other Context) Context {
	out := NewContext()
	c.Each(func(k string, v Value) { out.Set(k, v) })
	other.Each(func(k string, v Value) { out.Set(k, v) })
	return out
}

// AsContext returns the Context and true if v is a FEEL context.
func AsContext(v Value) (Context, bool) {
	c, ok := v.(Context)
	return c, ok
}
