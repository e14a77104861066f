package tagged

import "regexp"

// Collection is an ordered, name-indexed set of entries.
//
// Extending with a name that is already present replaces the existing
// entry in place: iteration order keeps the original position and the old
// entry is dropped. Lookup by name is O(1). A Collection holds no external
// resources; it is safe to share read-only but not for concurrent
// mutation.
type Collection struct {
	entries []*Entry
	index   map[string]int
}

// NewCollection builds a collection from the given entries in order.
func NewCollection(entries ...*Entry) *Collection {
	c := &Collection{index: make(map[string]int)}
	c.Extend(entries...)
	return c
}

// Collect drains a Reader into a new collection. The first entry error
// aborts the drain and is returned as-is.
func Collect(r *Reader) (*Collection, error) {
	entries, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return NewCollection(entries...), nil
}

// Extend appends entries in order. An entry whose name is already indexed
// replaces the previous one at its original position.
func (c *Collection) Extend(entries ...*Entry) {
	for _, e := range entries {
		if i, ok := c.index[e.Name()]; ok {
			c.entries[i] = e
			continue
		}
		c.index[e.Name()] = len(c.entries)
		c.entries = append(c.entries, e)
	}
}

// Get returns the entry with the given name, or false if none is indexed
// under it.
func (c *Collection) Get(name string) (*Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// Remove deletes the entry with the given name. Positions of all entries
// behind it shift down and the index is renumbered accordingly. Returns
// false if the name is not present.
func (c *Collection) Remove(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	delete(c.index, name)
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	for n, j := range c.index {
		if j > i {
			c.index[n] = j - 1
		}
	}
	return true
}

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.entries) }

// Entries returns the entries in insertion order. The returned slice is a
// copy; the entries themselves are shared.
func (c *Collection) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Matching returns, in order, every entry whose raw tagline matches the
// pattern anchored at the start of the line. The pattern is applied to the
// full header "@name:dtype:rank:shape", never to the data.
func (c *Collection) Matching(pattern *regexp.Regexp) []*Entry {
	var out []*Entry
	for _, e := range c.entries {
		if loc := pattern.FindStringIndex(e.Tagline()); loc != nil && loc[0] == 0 {
			out = append(out, e)
		}
	}
	return out
}
