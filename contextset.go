package permkit

import (
	"slices"
	"strings"
	"sync"
)

// Reserved context keys carrying a node's server and world scope in its full
// context set.
const (
	ServerContextKey = "server"
	WorldContextKey  = "world"
)

// Context is a single contextual requirement attached to a node: the node
// applies only in environments where the key carries the value.
type Context struct {
	Key   string
	Value string
}

// String returns the pair in key=value form.
func (c Context) String() string {
	return c.Key + "=" + c.Value
}

// ImmutableContextSet is a fixed set of context pairs held in canonical order
// (sorted by key, then value, duplicate pairs collapsed). Keys are stored
// lower-cased; values are stored verbatim. A key may carry several distinct
// values. Nodes only ever carry immutable sets.
type ImmutableContextSet struct {
	entries []Context
}

var emptyContextSet = &ImmutableContextSet{}

// EmptyContextSet returns the shared empty immutable set.
func EmptyContextSet() *ImmutableContextSet {
	return emptyContextSet
}

// NewContextSet builds an immutable set from the given pairs. Keys are
// lower-cased and duplicate pairs collapse.
func NewContextSet(entries ...Context) *ImmutableContextSet {
	if len(entries) == 0 {
		return emptyContextSet
	}
	out := make([]Context, len(entries))
	for i, e := range entries {
		out[i] = Context{Key: strings.ToLower(e.Key), Value: e.Value}
	}
	slices.SortFunc(out, compareContexts)
	out = slices.Compact(out)
	return &ImmutableContextSet{entries: out}
}

// IsEmpty reports whether the set has no pairs.
func (s *ImmutableContextSet) IsEmpty() bool {
	return s == nil || len(s.entries) == 0
}

// Size returns the number of pairs in the set.
func (s *ImmutableContextSet) Size() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Contains reports whether the set holds the exact pair. The key is matched
// in canonical (lower) case, the value byte for byte.
func (s *ImmutableContextSet) Contains(key, value string) bool {
	if s == nil {
		return false
	}
	key = strings.ToLower(key)
	for _, e := range s.entries {
		if e.Key == key && e.Value == value {
			return true
		}
	}
	return false
}

// ContainsIgnoreCase reports whether the set holds the pair, comparing the
// value case-insensitively.
func (s *ImmutableContextSet) ContainsIgnoreCase(key, value string) bool {
	if s == nil {
		return false
	}
	key = strings.ToLower(key)
	for _, e := range s.entries {
		if e.Key == key && strings.EqualFold(e.Value, value) {
			return true
		}
	}
	return false
}

// ContainsKey reports whether the set holds at least one value for key.
func (s *ImmutableContextSet) ContainsKey(key string) bool {
	if s == nil {
		return false
	}
	key = strings.ToLower(key)
	for _, e := range s.entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Values returns the values held for key, in canonical order.
func (s *ImmutableContextSet) Values(key string) []string {
	if s == nil {
		return nil
	}
	key = strings.ToLower(key)
	var out []string
	for _, e := range s.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Entries returns a copy of the pairs in canonical order.
func (s *ImmutableContextSet) Entries() []Context {
	if s == nil || len(s.entries) == 0 {
		return nil
	}
	return slices.Clone(s.entries)
}

// Equal reports whether both sets hold exactly the same pairs.
func (s *ImmutableContextSet) Equal(other *ImmutableContextSet) bool {
	if s.Size() != other.Size() {
		return false
	}
	if s == nil || other == nil {
		return true
	}
	return slices.Equal(s.entries, other.entries)
}

// MutableCopy returns a mutable set pre-loaded with this set's pairs.
func (s *ImmutableContextSet) MutableCopy() *MutableContextSet {
	m := NewMutableContextSet()
	if s != nil {
		m.entries = slices.Clone(s.entries)
	}
	return m
}

// String returns the pairs in (key=value,key=value) form.
func (s *ImmutableContextSet) String() string {
	if s.IsEmpty() {
		return "()"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
	}
	b.WriteByte(')')
	return b.String()
}

// MutableContextSet is the mutable builder variant of a context set. It is
// safe for concurrent use; call Freeze to produce the immutable form.
type MutableContextSet struct {
	mu      sync.Mutex
	entries []Context
}

// NewMutableContextSet returns an empty mutable context set.
func NewMutableContextSet() *MutableContextSet {
	return &MutableContextSet{}
}

// Add records a pair. The key is lower-cased; duplicate pairs collapse.
func (m *MutableContextSet) Add(key, value string) {
	e := Context{Key: strings.ToLower(key), Value: value}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, found := slices.BinarySearchFunc(m.entries, e, compareContexts)
	if found {
		return
	}
	m.entries = slices.Insert(m.entries, i, e)
}

// AddAll records every pair of the given set.
func (m *MutableContextSet) AddAll(other *ImmutableContextSet) {
	for _, e := range other.Entries() {
		m.Add(e.Key, e.Value)
	}
}

// Remove drops the exact pair if present.
func (m *MutableContextSet) Remove(key, value string) {
	e := Context{Key: strings.ToLower(key), Value: value}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, found := slices.BinarySearchFunc(m.entries, e, compareContexts); found {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
}

// IsEmpty reports whether the set has no pairs.
func (m *MutableContextSet) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries) == 0
}

// Size returns the number of distinct pairs recorded so far.
func (m *MutableContextSet) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Freeze returns the immutable form of the current pairs. Mutations after
// Freeze do not affect the returned set.
func (m *MutableContextSet) Freeze() *ImmutableContextSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return emptyContextSet
	}
	return &ImmutableContextSet{entries: slices.Clone(m.entries)}
}

func compareContexts(a, b Context) int {
	if c := strings.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return strings.Compare(a.Value, b.Value)
}
