package permkit

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Equals is the primary equality: permission, value, override, server,
// world, expiry instant and contexts all equal, by value. A permanent node
// stores expiry 0, so a permanent and a temporary node never compare equal.
func (n *Node) Equals(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	return n.permission == other.permission &&
		n.value == other.value &&
		n.override == other.override &&
		n.server == other.server &&
		n.world == other.world &&
		n.expireAt == other.expireAt &&
		n.contexts.Equal(other.contexts)
}

// EqualsIgnoringValue is Equals without the value bit. The aggregation
// engine uses it to detect a grant and a negation of the same scoped rule.
func (n *Node) EqualsIgnoringValue(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	return n.permission == other.permission &&
		n.override == other.override &&
		n.server == other.server &&
		n.world == other.world &&
		n.expireAt == other.expireAt &&
		n.contexts.Equal(other.contexts)
}

// EqualsIgnoringValueOrTemp compares only permission, override, server,
// world and contexts: both the value bit and the expiry are ignored.
func (n *Node) EqualsIgnoringValueOrTemp(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	return n.permission == other.permission &&
		n.override == other.override &&
		n.server == other.server &&
		n.world == other.world &&
		n.contexts.Equal(other.contexts)
}

// AlmostEquals ignores the value bit and the exact expiry instant but
// requires the temporary classification to match: both nodes temporary or
// both permanent. It detects rules differing only in a refreshed expiry.
func (n *Node) AlmostEquals(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	return n.permission == other.permission &&
		n.override == other.override &&
		n.server == other.server &&
		n.world == other.world &&
		n.IsTemporary() == other.IsTemporary() &&
		n.contexts.Equal(other.contexts)
}

// computeHash folds the primary-equality fields through an xxhash digest
// over a canonical length-prefixed encoding. Nodes equal under Equals always
// hash equal.
func computeHash(n *Node) uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(s)
	}

	writeString(n.permission)
	writeString(n.server)
	writeString(n.world)

	var flags byte
	if n.value {
		flags |= 1
	}
	if n.override {
		flags |= 2
	}
	_, _ = d.Write([]byte{flags})

	binary.LittleEndian.PutUint64(buf[:], uint64(n.expireAt))
	_, _ = d.Write(buf[:])

	for _, c := range n.contexts.entries {
		writeString(c.Key)
		writeString(c.Value)
	}
	return d.Sum64()
}
