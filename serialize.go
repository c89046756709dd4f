package permkit

import (
	"strconv"
	"strings"
)

// Serialize renders the node to its single-line textual form:
//
//	[server[-world]/][(key=value,...)]permission[$expireAtSeconds]
//
// A world scope without a server emits the global placeholder server. The
// value and override bits are not part of the form; storage layers carry
// them alongside. The result is computed once and cached: concurrent first
// calls may race to compute, but all observe the single published value.
func (n *Node) Serialize() string {
	if s := n.serialized.Load(); s != nil {
		return *s
	}
	s := n.buildSerialized()
	if n.serialized.CompareAndSwap(nil, &s) {
		return s
	}
	return *n.serialized.Load()
}

func (n *Node) buildSerialized() string {
	var b strings.Builder

	switch {
	case n.server != "":
		b.WriteString(EscapeDelimiters(n.server, ServerWorldDelimiters...))
		if n.world != "" {
			b.WriteByte('-')
			b.WriteString(EscapeDelimiters(n.world, ServerWorldDelimiters...))
		}
		b.WriteByte('/')
	case n.world != "":
		b.WriteString(GlobalScope)
		b.WriteByte('-')
		b.WriteString(EscapeDelimiters(n.world, ServerWorldDelimiters...))
		b.WriteByte('/')
	}

	if !n.contexts.IsEmpty() {
		b.WriteByte('(')
		for i, c := range n.contexts.entries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EscapeDelimiters(c.Key, ContextDelimiters...))
			b.WriteByte('=')
			b.WriteString(EscapeDelimiters(c.Value, ContextDelimiters...))
		}
		b.WriteByte(')')
	}

	b.WriteString(EscapeDelimiters(n.permission, PermissionDelimiters...))

	if n.IsTemporary() {
		b.WriteByte('$')
		b.WriteString(strconv.FormatInt(n.expireAt, 10))
	}
	return b.String()
}
