package permkit

import (
	"strconv"
	"time"
)

// Builder assembles a Node step by step. Obtain one from NewBuilder, the
// shape-specific constructors or Node.ToBuilder; the zero Builder is not
// usable. Builder methods mutate and return the same builder for chaining;
// Build runs the full construction-time validation and normalization.
type Builder struct {
	permission string
	value      bool
	override   bool
	server     string
	world      string
	expireAt   int64
	contexts   *MutableContextSet
}

// NewBuilder starts a builder for the given permission. The node defaults to
// value true, no override, global scope, permanent, no contexts.
func NewBuilder(permission string) *Builder {
	return &Builder{
		permission: permission,
		value:      true,
		contexts:   NewMutableContextSet(),
	}
}

// NewGroupBuilder starts a builder for membership of the given group.
func NewGroupBuilder(group string) *Builder {
	return NewBuilder(groupMarker + group)
}

// NewMetaBuilder starts a builder for a meta node carrying key and value.
// The segments are escaped so arbitrary text survives classification.
func NewMetaBuilder(key, value string) *Builder {
	return NewBuilder(metaMarker + EscapeMetaCharacters(key) + "." + EscapeMetaCharacters(value))
}

// NewPrefixBuilder starts a builder for a chat prefix with the given
// priority.
func NewPrefixBuilder(priority int, prefix string) *Builder {
	return NewBuilder(prefixMarker + strconv.Itoa(priority) + "." + EscapeMetaCharacters(prefix))
}

// NewSuffixBuilder starts a builder for a chat suffix with the given
// priority.
func NewSuffixBuilder(priority int, suffix string) *Builder {
	return NewBuilder(suffixMarker + strconv.Itoa(priority) + "." + EscapeMetaCharacters(suffix))
}

// Value sets whether the node grants (true) or negates (false) the
// permission.
func (b *Builder) Value(value bool) *Builder {
	b.value = value
	return b
}

// Negated is the inverse convenience of Value.
func (b *Builder) Negated(negated bool) *Builder {
	b.value = !negated
	return b
}

// Override marks the node with override priority.
func (b *Builder) Override(override bool) *Builder {
	b.override = override
	return b
}

// Server scopes the node to a server. The empty string or the global
// sentinel leaves the node unscoped.
func (b *Builder) Server(server string) *Builder {
	b.server = server
	return b
}

// World scopes the node to a world. The empty string or the global sentinel
// leaves the node unscoped.
func (b *Builder) World(world string) *Builder {
	b.world = world
	return b
}

// ExpiryUnixTime sets the expiry as unix seconds; 0 makes the node
// permanent.
func (b *Builder) ExpiryUnixTime(unix int64) *Builder {
	b.expireAt = unix
	return b
}

// ExpiresAt sets the expiry instant. The zero time makes the node permanent.
func (b *Builder) ExpiresAt(t time.Time) *Builder {
	if t.IsZero() {
		b.expireAt = 0
		return b
	}
	b.expireAt = t.Unix()
	return b
}

// ExpiresIn sets the expiry a duration from now.
func (b *Builder) ExpiresIn(d time.Duration) *Builder {
	return b.ExpiresAt(time.Now().Add(d))
}

// WithContext adds one contextual requirement.
func (b *Builder) WithContext(key, value string) *Builder {
	b.contexts.Add(key, value)
	return b
}

// WithContextSet adds every pair of the given set.
func (b *Builder) WithContextSet(set *ImmutableContextSet) *Builder {
	b.contexts.AddAll(set)
	return b
}

// Build validates, normalizes and freezes the node.
func (b *Builder) Build() (*Node, error) {
	return newNode(b.permission, b.value, b.override, b.expireAt, b.server, b.world, b.contexts.Freeze())
}

// MustBuild is Build panicking on error, for tests and fixed node tables.
func (b *Builder) MustBuild() *Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// ToBuilder returns a builder pre-loaded with the node's attributes, the
// supported path for deriving modified copies of an immutable node.
func (n *Node) ToBuilder() *Builder {
	return &Builder{
		permission: n.permission,
		value:      n.value,
		override:   n.override,
		server:     n.server,
		world:      n.world,
		expireAt:   n.expireAt,
		contexts:   n.contexts.MutableCopy(),
	}
}
