package permkit

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"
)

// Scope sentinels used by normalization, matching and the serialized form.
const (
	// GlobalScope names the absence of a server or world scope.
	GlobalScope = "global"

	// NullWorld is the sentinel some platforms report for a missing world.
	NullWorld = "null"
)

// Node is a single permission entry assigned to a permission holder: a
// permission string coupled with a boolean value, an optional override flag,
// optional server/world scoping, an optional expiry and a set of contextual
// requirements.
//
// Nodes are immutable. Every derived fact (classification, payloads,
// shorthand expansion, full contexts, hash) is computed at construction; the
// serialized form is computed lazily, once. Nodes are safe for concurrent
// use.
type Node struct {
	permission string
	value      bool
	override   bool
	server     string // "" when the node is not server specific
	world      string // "" when the node is not world specific
	expireAt   int64  // unix seconds, 0 when permanent

	contexts     *ImmutableContextSet
	fullContexts *ImmutableContextSet

	class     classification
	shorthand []string
	hash      uint64

	serialized atomic.Pointer[string]
}

// NewNode builds a plain global node carrying permission and value. Use
// NewBuilder for scoped, temporary or contextual nodes.
func NewNode(permission string, value bool) (*Node, error) {
	return newNode(permission, value, false, 0, "", "", nil)
}

// newNode is the single construction funnel. It normalizes the scope names,
// unescapes the permission, classifies it and precomputes every derived
// fact.
func newNode(permission string, value, override bool, expireAt int64, server, world string, contexts *ImmutableContextSet) (*Node, error) {
	if permission == "" {
		return nil, NewError(ErrInvalidArgument, "permission must not be empty")
	}
	server = normalizeScope(server)
	world = normalizeScope(world)
	server = UnescapeDelimiters(server, ServerWorldDelimiters...)
	world = UnescapeDelimiters(world, ServerWorldDelimiters...)
	permission = InternPermission(UnescapeDelimiters(permission, PermissionDelimiters...))
	if contexts == nil {
		contexts = EmptyContextSet()
	}

	class, err := classify(permission)
	if err != nil {
		return nil, err
	}

	n := &Node{
		permission: permission,
		value:      value,
		override:   override,
		server:     server,
		world:      world,
		expireAt:   expireAt,
		contexts:   contexts,
		class:      class,
	}
	if n.class.kind != KindGroup {
		n.shorthand = resolveSelfShorthand(permission)
	}
	n.fullContexts = buildFullContexts(contexts, server, world)
	n.hash = computeHash(n)
	return n, nil
}

// normalizeScope lower-cases a server or world name and collapses the global
// sentinel to absent.
func normalizeScope(s string) string {
	s = strings.ToLower(s)
	if s == GlobalScope {
		return ""
	}
	return s
}

// resolveSelfShorthand returns the shorthand expansion of permission minus
// the permission itself, nil when no shorthand is present.
func resolveSelfShorthand(permission string) []string {
	exp := ExpandShorthand(permission)
	exp = slices.DeleteFunc(exp, func(v string) bool { return v == permission })
	if len(exp) == 0 {
		return nil
	}
	return exp
}

// buildFullContexts folds the server and world scopes into the context set
// under the reserved keys.
func buildFullContexts(contexts *ImmutableContextSet, server, world string) *ImmutableContextSet {
	if server == "" && world == "" {
		return contexts
	}
	m := contexts.MutableCopy()
	if server != "" {
		m.Add(ServerContextKey, server)
	}
	if world != "" {
		m.Add(WorldContextKey, world)
	}
	return m.Freeze()
}

// Permission returns the normalized permission string.
func (n *Node) Permission() string { return n.permission }

// Value returns the boolean value the node assigns.
func (n *Node) Value() bool { return n.value }

// Override reports whether the node carries override priority.
func (n *Node) Override() bool { return n.override }

// Server returns the server scope. ok is false when the node is not server
// specific.
func (n *Node) Server() (server string, ok bool) {
	return n.server, n.server != ""
}

// World returns the world scope. ok is false when the node is not world
// specific.
func (n *Node) World() (world string, ok bool) {
	return n.world, n.world != ""
}

// IsServerSpecific reports whether the node is bound to a server.
func (n *Node) IsServerSpecific() bool { return n.server != "" }

// IsWorldSpecific reports whether the node is bound to a world.
func (n *Node) IsWorldSpecific() bool { return n.world != "" }

// AppliesGlobally reports whether the node has no server scope, no world
// scope and no contexts.
func (n *Node) AppliesGlobally() bool {
	return n.server == "" && n.world == "" && n.contexts.IsEmpty()
}

// HasSpecificContext reports whether the node carries any applicability
// restriction: a server, a world or at least one context pair.
func (n *Node) HasSpecificContext() bool {
	return n.server != "" || n.world != "" || !n.contexts.IsEmpty()
}

// Contexts returns the contextual requirements attached to the node.
func (n *Node) Contexts() *ImmutableContextSet { return n.contexts }

// FullContexts returns the contexts plus the server and world scopes under
// the reserved server/world keys.
func (n *Node) FullContexts() *ImmutableContextSet { return n.fullContexts }

// Kind returns the classified shape of the permission.
func (n *Node) Kind() Kind { return n.class.kind }

// IsGroup reports whether the node grants group membership.
func (n *Node) IsGroup() bool { return n.class.kind == KindGroup }

// IsMeta reports whether the node carries a meta key/value pair.
func (n *Node) IsMeta() bool { return n.class.kind == KindMeta }

// IsPrefix reports whether the node carries a chat prefix.
func (n *Node) IsPrefix() bool { return n.class.kind == KindPrefix }

// IsSuffix reports whether the node carries a chat suffix.
func (n *Node) IsSuffix() bool { return n.class.kind == KindSuffix }

// IsWildcard reports whether the permission ends with the wildcard marker.
func (n *Node) IsWildcard() bool { return n.class.wildcard }

// WildcardLevel returns the number of path separators in the permission.
func (n *Node) WildcardLevel() int { return n.class.wildcardLevel }

// GroupName returns the group a membership node points at. It fails with
// ErrInvalidState when the node is not a group node.
func (n *Node) GroupName() (string, error) {
	if !n.IsGroup() {
		return "", NewError(ErrInvalidState, "node is not a group node").WithPermission(n.permission)
	}
	return n.class.groupName, nil
}

// Meta returns the key/value payload of a meta node. It fails with
// ErrInvalidState when the node is not a meta node.
func (n *Node) Meta() (MetaEntry, error) {
	if !n.IsMeta() {
		return MetaEntry{}, NewError(ErrInvalidState, "node is not a meta node").WithPermission(n.permission)
	}
	return n.class.meta, nil
}

// Prefix returns the priority/value payload of a prefix node. It fails with
// ErrInvalidState when the node is not a prefix node.
func (n *Node) Prefix() (ChatMeta, error) {
	if !n.IsPrefix() {
		return ChatMeta{}, NewError(ErrInvalidState, "node is not a prefix node").WithPermission(n.permission)
	}
	return n.class.chatMeta, nil
}

// Suffix returns the priority/value payload of a suffix node. It fails with
// ErrInvalidState when the node is not a suffix node.
func (n *Node) Suffix() (ChatMeta, error) {
	if !n.IsSuffix() {
		return ChatMeta{}, NewError(ErrInvalidState, "node is not a suffix node").WithPermission(n.permission)
	}
	return n.class.chatMeta, nil
}

// IsTemporary reports whether the node has an expiry.
func (n *Node) IsTemporary() bool { return n.expireAt != 0 }

// IsPermanent reports whether the node has no expiry.
func (n *Node) IsPermanent() bool { return n.expireAt == 0 }

// ExpiryUnixTime returns the expiry as unix seconds. It fails with
// ErrInvalidState when the node is permanent.
func (n *Node) ExpiryUnixTime() (int64, error) {
	if !n.IsTemporary() {
		return 0, NewError(ErrInvalidState, "node is permanent").WithPermission(n.permission)
	}
	return n.expireAt, nil
}

// Expiry returns the expiry instant. It fails with ErrInvalidState when the
// node is permanent.
func (n *Node) Expiry() (time.Time, error) {
	if !n.IsTemporary() {
		return time.Time{}, NewError(ErrInvalidState, "node is permanent").WithPermission(n.permission)
	}
	return time.Unix(n.expireAt, 0), nil
}

// SecondsTilExpiry returns the seconds remaining until expiry, negative once
// the expiry has passed. It fails with ErrInvalidState when the node is
// permanent.
func (n *Node) SecondsTilExpiry() (int64, error) {
	if !n.IsTemporary() {
		return 0, NewError(ErrInvalidState, "node is permanent").WithPermission(n.permission)
	}
	return n.expireAt - time.Now().Unix(), nil
}

// HasExpired reports whether a temporary node's expiry has passed. Permanent
// nodes never expire.
func (n *Node) HasExpired() bool {
	return n.HasExpiredAt(time.Now())
}

// HasExpiredAt is HasExpired evaluated at a caller-supplied instant.
func (n *Node) HasExpiredAt(now time.Time) bool {
	return n.IsTemporary() && n.expireAt < now.Unix()
}

// ResolveShorthand returns the concrete permissions the node's shorthand
// expands to, excluding the raw permission itself. It is nil for permissions
// without shorthand and for group nodes, which never expand.
func (n *Node) ResolveShorthand() []string {
	if n.shorthand == nil {
		return nil
	}
	return slices.Clone(n.shorthand)
}

// SetValue always fails with ErrUnsupported: nodes are immutable. Derive a
// modified copy through ToBuilder instead.
func (n *Node) SetValue(value bool) error {
	return NewError(ErrUnsupported, "nodes are immutable, derive a copy with ToBuilder").WithPermission(n.permission)
}

// Hash returns the precomputed node hash. Nodes equal under Equals always
// hash equal.
func (n *Node) Hash() uint64 { return n.hash }

// String returns a debug representation of the node.
func (n *Node) String() string {
	return fmt.Sprintf("Node{permission=%s, value=%t, override=%t, server=%s, world=%s, expireAt=%d, contexts=%s}",
		n.permission, n.value, n.override, scopeOrGlobal(n.server), scopeOrGlobal(n.world), n.expireAt, n.contexts)
}

func scopeOrGlobal(scope string) string {
	if scope == "" {
		return GlobalScope
	}
	return scope
}
