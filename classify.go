package permkit

import (
	"strconv"
	"strings"
)

// Permission shape markers recognized by classification. Markers are matched
// case-insensitively; the payload after the marker keeps its case.
const (
	groupMarker    = "group."
	metaMarker     = "meta."
	prefixMarker   = "prefix."
	suffixMarker   = "suffix."
	wildcardMarker = ".*"
)

// Kind classifies the special shape of a node's permission string. The
// wildcard flag is independent of Kind: a node of any kind may also be a
// wildcard.
type Kind int

const (
	// KindPlain is a regular permission with no special shape.
	KindPlain Kind = iota

	// KindGroup marks group membership (group.<name>).
	KindGroup

	// KindMeta carries an arbitrary key/value pair (meta.<key>.<value>).
	KindMeta

	// KindPrefix carries a chat prefix with a priority
	// (prefix.<priority>.<value>).
	KindPrefix

	// KindSuffix carries a chat suffix with a priority
	// (suffix.<priority>.<value>).
	KindSuffix
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindGroup:
		return "group"
	case KindMeta:
		return "meta"
	case KindPrefix:
		return "prefix"
	case KindSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// MetaEntry is the key/value payload of a meta node.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ChatMeta is the priority/value payload of a prefix or suffix node.
type ChatMeta struct {
	Priority int    `json:"priority"`
	Value    string `json:"value"`
}

// IsGroupPermission reports whether s has the group membership shape
// (group.<name>).
func IsGroupPermission(s string) bool {
	return hasMarker(s, groupMarker)
}

// IsMetaPermission reports whether s has the meta shape (meta.<key>.<value>),
// i.e. the payload splits in two at an unescaped separator.
func IsMetaPermission(s string) bool {
	if !hasMarker(s, metaMarker) {
		return false
	}
	_, _, ok := splitAtFirstUnescaped(s[len(metaMarker):], '.')
	return ok
}

// IsPrefixPermission reports whether s has the prefix shape
// (prefix.<priority>.<value>) with an integer priority.
func IsPrefixPermission(s string) bool {
	if !hasMarker(s, prefixMarker) {
		return false
	}
	_, ok := parseChatMeta(s[len(prefixMarker):])
	return ok
}

// IsSuffixPermission reports whether s has the suffix shape
// (suffix.<priority>.<value>) with an integer priority.
func IsSuffixPermission(s string) bool {
	if !hasMarker(s, suffixMarker) {
		return false
	}
	_, ok := parseChatMeta(s[len(suffixMarker):])
	return ok
}

func hasMarker(s, marker string) bool {
	return len(s) >= len(marker) && strings.EqualFold(s[:len(marker)], marker)
}

// classification holds every fact derived from a permission string at
// construction time.
type classification struct {
	kind          Kind
	groupName     string
	wildcard      bool
	wildcardLevel int
	meta          MetaEntry
	chatMeta      ChatMeta
}

// classify derives the kind, payloads and wildcard facts of a normalized
// permission string. A special-shaped permission whose payload has no
// unescaped separator stays plain; a prefix or suffix payload whose priority
// segment is not an integer fails with ErrInvalidArgument.
func classify(permission string) (classification, error) {
	c := classification{
		kind:          KindPlain,
		wildcard:      strings.HasSuffix(permission, wildcardMarker),
		wildcardLevel: strings.Count(permission, "."),
	}
	switch {
	case hasMarker(permission, groupMarker):
		c.kind = KindGroup
		c.groupName = strings.ToLower(permission[len(groupMarker):])
	case hasMarker(permission, metaMarker):
		if key, value, ok := splitAtFirstUnescaped(permission[len(metaMarker):], '.'); ok {
			c.kind = KindMeta
			c.meta = MetaEntry{
				Key:   UnescapeMetaCharacters(key),
				Value: UnescapeMetaCharacters(value),
			}
		}
	case hasMarker(permission, prefixMarker):
		cm, ok, err := parseChatMetaPayload(permission[len(prefixMarker):])
		if err != nil {
			return c, NewError(ErrInvalidArgument, "prefix priority is not an integer").WithPermission(permission)
		}
		if ok {
			c.kind = KindPrefix
			c.chatMeta = cm
		}
	case hasMarker(permission, suffixMarker):
		cm, ok, err := parseChatMetaPayload(permission[len(suffixMarker):])
		if err != nil {
			return c, NewError(ErrInvalidArgument, "suffix priority is not an integer").WithPermission(permission)
		}
		if ok {
			c.kind = KindSuffix
			c.chatMeta = cm
		}
	}
	return c, nil
}

// parseChatMetaPayload splits a prefix/suffix payload at its first unescaped
// separator. ok is false when there is nothing to split; err reports a
// splittable payload whose priority segment is not an integer.
func parseChatMetaPayload(s string) (ChatMeta, bool, error) {
	prio, value, ok := splitAtFirstUnescaped(s, '.')
	if !ok {
		return ChatMeta{}, false, nil
	}
	p, err := strconv.Atoi(prio)
	if err != nil {
		return ChatMeta{}, false, err
	}
	return ChatMeta{Priority: p, Value: UnescapeMetaCharacters(value)}, true, nil
}

func parseChatMeta(s string) (ChatMeta, bool) {
	cm, ok, err := parseChatMetaPayload(s)
	return cm, ok && err == nil
}
