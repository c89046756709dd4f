package permkit

import "strings"

// Delimiter sets reserved by the serialized node grammar. Occurrences of these
// characters inside user-supplied text are escaped with a leading backslash so
// the serialized form stays unambiguous.
var (
	// PermissionDelimiters are the characters escaped within the permission
	// part of a serialized node.
	PermissionDelimiters = []rune{'/', '-', '$', '(', ')', '=', ','}

	// ServerWorldDelimiters are the characters escaped within the server and
	// world parts of a serialized node.
	ServerWorldDelimiters = []rune{'/', '-'}

	// ContextDelimiters are the characters escaped within context keys and
	// values of a serialized node.
	ContextDelimiters = []rune{'=', '(', ')', ','}

	// MetaCharacterDelimiters are the characters escaped within the key and
	// value segments of meta, prefix and suffix permissions.
	MetaCharacterDelimiters = []rune{'.', '/', '-', '$'}
)

// EscapeDelimiters prefixes a backslash to every occurrence of the given
// delimiter characters in s. Unescaping the result with the same delimiter
// set restores s exactly.
func EscapeDelimiters(s string, delims ...rune) string {
	if s == "" || len(delims) == 0 || !strings.ContainsAny(s, string(delims)) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if runeIn(delims, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeDelimiters removes the backslash from every backslash-delimiter
// pair in s. Backslashes not followed by one of the given delimiters are
// left untouched.
func UnescapeDelimiters(s string, delims ...rune) string {
	if s == "" || len(delims) == 0 || !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) && runeIn(delims, rs[i+1]) {
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// EscapeMetaCharacters escapes a key or value segment for embedding in a
// meta, prefix or suffix permission.
func EscapeMetaCharacters(s string) string {
	return EscapeDelimiters(s, MetaCharacterDelimiters...)
}

// UnescapeMetaCharacters reverses EscapeMetaCharacters.
func UnescapeMetaCharacters(s string) string {
	return UnescapeDelimiters(s, MetaCharacterDelimiters...)
}

func runeIn(set []rune, r rune) bool {
	for _, d := range set {
		if d == r {
			return true
		}
	}
	return false
}

// indexOfUnescaped returns the index of the first occurrence of target in s
// that is not preceded by a backslash, or -1 if there is none. target must be
// an ASCII character.
func indexOfUnescaped(s string, target byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] != target {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		return i
	}
	return -1
}

// lastIndexOfUnescaped is indexOfUnescaped scanning from the right.
func lastIndexOfUnescaped(s string, target byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != target {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		return i
	}
	return -1
}

// splitAtFirstUnescaped splits s around the first unescaped occurrence of
// target. ok is false when s contains no such occurrence, in which case
// before holds all of s.
func splitAtFirstUnescaped(s string, target byte) (before, after string, ok bool) {
	i := indexOfUnescaped(s, target)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
