package permkit

import "strings"

// ShouldApplyOnServer decides whether the node applies on the target server.
// A target that is empty or the global sentinel applies exactly the nodes
// that are not server specific. For a concrete target, a server-specific
// node delegates to the scope-matching algorithm and an unscoped node
// applies iff includeGlobal.
func (n *Node) ShouldApplyOnServer(target string, includeGlobal, applyRegex bool) bool {
	if target == "" || strings.EqualFold(target, GlobalScope) {
		return !n.IsServerSpecific()
	}
	if n.IsServerSpecific() {
		return scopeMatches(target, n.server, applyRegex)
	}
	return includeGlobal
}

// ShouldApplyOnWorld decides whether the node applies in the target world.
// It has the same shape as ShouldApplyOnServer; the missing-world sentinels
// are the empty string and the literal "null".
func (n *Node) ShouldApplyOnWorld(target string, includeGlobal, applyRegex bool) bool {
	if target == "" || strings.EqualFold(target, NullWorld) {
		return !n.IsWorldSpecific()
	}
	if n.IsWorldSpecific() {
		return scopeMatches(target, n.world, applyRegex)
	}
	return includeGlobal
}

// ShouldApply decides whether the node applies for the given server, world
// and context tags. includeGlobal and applyRegex are threaded through both
// scope predicates; the context check never folds the scopes in.
func (n *Node) ShouldApply(server, world string, set *ImmutableContextSet, includeGlobal, applyRegex bool) bool {
	return n.ShouldApplyOnServer(server, includeGlobal, applyRegex) &&
		n.ShouldApplyOnWorld(world, includeGlobal, applyRegex) &&
		n.ShouldApplyWithContext(set, false)
}

// ShouldApplyWithContext decides whether the node applies under the supplied
// context tags. A node with no contexts and no server/world scope applies
// trivially. When includeServerWorld is set, scoped nodes additionally
// require matching tags under the reserved server/world keys. Every context
// pair the node carries must have a case-insensitive match in the supplied
// set; a nil set fails any non-trivial requirement.
func (n *Node) ShouldApplyWithContext(set *ImmutableContextSet, includeServerWorld bool) bool {
	if n.contexts.IsEmpty() && !n.IsServerSpecific() && !n.IsWorldSpecific() {
		return true
	}
	if includeServerWorld {
		if n.IsServerSpecific() && !set.ContainsIgnoreCase(ServerContextKey, n.server) {
			return false
		}
		if n.IsWorldSpecific() && !set.ContainsIgnoreCase(WorldContextKey, n.world) {
			return false
		}
	}
	for _, c := range n.contexts.entries {
		if !set.ContainsIgnoreCase(c.Key, c.Value) {
			return false
		}
	}
	return true
}

// ShouldApplyOnAnyServers reports whether the node applies on at least one
// of the given servers. Regex matching is disabled.
func (n *Node) ShouldApplyOnAnyServers(servers []string, includeGlobal bool) bool {
	for _, s := range servers {
		if n.ShouldApplyOnServer(s, includeGlobal, false) {
			return true
		}
	}
	return false
}

// ShouldApplyOnAnyWorlds reports whether the node applies in at least one of
// the given worlds. Regex matching is disabled.
func (n *Node) ShouldApplyOnAnyWorlds(worlds []string, includeGlobal bool) bool {
	for _, w := range worlds {
		if n.ShouldApplyOnWorld(w, includeGlobal, false) {
			return true
		}
	}
	return false
}

// ResolveWildcard returns the candidates covered by a wildcard node: every
// candidate starting with the permission minus its trailing wildcard marker.
// Non-wildcard nodes resolve nothing.
func (n *Node) ResolveWildcard(candidates []string) []string {
	if !n.IsWildcard() || len(candidates) == 0 {
		return nil
	}
	root := n.permission[:len(n.permission)-len(wildcardMarker)]
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, root) {
			out = append(out, c)
		}
	}
	return out
}

// scopeMatches is the string-matching algorithm shared by server and world
// matching: case-insensitive equality first, then r= regex handling on
// either side, then shorthand cross-comparison. The regex branches decide
// the result outright; they never fall through.
func scopeMatches(target, scope string, applyRegex bool) bool {
	if strings.EqualFold(target, scope) {
		return true
	}

	if applyRegex {
		if expr, ok := regexSource(target); ok {
			return regexMatchesAny(expr, ExpandShorthand(scope))
		}
		if expr, ok := regexSource(scope); ok {
			return regexMatchesAny(expr, ExpandShorthand(target))
		}
	}

	targetExp := ExpandShorthand(target)
	scopeExp := ExpandShorthand(scope)
	if len(targetExp) <= 1 && len(scopeExp) <= 1 {
		return false
	}
	for _, t := range targetExp {
		for _, s := range scopeExp {
			if strings.EqualFold(t, s) {
				return true
			}
		}
	}
	return false
}

// regexSource extracts the pattern of an r=-prefixed scope string.
func regexSource(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == 'r' || s[0] == 'R') && s[1] == '=' {
		return s[2:], true
	}
	return "", false
}

// regexMatchesAny reports whether expr compiles and fully matches any of the
// candidates. An invalid pattern never matches.
func regexMatchesAny(expr string, candidates []string) bool {
	re := CompilePattern(expr)
	if re == nil {
		return false
	}
	for _, c := range candidates {
		if re.MatchString(c) {
			return true
		}
	}
	return false
}
