// Package permkit provides an immutable permission node model and matcher.
//
// PermKit models one access-control rule (a "node") as an immutable value: a
// permission string coupled with a grant/negate bit, an optional override
// flag, optional server and world scoping, an optional expiry and a set of
// contextual key-value requirements. It is the rule vocabulary for a larger
// authorization engine that aggregates many nodes per principal; aggregation,
// storage and transport stay outside this package.
//
// # Core Concepts
//
// Node: One immutable rule. Built once, classified once, then matched,
// compared and serialized many times without locks.
//
// Permission: A dot-separated string like "essentials.fly". Special shapes
// are recognized at construction: "group.<name>" grants group membership,
// "meta.<key>.<value>" carries arbitrary metadata, "prefix.<n>.<text>" and
// "suffix.<n>.<text>" carry prioritized chat decorations, and a trailing
// ".*" marks a wildcard of any shape.
//
// Context: A key=value tag constraining where a node applies, such as
// gamemode=creative. Server and world scoping ride on dedicated fields and
// fold into the full context view under the reserved server/world keys.
//
// # Key Features
//
//   - Immutable nodes: safe for concurrent use without locks or copies
//   - One-pass classification: kind, payloads, wildcard level and hash are
//     computed at construction and never again
//   - Applicability matching: per-server, per-world, context-set and
//     regex (r=...) matching with shorthand expansion
//   - Shorthand: "a.{b,c}", "(x|y)", numeric and character ranges
//   - Four equivalence relations, from exact duplicates to near-duplicates
//     differing only in a refreshed expiry
//   - Compact serialized grammar with invertible escaping, parseable back
//     into an equal node
//
// # Basic Usage
//
//	// Build nodes.
//	fly, err := permkit.NewBuilder("essentials.fly").
//	    Server("survival").
//	    Build()
//	if err != nil {
//	    // the permission was empty or otherwise invalid
//	}
//
//	vip := permkit.NewGroupBuilder("vip").
//	    ExpiresIn(24 * time.Hour).
//	    MustBuild()
//
//	// Match against an evaluation context.
//	fly.ShouldApplyOnServer("SURVIVAL", false, false)  // true
//	fly.ShouldApplyOnServer("creative", false, false)  // false
//	vip.ShouldApply("any", "world", nil, true, false)  // true, vip is global
//
//	// Serialize and parse back.
//	s := fly.Serialize()                  // "survival/essentials.fly"
//	again, err := permkit.ParseNode(s, fly.Value())
//	fly.Equals(again)                     // true
//
// # Matching
//
// ShouldApplyOnServer and ShouldApplyOnWorld compare a target name against
// the node's scope: case-insensitive equality, then optional r=<regex>
// handling on either side (a malformed pattern is a failed comparison, never
// an error), then shorthand cross-comparison. An empty target or the global
// sentinel selects exactly the unscoped nodes; includeGlobal decides whether
// unscoped nodes apply on concrete targets.
//
// # Equivalence
//
// Equals is the primary relation over permission, value, override, server,
// world, expiry and contexts. EqualsIgnoringValue drops the value bit,
// EqualsIgnoringValueOrTemp also drops the expiry, and AlmostEquals drops
// the exact expiry while still requiring both nodes to be temporary or both
// permanent. Hash is consistent with Equals.
//
// # Serialized Form
//
// Nodes render to a single line:
//
//	[server[-world]/][(key=value,...)]permission[$expireAtSeconds]
//
// Reserved characters are escaped with a backslash per field family, so the
// form is unambiguous and ParseNode reconstructs an equal node. The value
// bit is supplied separately, as storage layers keep it alongside.
package permkit
