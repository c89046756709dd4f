package permkit

import (
	"strconv"
	"strings"
)

// ExpandShorthand expands every shorthand group in s and returns the full
// list of concrete strings, in source order with duplicates removed. A group
// is delimited by {} or (); alternatives inside a group are separated by ','
// or '|'. An alternative of the form lo-hi expands to an inclusive numeric
// range when both sides are integers, or to an inclusive character range when
// both sides are single letters of the same case; any other alternative is
// literal text. Input containing no group, or only a malformed group, expands
// to itself alone.
func ExpandShorthand(s string) []string {
	results := []string{s}
	for {
		expanded := false
		var next []string
		for _, str := range results {
			if parts, ok := expandFirstGroup(str); ok {
				expanded = true
				next = append(next, parts...)
			} else {
				next = append(next, str)
			}
		}
		results = next
		if !expanded {
			break
		}
	}
	if len(results) == 1 {
		return results
	}
	seen := make(map[string]struct{}, len(results))
	out := make([]string, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// expandFirstGroup expands the leftmost group of s, returning one string per
// alternative. ok is false when s holds no well-formed group. Group scanning
// treats () and {} alike; slicing is done on the original text so characters
// outside the group are preserved.
func expandFirstGroup(s string) ([]string, bool) {
	view := strings.Map(func(r rune) rune {
		switch r {
		case '(':
			return '{'
		case ')':
			return '}'
		}
		return r
	}, s)
	open := strings.IndexByte(view, '{')
	if open < 0 {
		return nil, false
	}
	closing := strings.IndexByte(view, '}')
	if closing < open {
		return nil, false
	}
	before, between, after := s[:open], s[open+1:closing], s[closing+1:]
	var out []string
	for _, alt := range splitAlternatives(between) {
		for _, v := range expandAlternative(alt) {
			out = append(out, before+v+after)
		}
	}
	if len(out) == 0 {
		out = append(out, before+after)
	}
	return out, true
}

func splitAlternatives(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	})
}

func expandAlternative(alt string) []string {
	lo, hi, ok := strings.Cut(alt, "-")
	if !ok || lo == "" || hi == "" {
		return []string{alt}
	}
	if from, err := strconv.Atoi(lo); err == nil {
		to, err := strconv.Atoi(hi)
		if err != nil || from > to {
			return []string{alt}
		}
		out := make([]string, 0, to-from+1)
		for v := from; v <= to; v++ {
			out = append(out, strconv.Itoa(v))
		}
		return out
	}
	if len(lo) == 1 && len(hi) == 1 && sameCaseLetters(lo[0], hi[0]) && lo[0] <= hi[0] {
		out := make([]string, 0, int(hi[0]-lo[0])+1)
		for c := lo[0]; c <= hi[0]; c++ {
			out = append(out, string(rune(c)))
		}
		return out
	}
	return []string{alt}
}

func sameCaseLetters(a, b byte) bool {
	return (a >= 'a' && a <= 'z' && b >= 'a' && b <= 'z') ||
		(a >= 'A' && a <= 'Z' && b >= 'A' && b <= 'Z')
}
