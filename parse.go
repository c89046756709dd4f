package permkit

import "strconv"

// ParseNode parses the serialized node grammar back into a node:
//
//	[server[-world]/][(key=value,...)]permission[$expireAtSeconds]
//
// value supplies the value bit, which the grammar does not carry. Malformed
// input fails with ErrMalformedNode. For every node n,
// ParseNode(n.Serialize(), n.Value()) yields a node equal to n under Equals,
// apart from the override bit.
func ParseNode(s string, value bool) (*Node, error) {
	b, err := ParseBuilder(s, value)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// ParseBuilder parses the serialized node grammar into a builder, for
// callers that modify the node before freezing it.
func ParseBuilder(s string, value bool) (*Builder, error) {
	if s == "" {
		return nil, NewError(ErrMalformedNode, "empty input")
	}

	rest := s
	var server, world string

	// A scope head can only open the string; a leading context group rules
	// it out, so unescaped slashes inside context values stay untouched.
	if rest[0] != '(' {
		if head, tail, ok := splitAtFirstUnescaped(rest, '/'); ok {
			sv, wd, hasWorld := splitAtFirstUnescaped(head, '-')
			server = sv
			if hasWorld {
				world = wd
			}
			rest = tail
		}
	}

	var contexts []Context
	if rest != "" && rest[0] == '(' {
		closing := indexOfUnescaped(rest, ')')
		if closing < 0 {
			return nil, NewError(ErrMalformedNode, "unterminated context group").WithRaw(s)
		}
		pairs, err := parseContextPairs(rest[1:closing], s)
		if err != nil {
			return nil, err
		}
		contexts = pairs
		rest = rest[closing+1:]
	}

	var expireAt int64
	if i := lastIndexOfUnescaped(rest, '$'); i >= 0 {
		v, err := strconv.ParseInt(rest[i+1:], 10, 64)
		if err != nil {
			return nil, NewError(ErrMalformedNode, "expiry is not an integer").WithRaw(s)
		}
		expireAt = v
		rest = rest[:i]
	}

	if rest == "" {
		return nil, NewError(ErrMalformedNode, "missing permission").WithRaw(s)
	}

	b := NewBuilder(rest).
		Value(value).
		Server(server).
		World(world).
		ExpiryUnixTime(expireAt)
	for _, c := range contexts {
		b.WithContext(c.Key, c.Value)
	}
	return b, nil
}

// parseContextPairs splits a serialized context group into its pairs,
// unescaping keys and values. raw is the full input, for error context.
func parseContextPairs(group, raw string) ([]Context, error) {
	var out []Context
	rest := group
	for rest != "" {
		pair := rest
		if p, tail, ok := splitAtFirstUnescaped(rest, ','); ok {
			pair, rest = p, tail
		} else {
			rest = ""
		}
		if pair == "" {
			continue
		}
		k, v, ok := splitAtFirstUnescaped(pair, '=')
		if !ok {
			return nil, NewError(ErrMalformedNode, "context pair missing '='").WithRaw(raw)
		}
		if k == "" {
			return nil, NewError(ErrMalformedNode, "context pair has an empty key").WithRaw(raw)
		}
		out = append(out, Context{
			Key:   UnescapeDelimiters(k, ContextDelimiters...),
			Value: UnescapeDelimiters(v, ContextDelimiters...),
		})
	}
	return out, nil
}
