package permkit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSerialize tests the serialized text form
func TestSerialize(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected string
	}{
		// Scope head
		{
			name:     "Permission only",
			node:     NewBuilder("essentials.fly").MustBuild(),
			expected: "essentials.fly",
		},
		{
			name:     "Server scoped",
			node:     NewBuilder("essentials.fly").Server("survival").MustBuild(),
			expected: "survival/essentials.fly",
		},
		{
			name:     "Server and world scoped",
			node:     NewBuilder("essentials.fly").Server("survival").World("nether").MustBuild(),
			expected: "survival-nether/essentials.fly",
		},
		{
			name:     "World only uses the global placeholder",
			node:     NewBuilder("essentials.fly").World("nether").MustBuild(),
			expected: "global-nether/essentials.fly",
		},
		// Contexts
		{
			name:     "Single context",
			node:     NewBuilder("essentials.fly").WithContext("gamemode", "creative").MustBuild(),
			expected: "(gamemode=creative)essentials.fly",
		},
		{
			name:     "Contexts in canonical order",
			node:     NewBuilder("essentials.fly").WithContext("b", "2").WithContext("a", "1").MustBuild(),
			expected: "(a=1,b=2)essentials.fly",
		},
		// Expiry
		{
			name:     "Temporary node",
			node:     NewBuilder("essentials.fly").ExpiryUnixTime(1500000000).MustBuild(),
			expected: "essentials.fly$1500000000",
		},
		// Everything together
		{
			name: "Full form",
			node: NewBuilder("essentials.fly").
				Server("survival").
				World("nether").
				WithContext("gamemode", "creative").
				ExpiryUnixTime(1500000000).
				MustBuild(),
			expected: "survival-nether/(gamemode=creative)essentials.fly$1500000000",
		},
		// Escaping
		{
			name:     "Server with a dash",
			node:     NewBuilder("web.ui").Server("sky-block").MustBuild(),
			expected: `sky\-block/web.ui`,
		},
		{
			name:     "Permission with a slash",
			node:     NewBuilder(`cmd\/warp`).MustBuild(),
			expected: `cmd\/warp`,
		},
		{
			name:     "Permission with a dollar",
			node:     NewBuilder("pay$day").MustBuild(),
			expected: `pay\$day`,
		},
		{
			name:     "Context value with reserved characters",
			node:     NewBuilder("perm").WithContext("tag", "a,b=c").MustBuild(),
			expected: `(tag=a\,b\=c)perm`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.node.Serialize())
		})
	}
}

// TestSerializeCached tests that the serialized form is computed once
func TestSerializeCached(t *testing.T) {
	n := NewBuilder("essentials.fly").Server("survival").MustBuild()

	first := n.Serialize()
	second := n.Serialize()
	assert.Equal(t, "survival/essentials.fly", first)
	assert.Equal(t, first, second)
}

// TestSerializeConcurrent tests that concurrent first calls agree
func TestSerializeConcurrent(t *testing.T) {
	n := NewBuilder("essentials.fly").
		Server("survival").
		WithContext("gamemode", "creative").
		MustBuild()

	results := make([]string, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.Serialize()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "survival/(gamemode=creative)essentials.fly", r)
	}
}
