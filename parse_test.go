package permkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseNode tests parsing of the serialized node grammar
func TestParseNode(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPerm   string
		wantServer string
		wantWorld  string
		wantExpiry int64
		wantCtx    []Context
	}{
		// Bare permissions
		{
			name:     "Permission only",
			input:    "essentials.fly",
			wantPerm: "essentials.fly",
		},
		// Scope heads
		{
			name:       "Server",
			input:      "survival/essentials.fly",
			wantPerm:   "essentials.fly",
			wantServer: "survival",
		},
		{
			name:       "Server and world",
			input:      "survival-nether/essentials.fly",
			wantPerm:   "essentials.fly",
			wantServer: "survival",
			wantWorld:  "nether",
		},
		{
			name:      "Global placeholder server collapses",
			input:     "global-nether/essentials.fly",
			wantPerm:  "essentials.fly",
			wantWorld: "nether",
		},
		{
			name:       "Escaped dash stays in the server name",
			input:      `sky\-block/essentials.fly`,
			wantPerm:   "essentials.fly",
			wantServer: "sky-block",
		},
		// Contexts
		{
			name:     "Single context",
			input:    "(gamemode=creative)essentials.fly",
			wantPerm: "essentials.fly",
			wantCtx:  []Context{{Key: "gamemode", Value: "creative"}},
		},
		{
			name:       "Scope and contexts",
			input:      "survival/(a=1,b=2)fly",
			wantPerm:   "fly",
			wantServer: "survival",
			wantCtx: []Context{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2"},
			},
		},
		{
			name:     "Context value containing a slash",
			input:    "(url=https://example)fly",
			wantPerm: "fly",
			wantCtx:  []Context{{Key: "url", Value: "https://example"}},
		},
		{
			name:     "Escaped context value",
			input:    `(tag=a\,b\=c)fly`,
			wantPerm: "fly",
			wantCtx:  []Context{{Key: "tag", Value: "a,b=c"}},
		},
		// Expiry
		{
			name:       "Expiry",
			input:      "fly$1500000000",
			wantPerm:   "fly",
			wantExpiry: 1500000000,
		},
		{
			name:     "Escaped dollar stays in the permission",
			input:    `pay\$day`,
			wantPerm: "pay$day",
		},
		{
			name:       "Escaped dollar with a real expiry",
			input:      `pay\$day$777`,
			wantPerm:   "pay$day",
			wantExpiry: 777,
		},
		// Escaping in the permission
		{
			name:     "Escaped slash in the permission",
			input:    `cmd\/warp`,
			wantPerm: "cmd/warp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNode(tt.input, true)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPerm, n.Permission())
			server, _ := n.Server()
			assert.Equal(t, tt.wantServer, server)
			world, _ := n.World()
			assert.Equal(t, tt.wantWorld, world)
			assert.Equal(t, tt.wantCtx, n.Contexts().Entries())
			if tt.wantExpiry == 0 {
				assert.True(t, n.IsPermanent())
			} else {
				exp, err := n.ExpiryUnixTime()
				require.NoError(t, err)
				assert.Equal(t, tt.wantExpiry, exp)
			}
		})
	}
}

// TestParseNodeValue tests that the caller supplies the value bit
func TestParseNodeValue(t *testing.T) {
	grant, err := ParseNode("essentials.fly", true)
	require.NoError(t, err)
	assert.True(t, grant.Value())

	negation, err := ParseNode("essentials.fly", false)
	require.NoError(t, err)
	assert.False(t, negation.Value())
}

// TestParseNodeMalformed tests rejection of malformed input
func TestParseNodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "Empty input",
			input: "",
		},
		{
			name:  "Unterminated context group",
			input: "(a=b",
		},
		{
			name:  "Context pair missing equals",
			input: "(ab)perm",
		},
		{
			name:  "Context pair with an empty key",
			input: "(=v)perm",
		},
		{
			name:  "Missing permission after scope",
			input: "survival/",
		},
		{
			name:  "Missing permission before expiry",
			input: "$123",
		},
		{
			name:  "Expiry is not an integer",
			input: "perm$12x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNode(tt.input, true)

			assert.Nil(t, n)
			assert.True(t, IsMalformedNode(err))
		})
	}
}

// TestParseSerializeRoundTrip tests that parsing a serialized node restores
// an equal node
func TestParseSerializeRoundTrip(t *testing.T) {
	nodes := []*Node{
		NewBuilder("essentials.fly").MustBuild(),
		NewBuilder("essentials.fly").Server("survival").MustBuild(),
		NewBuilder("fly").Server("sky-block").World("the-end").MustBuild(),
		NewBuilder("fly").World("nether").MustBuild(),
		NewBuilder("fly").Value(false).WithContext("gamemode", "creative").WithContext("team", "Red").MustBuild(),
		NewBuilder("fly").ExpiryUnixTime(1500000000).MustBuild(),
		NewBuilder("pay$day").ExpiryUnixTime(777).MustBuild(),
		NewBuilder(`cmd\/warp`).Server(`sky\-block`).MustBuild(),
		NewBuilder("perm").WithContext("tag", "a,b=c").WithContext("paren", "x)y").MustBuild(),
		NewMetaBuilder("locale", "en_US").MustBuild(),
		NewMetaBuilder("my.key", "the value").MustBuild(),
		NewPrefixBuilder(50, "[admin]").MustBuild(),
		NewSuffixBuilder(10, "star").MustBuild(),
		NewGroupBuilder("vip").ExpiryUnixTime(2000000000).MustBuild(),
	}

	for _, n := range nodes {
		t.Run(n.Serialize(), func(t *testing.T) {
			parsed, err := ParseNode(n.Serialize(), n.Value())
			require.NoError(t, err)

			assert.True(t, n.Equals(parsed), "round trip of %q", n.Serialize())
			assert.Equal(t, n.Hash(), parsed.Hash())
			assert.Equal(t, n.Serialize(), parsed.Serialize())
		})
	}
}

// TestParseBuilder tests modifying a parsed node before freezing
func TestParseBuilder(t *testing.T) {
	b, err := ParseBuilder("survival/essentials.fly", true)
	require.NoError(t, err)

	n := b.World("nether").MustBuild()

	world, ok := n.World()
	assert.True(t, ok)
	assert.Equal(t, "nether", world)
	server, _ := n.Server()
	assert.Equal(t, "survival", server)
}
