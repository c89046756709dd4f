package permkit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompilePattern tests memoized compilation and full-string matching
func TestCompilePattern(t *testing.T) {
	t.Run("Valid pattern compiles", func(t *testing.T) {
		re := CompilePattern("sur.*")
		require.NotNil(t, re)
		assert.True(t, re.MatchString("survival"))
		assert.False(t, re.MatchString("creative"))
	})

	t.Run("Patterns match whole strings only", func(t *testing.T) {
		re := CompilePattern("a+")
		require.NotNil(t, re)
		assert.True(t, re.MatchString("aaa"))
		assert.False(t, re.MatchString("baa"))
		assert.False(t, re.MatchString("aab"))
	})

	t.Run("Alternation covers the full string", func(t *testing.T) {
		re := CompilePattern("a|ab")
		require.NotNil(t, re)
		assert.True(t, re.MatchString("a"))
		assert.True(t, re.MatchString("ab"))
		assert.False(t, re.MatchString("abc"))
	})

	t.Run("Invalid pattern returns nil on every call", func(t *testing.T) {
		assert.Nil(t, CompilePattern("(unclosed"))
		assert.Nil(t, CompilePattern("(unclosed"))
	})

	t.Run("Anchoring never rescues an invalid pattern", func(t *testing.T) {
		// "a)|(b" balances inside a wrapping group but is malformed on its
		// own, so it must stay the no-match marker.
		assert.Nil(t, CompilePattern("a)|(b"))
		assert.Nil(t, CompilePattern("a)|(b"))
		assert.Nil(t, CompilePattern(")"))
	})

	t.Run("Repeated compilation returns the cached instance", func(t *testing.T) {
		first := CompilePattern("cache.me")
		second := CompilePattern("cache.me")
		assert.Same(t, first, second)
	})
}

// TestPatternCacheStats tests hit and miss accounting
func TestPatternCacheStats(t *testing.T) {
	before := PatternCacheStats()

	CompilePattern("stats.sample.alpha")
	CompilePattern("stats.sample.alpha")

	after := PatternCacheStats()
	assert.GreaterOrEqual(t, after.Misses, before.Misses+1)
	assert.GreaterOrEqual(t, after.Hits, before.Hits+1)
	assert.GreaterOrEqual(t, after.Size, 1)
}

// TestCompilePatternConcurrent tests concurrent access to the cache
func TestCompilePatternConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				re := CompilePattern("concurrent.[a-z]+")
				if re == nil {
					t.Error("expected pattern to compile")
					return
				}
				if !re.MatchString("concurrent.abc") {
					t.Error("expected pattern to match")
					return
				}
			}
		}()
	}
	wg.Wait()
}

// TestInternPermission tests that equal strings collapse to one instance
func TestInternPermission(t *testing.T) {
	a := InternPermission("intern" + ".shared")
	b := InternPermission("intern.shared")

	assert.Equal(t, a, b)
	assert.Equal(t, "intern.shared", a)
}
