package permkit

import (
	"regexp"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// compiledPattern memoizes one compile result. A nil re records an
// expression that failed to compile.
type compiledPattern struct {
	re *regexp.Regexp
}

var (
	patternCache  = xsync.NewMapOf[string, compiledPattern]()
	patternHits   atomic.Int64
	patternMisses atomic.Int64
)

// CompilePattern compiles expr anchored for full-string matching and caches
// the result process-wide, failures included. Validity is judged on expr
// alone: an expression that only balances inside the anchoring wrapper is
// still invalid. It returns nil when expr is not a valid pattern; an invalid
// pattern is a no-match marker, never an error.
func CompilePattern(expr string) *regexp.Regexp {
	p, loaded := patternCache.LoadOrCompute(expr, func() compiledPattern {
		if _, err := regexp.Compile(expr); err != nil {
			return compiledPattern{}
		}
		re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
		if err != nil {
			return compiledPattern{}
		}
		return compiledPattern{re: re}
	})
	if loaded {
		patternHits.Add(1)
	} else {
		patternMisses.Add(1)
	}
	return p.re
}

// CacheStats provides cache usage statistics.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// PatternCacheStats returns the current pattern cache counters. Hits and
// misses are monotonic for the life of the process.
func PatternCacheStats() CacheStats {
	return CacheStats{
		Hits:   patternHits.Load(),
		Misses: patternMisses.Load(),
		Size:   patternCache.Size(),
	}
}
