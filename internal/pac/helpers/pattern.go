package helpers

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const maxCachedPatterns = 256

// patternCache memoizes compiled shell expressions; scripts call shExpMatch
// with a handful of literals on every query
type patternCache struct {
	compiled *lru.Cache[string, *regexp.Regexp]
}

func newPatternCache() *patternCache {
	compiled, err := lru.New[string, *regexp.Regexp](maxCachedPatterns)
	if err != nil {
		panic(err)
	}
	return &patternCache{compiled: compiled}
}

func (c *patternCache) get(pattern string) *regexp.Regexp {
	if re, ok := c.compiled.Get(pattern); ok {
		return re
	}
	re := compileShExp(pattern)
	c.compiled.Add(pattern, re)
	return re
}

// compileShExp translates a shell expression into an anchored regexp.
// Only * and ? are special; '/' has no path meaning.
func compileShExp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return regexp.MustCompile(b.String())
}
