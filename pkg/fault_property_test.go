package soaprouter

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_PrefixGeneratorNeverRepeats checks that N calls to a
// fresh PrefixGenerator always produce N distinct prefixes, for any N
// in a reasonable range (well past the single-letter exhaustion
// point, to exercise the carry logic).
func TestProperty_PrefixGeneratorNeverRepeats(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("prefixes are unique across a run", prop.ForAll(
		func(n int) bool {
			gen := &PrefixGenerator{}
			seen := map[string]bool{}
			for i := 0; i < n; i++ {
				p := gen.Next()
				if seen[p] {
					t.Logf("duplicate prefix %s at index %d", p, i)
					return false
				}
				seen[p] = true
			}
			return true
		},
		gen.IntRange(0, 800),
	))

	properties.Property("prefixes are non-empty and lower-case ascii", prop.ForAll(
		func(n int) bool {
			gen := &PrefixGenerator{}
			for i := 0; i < n; i++ {
				p := gen.Next()
				if len(p) == 0 {
					return false
				}
				for _, r := range p {
					if r < 'a' || r > 'z' {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 800),
	))

	properties.TestingRun(t)
}
