package booking

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z]+-\d+-[0-9a-z]{7}$`)

func TestGenerateReference(t *testing.T) {
	t.Run("Matches the expected pattern", func(t *testing.T) {
		ref := GenerateReference("BK")
		assert.Regexp(t, referencePattern, ref)
		assert.True(t, strings.HasPrefix(ref, "BK-"))
	})

	t.Run("Carries the caller's prefix", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(GenerateReference("DEP"), "DEP-"))
	})

	t.Run("Unique across consecutive generations", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			ref := GenerateReference("BK")
			_, dup := seen[ref]
			assert.False(t, dup, "duplicate reference %s", ref)
			seen[ref] = struct{}{}
		}
	})
}
