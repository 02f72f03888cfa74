package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContents(t *testing.T) {
	assert.Equal(t, []string{"feat", "fix", "docs", "style", "refactor", "test", "chore"}, Types())
	assert.Equal(t, []string{"core", "ui", "api", "build", "docs", "tests"}, Scopes())
	assert.Equal(t, "!", BreakingMarker())
}

func TestNoDuplicates(t *testing.T) {
	for _, list := range [][]string{Types(), Scopes()} {
		seen := map[string]bool{}
		for _, v := range list {
			assert.False(t, seen[v], "duplicate entry %q", v)
			seen[v] = true
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	got := Types()
	got[0] = "mangled"
	assert.Equal(t, "feat", Types()[0])

	sc := Scopes()
	sc[0] = "mangled"
	assert.Equal(t, "core", Scopes()[0])
}

func TestGet(t *testing.T) {
	c := Get()
	assert.Equal(t, Types(), c.Types)
	assert.Equal(t, Scopes(), c.Scopes)
	assert.Equal(t, BreakingMarker(), c.BreakingMarker)
}
