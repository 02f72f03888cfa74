// Package changelog holds the sanctioned commit types and scopes and the
// breaking-change marker. This is policy data only: the commit parser never
// consults it, and nothing here validates parsed messages. Consumers decide
// whether and how to enforce it.
package changelog

var types = []string{
	"feat",     // new features
	"fix",      // bug fixes
	"docs",     // documentation only changes
	"style",    // formatting and style changes
	"refactor", // code refactoring
	"test",     // tests additions or fixes
	"chore",    // maintenance tasks
}

var scopes = []string{
	"core",
	"ui",
	"api",
	"build",
	"docs",
	"tests",
}

// breakingChangeMarker marks a breaking change in a commit footer.
const breakingChangeMarker = "!"

// Types returns the sanctioned commit types, in display order.
func Types() []string {
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// Scopes returns the sanctioned scopes, in display order.
func Scopes() []string {
	out := make([]string, len(scopes))
	copy(out, scopes)
	return out
}

// BreakingMarker returns the breaking-change marker.
func BreakingMarker() string {
	return breakingChangeMarker
}

// Changelog bundles the full taxonomy.
type Changelog struct {
	Types          []string
	Scopes         []string
	BreakingMarker string
}

// Get returns the taxonomy in one value. The slices are copies; mutating
// them does not affect later calls.
func Get() Changelog {
	return Changelog{
		Types:          Types(),
		Scopes:         Scopes(),
		BreakingMarker: BreakingMarker(),
	}
}
