package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  CommitMessage
	}{
		{
			name:  "header only, no scope",
			input: "fix: correct typo",
			want: CommitMessage{
				Type:        "fix",
				Description: "correct typo",
			},
		},
		{
			name:  "header with scope",
			input: "feat(ui): add new button",
			want: CommitMessage{
				Type:        "feat",
				Scope:       "ui",
				Description: "add new button",
			},
		},
		{
			name:  "full message with breaking footer",
			input: "feat(ui): add new button\n\nThis commit adds a new button to the UI.\n\nBREAKING CHANGE!: The button API has changed.",
			want: CommitMessage{
				Type:        "feat",
				Scope:       "ui",
				Description: "add new button",
				Body:        "This commit adds a new button to the UI.",
				Footer:      "BREAKING CHANGE!: The button API has changed.",
				Breaking:    true,
			},
		},
		{
			name:  "footer without marker is not breaking",
			input: "feat(ui): add new button\n\nbody text\n\nReviewed-by: someone",
			want: CommitMessage{
				Type:        "feat",
				Scope:       "ui",
				Description: "add new button",
				Body:        "body text",
				Footer:      "Reviewed-by: someone",
			},
		},
		{
			name:  "blank body and footer sections are absent",
			input: "docs(api): update documentation\n\n\n",
			want: CommitMessage{
				Type:        "docs",
				Scope:       "api",
				Description: "update documentation",
			},
		},
		{
			name:  "whitespace trimmed at every boundary",
			input: "  feat ( ui ) :   add new button  \n\n  body  ",
			want: CommitMessage{
				Type:        "feat",
				Scope:       "ui",
				Description: "add new button",
				Body:        "body",
			},
		},
		{
			name:  "only first colon and paren pair are honored",
			input: "fix(core): handle a(b): and c:d cases",
			want: CommitMessage{
				Type:        "fix",
				Scope:       "core",
				Description: "handle a(b): and c:d cases",
			},
		},
		{
			name:  "empty description is allowed",
			input: "chore:",
			want: CommitMessage{
				Type: "chore",
			},
		},
		{
			name:  "sections beyond the third are ignored",
			input: "fix: x\n\nbody\n\nfooter\n\nextra!",
			want: CommitMessage{
				Type:        "fix",
				Description: "x",
				Body:        "body",
				Footer:      "footer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, &tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"blank input", "   \n \n", ErrEmptyInput},
		{"empty input", "", ErrEmptyInput},
		{"no colon", "chore update dependencies", ErrMissingColon},
		{"open paren never closed", "feat(ui: add new button", ErrMissingClosingParen},
		{"empty parens", "feat(): add new button", ErrEmptyScope},
		{"blank scope", "feat(   ): add new button", ErrEmptyScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestParseSingleNewlinesStayOneSection(t *testing.T) {
	// Single line breaks do not separate sections, so the marker text ends
	// up inside the header and the commit is not breaking.
	input := "feat(ui): add new button\nThis commit adds a new button to the UI.\nBREAKING CHANGE!: The button API has changed."

	got, err := Parse(input)
	require.NoError(t, err)
	assert.False(t, got.Breaking)
	assert.Empty(t, got.Body)
	assert.Empty(t, got.Footer)
}

func TestParseMarkerOutsideFooterIsNotBreaking(t *testing.T) {
	got, err := Parse("feat(ui): add button!\n\nreally important!\n\nnothing to see here")
	require.NoError(t, err)
	assert.False(t, got.Breaking)

	got, err = Parse("feat(ui): add button!\n\nno footer at all")
	require.NoError(t, err)
	assert.False(t, got.Breaking)
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, input := range []string{
		"feat(ui): add new button",
		"fix: correct typo",
		"refactor( core ):  tidy up ",
	} {
		first, err := Parse(input)
		require.NoError(t, err)

		second, err := Parse(first.Header())
		require.NoError(t, err)
		assert.Equal(t, first.Type, second.Type)
		assert.Equal(t, first.Scope, second.Scope)
		assert.Equal(t, first.Description, second.Description)
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []CommitMessage{
		{Type: "fix", Description: "correct typo"},
		{Type: "feat", Scope: "ui", Description: "add button", Body: "some body"},
		{Type: "feat", Scope: "ui", Description: "add button", Body: "some body", Footer: "BREAKING CHANGE!: api", Breaking: true},
		{Type: "feat", Description: "add button", Footer: "breaks things!", Breaking: true},
	}

	for _, m := range tests {
		got, err := Parse(m.String())
		require.NoError(t, err)
		assert.Equal(t, &m, got)
	}
}
