// Package commit parses conventional commit messages.
//
// The expected shape is
//
//	<type>(<optional scope>): <description>
//
//	<optional body>
//
//	<optional footer>
//
// Sections are separated by a completely blank line (two consecutive line
// terminators). A single line break does not start a new section.
package commit

import (
	"errors"
	"fmt"
	"strings"
)

// Parse failures. Callers branch on the kind with errors.Is.
var (
	ErrEmptyInput          = errors.New("empty commit message")
	ErrMissingColon        = errors.New("missing ':' in header")
	ErrMissingClosingParen = errors.New("missing closing ')' in header")
	ErrEmptyScope          = errors.New("empty scope in header")
)

// breakingMarker flags a breaking change when it appears anywhere in the
// footer. A plain substring test, not trailer-keyword recognition.
const breakingMarker = "!"

// CommitMessage is a parsed conventional commit.
//
// Scope, Body and Footer are "" when the message has none. That is
// unambiguous: a blank scope fails parsing, and blank body/footer sections
// are treated as absent.
type CommitMessage struct {
	Type        string
	Scope       string
	Description string
	Body        string
	Footer      string
	Breaking    bool
}

// Parse parses a conventional commit message.
//
// The header is mandatory. The second section, if non-blank, becomes the
// body; the third, if non-blank, the footer. Anything past the third
// section is ignored. Breaking is set iff the footer is present and
// contains "!" somewhere; the marker in the header or body does not count.
//
// Parse never consults the changelog taxonomy; whether a type or scope is
// sanctioned is the caller's concern.
func Parse(input string) (*CommitMessage, error) {
	parts := strings.Split(input, "\n\n")
	if len(parts) == 0 || strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	header := strings.TrimSpace(parts[0])
	typ, scope, desc, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var body string
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}

	var footer string
	var breaking bool
	if len(parts) > 2 {
		footer = strings.TrimSpace(parts[2])
		breaking = footer != "" && strings.Contains(footer, breakingMarker)
	}

	return &CommitMessage{
		Type:        typ,
		Scope:       scope,
		Description: desc,
		Body:        body,
		Footer:      footer,
		Breaking:    breaking,
	}, nil
}

// parseHeader splits `<type>(<optional scope>): <description>`.
// Only the first colon and the first paren pair count; later colons or
// parens stay in the description verbatim.
func parseHeader(header string) (typ, scope, desc string, err error) {
	colon := strings.Index(header, ":")
	if colon < 0 {
		return "", "", "", fmt.Errorf("header %q: %w", header, ErrMissingColon)
	}
	meta := header[:colon]
	desc = strings.TrimSpace(header[colon+1:])

	open := strings.Index(meta, "(")
	if open < 0 {
		return strings.TrimSpace(meta), "", desc, nil
	}

	closing := strings.Index(meta[open+1:], ")")
	if closing < 0 {
		return "", "", "", fmt.Errorf("header %q: %w", header, ErrMissingClosingParen)
	}

	typ = strings.TrimSpace(meta[:open])
	scope = strings.TrimSpace(meta[open+1 : open+1+closing])
	if scope == "" {
		return "", "", "", fmt.Errorf("header %q: %w", header, ErrEmptyScope)
	}
	return typ, scope, desc, nil
}

// Header renders the canonical header line. Reparsing it yields the same
// type, scope and description.
func (m *CommitMessage) Header() string {
	if m.Scope != "" {
		return m.Type + "(" + m.Scope + "): " + m.Description
	}
	return m.Type + ": " + m.Description
}

// String renders the whole message with blank-line separated sections.
// A footer without a body keeps its place as the third section.
func (m *CommitMessage) String() string {
	s := m.Header()
	if m.Footer != "" {
		if m.Body == "" {
			return s + "\n\n\n\n" + m.Footer
		}
		return s + "\n\n" + m.Body + "\n\n" + m.Footer
	}
	if m.Body != "" {
		s += "\n\n" + m.Body
	}
	return s
}
