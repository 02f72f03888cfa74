package main

import (
	"time"

	"github.com/shu-go/orderedmap"
)

type CommitType struct {
	Desc  string `json:"description,omitempty"`
	Emoji string `json:"emoji,omitempty"`
}

type Rule struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"systemPrompt"`

	// PromptFormat is a text/template; {{.diff}} receives the gathered diff.
	PromptFormat string `json:"promptFormat"`

	HeaderFormat     string `json:"headerFormat"`
	HeaderFormatHint string `json:"headerFormatHint"`

	Types *orderedmap.OrderedMap[string, CommitType] `json:"types"` //map[string]CommitType

	DenyAdlibType bool `json:"denyAdlibType"`

	SuggestionLog string `json:"suggestionLog"`
	PromptLog     string `json:"promptLog"`
}

type Scopes map[string]time.Time
