package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/mkcmt/mkcmt/changelog"
	"github.com/shu-go/findcfg"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"
)

const (
	userConfigFolder = "mkcmt"

	defaultRuleFileName   = ".mkcmt"
	defaultScopesFileName = ".mkcmt-scopes"

	configSection      = "mkcmt"
	configRule         = "rule"
	configScopeHistory = "scopes"
)

const defaultPromptFormat = "Generate a conventional commit message referencing changed files:\n\n{{.diff}}"

func defaultRule(withEmoji bool) Rule {
	return Rule{
		Model:            "gpt-4o-mini",
		SystemPrompt:     "Provide a concise conventional commit message without markdown formatting.",
		PromptFormat:     defaultPromptFormat,
		Types:            defaultCommitTypes(withEmoji),
		HeaderFormat:     "{{.type}}{{.scope_with_parens}}{{.bang}}: {{.emoji_unicode}}{{.description}}",
		HeaderFormatHint: ".type, .scope, .scope_with_parens, .bang(if breaking), .emoji, .emoji_unicode, .description",
		SuggestionLog:    "output_cc_suggestions.txt",
		PromptLog:        "output_cc_prompts.txt",
	}
}

// defaultCommitTypes builds the rule's type table from the sanctioned
// taxonomy, keeping the registry's order.
func defaultCommitTypes(withEmoji bool) *orderedmap.OrderedMap[string, CommitType] {
	details := map[string]CommitType{
		"feat":     {Desc: "A new feature", Emoji: ":sparkles:"},
		"fix":      {Desc: "A bug fix", Emoji: ":bug:"},
		"docs":     {Desc: "Documentation only changes", Emoji: ":memo:"},
		"style":    {Desc: "Formatting and style changes", Emoji: ":art:"},
		"refactor": {Desc: "A code change that neither fixes a bug nor adds a feature", Emoji: ":recycle:"},
		"test":     {Desc: "Adding missing tests or correcting existing tests", Emoji: ":test_tube:"},
		"chore":    {Desc: "Maintenance tasks", Emoji: ":hammer:"},
	}

	ct := orderedmap.New[string, CommitType]()
	ct.Set("# comment", CommitType{
		Desc: "comment starts with #",
	})
	for _, t := range changelog.Types() {
		d := details[t]
		if !withEmoji {
			d.Emoji = ""
		}
		ct.Set(t, d)
	}
	return ct
}

func readRuleFile(repos *git.Repository) (*Rule, string) {
	var rootDir string
	if wt, err := repos.Worktree(); err == nil {
		rootDir = wt.Filesystem.Root()
	}

	var exactPath string
	if rootDir != "" {
		// config
		if cfg := getGitConfig(repos, configRule); cfg != nil {
			exactPath = filepath.Join(rootDir, *cfg)
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultRuleFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if r, err := tryReadRuleFile(found.Path); err == nil {
			return r, found.Path
		}
	}

	r := defaultRule(false)
	return &r, finder.FallbackPath()
}

func tryReadRuleFile(filename string) (*Rule, error) {
	if s, err := os.Stat(filename); err != nil || s.IsDir() {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	r := defaultRule(false)
	r.Types = orderedmap.New[string, CommitType]()

	if in(filepath.Ext(filename), ".yaml", ".yml") {
		if err := yaml.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if in(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if err := yaml.Unmarshal(content, &r); err != nil {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return &r, nil
}

func readScopesFile(repos *git.Repository) (scopes Scopes, fileName string) {
	var rootDir string
	if wt, err := repos.Worktree(); err == nil {
		rootDir = wt.Filesystem.Root()
	}

	var exactPath string
	if rootDir != "" {
		// config
		if cfg := getGitConfig(repos, configScopeHistory); cfg != nil {
			exactPath = filepath.Join(rootDir, *cfg)
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultScopesFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if sc, err := tryReadScopesFile(found.Path); err == nil {
			return sc, found.Path
		}
		return nil, finder.FallbackPath()
	}

	return nil, finder.FallbackPath()
}

func tryReadScopesFile(filename string) (Scopes, error) {
	if s, err := os.Stat(filename); err != nil || s.IsDir() {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	sc := make(Scopes)

	if in(filepath.Ext(filename), ".yaml", ".yml") {
		if err = yaml.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	if in(filepath.Ext(filename), ".json") {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	if err = yaml.Unmarshal(content, &sc); err != nil {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	return sc, nil
}

// writeScopesFile records scope history most-recent-first so the completer
// can suggest in recency order.
func writeScopesFile(filename string, scopes Scopes) error {
	type tmpscope struct {
		scope string
		ts    time.Time
	}
	sclist := make([]tmpscope, 0, len(scopes))
	for k, v := range scopes {
		sclist = append(sclist, tmpscope{
			scope: k,
			ts:    v,
		})
	}
	sort.Slice(sclist, func(i, j int) bool {
		return sclist[i].ts.After(sclist[j].ts)
	})

	outscope := orderedmap.New[string, time.Time]()
	for _, s := range sclist {
		outscope.Set(s.scope, s.ts)
	}

	var content []byte
	var err error
	if in(filepath.Ext(filename), ".json") {
		content, err = json.MarshalIndent(outscope, "", "  ")
	} else {
		content, err = yaml.Marshal(outscope)
	}
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(content); err != nil {
		return fmt.Errorf("write scopes: %w", err)
	}
	return nil
}

func getGitConfig(repos *git.Repository, key string) *string {
	config, err := repos.Config()
	if err != nil {
		return nil
	}

	var ss *gitconfig.Section
	var found bool
	for _, s := range config.Raw.Sections {
		if s.Name == configSection {
			found = true
			ss = s
		}
	}
	if !found {
		return nil
	}

	if ctp := ss.Options.Get(key); ctp != "" {
		return &ctp
	}
	return nil
}
