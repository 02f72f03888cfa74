package main

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/atotto/clipboard"
	"github.com/shu-go/gli"
)

type globalCmd struct {
	rule *Rule

	scopesFileName string
	scopes         Scopes

	Recovery bool `cli:"recovery,r" help:"restore the commit message from HEAD@{1}"`
	Soft     bool `cli:"soft-reset,s" help:"soft-reset the current branch by one commit"`
	Current  bool `cli:"current,c" help:"show the last commit message"`

	Model string `cli:"model" help:"chat model (overrides the rule file)"`
	Debug bool   `cli:"debug" default:"false" help:"print the diff and the prompt, do not call the API"`

	Gen genCmd `cli:"generate,gen" help:"generate rule file"`
}

func (c globalCmd) Run() error {
	if c.Recovery {
		return recoverCommitMessage()
	}
	if c.Soft {
		if err := softReset(); err != nil {
			return err
		}
		fmt.Println("soft reset performed on the current branch.")
		return nil
	}
	if c.Current {
		msg, err := showCommitMessage("HEAD")
		if err != nil {
			return err
		}
		fmt.Printf("last commit message:\n\n%s\n", msg)
		return nil
	}

	repos, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return err
	}

	if err := c.prepare(repos); err != nil {
		return err
	}
	if c.Model != "" {
		c.rule.Model = c.Model
	}

	diff, err := c.gatherDiff()
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(os.Stderr, "no changes")

		if !c.Debug {
			return nil
		}
	}

	if c.Debug {
		rendered, err := renderPrompt(c.rule.PromptFormat, diff)
		if err != nil {
			return err
		}
		fmt.Println("----------")
		fmt.Println(diff)
		fmt.Println("----------")
		fmt.Println(rendered)
		return nil
	}

	return c.chatLoop(diff)
}

func (c *globalCmd) prepare(repos *git.Repository) error {
	c.rule, _ = readRuleFile(repos)

	// scope history

	c.scopes, c.scopesFileName = readScopesFile(repos)
	if c.scopes == nil {
		c.scopes = make(Scopes)
	}

	return nil
}

// gatherDiff prefers the staged diff. When both staged and unstaged
// changes exist, the user chooses whether to include both.
func (c globalCmd) gatherDiff() (string, error) {
	staged, err := runGitDiff("--cached")
	if err != nil {
		return "", err
	}
	unstaged, err := runGitDiff("")
	if err != nil {
		return "", err
	}

	switch {
	case staged == "" && unstaged == "":
		return "", nil
	case staged == "":
		fmt.Fprintln(os.Stderr, "no staged changes, using the unstaged diff")
		return unstaged, nil
	case unstaged == "":
		return staged, nil
	}

	fmt.Fprintln(os.Stderr, "both staged and unstaged changes detected.")
	if confirm("include both staged and unstaged changes in commit message? (y/n): ") {
		return staged + "\n" + unstaged, nil
	}
	return staged, nil
}

func recoverCommitMessage() error {
	msg, err := showCommitMessage("HEAD@{1}")
	if err != nil {
		return err
	}
	fmt.Printf("recovered commit message:\n\n%s\n", msg)

	if confirm("\ncopy commit message to clipboard? (y/n): ") {
		if err := clipboard.WriteAll(msg); err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
		fmt.Println("commit message copied to clipboard.")
	} else {
		fmt.Println("commit message not copied.")
	}
	return nil
}

// Version is app version
var Version string

func main() {
	rule, scope := getPathToHelp()
	if rule != "" {
		rule = "\nrule: " + rule + "\n"
	}
	if scope != "" {
		scope = "scope: " + scope + "\n"
	}

	app := gli.NewWith(&globalCmd{})
	app.Name = "mkcmt"
	app.Desc = "a conventional commit message maker"
	app.Version = Version
	app.Usage = `
# basic usage (drafts a message from the staged diff)
export OPENAI_API_KEY=...
mkcmt

# recover the message of a reset commit
mkcmt -r

# customize
mkcmt gen
(edit .mkcmt.yaml)
mkcmt
` + rule + scope + `

# record and complete scope history
(gitconfig: [mkcmt] scopes=.mkcmt-scopes.yaml)`
	app.Copyright = "(C) 2026 mkcmt authors"
	app.SuppressErrorOutput = true
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getPathToHelp() (rule string, scope string) {
	repos, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ""
	}

	_, rule = readRuleFile(repos)
	_, scope = readScopesFile(repos)

	return rule, scope
}

func in(s string, choices ...string) bool {
	if len(choices) == 0 {
		return false
	}

	for i := 0; i < len(choices); i++ {
		if strings.EqualFold(s, choices[i]) {
			return true
		}
	}

	return false
}
