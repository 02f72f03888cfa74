package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	prompt "github.com/elk-language/go-prompt"
	pstrings "github.com/elk-language/go-prompt/strings"

	"github.com/atotto/clipboard"
	"github.com/kyokomi/emoji/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mkcmt/mkcmt/changelog"
	"github.com/mkcmt/mkcmt/commit"
)

const refineSystemPrompt = "Suggest an improved prompt to obtain a better conventional commit message following conventional commit specifications."

func (c globalCmd) chatLoop(diff string) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	client := openai.NewClient(apiKey)
	ctx := context.Background()

	promptFormat := c.rule.PromptFormat
	if promptFormat == "" {
		promptFormat = defaultPromptFormat
	}

	for {
		actual, err := renderPrompt(promptFormat, diff)
		if err != nil {
			// a refined template may come back broken
			fmt.Fprintf(os.Stderr, "WARNING: prompt template: %v\n", err)
			promptFormat = defaultPromptFormat
			actual, err = renderPrompt(promptFormat, diff)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "querying %s for a commit message...\n", c.rule.Model)
		suggestion, err := chatOnce(ctx, client, c.rule.Model, c.rule.SystemPrompt, actual)
		if err != nil {
			return err
		}
		suggestion = strings.ReplaceAll(suggestion, "`", "")

		logOutput(c.rule.SuggestionLog, suggestion)
		fmt.Printf("\nsuggested commit message:\n%s\n", suggestion)

		msg, perr := commit.Parse(suggestion)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "suggestion does not parse: %v\n", perr)
		} else {
			c.printParsed(msg)

			switch strings.ToLower(ask("\naccept this commit message? (y=yes / e=edit / n=refine): ")) {
			case "y":
				return finishUp(suggestion)
			case "e":
				return finishUp(c.editMessage(msg))
			}
		}

		fmt.Println("refining prompt for a better commit message...")
		refined, err := chatOnce(ctx, client, c.rule.Model, refineSystemPrompt, actual)
		if err != nil {
			return err
		}
		if !strings.Contains(refined, "{{.diff}}") {
			refined += "\n\n{{.diff}}"
		}
		promptFormat = refined

		if rendered, err := renderPrompt(promptFormat, diff); err == nil {
			logOutput(c.rule.PromptLog, rendered)
			fmt.Printf("\nrefined prompt used:\n%s\n", rendered)
		}
	}
}

func chatOnce(ctx context.Context, client *openai.Client, model, system, user string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func renderPrompt(format, diff string) (string, error) {
	templ, err := template.New("").Parse(format)
	if err != nil {
		return "", err
	}
	buf := bytes.Buffer{}
	if err := templ.Execute(&buf, map[string]string{"diff": diff}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func logOutput(filename, content string) {
	if filename == "" {
		return
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: log %s: %v\n", filename, err)
		return
	}
	defer file.Close()
	fmt.Fprintf(file, "\n----------------------\n%s\n", content)
}

// printParsed shows the structured record and warns when the type or scope
// is off the sanctioned lists. Warnings only; the parser itself never
// checks membership.
func (c globalCmd) printParsed(m *commit.CommitMessage) {
	fmt.Println("\nparsed:")
	fmt.Println("  type:        " + m.Type)
	if m.Scope != "" {
		fmt.Println("  scope:       " + m.Scope)
	}
	fmt.Println("  description: " + m.Description)
	if m.Body != "" {
		fmt.Println("  body:        " + m.Body)
	}
	if m.Footer != "" {
		fmt.Println("  footer:      " + m.Footer)
	}
	if m.Breaking {
		fmt.Println("  BREAKING CHANGE")
	}

	if !in(m.Type, changelog.Types()...) {
		fmt.Fprintf(os.Stderr, "note: type %q is not sanctioned (%s)\n", m.Type, strings.Join(changelog.Types(), ", "))
	}
	if m.Scope != "" && !in(m.Scope, changelog.Scopes()...) {
		fmt.Fprintf(os.Stderr, "note: scope %q is not sanctioned (%s)\n", m.Scope, strings.Join(changelog.Scopes(), ", "))
	}
}

// editMessage lets the user fix up the header interactively. Body and
// footer are kept as suggested.
func (c globalCmd) editMessage(m *commit.CommitMessage) string {
	typ := c.promptType(m.Type)
	scope := c.promptScope(m.Scope)
	desc := c.promptDesc(m.Description)

	// write back scope history

	if scope != "" && c.scopesFileName != "" {
		c.scopes[scope] = time.Now()
		if err := writeScopesFile(c.scopesFileName, c.scopes); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
		}
	}

	msg := c.renderHeader(typ, scope, m.Breaking, desc)
	if m.Footer != "" {
		if m.Body == "" {
			msg += "\n\n"
		} else {
			msg += "\n\n" + m.Body
		}
		msg += "\n\n" + m.Footer
	} else if m.Body != "" {
		msg += "\n\n" + m.Body
	}
	return msg
}

func (c globalCmd) promptType(current string) string {
	items := make([]prompt.Suggest, 0, len(c.rule.Types.Keys()))

	for _, k := range c.rule.Types.Keys() {
		if strings.HasPrefix(k, "#") {
			continue
		}

		ct, ok := c.rule.Types.Get(k)
		if !ok || ct.Desc == "" {
			continue
		}

		item := prompt.Suggest{
			Text:        k,
			Description: strings.TrimSpace(c.emojiOf(k, true) + " " + ct.Desc),
		}
		items = append(items, item)
	}

	typeCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(items, w, true), startIndex, endIndex
	}

	for {
		typ := prompt.Input(
			prompt.WithPrefix("Type ["+current+"]: "),
			prompt.WithCompleter(typeCompleter),
			prompt.WithShowCompletionAtStart(),
		)
		if typ == "" {
			return current
		}
		if c.rule.DenyAdlibType {
			if _, found := c.rule.Types.Get(typ); !found {
				fmt.Fprintln(os.Stderr, "ad-lib type is not allowed")
				continue
			}
		}
		return typ
	}
}

func (c globalCmd) promptScope(current string) string {
	items := make([]prompt.Suggest, 0, 8)

	for s, t := range c.scopes {
		item := prompt.Suggest{
			Text:        s,
			Description: t.Local().Format(time.RFC3339),
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Description > items[j].Description
	})
	// timestamps are not shown
	for i := range items {
		items[i].Description = ""
	}
	for _, s := range changelog.Scopes() {
		if _, recorded := c.scopes[s]; recorded {
			continue
		}
		items = append(items, prompt.Suggest{Text: s})
	}

	scopeCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(items, w, true), startIndex, endIndex
	}
	scope := prompt.Input(
		prompt.WithPrefix("Scope ["+current+"] ('-' to drop): "),
		prompt.WithCompleter(scopeCompleter),
		prompt.WithShowCompletionAtStart(),
	)
	if scope == "" {
		return current
	}
	if scope == "-" {
		return ""
	}

	return scope
}

func (c globalCmd) promptDesc(current string) string {
	descCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(nil, w, true), startIndex, endIndex
	}

	desc := prompt.Input(prompt.WithPrefix("Description ["+current+"]: "), prompt.WithCompleter(descCompleter))
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return current
	}

	return desc
}

func (c globalCmd) renderHeader(typ, scope string, breaking bool, desc string) string {
	emojiText := c.emojiOf(typ, false)
	emojiUnicode := c.emojiOf(typ, true)

	var scopeWithParens string
	if scope != "" {
		scopeWithParens = "(" + scope + ")"
	}

	var bang string
	if breaking {
		bang = changelog.BreakingMarker()
	}

	templ, err := template.New("").Parse(c.rule.HeaderFormat)
	buf := bytes.Buffer{}
	if err == nil {
		err = templ.Execute(&buf, map[string]string{
			"type":              typ,
			"scope":             scope,
			"scope_with_parens": scopeWithParens,
			"bang":              bang,
			"emoji":             emojiText,
			"emoji_unicode":     emojiUnicode,
			"description":       desc,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %q\n", err, c.rule.HeaderFormat)
		buf.Reset()
		buf.WriteString(typ)
		buf.WriteString(scopeWithParens)
		buf.WriteString(bang)
		buf.WriteString(": ")
		buf.WriteString(desc)
	}
	return buf.String()
}

func (c globalCmd) emojiOf(typ string, emojize bool) string {
	if ct, found := c.rule.Types.Get(typ); found {
		e := ct.Emoji
		if emojize {
			e = strings.TrimSpace(emoji.Emojize(e))
		}
		return e
	}

	return ""
}

func finishUp(msg string) error {
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

func ask(msg string) string {
	fmt.Print(msg)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(msg string) bool {
	return strings.EqualFold(ask(msg), "y")
}
