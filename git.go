package main

import (
	"fmt"
	"os/exec"
	"strings"
)

func runGitDiff(extra string) (string, error) {
	args := []string{"diff"}
	if extra != "" {
		args = append(args, extra)
	}
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func showCommitMessage(rev string) (string, error) {
	out, err := exec.Command("git", "show", "-s", "--format=%B", rev).Output()
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", rev, err)
	}
	return string(out), nil
}

func softReset() error {
	if err := exec.Command("git", "reset", "--soft", "HEAD~1").Run(); err != nil {
		return fmt.Errorf("git reset --soft HEAD~1: %w", err)
	}
	return nil
}
