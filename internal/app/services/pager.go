package services

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PagerCommand determines the pager command to use. A configured pager wins
// over $PAGER; less and more are tried before falling back to cat.
func PagerCommand(configured string) string {
	if pager := strings.TrimSpace(configured); pager != "" {
		return pager
	}
	if pager := strings.TrimSpace(os.Getenv("PAGER")); pager != "" {
		return pager
	}
	if _, err := exec.LookPath("less"); err == nil {
		return "less --use-color -q --wordwrap -qcR -P 'Press q to exit..'"
	}
	if _, err := exec.LookPath("more"); err == nil {
		return "more"
	}
	return "cat"
}

// PagerEnv returns environment variables needed for the pager.
func PagerEnv(pager string) []string {
	if pagerIsLess(pager) {
		return []string{"LESS=", "LESSHISTFILE=-"}
	}
	return nil
}

func pagerIsLess(pager string) bool {
	for field := range strings.FieldsSeq(pager) {
		if strings.Contains(field, "=") && !strings.HasPrefix(field, "-") && !strings.Contains(field, "/") {
			continue
		}
		return filepath.Base(field) == "less"
	}
	return false
}

// PagerCmd builds a command that pipes content into pager through the shell.
func PagerCmd(ctx context.Context, pager, content string) *exec.Cmd {
	// #nosec G204 -- the pager comes from the user's config or environment
	c := exec.CommandContext(ctx, "sh", "-c", pager)
	c.Stdin = strings.NewReader(content)
	c.Env = append(os.Environ(), PagerEnv(pager)...)
	return c
}
