package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ultrabuild/ultrabuild/domain"
)

const rewriteSystemPrompt = "You are a code repair assistant. " +
	"Return only the complete corrected source code without explanations or markdown."

// Rewriter asks a Completer to fix one finding at a time
type Rewriter struct {
	completer Completer
}

// NewRewriter creates a rewriter backed by completer
func NewRewriter(completer Completer) *Rewriter {
	return &Rewriter{completer: completer}
}

// Rewrite returns the completer's version of code with finding addressed
func (r *Rewriter) Rewrite(ctx context.Context, code, language string, finding domain.Finding) (string, error) {
	prompt := fmt.Sprintf(
		"Fix the following %s issue in this %s code.\nIssue: %s (%s, severity %s)\nOffending text: %s\n\nCode:\n%s",
		finding.Category, languageOrDefault(language), finding.Message, finding.RuleID, finding.Severity, finding.Match, code,
	)

	out, err := r.completer.Complete(ctx, rewriteSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	out = stripCodeFence(out)
	if strings.TrimSpace(out) == "" {
		return "", errors.New("rewrite returned empty code")
	}
	return out, nil
}

func languageOrDefault(language string) string {
	if language == "" {
		return "javascript"
	}
	return language
}

// stripCodeFence removes a surrounding markdown fence such as ```ts ... ```
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return s
	}
	body := strings.TrimSuffix(trimmed, "```")
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return s
	}
	return strings.TrimSpace(body[newline+1:])
}
