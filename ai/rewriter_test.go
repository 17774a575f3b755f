package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/testing/mocks"
)

var evalFinding = domain.Finding{
	RuleID:   "eval",
	Category: domain.CategorySecurity,
	Severity: domain.SeverityCritical,
	Match:    "eval(",
	Message:  "Use of eval() is dangerous",
}

func TestRewrite_PromptAndResult(t *testing.T) {
	completer := &mocks.MockCompleter{
		CompleteFunc: func(_ context.Context, system, _ string) (string, error) {
			assert.Contains(t, system, "code repair")
			return "JSON.parse(x)", nil
		},
	}

	out, err := NewRewriter(completer).Rewrite(context.Background(), "eval(x)", "typescript", evalFinding)
	require.NoError(t, err)
	assert.Equal(t, "JSON.parse(x)", out)

	require.Len(t, completer.Prompts, 1)
	assert.Contains(t, completer.Prompts[0], "security issue in this typescript code")
	assert.Contains(t, completer.Prompts[0], "eval(x)")
}

func TestRewrite_Errors(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		wantErr string
	}{
		{name: "completer error", err: errors.New("rate limited"), wantErr: "rate limited"},
		{name: "blank answer", out: "  \n", wantErr: "empty code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &mocks.MockCompleter{
				CompleteFunc: func(context.Context, string, string) (string, error) { return tt.out, tt.err },
			}
			_, err := NewRewriter(completer).Rewrite(context.Background(), "eval(x)", "", evalFinding)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fence", in: "const a = 1;", want: "const a = 1;"},
		{name: "fence with language", in: "```ts\nconst a = 1;\n```", want: "const a = 1;"},
		{name: "fence without language", in: "```\nlet b;\n```\n", want: "let b;"},
		{name: "single line fence", in: "```x```", want: "```x```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
