package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/workspace"
)

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// AWSTarget syncs project files to an S3 bucket with the aws CLI
type AWSTarget struct {
	bucket    string
	region    string
	command   string
	runner    CommandRunner
	workspace Workspace
}

// NewAWSTarget creates an S3 target. An empty bucket makes every deploy fail with a
// not configured error.
func NewAWSTarget(bucket, region, command string, runner CommandRunner, ws Workspace) *AWSTarget {
	if command == "" {
		command = "aws"
	}
	if region == "" {
		region = "us-east-1"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &AWSTarget{
		bucket:    bucket,
		region:    region,
		command:   command,
		runner:    runner,
		workspace: ws,
	}
}

func (a *AWSTarget) Name() domain.DeploymentTarget {
	return domain.DeploymentTargetAWS
}

func (a *AWSTarget) Deploy(ctx context.Context, req Request) (Outcome, error) {
	if a.bucket == "" {
		return Outcome{}, domain.NotConfigured("AWS_S3_BUCKET")
	}

	dir, err := a.workspace.Prepare(req.ID.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("prepare workspace: %w", err)
	}
	defer func() {
		if err := a.workspace.Cleanup(dir); err != nil {
			slog.Warn("Failed to remove workspace", "layer", "deploy", "operation", "aws_cleanup", "dir", dir, "error", err)
		}
	}()

	if err := workspace.WriteFiles(dir, req.Files); err != nil {
		return Outcome{}, fmt.Errorf("write project files: %w", err)
	}

	destination := fmt.Sprintf("s3://%s/%s", a.bucket, req.Slug)
	out, err := a.runner.Run(ctx, dir, a.command, "s3", "sync", ".", destination, "--region", a.region, "--delete")
	if err != nil {
		return Outcome{Logs: out}, &domain.ExternalCallError{Service: "aws", Operation: "s3 sync", Err: err}
	}

	return Outcome{
		Success:    true,
		URL:        fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s/index.html", a.bucket, a.region, req.Slug),
		ExternalID: destination,
		Logs:       strings.TrimSpace(out),
	}, nil
}
