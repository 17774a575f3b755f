package deploy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/deploy"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/testing/mocks"
	"github.com/ultrabuild/ultrabuild/workspace"
)

func newConfig(target domain.DeploymentTarget) domain.DeploymentConfig {
	return domain.DeploymentConfig{
		ProjectName: "Demo Shop",
		Target:      target,
		Files:       map[string]string{"index.html": "<h1>demo</h1>"},
	}
}

func TestDispatcher_Deploy_Success(t *testing.T) {
	target := &mocks.MockTarget{
		TargetName: domain.DeploymentTargetVercel,
		DeployFunc: func(_ context.Context, req deploy.Request) (deploy.Outcome, error) {
			return deploy.Outcome{Success: true, URL: "https://demo.vercel.app", ExternalID: "dpl_1", Logs: "ok"}, nil
		},
	}
	observer := &mocks.MockObserver{}
	archive := &mocks.MockArchive{}

	d := deploy.NewDispatcher(10,
		deploy.WithTarget(target),
		deploy.WithObserver(observer),
		deploy.WithArchive(archive),
	)

	result := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetVercel))

	assert.True(t, result.Success)
	assert.Equal(t, "https://demo.vercel.app", result.URL)
	assert.Equal(t, "dpl_1", result.DeploymentID)
	assert.Equal(t, "ok", result.Logs)
	assert.Equal(t, domain.DeploymentTargetVercel, result.Target)

	require.Len(t, target.Requests, 1)
	assert.Equal(t, "demo-shop", target.Requests[0].Slug)
	assert.Equal(t, result.ID, target.Requests[0].ID)

	assert.Equal(t, []domain.DeploymentEventType{domain.DeploymentEventStarted, domain.DeploymentEventSuccess}, observer.Types())
	for _, e := range observer.Events {
		assert.Equal(t, result.ID, e.DeploymentID)
	}
	assert.Same(t, result, observer.Events[1].Result)

	stored, err := d.Get(result.ID)
	require.NoError(t, err)
	assert.Same(t, result, stored)
	assert.Equal(t, []*domain.DeploymentResult{result}, archive.Saved)
}

func TestDispatcher_Deploy_MissingCredentials(t *testing.T) {
	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)

	d := deploy.NewDispatcher(10,
		deploy.WithTarget(deploy.NewVercelTarget("", "", nil)),
		deploy.WithTarget(deploy.NewGitHubTarget("", ws, &mocks.MockGitPublisher{}, nil)),
		deploy.WithTarget(deploy.NewDockerTarget(nil, ws)),
		deploy.WithTarget(deploy.NewAWSTarget("", "", "", &mocks.MockCommandRunner{}, ws)),
	)

	for _, target := range domain.DeploymentTargets() {
		t.Run(target.String(), func(t *testing.T) {
			result := d.Deploy(context.Background(), newConfig(target))
			assert.False(t, result.Success)
			assert.Contains(t, result.Logs, "not configured")
		})
	}
	assert.Equal(t, len(domain.DeploymentTargets()), d.Count())
}

func TestDispatcher_Deploy_UnsupportedTarget(t *testing.T) {
	observer := &mocks.MockObserver{}
	d := deploy.NewDispatcher(10, deploy.WithObserver(observer))

	result := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetDocker))

	assert.False(t, result.Success)
	assert.Contains(t, result.Logs, "unsupported deployment target")
	assert.Equal(t, []domain.DeploymentEventType{domain.DeploymentEventStarted, domain.DeploymentEventError}, observer.Types())
	assert.Equal(t, 1, d.Count())
}

func TestDispatcher_Deploy_Failures(t *testing.T) {
	tests := []struct {
		name      string
		deploy    func(ctx context.Context, req deploy.Request) (deploy.Outcome, error)
		wantLogs  string
		wantEvent domain.DeploymentEventType
	}{
		{
			name: "target error",
			deploy: func(context.Context, deploy.Request) (deploy.Outcome, error) {
				return deploy.Outcome{}, errors.New("registry unreachable")
			},
			wantLogs:  "registry unreachable",
			wantEvent: domain.DeploymentEventError,
		},
		{
			name: "unsuccessful outcome",
			deploy: func(context.Context, deploy.Request) (deploy.Outcome, error) {
				return deploy.Outcome{Success: false, Logs: "status 403"}, nil
			},
			wantLogs:  "status 403",
			wantEvent: domain.DeploymentEventFailed,
		},
		{
			name: "not configured",
			deploy: func(context.Context, deploy.Request) (deploy.Outcome, error) {
				return deploy.Outcome{}, domain.NotConfigured("TOKEN")
			},
			wantLogs:  "TOKEN not configured",
			wantEvent: domain.DeploymentEventFailed,
		},
		{
			name: "panic",
			deploy: func(context.Context, deploy.Request) (deploy.Outcome, error) {
				panic("boom")
			},
			wantLogs:  "panicked: boom",
			wantEvent: domain.DeploymentEventError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &mocks.MockObserver{}
			d := deploy.NewDispatcher(10,
				deploy.WithTarget(&mocks.MockTarget{TargetName: domain.DeploymentTargetAWS, DeployFunc: tt.deploy}),
				deploy.WithObserver(observer),
			)

			var result *domain.DeploymentResult
			require.NotPanics(t, func() {
				result = d.Deploy(context.Background(), newConfig(domain.DeploymentTargetAWS))
			})

			assert.False(t, result.Success)
			assert.Contains(t, result.Logs, tt.wantLogs)
			assert.Equal(t, []domain.DeploymentEventType{domain.DeploymentEventStarted, tt.wantEvent}, observer.Types())
			assert.Equal(t, 1, d.Count())
		})
	}
}

func TestDispatcher_Deploy_Timeout(t *testing.T) {
	target := &mocks.MockTarget{
		TargetName: domain.DeploymentTargetDocker,
		DeployFunc: func(ctx context.Context, _ deploy.Request) (deploy.Outcome, error) {
			<-ctx.Done()
			return deploy.Outcome{}, ctx.Err()
		},
	}
	d := deploy.NewDispatcher(10, deploy.WithTarget(target), deploy.WithTimeout(20*time.Millisecond))

	result := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetDocker))

	assert.False(t, result.Success)
	assert.Contains(t, result.Logs, "deadline exceeded")
}

func TestDispatcher_Deploy_EvictsOldest(t *testing.T) {
	target := &mocks.MockTarget{TargetName: domain.DeploymentTargetVercel}
	d := deploy.NewDispatcher(2, deploy.WithTarget(target))

	first := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetVercel))
	second := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetVercel))
	third := d.Deploy(context.Background(), newConfig(domain.DeploymentTargetVercel))

	assert.Equal(t, 2, d.Count())
	_, err := d.Get(first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []*domain.DeploymentResult{second, third}, d.List())
}

func TestDispatcher_Deploy_ToleratesObserverAndArchiveFailures(t *testing.T) {
	d := deploy.NewDispatcher(10,
		deploy.WithTarget(&mocks.MockTarget{TargetName: domain.DeploymentTargetGitHub}),
		deploy.WithObserver(panickingObserver{}),
		deploy.WithArchive(&mocks.MockArchive{SaveDeploymentFunc: func(*domain.DeploymentResult) error {
			return errors.New("disk full")
		}}),
	)

	var result *domain.DeploymentResult
	require.NotPanics(t, func() {
		result = d.Deploy(context.Background(), newConfig(domain.DeploymentTargetGitHub))
	})
	assert.True(t, result.Success)
	assert.Equal(t, 1, d.Count())
}

func TestDispatcher_Targets(t *testing.T) {
	d := deploy.NewDispatcher(10,
		deploy.WithTarget(&mocks.MockTarget{TargetName: domain.DeploymentTargetAWS}),
		deploy.WithTarget(&mocks.MockTarget{TargetName: domain.DeploymentTargetVercel}),
	)
	assert.Equal(t, []domain.DeploymentTarget{domain.DeploymentTargetVercel, domain.DeploymentTargetAWS}, d.Targets())
}

type panickingObserver struct{}

func (panickingObserver) OnDeploymentEvent(context.Context, domain.DeploymentEvent) {
	panic("observer exploded")
}
