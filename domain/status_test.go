package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeploymentTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    DeploymentTarget
		wantErr bool
	}{
		{input: "vercel", want: DeploymentTargetVercel},
		{input: "github", want: DeploymentTargetGitHub},
		{input: "docker", want: DeploymentTargetDocker},
		{input: "aws", want: DeploymentTargetAWS},
		{input: "heroku", want: DeploymentTargetUnknown, wantErr: true},
		{input: "", want: DeploymentTargetUnknown, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeploymentTarget(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported deployment target")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseComplexity(t *testing.T) {
	for _, c := range []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityEnterprise} {
		parsed, err := ParseComplexity(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseComplexity("huge")
	assert.Error(t, err)
}

func TestDeploymentResult_JSON(t *testing.T) {
	result := DeploymentResult{
		Target:   DeploymentTargetDocker,
		Success:  true,
		Logs:     "ok",
		Duration: 1500_000_000,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "docker", decoded["target"])
	assert.Equal(t, float64(1500), decoded["duration"])
	assert.NotContains(t, decoded, "url", "empty url is omitted")
}

func TestTechStack_Clone(t *testing.T) {
	original := TechStack{Frontend: []string{"React"}, Tools: []string{"ESLint"}}
	clone := original.Clone()
	clone.Frontend[0] = "Vue"

	assert.Equal(t, "React", original.Frontend[0])
	assert.Equal(t, []string{}, clone.Backend, "nil lists become empty lists")
}
