package schema

import (
	"testing"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *model.PipelineConfig {
	return &model.PipelineConfig{
		ProjectName: "my-app",
		GitHub:      model.GitHubSource{ProjectOwner: "acme"},
		Stage: model.StageSettings{
			ProdStageName: "prod",
			Stages: []model.StageDescriptor{
				{Name: "dev", Account: "111111111111", Region: "us-east-1"},
				{Name: "prod", Account: "222222222222", Region: "us-east-1"},
			},
		},
	}
}

func TestValidateConfig(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, v.ValidateConfig(validConfig()))
	})

	t.Run("empty stage list passes schema", func(t *testing.T) {
		cfg := validConfig()
		cfg.Stage.Stages = nil
		assert.NoError(t, v.ValidateConfig(cfg), "empty stage lists are reported by the normalizer")
	})

	t.Run("missing owner", func(t *testing.T) {
		cfg := validConfig()
		cfg.GitHub.ProjectOwner = ""
		assert.ErrorContains(t, v.ValidateConfig(cfg), "projectOwner")
	})

	t.Run("missing project name", func(t *testing.T) {
		cfg := validConfig()
		cfg.ProjectName = ""
		assert.ErrorContains(t, v.ValidateConfig(cfg), "projectName")
	})

	t.Run("stage without region", func(t *testing.T) {
		cfg := validConfig()
		cfg.Stage.Stages[1].Region = ""
		assert.Error(t, v.ValidateConfig(cfg))
	})

	t.Run("non numeric account", func(t *testing.T) {
		cfg := validConfig()
		cfg.Stage.Stages[0].Account = "dev-account"
		assert.Error(t, v.ValidateConfig(cfg))
	})

	t.Run("empty test command", func(t *testing.T) {
		cfg := validConfig()
		cfg.Commands.BeforeProdTestCommands = []string{""}
		assert.Error(t, v.ValidateConfig(cfg))
	})

	t.Run("nil config", func(t *testing.T) {
		assert.Error(t, v.ValidateConfig(nil))
	})
}

func TestValidatePlan(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	source := pipeline.NewArtifact("p", pipeline.SourceArtifactName)
	assembly := pipeline.NewArtifact("p", pipeline.CloudAssemblyArtifactName)
	p := pipeline.New("p",
		pipeline.SourceAction{Name: "GitHub", Owner: "acme", Repo: "app", CredentialRef: "GITHUB_TOKEN", Output: source},
		pipeline.SynthAction{Name: "Synth", Input: source, Output: assembly, InstallCommands: []string{"npm i"}, SynthCommand: "cdk synth", Subdirectory: "."},
	)
	p.AddApplicationStage(pipeline.NewStage("dev", "1", "us-east-1"), []pipeline.ResourceBundle{{Name: "dev-app"}})

	plan := &model.Plan{
		APIVersion: model.PlanAPIVersion,
		Kind:       model.PlanKind,
		Metadata:   model.Metadata{Name: "p"},
		Pipeline:   p,
	}
	assert.NoError(t, v.ValidatePlan(plan))

	plan.Kind = "Workflow"
	assert.Error(t, v.ValidatePlan(plan))
}
