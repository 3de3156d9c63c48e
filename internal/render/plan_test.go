package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(t *testing.T) *model.Plan {
	t.Helper()

	source := pipeline.NewArtifact("app-pipeline", pipeline.SourceArtifactName)
	assembly := pipeline.NewArtifact("app-pipeline", pipeline.CloudAssemblyArtifactName)
	p := pipeline.New("app-pipeline",
		pipeline.SourceAction{Name: "GitHub", Owner: "acme", Repo: "app", CredentialRef: "GITHUB_TOKEN", Output: source},
		pipeline.SynthAction{Name: "Synth", Input: source, Output: assembly, InstallCommands: []string{"npm ci"}, SynthCommand: "cdk synth", Subdirectory: "."},
	)
	dev := p.AddApplicationStage(pipeline.NewStage("dev", "1", "us-east-1"), []pipeline.ResourceBundle{{Name: "dev-app", Account: "1", Region: "us-east-1"}})
	dev.AddActions(pipeline.Action{Name: model.FirstStageGateAction, Kind: pipeline.KindShell, RunOrder: dev.NextSequentialRunOrder(), Commands: []string{"npm test"}})
	prod := p.AddApplicationStage(pipeline.NewStage("prod", "2", "us-east-1"), []pipeline.ResourceBundle{{Name: "prod-app", Account: "2", Region: "us-east-1"}})
	prod.AddActions(pipeline.Action{Name: model.ProductionGateAction, Kind: pipeline.KindShell, RunOrder: prod.NextSequentialRunOrder(), Commands: []string{"npm run smoke"}})

	resolved := &model.ResolvedConfig{
		ProdStageName: "prod",
		Gates: []model.TestGate{
			{Trigger: model.BeforeFirstStage, ActionName: model.FirstStageGateAction, Commands: []string{"npm test"}},
			{Trigger: model.BeforeProduction, ActionName: model.ProductionGateAction, Commands: []string{"npm run smoke"}},
		},
	}
	return NewRenderer().RenderPlan(model.Metadata{Description: "test plan"}, resolved, p)
}

func TestRenderPlan(t *testing.T) {
	plan := testPlan(t)

	assert.Equal(t, model.PlanAPIVersion, plan.APIVersion)
	assert.Equal(t, model.PlanKind, plan.Kind)
	assert.Equal(t, "app-pipeline", plan.Metadata.Name)
	assert.Equal(t, "test plan", plan.Metadata.Description)
	assert.Equal(t, "prod", plan.Spec.ProdStageName)
	assert.Equal(t, map[string]string{"tests": "dev", "beforeProdTests": "prod"}, plan.Spec.Gates)
}

func TestWritePlan_RoundTrip(t *testing.T) {
	for _, name := range []string{"plan.json", "plan.yaml"} {
		t.Run(name, func(t *testing.T) {
			plan := testPlan(t)
			path := filepath.Join(t.TempDir(), "out", name)

			require.NoError(t, NewRenderer().WritePlan(plan, path))
			loaded, err := LoadPlan(path)
			require.NoError(t, err)

			// Decoded stages do not carry the run-order counter.
			if diff := cmp.Diff(plan, loaded, cmpopts.IgnoreUnexported(pipeline.Stage{})); diff != "" {
				t.Errorf("plan changed after round trip (-want +got):\n%s", diff)
			}
			assert.Equal(t, 4, loaded.Pipeline.Stage("prod").NextSequentialRunOrder())
		})
	}
}

func TestLoadPlan_Errors(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read plan file")

	empty := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"apiVersion":"sourceplane.io/v1","kind":"Pipeline"}`), 0644))
	_, err = LoadPlan(empty)
	assert.ErrorContains(t, err, "no stages")
}

func TestDebugDump(t *testing.T) {
	plan := testPlan(t)
	plan.Spec.SourceRevision = "main@abc123"

	out := NewRenderer().DebugDump(plan)
	assert.Contains(t, out, "Source: acme/app via GITHUB_TOKEN -> Artifact_Source_GitHub")
	assert.Contains(t, out, "Revision: main@abc123")
	assert.Contains(t, out, "Stages: 2")
	assert.Contains(t, out, "Stage: prod")
}

func TestViewTree(t *testing.T) {
	tree := NewPlanViewer(testPlan(t)).ViewTree()
	lines := strings.Split(strings.TrimSpace(tree), "\n")

	assert.Equal(t, []string{
		"app-pipeline",
		"├─ GitHub [source] acme/app → Artifact_Source_GitHub",
		"├─ Synth [synth] Artifact_Source_GitHub → CloudAssemblyArtifact",
		"├─ dev (1/us-east-1)",
		"│  ├─ 1. dev-app.Prepare",
		"│  ├─ 2. dev-app.Deploy",
		"│  └─ 3. tests ★",
		"└─ prod (2/us-east-1)",
		"   ├─ 1. prod-app.Prepare",
		"   ├─ 2. prod-app.Deploy",
		"   └─ 3. beforeProdTests ★",
	}, lines)
}

func TestViewStage(t *testing.T) {
	viewer := NewPlanViewer(testPlan(t))

	out := viewer.ViewStage("prod")
	assert.Contains(t, out, "[Stage] prod")
	assert.Contains(t, out, "3. beforeProdTests [shell]")
	assert.Contains(t, out, "$ npm run smoke")

	assert.Equal(t, "Stage qa not found", viewer.ViewStage("qa"))
}
