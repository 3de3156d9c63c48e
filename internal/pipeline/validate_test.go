package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPipeline() *Pipeline {
	source := NewArtifact("p", SourceArtifactName)
	assembly := NewArtifact("p", CloudAssemblyArtifactName)
	p := New("p", SourceAction{Name: "GitHub", Output: source}, SynthAction{Name: "Synth", Input: source, Output: assembly})
	p.AddApplicationStage(NewStage("dev", "1", "us-east-1"), []ResourceBundle{{Name: "dev-app"}})
	return p
}

func TestValidate(t *testing.T) {
	t.Run("valid pipeline", func(t *testing.T) {
		assert.NoError(t, validPipeline().Validate())
	})

	t.Run("nil pipeline", func(t *testing.T) {
		var p *Pipeline
		assert.ErrorContains(t, p.Validate(), "nil")
	})

	t.Run("synth not wired to source", func(t *testing.T) {
		p := validPipeline()
		p.Synth.Input = NewArtifact("p", "other")
		assert.ErrorContains(t, p.Validate(), "does not consume source output")
	})

	t.Run("synth reuses source artifact", func(t *testing.T) {
		p := validPipeline()
		p.Synth.Output = p.Source.Output
		assert.ErrorContains(t, p.Validate(), "own output artifact")
	})

	t.Run("duplicate stage", func(t *testing.T) {
		p := validPipeline()
		p.AddApplicationStage(NewStage("dev", "2", "us-east-1"), nil)
		assert.ErrorContains(t, p.Validate(), "duplicate stage name: dev")
	})

	t.Run("repeated run-order", func(t *testing.T) {
		p := validPipeline()
		p.Stages[0].Actions = append(p.Stages[0].Actions, Action{Name: "tests", Kind: KindShell, RunOrder: 2})
		assert.ErrorContains(t, p.Validate(), "used more than once")
	})

	t.Run("decreasing run-order", func(t *testing.T) {
		p := validPipeline()
		p.Stages[0].Actions = []Action{{Name: "b", RunOrder: 2}, {Name: "a", RunOrder: 1}}
		assert.ErrorContains(t, p.Validate(), "decreases run-order")
	})

	t.Run("zero run-order", func(t *testing.T) {
		p := validPipeline()
		p.Stages[0].Actions = []Action{{Name: "a", RunOrder: 0}}
		assert.ErrorContains(t, p.Validate(), "invalid run-order")
	})
}
