package assemble

import (
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// Names of the two head actions
const (
	SourceActionName = "GitHub"
	SynthActionName  = "Synth"
)

// buildHead creates the source → synth prefix. Both actions share the same
// two artifacts so stages consume the synthesized output, never raw source.
func buildHead(cfg *model.ResolvedConfig) *pipeline.Pipeline {
	sourceArtifact := pipeline.NewArtifact(cfg.PipelineName, pipeline.SourceArtifactName)
	assemblyArtifact := pipeline.NewArtifact(cfg.PipelineName, pipeline.CloudAssemblyArtifactName)

	source := pipeline.SourceAction{
		Name:          SourceActionName,
		Owner:         cfg.RepositoryOwner,
		Repo:          cfg.ProjectName,
		CredentialRef: cfg.CredentialRef,
		Output:        sourceArtifact,
	}

	synth := pipeline.SynthAction{
		Name:            SynthActionName,
		Input:           sourceArtifact,
		Output:          assemblyArtifact,
		InstallCommands: append([]string(nil), cfg.InstallCommands...),
		BuildCommands:   append([]string(nil), cfg.BuildCommands...),
		SynthCommand:    cfg.SynthCommand,
		Subdirectory:    cfg.Subdirectory,
	}

	return pipeline.New(cfg.PipelineName, source, synth)
}
