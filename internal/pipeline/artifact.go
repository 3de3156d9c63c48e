package pipeline

import "github.com/google/uuid"

// Hand-off artifact names
const (
	SourceArtifactName        = "Artifact_Source_GitHub"
	CloudAssemblyArtifactName = "CloudAssemblyArtifact"
)

// artifactNamespace scopes artifact IDs so they never clash with other UUIDv5 users
var artifactNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://sourceplane.io/deploypipe/artifact"))

// Artifact is a named hand-off between actions
type Artifact struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// NewArtifact derives a stable ID from the pipeline and artifact names, so
// assembling the same configuration twice yields identical graphs.
func NewArtifact(pipelineName, name string) Artifact {
	id := uuid.NewSHA1(artifactNamespace, []byte(pipelineName+"/"+name))
	return Artifact{ID: id.String(), Name: name}
}
