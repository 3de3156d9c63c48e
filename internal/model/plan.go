package model

import "github.com/sourceplane/deploypipe/internal/pipeline"

// Plan document identifiers
const (
	PlanAPIVersion = "sourceplane.io/v1"
	PlanKind       = "Pipeline"
)

// Metadata holds standard object metadata
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Plan is the rendered, execution-ready pipeline document
type Plan struct {
	APIVersion string             `yaml:"apiVersion" json:"apiVersion"`
	Kind       string             `yaml:"kind" json:"kind"`
	Metadata   Metadata           `yaml:"metadata" json:"metadata"`
	Spec       PlanSpec           `yaml:"spec" json:"spec"`
	Pipeline   *pipeline.Pipeline `yaml:"pipeline" json:"pipeline"`
}

// PlanSpec summarizes how the pipeline was assembled
type PlanSpec struct {
	ProdStageName string            `yaml:"prodStageName,omitempty" json:"prodStageName,omitempty"`
	Gates         map[string]string `yaml:"gates,omitempty" json:"gates,omitempty"` // action name -> stage
	// SourceRevision is the checkout the plan was assembled from, when known
	SourceRevision string `yaml:"sourceRevision,omitempty" json:"sourceRevision,omitempty"`
}
