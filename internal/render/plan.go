package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// Renderer wraps assembled pipelines into plan documents
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderPlan wraps the pipeline with metadata and records where each gate landed
func (r *Renderer) RenderPlan(metadata model.Metadata, cfg *model.ResolvedConfig, p *pipeline.Pipeline) *model.Plan {
	plan := &model.Plan{
		APIVersion: model.PlanAPIVersion,
		Kind:       model.PlanKind,
		Metadata: model.Metadata{
			Name:        metadata.Name,
			Description: metadata.Description,
		},
		Pipeline: p,
	}
	if plan.Metadata.Name == "" {
		plan.Metadata.Name = p.Name
	}

	gates := make(map[string]string)
	for _, gate := range cfg.Gates {
		for _, stage := range p.Stages {
			if stage.Action(gate.ActionName) != nil {
				gates[gate.ActionName] = stage.Name
				break
			}
		}
	}
	plan.Spec = model.PlanSpec{ProdStageName: cfg.ProdStageName}
	if len(gates) > 0 {
		plan.Spec.Gates = gates
	}

	return plan
}

// RenderJSON renders plan as JSON
func (r *Renderer) RenderJSON(plan *model.Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// RenderYAML renders plan as YAML
func (r *Renderer) RenderYAML(plan *model.Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// WritePlan writes plan to file (JSON or YAML based on extension)
func (r *Renderer) WritePlan(plan *model.Plan, path string) error {
	var data []byte
	var err error

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(plan)
	default:
		data, err = r.RenderJSON(plan)
	}
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %s: %w", path, err)
	}

	return nil
}

// LoadPlan reads a plan written by WritePlan
func LoadPlan(path string) (*model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	var plan model.Plan
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML plan: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &plan); err != nil {
			if yamlErr := yaml.Unmarshal(data, &plan); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse plan file as JSON or YAML: %w", err)
			}
		}
	}

	if plan.Pipeline == nil || len(plan.Pipeline.Stages) == 0 {
		return nil, fmt.Errorf("plan contains no stages")
	}

	return &plan, nil
}

// DebugDump outputs debug information about the plan
func (r *Renderer) DebugDump(plan *model.Plan) string {
	var sb strings.Builder
	p := plan.Pipeline
	fmt.Fprintf(&sb, "Plan: %s (%s)\n", plan.Metadata.Name, p.Name)
	fmt.Fprintf(&sb, "Source: %s/%s via %s -> %s\n", p.Source.Owner, p.Source.Repo, p.Source.CredentialRef, p.Source.Output.Name)
	fmt.Fprintf(&sb, "Synth: %s -> %s in %s\n", p.Synth.Input.Name, p.Synth.Output.Name, p.Synth.Subdirectory)
	if plan.Spec.SourceRevision != "" {
		fmt.Fprintf(&sb, "Revision: %s\n", plan.Spec.SourceRevision)
	}
	fmt.Fprintf(&sb, "Stages: %d\n\n", len(p.Stages))

	for _, stage := range p.Stages {
		fmt.Fprintf(&sb, "Stage: %s\n", stage.Name)
		fmt.Fprintf(&sb, "  Account: %s\n", stage.Account)
		fmt.Fprintf(&sb, "  Region: %s\n", stage.Region)
		fmt.Fprintf(&sb, "  Bundles: %d\n", len(stage.Bundles))
		fmt.Fprintf(&sb, "  Actions: %d\n", len(stage.Actions))
		sb.WriteString("\n")
	}

	return sb.String()
}
