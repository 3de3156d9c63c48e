// Package assemble turns a pipeline configuration into a wired delivery
// graph: source, synthesis, then one stage per declared target with test
// gates inserted before the first stage and before production.
package assemble

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/normalize"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

type phase int

const (
	phaseNotStarted phase = iota
	phaseBuildingHead
	phaseIteratingStages
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseNotStarted:
		return "not-started"
	case phaseBuildingHead:
		return "building-head"
	case phaseIteratingStages:
		return "iterating-stages"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Assembler builds pipelines, delegating per-stage resources to a StackBuilder
type Assembler struct {
	builder StackBuilder
}

// NewAssembler creates an assembler bound to a stack builder
func NewAssembler(builder StackBuilder) *Assembler {
	return &Assembler{builder: builder}
}

// Assemble normalizes cfg and assembles it
func (a *Assembler) Assemble(ctx context.Context, cfg *model.PipelineConfig) (*pipeline.Pipeline, error) {
	resolved, err := normalize.NormalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return a.AssembleResolved(ctx, resolved)
}

// AssembleResolved assembles an already normalized configuration. On any
// error no pipeline is returned.
func (a *Assembler) AssembleResolved(ctx context.Context, cfg *model.ResolvedConfig) (*pipeline.Pipeline, error) {
	if a.builder == nil {
		return nil, errors.New("assembler has no stack builder")
	}
	if cfg == nil {
		return nil, &model.ConfigurationError{Field: "config", Reason: "config cannot be nil"}
	}
	if len(cfg.Stages) == 0 {
		return nil, &model.ConfigurationError{Field: "stage.stages", Reason: "at least one stage is required"}
	}
	seen := make(map[string]bool, len(cfg.Stages))
	for _, s := range cfg.Stages {
		if seen[s.Name] {
			return nil, &model.ConfigurationError{Field: "stage.stages", Stage: s.Name, Reason: "duplicate stage name"}
		}
		seen[s.Name] = true
	}

	run := &assembly{
		cfg:    cfg,
		logger: ctxlog.FromContext(ctx),
		phase:  phaseNotStarted,
	}
	return run.execute(ctx, a.builder)
}

// assembly is the state of a single assembly run
type assembly struct {
	cfg       *model.ResolvedConfig
	logger    *slog.Logger
	phase     phase
	seenFirst bool
}

func (r *assembly) enter(next phase) {
	r.logger.Debug("Assembly phase changed.", "from", r.phase.String(), "to", next.String())
	r.phase = next
}

func (r *assembly) execute(ctx context.Context, builder StackBuilder) (*pipeline.Pipeline, error) {
	r.enter(phaseBuildingHead)
	p := buildHead(r.cfg)

	r.enter(phaseIteratingStages)
	for _, descriptor := range r.cfg.Stages {
		stage := pipeline.NewStage(descriptor.Name, descriptor.Account, descriptor.Region)

		bundles, err := builder.Materialize(ctx, stage, descriptor.Account, descriptor.Region)
		if err != nil {
			return nil, &model.DelegationError{Stage: descriptor.Name, Err: err}
		}
		p.AddApplicationStage(stage, bundles)
		r.logger.Debug("Stage materialized.", "stage", stage.Name, "bundles", len(bundles))

		r.attachGates(p, stage)
		r.seenFirst = true
	}

	r.enter(phaseDone)
	return p, nil
}

// attachGates inserts every gate whose trigger matches the stage, taking
// run-orders from the stage one after another.
func (r *assembly) attachGates(p *pipeline.Pipeline, stage *pipeline.Stage) {
	first := !r.seenFirst
	for _, gate := range r.cfg.Gates {
		if !gate.Applies(stage.Name, first, r.cfg.ProdStageName) {
			continue
		}
		action := pipeline.Action{
			Name:                gate.ActionName,
			Kind:                pipeline.KindShell,
			RunOrder:            stage.NextSequentialRunOrder(),
			Commands:            append([]string(nil), gate.Commands...),
			AdditionalArtifacts: []pipeline.Artifact{p.Source.Output},
		}
		stage.AddActions(action)
		r.logger.Debug("Test gate attached.", "stage", stage.Name, "action", action.Name, "trigger", gate.Trigger.String(), "run_order", action.RunOrder)
	}
}
