package main

import (
	"context"
	"fmt"

	"github.com/sourceplane/deploypipe/internal/assemble"
	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/git"
	"github.com/sourceplane/deploypipe/internal/loader"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/normalize"
	"github.com/sourceplane/deploypipe/internal/pipeline"
	"github.com/sourceplane/deploypipe/internal/schema"
	"github.com/sourceplane/deploypipe/internal/stacks"
)

// loadConfig loads the pipeline config, fills repository fields from git
// when asked, and validates it against the schema.
func loadConfig(ctx context.Context) (*model.PipelineConfig, error) {
	logger := ctxlog.FromContext(ctx)

	cfg, err := loader.LoadPipelineConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config: %w", err)
	}
	logger.Debug("Pipeline config loaded.", "path", configFile, "stages", len(cfg.Stage.Stages))

	if detectRepo && (cfg.ProjectName == "" || cfg.GitHub.ProjectOwner == "") {
		repo, err := git.DetectRepository(repoDir)
		if err != nil {
			return nil, fmt.Errorf("failed to detect repository: %w", err)
		}
		if cfg.ProjectName == "" {
			cfg.ProjectName = repo.Name
		}
		if cfg.GitHub.ProjectOwner == "" {
			cfg.GitHub.ProjectOwner = repo.Owner
		}
		logger.Info("Repository detected from git remote.", "owner", repo.Owner, "name", repo.Name)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// assemblePipeline normalizes cfg and assembles it with the declared stacks
func assemblePipeline(ctx context.Context, cfg *model.PipelineConfig) (*model.ResolvedConfig, *pipeline.Pipeline, error) {
	resolved, err := normalize.NormalizeConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to normalize pipeline config: %w", err)
	}

	p, err := assemble.NewAssembler(stacks.NewDeclared(resolved)).AssembleResolved(ctx, resolved)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assemble pipeline: %w", err)
	}

	return resolved, p, nil
}
