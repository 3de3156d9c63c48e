package normalize

import (
	"fmt"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/stacks"
)

// NormalizeConfig resolves defaults and rejects configurations that cannot
// produce a pipeline. The input is never modified.
func NormalizeConfig(cfg *model.PipelineConfig) (*model.ResolvedConfig, error) {
	if cfg == nil {
		return nil, &model.ConfigurationError{Field: "config", Reason: "config cannot be nil"}
	}

	if err := validateStages(cfg); err != nil {
		return nil, err
	}
	if err := validateStacks(cfg.Stacks); err != nil {
		return nil, err
	}

	resolved := &model.ResolvedConfig{
		PipelineName:    cfg.PipelineName,
		ProjectName:     cfg.ProjectName,
		RepositoryOwner: cfg.GitHub.ProjectOwner,
		CredentialRef:   orDefault(cfg.GitHub.TokenInSecretManager, model.DefaultCredentialRef),
		Subdirectory:    orDefault(cfg.Subdir, model.DefaultSubdirectory),
		InstallCommands: installCommands(cfg.Commands.InstallCommands),
		BuildCommands:   clone(cfg.Commands.BuildCommands),
		SynthCommand:    model.SynthCommand,
		ProdStageName:   cfg.Stage.ProdStageName,
		Stages:          append([]model.StageDescriptor(nil), cfg.Stage.Stages...),
		Stacks:          cloneStacks(cfg.Stacks),
		Gates:           make([]model.TestGate, 0, 2),
	}

	if resolved.PipelineName == "" {
		resolved.PipelineName = fmt.Sprintf("%s-pipeline", cfg.ProjectName)
	}

	// Order matters: both gates may hit the same stage and take run-orders in this order.
	if len(cfg.Commands.BeforeFirstStageTestCommands) > 0 {
		resolved.Gates = append(resolved.Gates, model.TestGate{
			Trigger:    model.BeforeFirstStage,
			ActionName: model.FirstStageGateAction,
			Commands:   clone(cfg.Commands.BeforeFirstStageTestCommands),
		})
	}
	if len(cfg.Commands.BeforeProdTestCommands) > 0 {
		resolved.Gates = append(resolved.Gates, model.TestGate{
			Trigger:    model.BeforeProduction,
			ActionName: model.ProductionGateAction,
			Commands:   clone(cfg.Commands.BeforeProdTestCommands),
		})
	}

	return resolved, nil
}

func validateStages(cfg *model.PipelineConfig) error {
	stages := cfg.Stage.Stages
	if len(stages) == 0 {
		if len(cfg.Commands.BeforeFirstStageTestCommands) > 0 {
			return &model.ConfigurationError{
				Field:  "commands.beforeFirstStageTestCommands",
				Reason: "before-first-stage tests are configured but stage.stages is empty",
			}
		}
		return &model.ConfigurationError{Field: "stage.stages", Reason: "at least one stage is required"}
	}

	seen := make(map[string]int, len(stages))
	for i, stage := range stages {
		if prev, exists := seen[stage.Name]; exists {
			return &model.ConfigurationError{
				Field:  fmt.Sprintf("stage.stages[%d].name", i),
				Stage:  stage.Name,
				Reason: fmt.Sprintf("duplicate stage name, already declared at index %d", prev),
			}
		}
		seen[stage.Name] = i
	}
	return nil
}

func validateStacks(specs []model.StackSpec) error {
	seen := make(map[string]bool, len(specs))
	for i, stack := range specs {
		if stack.Name == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("stacks[%d].name", i), Reason: "stack must have a name"}
		}
		if seen[stack.Name] {
			return &model.ConfigurationError{Field: fmt.Sprintf("stacks[%d].name", i), Reason: fmt.Sprintf("duplicate stack name %s", stack.Name)}
		}
		seen[stack.Name] = true
	}
	if _, err := stacks.Order(specs); err != nil {
		return &model.ConfigurationError{Field: "stacks", Reason: err.Error()}
	}
	return nil
}

// installCommands prefixes caller commands with the toolchain bootstrap
func installCommands(extra []string) []string {
	commands := make([]string, 0, len(extra)+1)
	commands = append(commands, model.BootstrapInstallCommand)
	return append(commands, extra...)
}

// orDefault treats the empty string the same as an absent value
func orDefault(value, fallback string) string {
	if len(value) > 0 {
		return value
	}
	return fallback
}

func clone(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneStacks(specs []model.StackSpec) []model.StackSpec {
	if specs == nil {
		return nil
	}
	out := make([]model.StackSpec, len(specs))
	for i, s := range specs {
		out[i] = model.StackSpec{Name: s.Name, Stages: clone(s.Stages), DependsOn: clone(s.DependsOn)}
	}
	return out
}
