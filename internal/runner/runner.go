package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sourceplane/deploypipe/internal/credentials"
	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// Step is one action of the pipeline in execution order
type Step struct {
	Stage    string
	Action   string
	Kind     pipeline.ActionKind
	RunOrder int
	Commands []string
	Dir      string
}

// Runner walks an assembled pipeline in order: source, synth, then every
// stage by run-order. Shell actions run locally; deployments are reported.
type Runner struct {
	WorkDir     string
	SourceDir   string // existing checkout; when empty the source is cloned into WorkDir/source
	Stdout      io.Writer
	Stderr      io.Writer
	DryRun      bool
	Credentials credentials.Resolver
}

func NewRunner(workDir string, stdout, stderr io.Writer, dryRun bool) *Runner {
	return &Runner{
		WorkDir:     workDir,
		Stdout:      stdout,
		Stderr:      stderr,
		DryRun:      dryRun,
		Credentials: credentials.NewEnvResolver(),
	}
}

// Steps flattens the pipeline into its execution order
func (r *Runner) Steps(p *pipeline.Pipeline) ([]Step, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline is not executable: %w", err)
	}

	sourceDir := r.sourceDir()
	steps := []Step{
		{Action: p.Source.Name, Kind: pipeline.KindSource, Dir: sourceDir},
		{Action: p.Synth.Name, Kind: pipeline.KindSynth, Commands: p.Synth.Commands(), Dir: resolveDir(sourceDir, p.Synth.Subdirectory)},
	}
	for _, stage := range p.Stages {
		for _, action := range stage.OrderedActions() {
			steps = append(steps, Step{
				Stage:    stage.Name,
				Action:   action.Name,
				Kind:     action.Kind,
				RunOrder: action.RunOrder,
				Commands: action.Commands,
				Dir:      sourceDir,
			})
		}
	}
	return steps, nil
}

// Run executes the pipeline, stopping at the first failing step
func (r *Runner) Run(ctx context.Context, p *pipeline.Pipeline) error {
	steps, err := r.Steps(p)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)

	for _, step := range steps {
		if step.Stage == "" {
			fmt.Fprintf(r.Stdout, "→ %s (%s)\n", step.Action, step.Kind)
		} else {
			fmt.Fprintf(r.Stdout, "→ Stage %s: %s [run-order %d]\n", step.Stage, step.Action, step.RunOrder)
		}
		logger.Debug("Running step.", "stage", step.Stage, "action", step.Action, "kind", string(step.Kind))

		switch step.Kind {
		case pipeline.KindSource:
			if err := r.fetchSource(ctx, p.Source); err != nil {
				return fmt.Errorf("source %s failed: %w", step.Action, err)
			}
		case pipeline.KindSynth, pipeline.KindShell:
			if err := r.runCommands(ctx, step); err != nil {
				return err
			}
		default:
			fmt.Fprintf(r.Stdout, "    deployment of %s is handled by the pipeline service\n", step.Action)
		}
	}

	return nil
}

func (r *Runner) runCommands(ctx context.Context, step Step) error {
	for _, command := range step.Commands {
		if r.DryRun {
			fmt.Fprintf(r.Stdout, "    %s\n", command)
			continue
		}

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = step.Dir
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr

		if err := cmd.Run(); err != nil {
			if step.Stage != "" {
				return fmt.Errorf("stage %s action %s failed: %w", step.Stage, step.Action, err)
			}
			return fmt.Errorf("action %s failed: %w", step.Action, err)
		}
	}
	return nil
}

func (r *Runner) fetchSource(ctx context.Context, source pipeline.SourceAction) error {
	if r.SourceDir != "" {
		fmt.Fprintf(r.Stdout, "    using checkout at %s\n", r.SourceDir)
		return nil
	}

	target := r.sourceDir()
	if r.DryRun {
		fmt.Fprintf(r.Stdout, "    git clone https://github.com/%s/%s.git %s (token from %s)\n", source.Owner, source.Repo, target, source.CredentialRef)
		return nil
	}

	if r.Credentials == nil {
		return fmt.Errorf("no credential resolver configured")
	}
	token, err := r.Credentials.Resolve(ctx, source.CredentialRef)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	url := fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", token, source.Owner, source.Repo)
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, target)
	cmd.Stdout = r.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// git echoes the URL on failure; keep the token out of the error.
		return fmt.Errorf("git clone %s/%s: %w: %s", source.Owner, source.Repo, err, strings.ReplaceAll(stderr.String(), token, "***"))
	}
	return nil
}

func (r *Runner) sourceDir() string {
	if r.SourceDir != "" {
		return r.SourceDir
	}
	return filepath.Join(r.WorkDir, "source")
}

func resolveDir(base, path string) string {
	if path == "" || path == "." || path == "./" {
		return base
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
