package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sourceplane/deploypipe/internal/render"
	"github.com/sourceplane/deploypipe/internal/runner"
	"github.com/sourceplane/deploypipe/internal/schema"
	"github.com/spf13/cobra"
)

var (
	runPlanFile  string
	runExecute   bool
	runWorkDir   string
	runSourceDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk an assembled plan locally",
	Long:  "Run the source, synth and test actions of a plan file in pipeline order. Deployment actions are only reported.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context())
	},
}

func registerRunCommand(root *cobra.Command) {
	root.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runPlanFile, "plan", "p", "plan.json", "Path to plan file (json or yaml)")
	runCmd.Flags().BoolVarP(&runExecute, "execute", "x", false, "Actually execute commands (default is dry-run)")
	runCmd.Flags().StringVar(&runWorkDir, "workdir", ".", "Base working directory for the source checkout")
	runCmd.Flags().StringVar(&runSourceDir, "source-dir", "", "Use an existing checkout instead of cloning the source")
}

func runPlan(ctx context.Context) error {
	plan, err := render.LoadPlan(runPlanFile)
	if err != nil {
		return err
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidatePlan(plan); err != nil {
		return err
	}

	dryRun := !runExecute
	if dryRun {
		fmt.Println("□ Dry-run mode enabled. Use --execute to run commands.")
	}

	r := runner.NewRunner(runWorkDir, os.Stdout, os.Stderr, dryRun)
	r.SourceDir = runSourceDir
	if err := r.Run(ctx, plan.Pipeline); err != nil {
		return err
	}

	if dryRun {
		fmt.Println("✓ Dry-run complete")
	} else {
		fmt.Println("✓ Run complete")
	}

	return nil
}
