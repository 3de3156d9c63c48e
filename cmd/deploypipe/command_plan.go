package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/git"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/render"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assemble the pipeline and write the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generatePlan(cmd.Context())
	},
}

func registerPlanCommand(root *cobra.Command) {
	root.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&outputFile, "output", "o", "plan.json", "Output plan file path (.json or .yaml)")
	planCmd.Flags().StringVar(&planMetaDesc, "description", "", "Plan description")
	planCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
	planCmd.Flags().StringVarP(&viewPlan, "view", "v", "", "View plan (tree/stage=NAME)")
}

func generatePlan(ctx context.Context) error {
	fmt.Println("□ Loading pipeline config...")
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Println("□ Assembling pipeline...")
	resolved, p, err := assemblePipeline(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Println("□ Checking run-orders...")
	if err := p.Validate(); err != nil {
		return fmt.Errorf("assembled pipeline is invalid: %w", err)
	}

	fmt.Println("□ Rendering plan...")
	renderer := render.NewRenderer()
	plan := renderer.RenderPlan(model.Metadata{Name: p.Name, Description: planMetaDesc}, resolved, p)
	if rev, err := git.HeadRevision(ctx, repoDir); err == nil {
		plan.Spec.SourceRevision = rev.String()
	} else {
		ctxlog.FromContext(ctx).Debug("No source revision recorded.", "error", err)
	}

	if debugMode {
		fmt.Println("\n" + renderer.DebugDump(plan))
	}

	if err := renderer.WritePlan(plan, outputFile); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	fmt.Printf("✓ Pipeline %s assembled with %d stages\n", p.Name, len(p.Stages))
	fmt.Printf("✓ Saved to: %s\n", outputFile)

	if viewPlan != "" {
		viewer := render.NewPlanViewer(plan)
		var output string

		switch {
		case strings.HasPrefix(viewPlan, "stage="):
			output = viewer.ViewStage(strings.TrimPrefix(viewPlan, "stage="))
		default:
			output = viewer.ViewTree()
		}

		fmt.Println("\n" + output)
	}

	return nil
}
