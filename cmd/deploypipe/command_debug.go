package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourceplane/deploypipe/internal/normalize"
	"github.com/sourceplane/deploypipe/internal/stacks"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Show the resolved pipeline config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return debugConfig(cmd.Context())
	},
}

func registerDebugCommand(root *cobra.Command) {
	root.AddCommand(debugCmd)
}

func debugConfig(ctx context.Context) error {
	fmt.Println("□ Loading and normalizing...")
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	resolved, err := normalize.NormalizeConfig(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("\nPipeline: %s\n", resolved.PipelineName)
	fmt.Printf("Source: %s/%s (credential %s)\n", resolved.RepositoryOwner, resolved.ProjectName, resolved.CredentialRef)
	fmt.Printf("Subdirectory: %s\n", resolved.Subdirectory)
	fmt.Printf("Install: %s\n", strings.Join(resolved.InstallCommands, " && "))
	fmt.Printf("Build: %s\n", strings.Join(resolved.BuildCommands, " && "))
	fmt.Printf("Synth: %s\n", resolved.SynthCommand)

	fmt.Printf("Stages: %d\n", len(resolved.Stages))
	for _, stage := range resolved.Stages {
		marker := ""
		if stage.Name == resolved.ProdStageName {
			marker = " (production)"
		}
		fmt.Printf("  - %s: account=%s, region=%s%s\n", stage.Name, stage.Account, stage.Region, marker)
	}

	ordered, err := stacks.Order(resolved.Stacks)
	if err != nil {
		return err
	}
	fmt.Printf("Stacks: %d\n", len(ordered))
	for _, stack := range ordered {
		fmt.Printf("  - %s", stack.Name)
		if len(stack.DependsOn) > 0 {
			fmt.Printf(" (after %s)", strings.Join(stack.DependsOn, ", "))
		}
		if len(stack.Stages) > 0 {
			fmt.Printf(" [stages: %s]", strings.Join(stack.Stages, ", "))
		}
		fmt.Println()
	}

	fmt.Printf("Gates: %d\n", len(resolved.Gates))
	for _, gate := range resolved.Gates {
		fmt.Printf("  - %s (%s): %d commands\n", gate.ActionName, gate.Trigger, len(gate.Commands))
	}

	return nil
}
