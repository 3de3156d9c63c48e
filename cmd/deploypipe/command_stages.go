package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:     "stages [stage-name]",
	Aliases: []string{"stage"},
	Short:   "List assembled stages and their gates",
	Long:    "List all stages of the assembled pipeline. Use 'deploypipe stages <name>' for details.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listStages(cmd.Context(), args)
	},
}

func registerStagesCommand(root *cobra.Command) {
	root.AddCommand(stagesCmd)

	stagesCmd.Flags().BoolVarP(&longFormat, "long", "l", false, "Show detailed information")
}

func listStages(ctx context.Context, args []string) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	resolved, p, err := assemblePipeline(ctx, cfg)
	if err != nil {
		return err
	}

	infos := ExtractStageInfo(resolved, p)

	if len(args) > 0 {
		for _, info := range infos {
			if info.Name == args[0] {
				PrintLongFormat(info)
				return nil
			}
		}
		return fmt.Errorf("stage not found: %s", args[0])
	}

	fmt.Println("Stages:")
	for _, info := range infos {
		if longFormat {
			PrintLongFormat(info)
			continue
		}
		PrintShortFormat(info)
	}

	if !longFormat {
		fmt.Println("\nRun 'deploypipe stages <name>' for detailed information")
	}
	return nil
}
