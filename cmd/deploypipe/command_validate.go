package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline config and its assembled graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(cmd.Context())
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)
}

func validateConfig(ctx context.Context) error {
	fmt.Println("□ Validating pipeline config...")
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Println("✓ Pipeline config is valid")

	fmt.Println("□ Assembling pipeline...")
	_, p, err := assemblePipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("assembled pipeline is invalid: %w", err)
	}

	fmt.Println("✓ All validation passed")
	return nil
}
