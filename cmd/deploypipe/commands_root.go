package main

import (
	"os"

	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	outputFile   string
	debugMode    bool
	viewPlan     string
	detectRepo   bool
	repoDir      string
	logLevel     string
	logFormat    string
	longFormat   bool
	planMetaDesc string
)

var rootCmd = &cobra.Command{
	Use:   "deploypipe",
	Short: "Pipeline assembler: stages → delivery pipeline",
	Long:  "deploypipe assembles a source → synth → stages delivery pipeline from a declarative config, inserting test gates before the first stage and before production",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := ctxlog.New(logLevel, logFormat, os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "pipeline.yaml", "Pipeline config file (.yaml, .json, .toml or .hcl)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text/json)")
	rootCmd.PersistentFlags().BoolVar(&detectRepo, "detect-repo", false, "Fill missing projectName/projectOwner from the git origin remote")
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo-dir", ".", "Repository directory used by --detect-repo and for the plan revision")

	registerPlanCommand(rootCmd)
	registerRunCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerDebugCommand(rootCmd)
	registerStagesCommand(rootCmd)
	registerServeCommand(rootCmd)
}
