package main

import (
	"fmt"
	"strings"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// StageInfo holds display data about one assembled stage
type StageInfo struct {
	Index      int
	Name       string
	Account    string
	Region     string
	Production bool
	Bundles    []string
	Gates      []string // gate action names attached to the stage
	Actions    []ActionInfo
}

// ActionInfo holds display data about one stage action
type ActionInfo struct {
	Name     string
	Kind     string
	RunOrder int
	Commands []string
}

// ExtractStageInfo collects display data for every stage in pipeline order
func ExtractStageInfo(cfg *model.ResolvedConfig, p *pipeline.Pipeline) []StageInfo {
	infos := make([]StageInfo, 0, len(p.Stages))
	for i, stage := range p.Stages {
		info := StageInfo{
			Index:      i,
			Name:       stage.Name,
			Account:    stage.Account,
			Region:     stage.Region,
			Production: cfg.ProdStageName != "" && stage.Name == cfg.ProdStageName,
		}
		for _, bundle := range stage.Bundles {
			info.Bundles = append(info.Bundles, bundle.Name)
		}
		for _, action := range stage.OrderedActions() {
			if action.Kind == pipeline.KindShell {
				info.Gates = append(info.Gates, action.Name)
			}
			info.Actions = append(info.Actions, ActionInfo{
				Name:     action.Name,
				Kind:     string(action.Kind),
				RunOrder: action.RunOrder,
				Commands: action.Commands,
			})
		}
		infos = append(infos, info)
	}
	return infos
}

// PrintShortFormat prints one line per stage
func PrintShortFormat(info StageInfo) {
	gates := "-"
	if len(info.Gates) > 0 {
		gates = strings.Join(info.Gates, ", ")
	}
	prod := ""
	if info.Production {
		prod = " [production]"
	}
	fmt.Printf("  %d. %-16s %s/%s  gates: %s%s\n", info.Index+1, info.Name, info.Account, info.Region, gates, prod)
}

// PrintLongFormat prints a stage with all of its actions
func PrintLongFormat(info StageInfo) {
	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Stage: %s\n", info.Name)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	fmt.Printf("Target:\n")
	fmt.Printf("  Account:    %s\n", info.Account)
	fmt.Printf("  Region:     %s\n", info.Region)
	fmt.Printf("  Position:   %d\n", info.Index+1)
	fmt.Printf("  Production: %v\n\n", info.Production)

	if len(info.Bundles) > 0 {
		fmt.Printf("Bundles:\n")
		for _, bundle := range info.Bundles {
			fmt.Printf("  • %s\n", bundle)
		}
		fmt.Printf("\n")
	}

	fmt.Printf("Actions (by run-order):\n")
	for _, action := range info.Actions {
		marker := "  "
		if action.Kind == string(pipeline.KindShell) {
			marker = "★ " // test gate
		}
		fmt.Printf("%s%d. %s [%s]\n", marker, action.RunOrder, action.Name, action.Kind)
		for _, command := range action.Commands {
			fmt.Printf("     $ %s\n", command)
		}
	}

	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
}
