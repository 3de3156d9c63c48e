package render

import (
	"fmt"
	"strings"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// PlanViewer provides human-readable views of a plan
type PlanViewer struct {
	plan *model.Plan
}

// NewPlanViewer creates a new plan viewer
func NewPlanViewer(plan *model.Plan) *PlanViewer {
	return &PlanViewer{plan: plan}
}

// ViewTree returns the pipeline as a tree in execution order
func (pv *PlanViewer) ViewTree() string {
	p := pv.plan.Pipeline
	if p == nil {
		return "No pipeline in plan"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", p.Name)
	fmt.Fprintf(&sb, "├─ %s [source] %s/%s → %s\n", p.Source.Name, p.Source.Owner, p.Source.Repo, p.Source.Output.Name)
	fmt.Fprintf(&sb, "├─ %s [synth] %s → %s\n", p.Synth.Name, p.Synth.Input.Name, p.Synth.Output.Name)

	for i, stage := range p.Stages {
		isLastStage := i == len(p.Stages)-1

		stagePrefix, childIndent := "├─ ", "│  "
		if isLastStage {
			stagePrefix, childIndent = "└─ ", "   "
		}
		fmt.Fprintf(&sb, "%s%s (%s/%s)\n", stagePrefix, stage.Name, stage.Account, stage.Region)

		actions := stage.OrderedActions()
		for j, action := range actions {
			actionPrefix := "├─ "
			if j == len(actions)-1 {
				actionPrefix = "└─ "
			}
			fmt.Fprintf(&sb, "%s%s%d. %s%s\n", childIndent, actionPrefix, action.RunOrder, action.Name, gateMarker(action))
		}
	}

	return sb.String()
}

// ViewStage returns the ordered actions and commands of one stage
func (pv *PlanViewer) ViewStage(name string) string {
	if pv.plan.Pipeline == nil {
		return "No pipeline in plan"
	}
	stage := pv.plan.Pipeline.Stage(name)
	if stage == nil {
		return fmt.Sprintf("Stage %s not found", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[Stage] %s\n", stage.Name)
	fmt.Fprintf(&sb, "  Account: %s\n", stage.Account)
	fmt.Fprintf(&sb, "  Region:  %s\n", stage.Region)
	fmt.Fprintf(&sb, "  Actions (%d):\n", len(stage.Actions))
	for _, action := range stage.OrderedActions() {
		fmt.Fprintf(&sb, "    %d. %s [%s]\n", action.RunOrder, action.Name, action.Kind)
		for _, command := range action.Commands {
			fmt.Fprintf(&sb, "       $ %s\n", command)
		}
	}
	return sb.String()
}

func gateMarker(action pipeline.Action) string {
	if action.Kind == pipeline.KindShell {
		return " ★"
	}
	return ""
}
