// Package stacks provides the built-in stack builder used by the CLI and
// the HTTP surface.
package stacks

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// Declared materializes the stacks listed in the configuration in
// dependency order. Without a stack list it deploys a single stack named
// after the project.
type Declared struct {
	project  string
	stacks   []model.StackSpec
	orderErr error
}

// NewDeclared creates a builder for the stacks of a resolved configuration
func NewDeclared(cfg *model.ResolvedConfig) *Declared {
	specs := cfg.Stacks
	if len(specs) == 0 {
		specs = []model.StackSpec{{Name: cfg.ProjectName}}
	}
	ordered, err := Order(specs)
	if err != nil {
		return &Declared{project: cfg.ProjectName, orderErr: err}
	}
	return &Declared{project: cfg.ProjectName, stacks: ordered}
}

// Materialize returns one bundle per stack deployed to the stage, named
// <stage>-<stack>. A stack skipped in this stage does not hold back its
// dependents.
func (d *Declared) Materialize(ctx context.Context, stage *pipeline.Stage, account, region string) ([]pipeline.ResourceBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.orderErr != nil {
		return nil, d.orderErr
	}
	if account == "" {
		return nil, errors.New("target account is empty")
	}
	if region == "" {
		return nil, errors.New("target region is empty")
	}

	bundles := make([]pipeline.ResourceBundle, 0, len(d.stacks))
	for _, stack := range d.stacks {
		if stack.Name == "" {
			return nil, fmt.Errorf("stack for project %s has no name", d.project)
		}
		if !stack.DeploysTo(stage.Name) {
			continue
		}
		bundles = append(bundles, pipeline.ResourceBundle{
			Name:    fmt.Sprintf("%s-%s", stage.Name, stack.Name),
			Account: account,
			Region:  region,
		})
	}

	ctxlog.FromContext(ctx).Debug("Stacks resolved for stage.", "stage", stage.Name, "count", len(bundles))
	return bundles, nil
}
