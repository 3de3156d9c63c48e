package assemble

import (
	"context"

	"github.com/sourceplane/deploypipe/internal/pipeline"
)

// StackBuilder materializes the application resources of one stage. It is
// called once per declared stage, in order, with the stage handle that is
// appended to the pipeline right after it returns.
type StackBuilder interface {
	Materialize(ctx context.Context, stage *pipeline.Stage, account, region string) ([]pipeline.ResourceBundle, error)
}

// StackBuilderFunc adapts a function to the StackBuilder interface
type StackBuilderFunc func(ctx context.Context, stage *pipeline.Stage, account, region string) ([]pipeline.ResourceBundle, error)

// Materialize calls f
func (f StackBuilderFunc) Materialize(ctx context.Context, stage *pipeline.Stage, account, region string) ([]pipeline.ResourceBundle, error) {
	return f(ctx, stage, account, region)
}
