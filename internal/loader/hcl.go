package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// hclFile mirrors model.PipelineConfig in HCL's block syntax:
//
//	project_name    = "my-app"
//	prod_stage_name = "prod"
//
//	github {
//	  project_owner = "acme"
//	}
//
//	stage "dev" {
//	  account = "111111111111"
//	  region  = "us-east-1"
//	}
type hclFile struct {
	ProjectName   string       `hcl:"project_name,optional"`
	PipelineName  string       `hcl:"pipeline_name,optional"`
	Subdir        string       `hcl:"subdir,optional"`
	ProdStageName string       `hcl:"prod_stage_name,optional"`
	GitHub        *hclGitHub   `hcl:"github,block"`
	Commands      *hclCommands `hcl:"commands,block"`
	Stages        []hclStage   `hcl:"stage,block"`
	Stacks        []hclStack   `hcl:"stack,block"`
}

type hclGitHub struct {
	ProjectOwner         string `hcl:"project_owner,optional"`
	TokenInSecretManager string `hcl:"token_in_secret_manager,optional"`
}

type hclCommands struct {
	Install          []string `hcl:"install_commands,optional"`
	Build            []string `hcl:"build_commands,optional"`
	BeforeFirstStage []string `hcl:"before_first_stage_test_commands,optional"`
	BeforeProd       []string `hcl:"before_prod_test_commands,optional"`
}

type hclStage struct {
	Name    string `hcl:"name,label"`
	Account string `hcl:"account"`
	Region  string `hcl:"region"`
}

type hclStack struct {
	Name      string   `hcl:"name,label"`
	Stages    []string `hcl:"stages,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
}

// decodeHCL decodes an HCL pipeline config. Environment variables are
// available to expressions as env.NAME.
func decodeHCL(filename string, data []byte) (*model.PipelineConfig, error) {
	if !strings.HasSuffix(filename, ".hcl") {
		filename += ".hcl"
	}

	var file hclFile
	if err := hclsimple.Decode(filename, data, evalContext(), &file); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config HCL: %w", err)
	}

	cfg := &model.PipelineConfig{
		ProjectName:  file.ProjectName,
		PipelineName: file.PipelineName,
		Subdir:       file.Subdir,
		Stage:        model.StageSettings{ProdStageName: file.ProdStageName},
	}
	if file.GitHub != nil {
		cfg.GitHub = model.GitHubSource{
			ProjectOwner:         file.GitHub.ProjectOwner,
			TokenInSecretManager: file.GitHub.TokenInSecretManager,
		}
	}
	if file.Commands != nil {
		cfg.Commands = model.Commands{
			InstallCommands:              file.Commands.Install,
			BuildCommands:                file.Commands.Build,
			BeforeFirstStageTestCommands: file.Commands.BeforeFirstStage,
			BeforeProdTestCommands:       file.Commands.BeforeProd,
		}
	}
	for _, s := range file.Stages {
		cfg.Stage.Stages = append(cfg.Stage.Stages, model.StageDescriptor{Name: s.Name, Account: s.Account, Region: s.Region})
	}
	for _, s := range file.Stacks {
		cfg.Stacks = append(cfg.Stacks, model.StackSpec{Name: s.Name, Stages: s.Stages, DependsOn: s.DependsOn})
	}

	return cfg, nil
}

func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
