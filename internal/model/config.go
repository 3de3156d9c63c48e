package model

// Defaults applied by the normalizer when the matching field is unset
const (
	BootstrapInstallCommand = "npm install -g aws-cdk ts-node typescript"
	DefaultCredentialRef    = "GITHUB_TOKEN"
	DefaultSubdirectory     = "."
	SynthCommand            = "cdk synth"
)

// PipelineConfig is the declarative description of a delivery pipeline
type PipelineConfig struct {
	ProjectName  string        `yaml:"projectName" json:"projectName,omitempty" toml:"projectName"`
	PipelineName string        `yaml:"pipelineName,omitempty" json:"pipelineName,omitempty" toml:"pipelineName"`
	GitHub       GitHubSource  `yaml:"github" json:"github" toml:"github"`
	Commands     Commands      `yaml:"commands,omitempty" json:"commands" toml:"commands"`
	Stage        StageSettings `yaml:"stage" json:"stage" toml:"stage"`
	Stacks       []StackSpec   `yaml:"stacks,omitempty" json:"stacks,omitempty" toml:"stacks"`
	Subdir       string        `yaml:"subdir,omitempty" json:"subdir,omitempty" toml:"subdir"`
}

// GitHubSource identifies the source repository and the credential used to read it
type GitHubSource struct {
	ProjectOwner string `yaml:"projectOwner" json:"projectOwner,omitempty" toml:"projectOwner"`
	// TokenInSecretManager names the secret holding the OAuth token, never the token itself
	TokenInSecretManager string `yaml:"tokenInSecretManager,omitempty" json:"tokenInSecretManager,omitempty" toml:"tokenInSecretManager"`
}

// Commands groups the shell commands run by synthesis and by the test gates
type Commands struct {
	InstallCommands              []string `yaml:"installCommands,omitempty" json:"installCommands,omitempty" toml:"installCommands"`
	BuildCommands                []string `yaml:"buildCommands,omitempty" json:"buildCommands,omitempty" toml:"buildCommands"`
	BeforeFirstStageTestCommands []string `yaml:"beforeFirstStageTestCommands,omitempty" json:"beforeFirstStageTestCommands,omitempty" toml:"beforeFirstStageTestCommands"`
	BeforeProdTestCommands       []string `yaml:"beforeProdTestCommands,omitempty" json:"beforeProdTestCommands,omitempty" toml:"beforeProdTestCommands"`
}

// StageSettings holds the ordered stage list and the production marker
type StageSettings struct {
	ProdStageName string            `yaml:"prodStageName,omitempty" json:"prodStageName,omitempty" toml:"prodStageName"`
	Stages        []StageDescriptor `yaml:"stages" json:"stages" toml:"stages"`
}

// StageDescriptor is one requested deployment target
type StageDescriptor struct {
	Name    string `yaml:"name" json:"name,omitempty" toml:"name"`
	Account string `yaml:"account" json:"account,omitempty" toml:"account"`
	Region  string `yaml:"region" json:"region,omitempty" toml:"region"`
}

// StackSpec declares an application stack deployed by the built-in stack builder.
// An empty Stages list means the stack is deployed in every stage. Stacks
// listed in DependsOn are deployed first within a stage.
type StackSpec struct {
	Name      string   `yaml:"name" json:"name,omitempty" toml:"name"`
	Stages    []string `yaml:"stages,omitempty" json:"stages,omitempty" toml:"stages"`
	DependsOn []string `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty" toml:"dependsOn"`
}

// DeploysTo reports whether the stack is materialized in the named stage
func (s StackSpec) DeploysTo(stage string) bool {
	if len(s.Stages) == 0 {
		return true
	}
	for _, name := range s.Stages {
		if name == stage {
			return true
		}
	}
	return false
}

// ResolvedConfig is the fully defaulted configuration consumed by the assembler
type ResolvedConfig struct {
	PipelineName    string
	ProjectName     string
	RepositoryOwner string
	CredentialRef   string
	Subdirectory    string
	InstallCommands []string
	BuildCommands   []string
	SynthCommand    string
	ProdStageName   string
	Stages          []StageDescriptor
	Stacks          []StackSpec
	Gates           []TestGate
}
