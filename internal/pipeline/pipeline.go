// Package pipeline holds the assembled delivery graph: a source action, a
// synthesis action and an ordered list of stages, each carrying actions
// numbered by run-order.
package pipeline

import "fmt"

// ActionKind classifies what an action asks the execution engine to do
type ActionKind string

const (
	KindSource  ActionKind = "source"
	KindSynth   ActionKind = "synth"
	KindPrepare ActionKind = "prepare"
	KindDeploy  ActionKind = "deploy"
	KindShell   ActionKind = "shell"
)

// Pipeline is the assembled delivery graph
type Pipeline struct {
	Name   string       `json:"name" yaml:"name"`
	Source SourceAction `json:"source" yaml:"source"`
	Synth  SynthAction  `json:"synth" yaml:"synth"`
	Stages []*Stage     `json:"stages" yaml:"stages"`
}

// SourceAction retrieves the repository into the source artifact
type SourceAction struct {
	Name          string   `json:"name" yaml:"name"`
	Owner         string   `json:"owner" yaml:"owner"`
	Repo          string   `json:"repo" yaml:"repo"`
	CredentialRef string   `json:"credentialRef" yaml:"credentialRef"`
	Output        Artifact `json:"output" yaml:"output"`
}

// SynthAction installs, builds and synthesizes the source into the cloud assembly
type SynthAction struct {
	Name            string   `json:"name" yaml:"name"`
	Input           Artifact `json:"input" yaml:"input"`
	Output          Artifact `json:"output" yaml:"output"`
	InstallCommands []string `json:"installCommands" yaml:"installCommands"`
	BuildCommands   []string `json:"buildCommands,omitempty" yaml:"buildCommands,omitempty"`
	SynthCommand    string   `json:"synthCommand" yaml:"synthCommand"`
	Subdirectory    string   `json:"subdirectory" yaml:"subdirectory"`
}

// Commands returns install, build and synth commands in execution order
func (s SynthAction) Commands() []string {
	commands := make([]string, 0, len(s.InstallCommands)+len(s.BuildCommands)+1)
	commands = append(commands, s.InstallCommands...)
	commands = append(commands, s.BuildCommands...)
	return append(commands, s.SynthCommand)
}

// ResourceBundle is a deployable unit returned by a stack builder
type ResourceBundle struct {
	Name    string `json:"name" yaml:"name"`
	Account string `json:"account" yaml:"account"`
	Region  string `json:"region" yaml:"region"`
}

// Action is one ordered unit of work inside a stage
type Action struct {
	Name                string     `json:"name" yaml:"name"`
	Kind                ActionKind `json:"kind" yaml:"kind"`
	RunOrder            int        `json:"runOrder" yaml:"runOrder"`
	Bundle              string     `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Input               *Artifact  `json:"input,omitempty" yaml:"input,omitempty"`
	Commands            []string   `json:"commands,omitempty" yaml:"commands,omitempty"`
	AdditionalArtifacts []Artifact `json:"additionalArtifacts,omitempty" yaml:"additionalArtifacts,omitempty"`
}

// New creates a pipeline with its head wired and no stages
func New(name string, source SourceAction, synth SynthAction) *Pipeline {
	return &Pipeline{
		Name:   name,
		Source: source,
		Synth:  synth,
		Stages: make([]*Stage, 0),
	}
}

// AddApplicationStage appends the stage and adds a prepare and a deploy
// action for every bundle, consuming run-orders from the stage.
func (p *Pipeline) AddApplicationStage(stage *Stage, bundles []ResourceBundle) *Stage {
	assembly := p.Synth.Output
	for _, bundle := range bundles {
		stage.Bundles = append(stage.Bundles, bundle)
		stage.AddActions(Action{
			Name:     fmt.Sprintf("%s.Prepare", bundle.Name),
			Kind:     KindPrepare,
			RunOrder: stage.NextSequentialRunOrder(),
			Bundle:   bundle.Name,
			Input:    &assembly,
		})
		stage.AddActions(Action{
			Name:     fmt.Sprintf("%s.Deploy", bundle.Name),
			Kind:     KindDeploy,
			RunOrder: stage.NextSequentialRunOrder(),
			Bundle:   bundle.Name,
		})
	}
	p.Stages = append(p.Stages, stage)
	return stage
}

// Stage returns the stage with the given name, or nil
func (p *Pipeline) Stage(name string) *Stage {
	for _, s := range p.Stages {
		if s.Name == name {
			return s
		}
	}
	return nil
}
