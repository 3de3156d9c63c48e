package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sourceplane/deploypipe/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed pipeline.schema.yaml
var pipelineSchemaYAML []byte

//go:embed plan.schema.yaml
var planSchemaYAML []byte

// Validator handles JSON schema validation of pipeline configs and plans
type Validator struct {
	configSchema *jsonschema.Schema
	planSchema   *jsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	configSchema, err := compile("deploypipe://pipeline.schema.json", pipelineSchemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline schema: %w", err)
	}
	v.configSchema = configSchema

	planSchema, err := compile("deploypipe://plan.schema.json", planSchemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan schema: %w", err)
	}
	v.planSchema = planSchema

	return v, nil
}

// ValidateConfig validates a pipeline configuration against the schema
func (v *Validator) ValidateConfig(cfg *model.PipelineConfig) error {
	if cfg == nil {
		return fmt.Errorf("pipeline config cannot be nil")
	}
	doc, err := toDocument(cfg)
	if err != nil {
		return err
	}
	if err := v.configSchema.Validate(doc); err != nil {
		return fmt.Errorf("pipeline config is invalid: %w", err)
	}
	return nil
}

// ValidatePlan validates a rendered plan document
func (v *Validator) ValidatePlan(plan *model.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan cannot be nil")
	}
	doc, err := toDocument(plan)
	if err != nil {
		return err
	}
	if err := v.planSchema.Validate(doc); err != nil {
		return fmt.Errorf("plan is invalid: %w", err)
	}
	return nil
}

// compile parses a YAML schema, converts it to JSON and compiles it under url
func compile(url string, data []byte) (*jsonschema.Schema, error) {
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(jsonData))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// toDocument round-trips v through JSON into the generic form the validator expects
func toDocument(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
