package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sourceplane/deploypipe/internal/model"
	"gopkg.in/yaml.v3"
)

// Format is a pipeline config file format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported pipeline config extension %q (use .yaml, .yml, .json, .toml or .hcl)", filepath.Ext(path))
	}
}

// LoadPipelineConfig loads and parses a pipeline config file
func LoadPipelineConfig(path string) (*model.PipelineConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}

	return ParsePipelineConfig(filepath.Base(path), data, format)
}

// ParsePipelineConfig decodes a pipeline config. Unknown keys are rejected
// in every format.
func ParsePipelineConfig(filename string, data []byte, format Format) (*model.PipelineConfig, error) {
	var cfg model.PipelineConfig

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline config YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline config JSON: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pipeline config TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys in pipeline config TOML: %s", strings.Join(keys, ", "))
		}
	case FormatHCL:
		parsed, err := decodeHCL(filename, data)
		if err != nil {
			return nil, err
		}
		cfg = *parsed
	default:
		return nil, fmt.Errorf("unsupported pipeline config format: %s", format)
	}

	return &cfg, nil
}
