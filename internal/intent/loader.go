// Package intent loads and validates IntentSpec documents (the external
// parser's output contract, §6) from YAML or JSON, ahead of Petri-net
// construction.
package intent

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/flowlattice/workflowcore/internal/model"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

// wireStep mirrors the §6 IntentSpec step wire shape for (de)serialization;
// model.IntentStep is the in-memory type the rest of the core consumes.
type wireStep struct {
	ID           string                 `yaml:"id" json:"id" validate:"required"`
	Type         string                 `yaml:"type" json:"type" validate:"required,oneof=action choice parallel sync"`
	Description  string                 `yaml:"description" json:"description"`
	Dependencies []string               `yaml:"dependencies" json:"dependencies"`
	Conditions   map[string]interface{} `yaml:"conditions" json:"conditions"`
	Metadata     map[string]interface{} `yaml:"metadata" json:"metadata"`
}

type wireSpec struct {
	SchemaVersion string     `yaml:"schemaVersion" json:"schemaVersion" validate:"required"`
	Name          string     `yaml:"name" json:"name" validate:"required"`
	Description   string     `yaml:"description" json:"description"`
	Steps         []wireStep `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
}

var validate = validator.New()

// LoadYAML parses and validates an IntentSpec document from YAML bytes.
func LoadYAML(data []byte) (model.IntentSpec, error) {
	var w wireSpec
	if err := yaml.Unmarshal(data, &w); err != nil {
		return model.IntentSpec{}, werrors.NewValidationError("intent", fmt.Sprintf("invalid yaml: %v", err), "", err)
	}
	return finalize(w)
}

// LoadJSON parses and validates an IntentSpec document from JSON bytes.
func LoadJSON(data []byte) (model.IntentSpec, error) {
	var w wireSpec
	if err := json.Unmarshal(data, &w); err != nil {
		return model.IntentSpec{}, werrors.NewValidationError("intent", fmt.Sprintf("invalid json: %v", err), "", err)
	}
	return finalize(w)
}

func finalize(w wireSpec) (model.IntentSpec, error) {
	if err := validate.Struct(w); err != nil {
		return model.IntentSpec{}, werrors.NewValidationError("intent", fmt.Sprintf("schema validation failed: %v", err), "", err)
	}

	known := make(map[string]bool, len(w.Steps))
	for _, s := range w.Steps {
		if known[s.ID] {
			return model.IntentSpec{}, werrors.NewValidationError("intent.steps", fmt.Sprintf("duplicate step id %q", s.ID), "", nil)
		}
		known[s.ID] = true
	}
	for _, s := range w.Steps {
		for _, dep := range s.Dependencies {
			if !known[dep] {
				return model.IntentSpec{}, werrors.NewValidationError("intent.steps", fmt.Sprintf("step %q depends on unknown step %q", s.ID, dep), "", nil)
			}
		}
	}

	spec := model.IntentSpec{
		SchemaVersion: w.SchemaVersion,
		Name:          w.Name,
		Description:   w.Description,
	}
	for _, s := range w.Steps {
		spec.Steps = append(spec.Steps, model.IntentStep{
			ID:           s.ID,
			Type:         model.IntentStepType(s.Type),
			Description:  s.Description,
			Dependencies: s.Dependencies,
			Conditions:   s.Conditions,
			Metadata:     s.Metadata,
		})
	}
	return spec, nil
}
