package condition

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// registryFile is the YAML document layout accepted by LoadYAML:
//
//	includeDefaults: true
//	conditionTypes:
//	  - id: sessionCondition
//	    description: Matches sessions by duration
//	    parameters:
//	      - id: minDuration
//	        type: Integer
type registryFile struct {
	IncludeDefaults bool    `yaml:"includeDefaults"`
	ConditionTypes  []*Type `yaml:"conditionTypes"`
}

// LoadYAML reads a registry definition. Unknown keys are rejected.
func LoadYAML(r io.Reader) (*StaticRegistry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file registryFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("condition: invalid registry YAML: %w", err)
	}

	b := NewRegistryBuilder()
	if file.IncludeDefaults {
		b.Add(DefaultTypes()...)
	}
	reg, err := b.Add(file.ConditionTypes...).Build()
	if err != nil {
		return nil, fmt.Errorf("condition: invalid registry: %w", err)
	}
	return reg, nil
}
