package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
schemaVersion: "1.0"
name: demo
description: a demo intent
steps:
  - id: build
    type: action
  - id: deploy
    type: action
    dependencies: [build]
`

func TestLoadYAMLValid(t *testing.T) {
	spec, err := LoadYAML([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, "demo", spec.Name)
	require.Len(t, spec.Steps, 2)
	assert.Equal(t, []string{"build"}, spec.Steps[1].Dependencies)
}

func TestLoadYAMLUnknownDependency(t *testing.T) {
	bad := `
schemaVersion: "1.0"
name: demo
steps:
  - id: deploy
    type: action
    dependencies: [missing]
`
	_, err := LoadYAML([]byte(bad))
	assert.Error(t, err)
}

func TestLoadYAMLMissingRequiredFields(t *testing.T) {
	bad := `
name: demo
steps: []
`
	_, err := LoadYAML([]byte(bad))
	assert.Error(t, err)
}
