package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/mqtt-processor/builtin/converters"
	"github.com/bittoy/mqtt-processor/builtin/rules"
	"github.com/bittoy/mqtt-processor/config"
	"github.com/bittoy/mqtt-processor/registry"
)

const sampleYAML = `
processors:
  - name: bridge
    source: "devices/{w1}/raw"
    sink: "devices/{w1}/clean"
    function: expr_filter
  - source: ["a/source", "b/source"]
    function:
      - name: expr_filter
        arguments:
          expression: "body != nil"
    input_format: string
`

func TestLoadFileSynthesizesNameAndCoercesLists(t *testing.T) {
	f, err := config.LoadFile([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, f.Processors, 2)

	first := f.Processors[0]
	assert.Equal(t, "bridge", first.Name)
	assert.Equal(t, []string{"devices/{w1}/raw"}, []string(first.Source))
	require.Len(t, first.Function, 1)
	assert.Equal(t, "expr_filter", first.Function[0].Name)
	assert.Equal(t, config.FormatJSON, first.InputFormat)

	second := f.Processors[1]
	assert.NotEmpty(t, second.Name)
	assert.Equal(t, []string{"a/source", "b/source"}, []string(second.Source))
	assert.Equal(t, config.FormatString, second.InputFormat)
}

func TestResolveFunctionChainPrependsInputFormat(t *testing.T) {
	f, err := config.LoadFile([]byte(sampleYAML))
	require.NoError(t, err)

	chain := f.Processors[1].ResolveFunctionChain()
	require.Len(t, chain, 2)
	assert.Equal(t, "binary_to_string", chain[0].Name)
	assert.Equal(t, "expr_filter", chain[1].Name)
}

func TestBuildProcessorsRejectsDuplicateNames(t *testing.T) {
	reg := registry.New()
	rules.Register(reg)
	converters.Register(reg)

	f, err := config.LoadFile([]byte(`
processors:
  - name: dup
    source: "a/source"
    function: expr_filter
  - name: dup
    source: "b/source"
    function: expr_filter
`))
	require.NoError(t, err)

	for i := range f.Processors {
		f.Processors[i].Function[0].Arguments = map[string]any{"expression": "true"}
	}

	_, err = config.BuildProcessors(f, reg)
	require.Error(t, err)
}

func TestBuildProcessorsWiresChain(t *testing.T) {
	reg := registry.New()
	rules.Register(reg)
	converters.Register(reg)

	f, err := config.LoadFile([]byte(`
processors:
  - name: bridge
    source: "devices/{w1}/raw"
    sink: "devices/{w1}/clean"
    function:
      - name: expr_filter
        arguments:
          expression: "true"
`))
	require.NoError(t, err)

	procs, err := config.BuildProcessors(f, reg)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	require.Len(t, procs[0].Singles, 1)

	out := procs[0].Singles[0].Process("devices/sensor-1/raw", []byte(`{"value": 1}`))
	require.Len(t, out, 1)
	assert.Equal(t, "devices/sensor-1/clean", out[0].Sink.Rule())
}
