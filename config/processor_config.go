// Package config loads the YAML processor configuration and the MQTT
// environment settings, and resolves a ProcessorConfig into a fully wired
// processor.Processor.
package config

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"gopkg.in/yaml.v3"

	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/types"
)

// Format is the enum carried by input_format/output_format.
type Format string

const (
	FormatBinary Format = "binary"
	FormatString Format = "string"
	FormatJSON   Format = "json"
)

// FunctionConfig is one entry of a ProcessorConfig's function list.
type FunctionConfig struct {
	Name      string
	Arguments map[string]any
}

// UnmarshalYAML accepts a bare function name, or a {name, arguments}
// mapping, per the "string | {name, arguments}" field grammar.
func (f *FunctionConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		f.Name = name
		f.Arguments = map[string]any{}
		return nil
	}

	var raw struct {
		Name      string         `yaml:"name"`
		Arguments map[string]any `yaml:"arguments"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.Arguments = raw.Arguments
	if f.Arguments == nil {
		f.Arguments = map[string]any{}
	}
	return nil
}

// stringList decodes a YAML scalar or sequence of scalars into a []string.
// Used for the "string | [string]" source field.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = []string{one}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// functionList decodes a YAML scalar, mapping, or sequence of either into a
// []FunctionConfig. Used for the "string | {name, arguments} | list of
// either" function field.
type functionList []FunctionConfig

func (fl *functionList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var out []FunctionConfig
		for _, item := range value.Content {
			var one FunctionConfig
			if err := one.UnmarshalYAML(item); err != nil {
				return err
			}
			out = append(out, one)
		}
		*fl = out
		return nil
	}

	var one FunctionConfig
	if err := one.UnmarshalYAML(value); err != nil {
		return err
	}
	*fl = []FunctionConfig{one}
	return nil
}

// ProcessorConfig is one entry of the YAML `processors` list, before
// resolution against the function registry.
type ProcessorConfig struct {
	Name         string       `yaml:"name"`
	Source       stringList   `yaml:"source"`
	Sink         string       `yaml:"sink"`
	Function     functionList `yaml:"function"`
	InputFormat  Format       `yaml:"input_format"`
	OutputFormat Format       `yaml:"output_format"`
}

// File is the top-level YAML document shape.
type File struct {
	Processors []ProcessorConfig `yaml:"processors"`
}

// LoadFile parses the YAML bytes into a File, synthesizing missing names.
func LoadFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing processor configuration: %w", err)
	}
	for i := range f.Processors {
		if f.Processors[i].Name == "" {
			f.Processors[i].Name = synthesizeName(f.Processors[i])
		}
		if f.Processors[i].InputFormat == "" {
			f.Processors[i].InputFormat = FormatJSON
		}
	}
	return &f, nil
}

// synthesizeName builds "<first function name>-<random suffix>" when a
// config omits `name`.
func synthesizeName(cfg ProcessorConfig) string {
	base := "processor"
	if len(cfg.Function) > 0 {
		base = cfg.Function[0].Name
	}
	suffix, err := uuid.NewV4()
	if err != nil {
		return base
	}
	return fmt.Sprintf("%s-%s", base, suffix.String()[:8])
}

// formatConverterName maps a Format to the registered converter name that
// implements it, for the given direction.
func formatConverterName(f Format, decode bool) string {
	switch f {
	case FormatBinary:
		if decode {
			return "" // already bytes; no decode step needed
		}
		return ""
	case FormatString:
		if decode {
			return "binary_to_string"
		}
		return "string_to_binary"
	case FormatJSON:
		if decode {
			return "binary_to_json"
		}
		return "json_to_binary"
	default:
		return ""
	}
}

// ResolveFunctionChain expands a ProcessorConfig's declared function list
// into the ordered []FunctionConfig a processor chain should bind,
// prepending the input_format decoder and appending the output_format
// encoder.
func (c ProcessorConfig) ResolveFunctionChain() []FunctionConfig {
	chain := make([]FunctionConfig, 0, len(c.Function)+2)
	if name := formatConverterName(c.InputFormat, true); name != "" {
		chain = append(chain, FunctionConfig{Name: name, Arguments: map[string]any{}})
	}
	chain = append(chain, c.Function...)
	if name := formatConverterName(c.OutputFormat, false); name != "" {
		chain = append(chain, FunctionConfig{Name: name, Arguments: map[string]any{}})
	}
	return chain
}

// Sources parses the configured source strings into TopicPatterns.
func (c ProcessorConfig) Sources() ([]*types.TopicPattern, error) {
	out := make([]*types.TopicPattern, 0, len(c.Source))
	for _, s := range c.Source {
		p, err := types.New(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SinkPattern parses the configured sink string, if any.
func (c ProcessorConfig) SinkPattern() (*types.TopicPattern, error) {
	if c.Sink == "" {
		return nil, nil
	}
	return types.New(c.Sink)
}

// BindChain resolves this config's function chain against reg, returning
// the ordered bindings a SingleSourceProcessor should run.
func (c ProcessorConfig) BindChain(reg *registry.Registry) ([]*registry.Binding, error) {
	funcs := c.ResolveFunctionChain()
	out := make([]*registry.Binding, 0, len(funcs))
	for _, f := range funcs {
		b, err := registry.Bind(reg, f.Name, f.Arguments)
		if err != nil {
			return nil, fmt.Errorf("processor config: binding function %q: %w", f.Name, err)
		}
		out = append(out, b)
	}
	return out, nil
}
