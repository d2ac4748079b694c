package converters

import "github.com/bittoy/mqtt-processor/registry"

// Register adds every built-in converter function to reg under its
// canonical name.
func Register(reg *registry.Registry) {
	reg.MustRegister("binary_to_string", &BinaryToString{})
	reg.MustRegister("string_to_binary", &StringToBinary{})
	reg.MustRegister("binary_to_json", &BinaryToJSON{})
	reg.MustRegister("json_to_binary", &JSONToBinary{})
	reg.MustRegister("js_transform", &JSTransform{})
}
