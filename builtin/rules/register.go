package rules

import "github.com/bittoy/mqtt-processor/registry"

// Register adds every built-in rule function to reg under its canonical
// name.
func Register(reg *registry.Registry) {
	reg.MustRegister("expr_filter", &ExprFilter{})
}
