// Package rules holds the built-in rule functions shipped with the
// pipeline. A rule gates a chain: it never transforms the body, it only
// decides whether the message survives to the next step.
package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fatih/structs"

	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/types"
)

// ExprFilterConfig is the argument struct expr_filter decodes its
// configured arguments into. Field count (via structs.Fields) doubles as
// the function's declared arity, so adding a field here also raises the
// number of arguments ParamCount reports and Bind requires.
type ExprFilterConfig struct {
	Expression string `mapstructure:"expression"`
}

// ExprFilter evaluates an expr-lang boolean expression against the message
// body, with the source topic and matched wildcards available as
// environment variables.
type ExprFilter struct {
	config  ExprFilterConfig
	program *vm.Program
}

func (f *ExprFilter) New() types.Function { return &ExprFilter{} }

func (f *ExprFilter) Kind() types.FunctionKind { return types.KindRule }

func (f *ExprFilter) ParamCount() int { return len(structs.Fields(&ExprFilterConfig{})) }

func (f *ExprFilter) ExpectsSourceTopic() bool { return true }

func (f *ExprFilter) ExpectsMatches() bool { return true }

func (f *ExprFilter) Init(args map[string]any) error {
	if err := registry.DecodeArgs(args, &f.config); err != nil {
		return fmt.Errorf("decoding expr_filter arguments: %w", err)
	}

	program, err := expr.Compile(f.config.Expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compiling expr_filter expression %q: %w", f.config.Expression, err)
	}
	f.program = program
	return nil
}

func (f *ExprFilter) Invoke(body any, sourceTopic string, matches map[string]string) (any, error) {
	env := map[string]any{
		"body":         body,
		"source_topic": sourceTopic,
		"matches":      matches,
	}
	out, err := vm.Run(f.program, env)
	if err != nil {
		return nil, err
	}
	result, ok := out.(bool)
	if !ok {
		return nil, fmt.Errorf("expr_filter expression %q did not evaluate to a boolean", f.config.Expression)
	}
	return result, nil
}

func (f *ExprFilter) Destroy() {}
