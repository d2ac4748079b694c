package registry

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// Binding is a configured instance of a registered function: the
// initialized callable plus the special-parameter flags the pipeline needs
// to build its invocation adapter.
type Binding struct {
	name                                string
	kind                                types.FunctionKind
	fn                                  types.Function
	expectsSourceTopic, expectsMatches bool
}

// Bind looks up name in reg, validates the declared arity against args, and
// initializes a fresh instance of the prototype with args. It fails with
// ErrUnknownFunction if name is not registered, or ErrArityMismatch if
// len(args) does not equal the prototype's declared ParamCount.
func Bind(reg *Registry, name string, args map[string]any) (*Binding, error) {
	proto, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownFunction, name)
	}

	if len(args) != proto.ParamCount() {
		return nil, fmt.Errorf("%w: function %q expects %d argument(s), got %d",
			types.ErrArityMismatch, name, proto.ParamCount(), len(args))
	}

	inst := proto.New()
	if err := inst.Init(args); err != nil {
		return nil, fmt.Errorf("initializing function %q: %w", name, err)
	}

	return &Binding{
		name:               name,
		kind:               inst.Kind(),
		fn:                 inst,
		expectsSourceTopic: inst.ExpectsSourceTopic(),
		expectsMatches:     inst.ExpectsMatches(),
	}, nil
}

// Name returns the configured function's registered name.
func (b *Binding) Name() string { return b.name }

// Kind reports whether this binding is a rule or a converter.
func (b *Binding) Kind() types.FunctionKind { return b.kind }

// Invoke runs the bound function against body, injecting sourceTopic and
// matches only when the underlying function declared interest in them.
func (b *Binding) Invoke(body any, sourceTopic string, matches map[string]string) (any, error) {
	st := ""
	if b.expectsSourceTopic {
		st = sourceTopic
	}
	var m map[string]string
	if b.expectsMatches {
		m = matches
	}
	out, err := b.fn.Invoke(body, st, m)
	if err != nil {
		return nil, fmt.Errorf("%w: function %q: %v", types.ErrFunctionInvocation, b.name, err)
	}
	return out, nil
}

// Destroy releases the bound instance's resources.
func (b *Binding) Destroy() { b.fn.Destroy() }
