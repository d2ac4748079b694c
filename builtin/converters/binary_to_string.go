// Package converters holds the built-in converter functions shipped with
// the pipeline. A converter transforms the body; its return value becomes
// the chain's current body for every following step.
package converters

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// BinaryToString decodes a []byte body as UTF-8 text. It takes no
// arguments.
type BinaryToString struct{}

func (c *BinaryToString) New() types.Function { return &BinaryToString{} }

func (c *BinaryToString) Kind() types.FunctionKind { return types.KindConverter }

func (c *BinaryToString) ParamCount() int { return 0 }

func (c *BinaryToString) ExpectsSourceTopic() bool { return false }

func (c *BinaryToString) ExpectsMatches() bool { return false }

func (c *BinaryToString) Init(map[string]any) error { return nil }

func (c *BinaryToString) Invoke(body any, _ string, _ map[string]string) (any, error) {
	switch v := body.(type) {
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("binary_to_string: unsupported body type %T", body)
	}
}

func (c *BinaryToString) Destroy() {}
