package converters

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// StringToBinary encodes a string body as UTF-8 bytes, the inverse of
// BinaryToString. It takes no arguments.
type StringToBinary struct{}

func (c *StringToBinary) New() types.Function { return &StringToBinary{} }

func (c *StringToBinary) Kind() types.FunctionKind { return types.KindConverter }

func (c *StringToBinary) ParamCount() int { return 0 }

func (c *StringToBinary) ExpectsSourceTopic() bool { return false }

func (c *StringToBinary) ExpectsMatches() bool { return false }

func (c *StringToBinary) Init(map[string]any) error { return nil }

func (c *StringToBinary) Invoke(body any, _ string, _ map[string]string) (any, error) {
	switch v := body.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("string_to_binary: unsupported body type %T", body)
	}
}

func (c *StringToBinary) Destroy() {}
