package converters

import (
	"encoding/json"
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// BinaryToJSON parses a []byte or string body as JSON, producing the
// decoded Go value (map[string]any, []any, or a scalar). It takes no
// arguments.
type BinaryToJSON struct{}

func (c *BinaryToJSON) New() types.Function { return &BinaryToJSON{} }

func (c *BinaryToJSON) Kind() types.FunctionKind { return types.KindConverter }

func (c *BinaryToJSON) ParamCount() int { return 0 }

func (c *BinaryToJSON) ExpectsSourceTopic() bool { return false }

func (c *BinaryToJSON) ExpectsMatches() bool { return false }

func (c *BinaryToJSON) Init(map[string]any) error { return nil }

func (c *BinaryToJSON) Invoke(body any, _ string, _ map[string]string) (any, error) {
	var raw []byte
	switch v := body.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil, fmt.Errorf("binary_to_json: unsupported body type %T", body)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("binary_to_json: %w", err)
	}
	return out, nil
}

func (c *BinaryToJSON) Destroy() {}
