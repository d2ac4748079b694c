package converters

import (
	"encoding/json"
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// JSONToBinary marshals the body as JSON, the inverse of BinaryToJSON. It
// takes no arguments.
type JSONToBinary struct{}

func (c *JSONToBinary) New() types.Function { return &JSONToBinary{} }

func (c *JSONToBinary) Kind() types.FunctionKind { return types.KindConverter }

func (c *JSONToBinary) ParamCount() int { return 0 }

func (c *JSONToBinary) ExpectsSourceTopic() bool { return false }

func (c *JSONToBinary) ExpectsMatches() bool { return false }

func (c *JSONToBinary) Init(map[string]any) error { return nil }

func (c *JSONToBinary) Invoke(body any, _ string, _ map[string]string) (any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("json_to_binary: %w", err)
	}
	return raw, nil
}

func (c *JSONToBinary) Destroy() {}
