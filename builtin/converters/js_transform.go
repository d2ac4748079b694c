package converters

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/fatih/structs"

	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/types"
)

const jsTransformFuncTemplate = "function transform(body, source_topic, matches) { %s }"

// JSTransformConfig is the argument struct js_transform decodes its
// configured arguments into.
type JSTransformConfig struct {
	Script string `mapstructure:"script"`
}

// JSTransform runs a user-supplied JavaScript function body over the
// message, returning whatever it returns as the new body. One compiled
// goja.Program is shared across a pool of runtimes, since a goja.Runtime is
// not safe for concurrent use but compiling the script on every message
// would be wasteful.
type JSTransform struct {
	config  JSTransformConfig
	program *goja.Program
	pool    *sync.Pool
}

func (c *JSTransform) New() types.Function { return &JSTransform{} }

func (c *JSTransform) Kind() types.FunctionKind { return types.KindConverter }

func (c *JSTransform) ParamCount() int { return len(structs.Fields(&JSTransformConfig{})) }

func (c *JSTransform) ExpectsSourceTopic() bool { return true }

func (c *JSTransform) ExpectsMatches() bool { return true }

func (c *JSTransform) Init(args map[string]any) error {
	if err := registry.DecodeArgs(args, &c.config); err != nil {
		return fmt.Errorf("decoding js_transform arguments: %w", err)
	}

	src := fmt.Sprintf(jsTransformFuncTemplate, c.config.Script)
	program, err := goja.Compile("js_transform.js", src, true)
	if err != nil {
		return fmt.Errorf("compiling js_transform script: %w", err)
	}
	c.program = program

	c.pool = &sync.Pool{
		New: func() any {
			vm := goja.New()
			if _, err := vm.RunProgram(program); err != nil {
				panic(fmt.Sprintf("js_transform: failed to prime vm: %v", err))
			}
			return vm
		},
	}
	return nil
}

func (c *JSTransform) Invoke(body any, sourceTopic string, matches map[string]string) (any, error) {
	vm := c.pool.Get().(*goja.Runtime)
	defer c.pool.Put(vm)

	fnVal := vm.Get("transform")
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("js_transform: transform is not a function")
	}

	res, err := fn(goja.Undefined(), vm.ToValue(body), vm.ToValue(sourceTopic), vm.ToValue(matches))
	if err != nil {
		return nil, fmt.Errorf("js_transform: %w", err)
	}

	exported := res.Export()
	if routed, ok := asRoutedMessage(exported); ok {
		return routed, nil
	}
	return exported, nil
}

func (c *JSTransform) Destroy() {}

// asRoutedMessage recognizes a script's returned object as a RoutedMessage
// envelope: an object carrying a "__routed_kind" field of "dict", "list",
// "route_many", or "route_one", shaped the same way as the corresponding
// types.NewRouted* constructor's arguments. Any other returned value,
// including plain objects and arrays with no "__routed_kind" field, is
// passed through unchanged as the new body.
func asRoutedMessage(exported any) (*types.RoutedMessage, bool) {
	obj, ok := exported.(map[string]interface{})
	if !ok {
		return nil, false
	}
	kind, _ := obj["__routed_kind"].(string)

	switch kind {
	case "dict":
		rawEntries, _ := obj["entries"].([]interface{})
		entries := make([]types.RouteEntry, 0, len(rawEntries))
		for _, re := range rawEntries {
			entry, ok := re.(map[string]interface{})
			if !ok {
				continue
			}
			route, _ := entry["route"].(string)
			entries = append(entries, types.RouteEntry{Route: route, Body: entry["body"]})
		}
		return types.NewRoutedDict(entries...), true
	case "list":
		items, _ := obj["items"].([]interface{})
		return types.NewRoutedList(items...), true
	case "route_many":
		route, _ := obj["route"].(string)
		items, _ := obj["items"].([]interface{})
		return types.NewRoutedRouteMany(route, items...), true
	case "route_one":
		route, _ := obj["route"].(string)
		return types.NewRoutedRouteOne(route, obj["body"]), true
	default:
		return nil, false
	}
}
