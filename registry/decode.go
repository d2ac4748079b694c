package registry

import "github.com/mitchellh/mapstructure"

// DecodeArgs decodes a FunctionBinding's configured arguments map into out,
// with weak type coercion enabled: a YAML config can hand a string where a
// built-in function wants an int, since YAML scalar types are contextual
// and config authors shouldn't have to fight the loader.
func DecodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}
