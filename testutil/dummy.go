// Package testutil provides small stand-in rule and converter
// implementations for exercising the processor package: trivial
// always-true/always-false rules and string-concatenating /
// message-routing converters, with no configured arguments.
package testutil

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/types"
)

// ruleFunc adapts a plain Go func into a types.Function rule with no
// configured arguments and no special parameters.
type ruleFunc struct {
	fn func(body any) (bool, error)
}

func (r *ruleFunc) New() types.Function          { return &ruleFunc{fn: r.fn} }
func (r *ruleFunc) Kind() types.FunctionKind      { return types.KindRule }
func (r *ruleFunc) ParamCount() int               { return 0 }
func (r *ruleFunc) ExpectsSourceTopic() bool      { return false }
func (r *ruleFunc) ExpectsMatches() bool          { return false }
func (r *ruleFunc) Init(map[string]any) error     { return nil }
func (r *ruleFunc) Destroy()                      {}
func (r *ruleFunc) Invoke(body any, _ string, _ map[string]string) (any, error) {
	return r.fn(body)
}

// converterFunc adapts a plain Go func into a types.Function converter with
// no configured arguments and no special parameters.
type converterFunc struct {
	fn func(body any) (any, error)
}

func (c *converterFunc) New() types.Function          { return &converterFunc{fn: c.fn} }
func (c *converterFunc) Kind() types.FunctionKind      { return types.KindConverter }
func (c *converterFunc) ParamCount() int               { return 0 }
func (c *converterFunc) ExpectsSourceTopic() bool      { return false }
func (c *converterFunc) ExpectsMatches() bool          { return false }
func (c *converterFunc) Init(map[string]any) error     { return nil }
func (c *converterFunc) Destroy()                      {}
func (c *converterFunc) Invoke(body any, _ string, _ map[string]string) (any, error) {
	return c.fn(body)
}

// NewConverterFunc adapts an arbitrary func into a types.Function converter,
// for tests that need a one-off transformation not covered by the named
// dummy_* converters below.
func NewConverterFunc(fn func(body any) (any, error)) types.Function {
	return &converterFunc{fn: fn}
}

// DummyRuleFalse always rejects the message.
func DummyRuleFalse() types.Function {
	return &ruleFunc{fn: func(any) (bool, error) { return false, nil }}
}

// DummyRuleTrue always passes the message.
func DummyRuleTrue() types.Function {
	return &ruleFunc{fn: func(any) (bool, error) { return true, nil }}
}

// DummyStrConcat1 appends "<concat1>" to a string body.
func DummyStrConcat1() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		return concat(body, "<concat1>")
	}}
}

// DummyStrConcat2 appends "<concat2>" to a string body.
func DummyStrConcat2() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		return concat(body, "<concat2>")
	}}
}

// DummyRoutedDict wraps body into a single-entry DICT RoutedMessage
// addressed to a fixed route.
func DummyRoutedDict() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		s, err := concat(body, "<dict-routed>")
		if err != nil {
			return nil, err
		}
		return types.NewRoutedDict(types.RouteEntry{
			Route: "dict/routed/destination/topic",
			Body:  s,
		}), nil
	}}
}

// DummyRoutedList wraps three copies of body, each with a distinct suffix,
// into a LIST RoutedMessage bound for the scope's default sink.
func DummyRoutedList() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		m1, err := concat(body, "<routed_list-msg1>")
		if err != nil {
			return nil, err
		}
		m2, _ := concat(body, "<routed_list-msg2>")
		m3, _ := concat(body, "<routed_list-msg3>")
		return types.NewRoutedList(m1, m2, m3), nil
	}}
}

// DummyRoutedRouteMany wraps three copies of body into a ROUTE+LIST
// RoutedMessage addressed to a single fixed route.
func DummyRoutedRouteMany() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		m1, err := concat(body, "<routed_tuple_of_lists-msg1>")
		if err != nil {
			return nil, err
		}
		m2, _ := concat(body, "<routed_tuple_of_lists-msg2>")
		m3, _ := concat(body, "<routed_tuple_of_lists-msg3>")
		return types.NewRoutedRouteMany("tuple-of-lists/routed/destination/topic", m1, m2, m3), nil
	}}
}

// DummyRoutedRouteOne wraps body into a ROUTE+ONE RoutedMessage addressed
// to a single fixed route.
func DummyRoutedRouteOne() types.Function {
	return &converterFunc{fn: func(body any) (any, error) {
		s, err := concat(body, "<routed-tuple>")
		if err != nil {
			return nil, err
		}
		return types.NewRoutedRouteOne("tuple/routed/destination/topic", s), nil
	}}
}

func concat(body any, suffix string) (string, error) {
	s, ok := body.(string)
	if !ok {
		return "", fmt.Errorf("dummy converter: expected string body, got %T", body)
	}
	return s + suffix, nil
}
