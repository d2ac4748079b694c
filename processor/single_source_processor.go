/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package processor implements the per-processor state machine: the ordered
// rule/converter chain (SingleSourceProcessor) and the named fan-in over
// several source patterns that share one chain (Processor). The chain
// itself is a flat ordered slice of registry.Binding, since a processor's
// chain never branches.
package processor

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/types"
)

// Logger is the subset of go-kit/log.Logger the processor package needs.
// Accepting the interface rather than a concrete type keeps this package
// free of a direct dependency on the logging backend.
type Logger interface {
	Log(keyvals ...interface{}) error
}

type nopLogger struct{}

func (nopLogger) Log(...interface{}) error { return nil }

// SingleSourceProcessor holds one (source pattern, sink template) pair and
// the function chain that runs against messages matching that source.
type SingleSourceProcessor struct {
	Name        string
	Source      *types.TopicPattern
	Chain       []*registry.Binding
	DefaultSink *types.TopicPattern

	Logger Logger
}

func (p *SingleSourceProcessor) logger() Logger {
	if p.Logger == nil {
		return nopLogger{}
	}
	return p.Logger
}

// Process matches the concrete topic against the source pattern, threads
// the body through the chain, and expands the terminal result into zero or
// more outbound messages. Returns nil whenever this processor does not
// handle the message or the chain drops it — never an error; all failures
// are logged and treated as drops.
func (p *SingleSourceProcessor) Process(topic string, body any) []types.Message {
	concrete, err := types.New(topic)
	if err != nil {
		p.logger().Log("msg", "invalid concrete topic", "topic", topic, "err", err)
		return nil
	}

	bindings, ok := p.Source.Match(concrete)
	if !ok {
		return nil
	}

	terminal := p.runChain(concrete, bindings, body)
	if terminal == nil {
		return nil
	}

	return p.expand(terminal, concrete, p.DefaultSink)
}

// runChain threads body through the configured chain in order: current
// starts as the untouched input body and is only ever reassigned by a
// converter's return value; a rule's return value only gates whether the
// chain continues.
func (p *SingleSourceProcessor) runChain(concrete *types.TopicPattern, bindings map[string]string, body any) any {
	current := body

	for _, step := range p.Chain {
		if _, isRouted := current.(*types.RoutedMessage); isRouted {
			err := fmt.Errorf("%w: processor %q function %q", types.ErrRoutedContinuation, p.Name, step.Name())
			p.logger().Log("level", "error", "msg", "routed message produced before the end of the chain", "err", err)
			return nil
		}

		out, err := step.Invoke(current, concrete.Rule(), bindings)
		if err != nil {
			p.logger().Log("level", "error", "msg", "function invocation failed",
				"processor", p.Name, "function", step.Name(), "err", err)
			return nil
		}

		switch step.Kind() {
		case types.KindRule:
			if !truthy(out) {
				return nil
			}
			// Rules never transform: current_body is left unchanged.
		case types.KindConverter:
			current = out
		}
	}

	return current
}

// expand dispatches a non-nil terminal chain result into outbound messages,
// recursing depth-first into any nested RoutedMessage.
func (p *SingleSourceProcessor) expand(terminal any, src *types.TopicPattern, defaultSink *types.TopicPattern) []types.Message {
	routed, ok := terminal.(*types.RoutedMessage)
	if !ok {
		sink, err := p.resolveSink(src, defaultSink)
		if err != nil {
			p.logger().Log("level", "error", "msg", "sink composition failed", "processor", p.Name, "err", err)
			return nil
		}
		return []types.Message{{Sink: sink, Body: terminal}}
	}

	var out []types.Message
	switch routed.Kind {
	case types.RoutedDict:
		for _, entry := range routed.Entries {
			out = append(out, p.expandItem(entry.Route, entry.Body, src, defaultSink)...)
		}
	case types.RoutedList:
		for _, item := range routed.List {
			out = append(out, p.expandItem("", item, src, defaultSink)...)
		}
	case types.RoutedRouteMany:
		for _, item := range routed.Items {
			out = append(out, p.expandItem(routed.Route, item, src, defaultSink)...)
		}
	case types.RoutedRouteOne:
		out = append(out, p.expandItem(routed.Route, routed.Item, src, defaultSink)...)
	default:
		err := fmt.Errorf("%w: processor %q kind %v", types.ErrUnknownRoutedShape, p.Name, routed.Kind)
		p.logger().Log("level", "warn", "msg", "unrecognized routed message shape", "err", err)
	}
	return out
}

// expandItem resolves one (route, item) pair from a RoutedMessage shape,
// recursing if item is itself routed. An empty route string means "inherit
// the scope's default sink".
func (p *SingleSourceProcessor) expandItem(route string, item any, src *types.TopicPattern, scopeDefault *types.TopicPattern) []types.Message {
	var routeSink *types.TopicPattern
	if route != "" {
		tpl, err := types.New(route)
		if err != nil {
			p.logger().Log("level", "error", "msg", "invalid route topic", "processor", p.Name, "route", route, "err", err)
			return nil
		}
		routeSink = tpl
	} else {
		routeSink = scopeDefault
	}

	if nested, ok := item.(*types.RoutedMessage); ok {
		return p.expand(nested, src, routeSink)
	}

	sink, err := p.resolveSink(src, routeSink)
	if err != nil {
		p.logger().Log("level", "error", "msg", "sink composition failed", "processor", p.Name, "err", err)
		return nil
	}
	return []types.Message{{Sink: sink, Body: item}}
}

// resolveSink resolves the sink for one outbound message: nil template
// means drop (no sink), a static source returns the template unchanged,
// otherwise the source's wildcard bindings are substituted into the
// template.
func (p *SingleSourceProcessor) resolveSink(src, tpl *types.TopicPattern) (*types.TopicPattern, error) {
	if tpl == nil {
		return nil, nil
	}
	composed, err := p.Source.Compose(src, tpl)
	if err != nil {
		return nil, err
	}
	if unbound := types.UnboundPlaceholders(composed.Rule()); len(unbound) > 0 {
		p.logger().Log("level", "warn", "msg", "sink template references an unbound placeholder",
			"processor", p.Name, "placeholders", unbound, "err", types.ErrUnboundSinkPlaceholder)
	}
	return composed, nil
}
