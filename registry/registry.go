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

// Package registry implements the process-wide FunctionRegistry and the
// FunctionBinding machinery that turns a registered prototype plus
// configured arguments into a ready-to-invoke chain step.
package registry

import (
	"fmt"
	"sync"

	"github.com/bittoy/mqtt-processor/types"
)

// Registry is a name -> prototype map for rule and converter functions. The
// zero value is ready to use. Registration is legal only during the build
// phase, before any processor is constructed; Snapshot hands processor
// construction an independent copy so any registration after that point
// cannot retroactively affect already-built processors.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]types.Function
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]types.Function)}
}

// Register adds a prototype under name. It fails with ErrDuplicateName if
// the name already exists, regardless of the existing entry's kind.
func (r *Registry) Register(name string, fn types.Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = make(map[string]types.Function)
	}
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: %q", types.ErrDuplicateName, name)
	}
	switch fn.Kind() {
	case types.KindRule, types.KindConverter:
	default:
		return fmt.Errorf("%w: %q declares kind %q", types.ErrInvalidRuleSignature, name, fn.Kind())
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is Register, panicking on error. Used by the built-in
// packages' Register functions, whose names are known not to collide.
func (r *Registry) MustRegister(name string, fn types.Function) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the registered prototype for name, if any.
func (r *Registry) Lookup(name string) (types.Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Snapshot returns an independent copy of the registry's current contents.
func (r *Registry) Snapshot() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := New()
	for name, fn := range r.funcs {
		out.funcs[name] = fn
	}
	return out
}

// Names returns the registered function names, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	return out
}
