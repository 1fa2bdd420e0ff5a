/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package builder

import (
	"fmt"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/registry"
	"dirpx.dev/idx/resolver"
	"dirpx.dev/idx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry, a sealed registry stays sealed and rejected claims carry over.
// A migration that the new configuration cannot accept is returned as an error.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) (apis.Registry, error) {
	nreg := registry.New(cfg)
	if preg == nil {
		return nreg, nil
	}
	for _, e := range preg.Entries() {
		if err := nreg.Register(e.Type, e.Key); err != nil {
			return nil, fmt.Errorf("idx(builder): migrate %v: %w", e.Type, err)
		}
	}
	if preg.Sealed() {
		if err := nreg.Seal(); err != nil {
			return nil, err
		}
	}
	// Replayed after sealing: the collisions are kept for the next Seal.
	for _, e := range preg.Rejected() {
		_ = nreg.Claim(e.Type, e.Key)
	}
	return nreg, nil
}

// BuildResolver builds and returns a new apis.Resolver based on the provided configuration
// and registry. The chain is declared key, then registry, then derivation.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewDeclarerStrategy(reg),
		strategy.NewRegistryStrategy(reg),
		strategy.NewDeriveStrategy(),
	)
}
