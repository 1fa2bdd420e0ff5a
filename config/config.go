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

// Package config builds the apis.Config values that drive normalization and
// key derivation.
package config

import (
	"dirpx.dev/idx/apis"
)

// Defaults applied by DefaultConfig and NewConfig.
const (
	DefaultIncludeBuiltins = true
	// DefaultMaxUnwrap bounds container unwrapping; real types nest far less.
	DefaultMaxUnwrap       = 8
	DefaultMapPreferElem   = true
	DefaultKeepTypeArgs    = true
	// DefaultNamespace is the key derivation namespace. Bump the version
	// suffix only together with a new derivation scheme.
	DefaultNamespace       = "idx/type/v1"
)

// DefaultConfig returns the configuration the global state starts with.
func DefaultConfig() apis.Config {
	return apis.Config{
		IncludeBuiltins: DefaultIncludeBuiltins,
		MaxUnwrap:       DefaultMaxUnwrap,
		MapPreferElem:   DefaultMapPreferElem,
		KeepTypeArgs:    DefaultKeepTypeArgs,
		Namespace:       DefaultNamespace,
	}
}

// Option adjusts a configuration under construction.
type Option func(*apis.Config)

// NewConfig applies opts on top of DefaultConfig. Out-of-range values fall
// back to their defaults.
func NewConfig(opts ...Option) apis.Config {
	c := DefaultConfig()
	for _, apply := range opts {
		apply(&c)
	}
	if c.MaxUnwrap < 0 {
		c.MaxUnwrap = DefaultMaxUnwrap
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}

// WithIncludeBuiltins controls whether builtin types get short names.
func WithIncludeBuiltins(v bool) Option {
	return func(c *apis.Config) { c.IncludeBuiltins = v }
}

// WithMaxUnwrap bounds container unwrapping. Negative means the default.
func WithMaxUnwrap(depth int) Option {
	return func(c *apis.Config) {
		if depth < 0 {
			depth = DefaultMaxUnwrap
		}
		c.MaxUnwrap = depth
	}
}

// WithMapPreferElem picks the value side of map[K]V when both are named.
func WithMapPreferElem(v bool) Option {
	return func(c *apis.Config) { c.MapPreferElem = v }
}

// WithKeepTypeArgs keeps generic type arguments in derived names.
func WithKeepTypeArgs(v bool) Option {
	return func(c *apis.Config) { c.KeepTypeArgs = v }
}

// WithNamespace sets the key derivation namespace. Empty means the default.
func WithNamespace(ns string) Option {
	return func(c *apis.Config) {
		if ns == "" {
			ns = DefaultNamespace
		}
		c.Namespace = ns
	}
}
