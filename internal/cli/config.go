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

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"dirpx.dev/idx/config"
	"dirpx.dev/idx/token"
)

// ErrUnknownShape is returned for a shape name that is neither built in
// nor configured.
var ErrUnknownShape = errors.New("unknown shape")

// FileConfig is the --config file:
//
//	namespace: acme/type/v2
//	shapes:
//	  - name: pin
//	    size: 6
//	    alphabet: "0123456789"
type FileConfig struct {
	Namespace string        `yaml:"namespace"`
	Shapes    []ShapeConfig `yaml:"shapes"`
}

// ShapeConfig is a named custom token shape.
type ShapeConfig struct {
	Name       string `yaml:"name"`
	token.Spec `yaml:",inline"`
}

// LoadConfig reads and validates a config file. Unknown fields are errors.
func LoadConfig(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, err
	}
	defer f.Close()
	return decodeConfig(f)
}

func decodeConfig(r io.Reader) (FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks every custom shape. Names must be unique and must not
// shadow a built-in shape.
func (c FileConfig) Validate() error {
	seen := map[string]bool{}
	var errs []error
	for i, s := range c.Shapes {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("shapes[%d]: missing name", i))
			continue
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("shapes[%d]: duplicate name %q", i, s.Name))
			continue
		}
		seen[s.Name] = true
		if _, ok := token.LookupShape(s.Name); ok {
			errs = append(errs, fmt.Errorf("shapes[%d]: %q is a built-in shape", i, s.Name))
			continue
		}
		if err := s.Spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("shapes[%d] %s: %w", i, s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Shape resolves a shape name against the configured and built-in shapes.
func (c FileConfig) Shape(name string) (token.Spec, error) {
	for _, s := range c.Shapes {
		if s.Name == name {
			return s.Spec, nil
		}
	}
	if sp, ok := token.LookupShape(name); ok {
		return sp, nil
	}
	return token.Spec{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownShape, name, strings.Join(c.ShapeNames(), ", "))
}

// ShapeNames returns every usable shape name, sorted.
func (c FileConfig) ShapeNames() []string {
	names := token.Shapes()
	for _, s := range c.Shapes {
		names = append(names, s.Name)
	}
	slices.Sort(names)
	return names
}

// namespace picks the key namespace: the explicit value, else the config
// file's, else the default.
func (c FileConfig) namespace(explicit string) string {
	ns := explicit
	if ns == "" {
		ns = c.Namespace
	}
	return config.NewConfig(config.WithNamespace(ns)).Namespace
}
