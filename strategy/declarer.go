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

package strategy

import (
	"reflect"

	"dirpx.dev/idx/apis"
	uref "dirpx.dev/idx/utils/reflect"
)

// NewDeclarerStrategy creates an apis.Strategy that uses apis.KeyDeclarer.
// Every declared key it returns is claimed in reg (when non-nil), so two
// types declaring the same literal are caught by reg's Seal.
func NewDeclarerStrategy(reg apis.Registry) apis.Strategy {
	return &declarerStrategy{reg: reg}
}

// declarerStrategy is the explicit fast path: if the type (pointer levels
// dropped) implements apis.KeyDeclarer, return its StableTypeKey() and stop
// the chain.
type declarerStrategy struct {
	reg apis.Registry
}

// Ensure declarerStrategy implements apis.Strategy.
var _ apis.Strategy = (*declarerStrategy)(nil)

var declarerType = reflect.TypeOf((*apis.KeyDeclarer)(nil)).Elem()

// TryResolve checks if v implements apis.KeyDeclarer and returns its key.
func (s *declarerStrategy) TryResolve(v any, cfg apis.Config) (apis.Key, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if d, ok := v.(apis.KeyDeclarer); ok && (rv.Kind() != reflect.Ptr || !rv.IsNil()) {
		if k := d.StableTypeKey(); k != 0 {
			s.claim(rv.Type(), k)
			return k, true
		}
	}
	return s.TryResolveType(rv.Type(), cfg)
}

// TryResolveType checks if t, pointer levels dropped, declares a key.
// Containers such as []T never inherit T's declaration.
func (s *declarerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.Key, bool) {
	b, err := uref.Normalize(t, cfg)
	if err != nil {
		return 0, false
	}
	k, ok := DeclaredKey(b)
	if ok {
		s.claim(b, k)
	}
	return k, ok
}

// claim records t's declared key. A collision is kept by the registry and
// surfaces from Seal; resolution itself still returns the declared key.
func (s *declarerStrategy) claim(t reflect.Type, k apis.Key) {
	if s.reg != nil {
		_ = s.reg.Claim(t, k)
	}
}

// DeclaredKey returns the literal key declared by t through apis.KeyDeclarer,
// with either a value or a pointer receiver. A zero declared key counts as
// no declaration.
func DeclaredKey(t reflect.Type) (apis.Key, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return 0, false
	}
	var d apis.KeyDeclarer
	switch {
	case t.Kind() == reflect.Ptr && t.Implements(declarerType):
		d = reflect.New(t.Elem()).Interface().(apis.KeyDeclarer)
	case t.Implements(declarerType):
		d = reflect.Zero(t).Interface().(apis.KeyDeclarer)
	case reflect.PointerTo(t).Implements(declarerType):
		d = reflect.New(t).Interface().(apis.KeyDeclarer)
	default:
		return 0, false
	}
	k := d.StableTypeKey()
	return k, k != 0
}
