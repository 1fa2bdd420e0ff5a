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
	"sync"

	"github.com/cespare/xxhash/v2"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/config"
	uref "dirpx.dev/idx/utils/reflect"
)

// unnamedPrefix marks the canonical text of unnamed types, so
// "struct { X int }" never shares input text with a named type.
const unnamedPrefix = "unnamed:"

// NewDeriveStrategy creates an apis.Strategy that derives keys by hashing
// the qualified or canonical name of a type, with memoization.
func NewDeriveStrategy() apis.Strategy {
	return deriveStrategy{}
}

// deriveStrategy is the universal fallback. It always handles non-nil input.
type deriveStrategy struct{}

// Ensure deriveStrategy implements apis.Strategy.
var _ apis.Strategy = (*deriveStrategy)(nil)

// keyCacheKey ensures memoization respects all config knobs that affect derivation.
type keyCacheKey struct {
	t         reflect.Type
	keepArgs  bool
	maxUnwrap int16
	namespace string
}

// typeKeyCache caches derived keys by (type, config knobs).
var typeKeyCache sync.Map // key: keyCacheKey, val: apis.Key

// TryResolve derives the key of v's type.
func (deriveStrategy) TryResolve(v any, cfg apis.Config) (apis.Key, bool) {
	if v == nil {
		return 0, false
	}
	return keyByType(reflect.TypeOf(v), cfg), true
}

// TryResolveType derives the key of t.
func (deriveStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.Key, bool) {
	if t == nil {
		return 0, false
	}
	return keyByType(t, cfg), true
}

// keyByType derives the key for t with memoization.
func keyByType(t reflect.Type, cfg apis.Config) apis.Key {
	ck := keyCacheKey{
		t:         t,
		keepArgs:  cfg.KeepTypeArgs,
		maxUnwrap: int16(cfg.MaxUnwrap),
		namespace: cfg.Namespace,
	}
	if v, ok := typeKeyCache.Load(ck); ok {
		return v.(apis.Key)
	}
	k := DeriveKey(TypeName(t, cfg), cfg.Namespace)
	typeKeyCache.Store(ck, k)
	return k
}

// TypeName returns the stable text that derivation hashes for t. Pointer
// levels are dropped first (see uref.Normalize); a named type then yields
// its qualified name and any other type its prefixed canonical name, so
// Order, Orders ([]Order), []Order and map[string]Order all differ.
func TypeName(t reflect.Type, cfg apis.Config) string {
	base, err := uref.Normalize(t, cfg)
	if err != nil {
		return ""
	}
	if base.Name() != "" {
		return uref.QualifiedName(base, cfg.KeepTypeArgs)
	}
	return unnamedPrefix + uref.CanonicalName(base, cfg.KeepTypeArgs)
}

// DeriveKey hashes a qualified type name within namespace:
//
//	xxhash64(namespace + 0x00 + name)
//
// The null byte prevents namespace/name boundary ambiguity. An empty
// namespace means config.DefaultNamespace. A zero hash is mapped to 1 so a
// derived key is never the "no key" value.
func DeriveKey(name, namespace string) apis.Key {
	if namespace == "" {
		namespace = config.DefaultNamespace
	}
	k := apis.Key(xxhash.Sum64String(namespace + "\x00" + name))
	if k == 0 {
		k = 1
	}
	return k
}
