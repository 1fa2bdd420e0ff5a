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
	"path"
	"reflect"
	"sync"

	"dirpx.dev/idx/apis"
	uref "dirpx.dev/idx/utils/reflect"
)

// nameCacheKey ensures memoization respects all config knobs that affect naming.
type nameCacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// typeNameCache caches short names by (type, config knobs).
var typeNameCache sync.Map // key: nameCacheKey, val: string

// ShortName returns the human-oriented "pkg.Type" name of t: the last
// package path element and the declared name with generic parameters
// stripped. Unnamed containers are named after their nearest named type
// ([]Order gives "shop.Order"); this is a label, not an identity. Builtin
// names are returned only when cfg.IncludeBuiltins is set. Types with no
// named inner type yield "".
func ShortName(t reflect.Type, cfg apis.Config) string {
	if t == nil {
		return ""
	}
	key := nameCacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	base, err := uref.NearestNamed(t, cfg)
	if err != nil || base == nil {
		typeNameCache.Store(key, "")
		return ""
	}

	name := uref.StripTypeArgs(base.Name())
	if p := base.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	} else if !cfg.IncludeBuiltins {
		// Hide builtin/no-package names if requested.
		name = ""
	}

	typeNameCache.Store(key, name)
	return name
}
