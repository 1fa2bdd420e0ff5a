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

package idx

import (
	"fmt"
	"reflect"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/strategy"
)

// capability reports whether the domain D offers capability C, on its zero
// value or, for pointer receivers, on a pointer to it.
func capability[C any, D any]() (C, bool) {
	var d D
	if c, ok := any(d).(C); ok {
		return c, true
	}
	c, ok := any(new(D)).(C)
	return c, ok
}

// DomainName returns the presentable name of domain D: its apis.Namer name
// when it has one, otherwise the reflected "pkg.Type" short name.
func DomainName[D any]() string {
	if n, ok := capability[apis.Namer, D](); ok {
		return n.DomainName()
	}
	t := reflect.TypeFor[D]()
	if name := strategy.ShortName(t, Config()); name != "" {
		return name
	}
	return t.String()
}

// validate applies the backing's own Validate method, if any, and then the
// domain validator of D.
func validate[D any, R comparable](r R) error {
	if v, ok := any(r).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if v, ok := capability[apis.Validator[R], D](); ok {
		if err := v.ValidateBacking(r); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, DomainName[D](), err)
		}
	}
	return nil
}
