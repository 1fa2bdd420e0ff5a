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

package registry

import (
	"errors"
	"sort"

	"dirpx.dev/idx/apis"
)

// Claim is a (qualified type name, key) pair taken from a registry, from
// declared keys or from a manifest.
type Claim struct {
	Name string   `yaml:"name" json:"name"`
	Key  apis.Key `yaml:"key" json:"key"`
}

// Audit checks a complete set of claims at once. Repeated identical claims
// are fine. A name claimed with two keys is an ErrConflictingRegistration;
// a key claimed by two names is a *CollisionError. All problems are
// reported, joined, in name order.
func Audit(claims []Claim) error {
	sorted := make([]Claim, len(claims))
	copy(sorted, claims)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	byName := make(map[string]apis.Key, len(sorted))
	byKey := make(map[apis.Key]string, len(sorted))
	var errs []error
	for _, c := range sorted {
		if c.Key == 0 {
			errs = append(errs, ErrZeroKey)
			continue
		}
		if have, ok := byName[c.Name]; ok {
			if have != c.Key {
				errs = append(errs, conflict(c.Name, have, c.Key))
			}
			continue
		}
		byName[c.Name] = c.Key
		if owner, ok := byKey[c.Key]; ok {
			errs = append(errs, &CollisionError{Key: c.Key, Existing: owner, Incoming: c.Name})
			continue
		}
		byKey[c.Key] = c.Name
	}
	return errors.Join(errs...)
}
