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
	"slices"
)

// Identifiable is implemented by values that know their own identifier.
// Identify must not expose a way to change the identifier.
type Identifiable[D any, R comparable] interface {
	Identify() ID[D, R]
}

// Collect converts a slice of one concrete Identifiable type into the
// heterogeneous form the helpers below accept.
func Collect[D any, R comparable, T Identifiable[D, R]](items []T) []Identifiable[D, R] {
	out := make([]Identifiable[D, R], len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// IDs returns the identifiers of items, in order.
func IDs[D any, R comparable](items []Identifiable[D, R]) []ID[D, R] {
	out := make([]ID[D, R], len(items))
	for i, it := range items {
		out[i] = it.Identify()
	}
	return out
}

// Index maps every identifier to its item. When an identifier repeats, the
// first item is kept and a *DuplicateError lists each repeated identifier
// once, in order of first repetition.
func Index[D any, R comparable](items []Identifiable[D, R]) (map[ID[D, R]]Identifiable[D, R], error) {
	out := make(map[ID[D, R]]Identifiable[D, R], len(items))
	var dups []string
	reported := map[ID[D, R]]bool{}
	for _, it := range items {
		id := it.Identify()
		if _, ok := out[id]; ok {
			if !reported[id] {
				reported[id] = true
				dups = append(dups, id.String())
			}
			continue
		}
		out[id] = it
	}
	if len(dups) > 0 {
		return out, &DuplicateError{Domain: DomainName[D](), IDs: dups}
	}
	return out, nil
}

// GroupBy groups items that share an identifier, keeping input order
// within each group.
func GroupBy[D any, R comparable](items []Identifiable[D, R]) map[ID[D, R]][]Identifiable[D, R] {
	out := make(map[ID[D, R]][]Identifiable[D, R])
	for _, it := range items {
		id := it.Identify()
		out[id] = append(out[id], it)
	}
	return out
}

// Dedup drops every item whose identifier already occurred, keeping the
// first occurrence and the input order.
func Dedup[D any, R comparable](items []Identifiable[D, R]) []Identifiable[D, R] {
	seen := make(map[ID[D, R]]struct{}, len(items))
	out := make([]Identifiable[D, R], 0, len(items))
	for _, it := range items {
		id := it.Identify()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	return out
}

// SortByID sorts items by identifier in place. Items with equal
// identifiers keep their relative order.
func SortByID[D any, R comparable](items []Identifiable[D, R]) {
	slices.SortStableFunc(items, func(a, b Identifiable[D, R]) int {
		return a.Identify().Compare(b.Identify())
	})
}

// Find returns the first item with identifier id.
func Find[D any, R comparable](items []Identifiable[D, R], id ID[D, R]) (Identifiable[D, R], bool) {
	for _, it := range items {
		if it.Identify() == id {
			return it, true
		}
	}
	return nil, false
}
