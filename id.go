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
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ID is an identifier of domain D backed by a value of type R.
//
// D is a phantom tag: it never holds data, it only makes ID[Customer, string]
// and ID[Order, string] different types, so mixing them up is a compile
// error. Equality and ordering look at the backing value only. IDs are
// immutable values; copy them freely.
type ID[D any, R comparable] struct {
	r R
}

// New wraps an existing backing value. It never fails and applies no
// validation; use Parse or Validate for untrusted input.
func New[D any, R comparable](r R) ID[D, R] {
	return ID[D, R]{r: r}
}

// Backing returns the backing value.
func (id ID[D, R]) Backing() R { return id.r }

// IsZero reports whether the backing value is the zero R.
func (id ID[D, R]) IsZero() bool {
	var zero R
	return id.r == zero
}

// Equal reports whether both identifiers have the same backing value.
func (id ID[D, R]) Equal(other ID[D, R]) bool { return id.r == other.r }

// Compare orders identifiers by backing value and returns -1, 0 or 1.
func (id ID[D, R]) Compare(other ID[D, R]) int { return compareBacking(id.r, other.r) }

// Less reports whether id orders before other.
func (id ID[D, R]) Less(other ID[D, R]) bool { return id.Compare(other) < 0 }

// Validate applies the backing's and the domain's rules.
func (id ID[D, R]) Validate() error { return validate[D](id.r) }

// Domain returns the name of the identifier's domain.
func (id ID[D, R]) Domain() string { return DomainName[D]() }

// Identify returns id itself, so an ID is Identifiable.
func (id ID[D, R]) Identify() ID[D, R] { return id }

// String returns the text form of the backing value.
func (id ID[D, R]) String() string {
	s, err := formatBacking(id.r)
	if err != nil {
		return fmt.Sprint(id.r)
	}
	return s
}

// GoString renders the domain too, as ID[<domain>](<backing>).
func (id ID[D, R]) GoString() string {
	return "ID[" + DomainName[D]() + "](" + id.String() + ")"
}

// MarshalText implements encoding.TextMarshaler with the backing's text form.
func (id ID[D, R]) MarshalText() ([]byte, error) {
	s, err := formatBacking(id.r)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with Parse rules.
func (id *ID[D, R]) UnmarshalText(text []byte) error {
	v, err := Parse[D, R](string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalJSON encodes the backing value exactly as encoding/json would.
func (id ID[D, R]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.r)
}

// UnmarshalJSON decodes a backing value and validates it.
func (id *ID[D, R]) UnmarshalJSON(data []byte) error {
	var r R
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	return id.set(r)
}

// MarshalYAML implements yaml.Marshaler with the backing value.
func (id ID[D, R]) MarshalYAML() (any, error) {
	return id.r, nil
}

// UnmarshalYAML implements yaml.Unmarshaler and validates the backing value.
func (id *ID[D, R]) UnmarshalYAML(node *yaml.Node) error {
	var r R
	if err := node.Decode(&r); err != nil {
		return err
	}
	return id.set(r)
}

// Value implements driver.Valuer with the backing's SQL form.
func (id ID[D, R]) Value() (driver.Value, error) {
	return valueBacking(id.r)
}

// Scan implements sql.Scanner and validates the scanned value.
func (id *ID[D, R]) Scan(src any) error {
	r, err := scanBacking[R](src)
	if err != nil {
		return err
	}
	return id.set(r)
}

func (id *ID[D, R]) set(r R) error {
	if err := validate[D](r); err != nil {
		return err
	}
	id.r = r
	return nil
}
