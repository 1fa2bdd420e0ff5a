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

package apis

import "reflect"

// Registry maps Go types to explicitly chosen stable keys.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a reflect.Type (pointer levels dropped) with a
	// fixed key. Implementations must be idempotent and must reject a key
	// already claimed by another type.
	Register(t reflect.Type, key Key) error
	// Claim records that t resolved to the key it declares. It behaves like
	// Register but is also accepted after Seal. A claim that collides is
	// remembered and fails every later Seal until Reset.
	Claim(t reflect.Type, key Key) error
	// Rejected returns the remembered colliding claims.
	Rejected() []Entry
	// Lookup returns the key registered for a type, if present.
	Lookup(t reflect.Type) (key Key, ok bool)
	// Owner returns the type that claimed key, if any.
	Owner(key Key) (t reflect.Type, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Seal audits the complete set of entries and rejected claims and
	// freezes the registry. Register fails after a successful Seal.
	Seal() error
	// Sealed reports whether Seal has completed.
	Sealed() bool
	// Reset clears all registered entries and unseals the registry.
	Reset()
}

// Entry is a single (type, key) association in a Registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Key is the associated key.
	Key Key
}
