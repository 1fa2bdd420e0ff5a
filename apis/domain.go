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

import "io"

// Namer lets an identifier domain supply its presentable name.
//
// # Overview
//
// Any Go type can act as an identifier domain: an empty marker struct is
// enough. Namer is the optional fast path used when a domain wants a name
// other than the reflected "pkg.Type" short name, for example to keep log
// output stable across package renames.
//
// DomainName is called on the zero value of the domain type, so it MUST NOT
// depend on instance state.
//
// # Usage
//
//	type Customer struct{ Name string }
//
//	func (Customer) DomainName() string { return "crm.customer" }
type Namer interface {
	// DomainName returns the canonical name of the domain.
	//
	// # Contract
	//
	//   - The returned name MUST be non-empty and deterministic.
	//   - The implementation MUST be safe for concurrent calls and MUST NOT
	//     perform blocking operations or I/O.
	DomainName() string
}

// Generator lets an identifier domain override random generation of its
// backing values of type R.
//
// GenerateBacking is called on the zero value of the domain type with the
// randomness source chosen by the caller. Implementations MUST NOT keep
// state between calls: identifiers are generated concurrently by independent
// goroutines.
type Generator[R any] interface {
	// GenerateBacking returns a new random backing value drawn from rand.
	GenerateBacking(rand io.Reader) (R, error)
}

// Validator lets an identifier domain impose rules beyond the backing
// representation's own shape, e.g. "customer IDs must start with a letter".
//
// ValidateBacking is called on the zero value of the domain type whenever an
// identifier is parsed, decoded or generated. It is never called when an
// identifier is built from an existing backing value.
type Validator[R any] interface {
	// ValidateBacking returns a non-nil error if r is not acceptable.
	ValidateBacking(r R) error
}

// KeyDeclarer lets a type supply its own literal stable key.
//
// # Overview
//
// A declared key survives renames and package moves, which a derived key does
// not. The value is a literal chosen once and never changed:
//
//	type Hammer struct{}
//
//	func (Hammer) StableTypeKey() apis.Key { return 0x6a3c0de1f0b2a511 }
//
// # Contract
//
//   - StableTypeKey MUST return the same non-zero literal on every call.
//   - StableTypeKey is called on the zero value (or a new pointer for
//     pointer receivers), so it MUST NOT depend on instance state.
//   - Declared keys are audited against registered keys; two types that
//     declare the same key are reported as a collision when both are
//     registered.
type KeyDeclarer interface {
	StableTypeKey() Key
}
