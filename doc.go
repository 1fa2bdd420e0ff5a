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

// Package idx provides domain-tagged identifiers and stable type keys.
//
// An identifier is a backing value (a string, an integer, a uuid.UUID, a
// ulid.ULID or a fixed-size token.Token) bound to a domain: the kind of
// thing it identifies. The domain is a type parameter, not a value, so
// identifiers of different domains cannot be mixed up even when their
// backing values look the same:
//
//	type Customer struct{}
//	type Order struct{}
//
//	c := idx.New[Customer]("c-42")
//	o := idx.New[Order]("c-42")
//	_ = c == o // does not compile: ID[Customer, string] vs ID[Order, string]
//
// # Domains
//
// Any type can be a domain; an empty struct is enough. A domain may opt
// into extra behavior by implementing interfaces from package apis on its
// zero value:
//
//   - apis.Namer: the name shown in GoString and error messages. Without it
//     the reflected "pkg.Type" short name is used.
//   - apis.Generator[R]: a custom random generator for backing values.
//   - apis.Validator[R]: rules beyond the backing type's own, applied by
//     Parse, Generate, Validate and every decoder, never by New.
//
// Package rule provides validators written as CEL expressions.
//
// # Construction
//
//	New[D](r)               wrap an existing value, no validation
//	Generate[D, R]()        random, from crypto/rand, no shared state
//	GenerateFrom[D, R](src) random, from src
//	Parse[D, R](s)          from text, validated
//	MustParse[D, R](lit)    constant literal, panics during init if malformed
//	NewMonotonic[D](src)    stateful, strictly increasing ULIDs
//
// Go cannot evaluate MustParse at compile time. Package-level literals are
// checked during initialization, before main runs, and the idxlint analyzer
// (cmd/idxlint) rejects malformed token literals at build time.
//
// # Encoding
//
// An ID encodes as exactly its backing value in JSON, text, YAML
// (gopkg.in/yaml.v3) and database/sql; the domain is never written.
// Decoding applies the backing's and the domain's rules, so
// Parse(id.String()) == id for every valid id.
//
// # Stable type keys
//
// A stable key identifies a Go type across builds and binaries, which
// reflect.Type does not. The key of a type is, in priority order:
//
//  1. the literal it declares by implementing apis.KeyDeclarer;
//  2. the key it was registered with (RegisterTypeKey);
//  3. xxhash64 of its package path and name within a namespace (derived).
//
// Derivation never fails. Collisions between derived keys are not checked
// unless the types are registered: RegisterType claims a type's current
// key, and a second type claiming the same key is reported as a
// *registry.CollisionError. Seal audits the complete registered set at
// once and freezes the registry; call it at the end of initialization.
//
// The key machinery lives in a read-mostly global snapshot: a Config, a
// Registry, a Resolver and the Builder that makes them. Readers load the
// snapshot atomically and never lock:
//
//	k := idx.TypeKeyOf[Order]()
//	k = idx.KeyOf(order)
//
// Writers (SetConfig, SetBuilder, SetRegistry, SetResolver, SetAll) build a
// new snapshot under a mutex and swap it in. SetRegistry and SetResolver pin
// their layer so reconfiguration stops rebuilding it until UnpinRegistry or
// UnpinResolver.
//
// # Identifiable values
//
// Types that carry their own identifier implement Identifiable[D, R].
// IDs, Index, GroupBy, Dedup, SortByID and Find work over heterogeneous
// slices of them, as long as they share a domain.
package idx
