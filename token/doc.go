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

// Package token implements Token, a fixed-size opaque identifier: a string of
// exactly Size() characters drawn from a restricted Alphabet(), both supplied
// by a shape type parameter.
//
// # Overview
//
// A shape is a zero-size type with two constant methods:
//
//	type Alnum12 struct{}
//
//	func (Alnum12) Size() int        { return 12 }
//	func (Alnum12) Alphabet() string { return token.AlnumAlphabet }
//
// Token[Alnum12] values are created three ways:
//
//   - New / NewFrom draw each character independently and uniformly from the
//     alphabet (rejection sampling over crypto/rand or a given reader). No
//     collision check is made against previously issued tokens.
//   - Parse accepts text only if its length equals Size() and every byte is in
//     Alphabet(). Failures are *FormatError values that tell a wrong length
//     (ErrLength) from a bad character (ErrCharacter). Length is checked first.
//   - MustParse is the constant path for literals. It panics on a malformed
//     literal; the idxlint analyzer reports the same literal at build time.
//
// Tokens compare byte-wise and order lexicographically. The zero Token is the
// empty string and is never valid.
//
// # Shapes
//
// Built-in shapes are Nano (21 chars, URL-safe), Alnum12 and Hex32. Spec is
// the runtime form of a shape; SpecOf caches and validates it per shape type,
// and LookupShape resolves built-ins by name for tooling.
package token
