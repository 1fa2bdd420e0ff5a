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

package token

import "sort"

// Shape describes a token: its fixed length and allowed characters.
// Both methods are called on the zero value and must return constants.
type Shape interface {
	Size() int
	Alphabet() string
}

const (
	// NanoAlphabet is the URL-safe alphabet of nanoid.
	NanoAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// AlnumAlphabet is [0-9A-Za-z].
	AlnumAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// HexAlphabet is lowercase hexadecimal.
	HexAlphabet = "0123456789abcdef"
)

// Nano is a 21 character URL-safe token, the nanoid default.
type Nano struct{}

func (Nano) Size() int        { return 21 }
func (Nano) Alphabet() string { return NanoAlphabet }

// Alnum12 is a 12 character alphanumeric token.
type Alnum12 struct{}

func (Alnum12) Size() int        { return 12 }
func (Alnum12) Alphabet() string { return AlnumAlphabet }

// Hex32 is a 32 character lowercase hex token (128 bits).
type Hex32 struct{}

func (Hex32) Size() int        { return 32 }
func (Hex32) Alphabet() string { return HexAlphabet }

var builtins = map[string]Spec{
	"nano":    {Size: 21, Alphabet: NanoAlphabet},
	"alnum12": {Size: 12, Alphabet: AlnumAlphabet},
	"hex32":   {Size: 32, Alphabet: HexAlphabet},
}

// LookupShape returns the Spec of a built-in shape by name.
func LookupShape(name string) (Spec, bool) {
	sp, ok := builtins[name]
	return sp, ok
}

// Shapes returns the names of the built-in shapes, sorted.
func Shapes() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
