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

import (
	"fmt"
	"io"
	"math/bits"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"
)

// Spec is the runtime form of a shape.
type Spec struct {
	Size     int    `yaml:"size" json:"size"`
	Alphabet string `yaml:"alphabet" json:"alphabet"`
}

// Validate checks that sp describes a usable shape.
func (sp Spec) Validate() error {
	if sp.Size <= 0 {
		return fmt.Errorf("%w: size %d", ErrBadShape, sp.Size)
	}
	n := len(sp.Alphabet)
	if n < 2 || n > 256 {
		return fmt.Errorf("%w: alphabet of %d bytes", ErrBadShape, n)
	}
	var seen [128]bool
	for i := 0; i < n; i++ {
		c := sp.Alphabet[i]
		if c >= utf8.RuneSelf {
			return fmt.Errorf("%w: non-ASCII byte 0x%02x in alphabet", ErrBadShape, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate %q in alphabet", ErrBadShape, c)
		}
		seen[c] = true
	}
	return nil
}

// Check reports whether s matches the shape: length first, then the first
// byte outside the alphabet.
func (sp Spec) Check(s string) error {
	if len(s) != sp.Size {
		return &FormatError{Kind: KindLength, Want: sp.Size, Got: len(s)}
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(sp.Alphabet, s[i]) < 0 {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return &FormatError{Kind: KindCharacter, Offset: i, Char: r}
		}
	}
	return nil
}

// Generate draws Size characters uniformly from the alphabet using bytes
// read from r. Each byte is masked to the smallest power of two covering the
// alphabet and rejected when it falls outside, so no character is favored.
func (sp Spec) Generate(r io.Reader) (string, error) {
	if err := sp.Validate(); err != nil {
		return "", err
	}
	n := len(sp.Alphabet)
	mask := 1<<bits.Len(uint(n-1)) - 1

	// Expected bytes per character is (mask+1)/n; over-read a little so a
	// single read usually suffices.
	step := (sp.Size*mask*8)/(5*n) + 1
	buf := make([]byte, step)
	out := make([]byte, 0, sp.Size)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("token: read random: %w", err)
		}
		for _, b := range buf {
			if i := int(b) & mask; i < n {
				out = append(out, sp.Alphabet[i])
				if len(out) == sp.Size {
					return string(out), nil
				}
			}
		}
	}
}

type specEntry struct {
	spec Spec
	err  error
}

// specs caches validated specs by shape type.
var specs sync.Map // key: reflect.Type, val: specEntry

// SpecOf returns the validated Spec of shape S. The result is computed once
// per shape type.
func SpecOf[S Shape]() (Spec, error) {
	t := reflect.TypeFor[S]()
	if v, ok := specs.Load(t); ok {
		e := v.(specEntry)
		return e.spec, e.err
	}
	if t.Kind() == reflect.Interface {
		return Spec{}, fmt.Errorf("%w: %v is an interface", ErrBadShape, t)
	}
	var s S
	sp := Spec{Size: s.Size(), Alphabet: s.Alphabet()}
	err := sp.Validate()
	if err != nil {
		err = fmt.Errorf("%v: %w", t, err)
	}
	specs.Store(t, specEntry{spec: sp, err: err})
	return sp, err
}
