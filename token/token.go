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
	"crypto/rand"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
)

// Token is a fixed-size opaque identifier of shape S.
// The zero Token is empty and invalid.
type Token[S Shape] struct {
	s string
}

// New returns a random token drawn from crypto/rand.
func New[S Shape]() (Token[S], error) {
	return NewFrom[S](rand.Reader)
}

// NewFrom returns a random token drawn from r.
func NewFrom[S Shape](r io.Reader) (Token[S], error) {
	sp, err := SpecOf[S]()
	if err != nil {
		return Token[S]{}, err
	}
	s, err := sp.Generate(r)
	if err != nil {
		return Token[S]{}, err
	}
	return Token[S]{s: s}, nil
}

// MustNew is like New but panics on error.
func MustNew[S Shape]() Token[S] {
	t, err := New[S]()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse returns the token spelled by s, or a *FormatError.
func Parse[S Shape](s string) (Token[S], error) {
	sp, err := SpecOf[S]()
	if err != nil {
		return Token[S]{}, err
	}
	if err := sp.Check(s); err != nil {
		return Token[S]{}, err
	}
	return Token[S]{s: s}, nil
}

// MustParse is the constant constructor. It panics if lit does not match S,
// so a malformed package-level literal stops the program during init.
func MustParse[S Shape](lit string) Token[S] {
	t, err := Parse[S](lit)
	if err != nil {
		panic(fmt.Sprintf("token: MustParse(%q): %v", lit, err))
	}
	return t
}

// String returns the token text.
func (t Token[S]) String() string { return t.s }

// IsZero reports whether t is the zero token.
func (t Token[S]) IsZero() bool { return t.s == "" }

// Compare orders tokens lexicographically.
func (t Token[S]) Compare(other Token[S]) int { return strings.Compare(t.s, other.s) }

// Validate reports whether t matches S. Only the zero token fails for
// tokens built by this package.
func (t Token[S]) Validate() error {
	_, err := Parse[S](t.s)
	return err
}

// Random returns a new random token drawn from r. The receiver is ignored,
// which lets generic code generate tokens from a zero value.
func (Token[S]) Random(r io.Reader) (Token[S], error) {
	return NewFrom[S](r)
}

// MarshalText implements encoding.TextMarshaler.
func (t Token[S]) MarshalText() ([]byte, error) {
	return []byte(t.s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with Parse rules.
func (t *Token[S]) UnmarshalText(text []byte) error {
	v, err := Parse[S](string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Value implements driver.Valuer.
func (t Token[S]) Value() (driver.Value, error) {
	return t.s, nil
}

// Scan implements sql.Scanner with Parse rules.
func (t *Token[S]) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	default:
		return fmt.Errorf("token: cannot scan %T", src)
	}
}
