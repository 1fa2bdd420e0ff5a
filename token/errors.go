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
	"errors"
	"fmt"
)

var (
	// ErrLength matches a *FormatError of KindLength.
	ErrLength = errors.New("token: invalid length")
	// ErrCharacter matches a *FormatError of KindCharacter.
	ErrCharacter = errors.New("token: invalid character")
	// ErrBadShape is returned when a shape has a non-positive size or an
	// alphabet that is not 2..256 distinct ASCII bytes.
	ErrBadShape = errors.New("token: invalid shape")
)

// Kind tells which format check failed.
type Kind int

const (
	// KindLength means the text length differs from the shape size.
	KindLength Kind = iota + 1
	// KindCharacter means a byte is outside the shape alphabet.
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindLength:
		return "length"
	case KindCharacter:
		return "character"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FormatError reports text that does not match a shape.
//
// For KindLength, Want and Got hold the expected and actual byte lengths.
// For KindCharacter, Offset is the byte offset of the first offending
// character and Char the character found there.
type FormatError struct {
	Kind   Kind
	Want   int
	Got    int
	Offset int
	Char   rune
}

func (e *FormatError) Error() string {
	if e.Kind == KindLength {
		return fmt.Sprintf("token: invalid length: want %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("token: invalid character %q at offset %d", e.Char, e.Offset)
}

// Is matches ErrLength or ErrCharacter according to Kind.
func (e *FormatError) Is(target error) bool {
	switch e.Kind {
	case KindLength:
		return target == ErrLength
	case KindCharacter:
		return target == ErrCharacter
	}
	return false
}
