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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("idx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("idx: builder returned nil resolver")
	// ErrUnsupportedBacking is returned when a backing type has no text form
	// or no decoder.
	ErrUnsupportedBacking = errors.New("idx: unsupported backing type")
	// ErrNotGeneratable is returned by Generate when neither the domain nor
	// the backing type can produce random values.
	ErrNotGeneratable = errors.New("idx: backing type cannot be generated")
	// ErrInvalid wraps every domain validation failure.
	ErrInvalid = errors.New("idx: invalid identifier")
	// ErrDuplicate matches a *DuplicateError.
	ErrDuplicate = errors.New("idx: duplicate identifier")
)

// DuplicateError lists identifiers that occur more than once where they
// must be unique.
type DuplicateError struct {
	Domain string
	IDs    []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("idx: duplicate %s identifiers: %s", e.Domain, strings.Join(e.IDs, ", "))
}

// Is reports whether target is ErrDuplicate.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
