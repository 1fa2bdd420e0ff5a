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

package registry

import (
	"errors"
	"fmt"

	"dirpx.dev/idx/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("idx(registry): nil reflect.Type provided")
	// ErrZeroKey is returned when the zero key is provided.
	ErrZeroKey = errors.New("idx(registry): zero key provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different key, or a registration that contradicts
	// the key the type declares itself.
	ErrConflictingRegistration = errors.New("idx(registry): conflicting type registration")
	// ErrKeyCollision indicates two distinct types claiming the same key.
	ErrKeyCollision = errors.New("idx(registry): key collision")
	// ErrSealed is returned by Register after Seal.
	ErrSealed = errors.New("idx(registry): registry is sealed")
)

// CollisionError describes two distinct types claiming one key.
// It matches ErrKeyCollision with errors.Is.
type CollisionError struct {
	Key      apis.Key
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("idx(registry): key %s claimed by both %s and %s", e.Key, e.Existing, e.Incoming)
}

// Is reports whether target is ErrKeyCollision.
func (e *CollisionError) Is(target error) bool {
	return target == ErrKeyCollision
}

func conflict(name string, have, want apis.Key) error {
	return fmt.Errorf("%w: %s is bound to %s, got %s", ErrConflictingRegistration, name, have, want)
}
