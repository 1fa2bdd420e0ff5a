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

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrKeySyntax is returned when a Key text form cannot be parsed.
var ErrKeySyntax = errors.New("apis: invalid key syntax")

// Key is a stable, build-independent identifier of a Go type.
// The zero Key means "no key".
type Key uint64

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool { return k == 0 }

// String returns "0x" followed by 16 lowercase hex digits.
func (k Key) String() string {
	return fmt.Sprintf("0x%016x", uint64(k))
}

// Compare returns -1, 0 or 1.
func (k Key) Compare(other Key) int {
	switch {
	case k < other:
		return -1
	case k > other:
		return 1
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts the String form, with or without the 0x prefix.
func (k *Key) UnmarshalText(text []byte) error {
	v, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKey parses a hex key, with or without the 0x prefix.
func ParseKey(s string) (Key, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" || len(h) > 16 {
		return 0, ErrKeySyntax
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return 0, ErrKeySyntax
	}
	return Key(v), nil
}
