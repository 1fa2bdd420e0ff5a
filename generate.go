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
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"dirpx.dev/idx/apis"
)

// Generate returns a random identifier drawn from crypto/rand.
//
// The domain's apis.Generator is used when D has one; otherwise the backing
// type's own generator (uuid.UUID, ulid.ULID, token.Token or any type with a
// Random(io.Reader) (R, error) method). Calls share no state and are safe
// from any number of goroutines. The result passes domain validation; a
// rejected value is an error and is not retried.
func Generate[D any, R comparable]() (ID[D, R], error) {
	return GenerateFrom[D, R](rand.Reader)
}

// GenerateFrom is like Generate but draws randomness from src.
func GenerateFrom[D any, R comparable](src io.Reader) (ID[D, R], error) {
	var (
		r   R
		err error
	)
	if g, ok := capability[apis.Generator[R], D](); ok {
		r, err = g.GenerateBacking(src)
	} else {
		r, err = generateBacking[R](src)
	}
	if err != nil {
		return ID[D, R]{}, fmt.Errorf("idx: generate %s: %w", DomainName[D](), err)
	}
	if err := validate[D](r); err != nil {
		return ID[D, R]{}, err
	}
	return ID[D, R]{r: r}, nil
}

// MustGenerate is like Generate but panics on error.
func MustGenerate[D any, R comparable]() ID[D, R] {
	id, err := Generate[D, R]()
	if err != nil {
		panic(err)
	}
	return id
}

// Sequence is a stateful identifier generator.
type Sequence[D any, R comparable] interface {
	Next() (ID[D, R], error)
}

// Monotonic generates strictly increasing ULID identifiers. Unlike Generate
// it keeps state between calls: within one millisecond the random part is
// incremented, and a clock that moves backwards is ignored. It is safe for
// concurrent use. The zero value draws from crypto/rand and time.Now.
type Monotonic[D any] struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
	last    uint64
}

// Ensure Monotonic implements Sequence.
var _ Sequence[struct{}, ulid.ULID] = (*Monotonic[struct{}])(nil)

// NewMonotonic returns a Monotonic drawing entropy from src, or from
// crypto/rand when src is nil.
func NewMonotonic[D any](src io.Reader) *Monotonic[D] {
	if src == nil {
		src = rand.Reader
	}
	return &Monotonic[D]{entropy: ulid.Monotonic(src, 0), now: time.Now}
}

// Next returns the next identifier.
func (m *Monotonic[D]) Next() (ID[D, ulid.ULID], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entropy == nil {
		m.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	if m.now == nil {
		m.now = time.Now
	}
	ms := ulid.Timestamp(m.now())
	if ms < m.last {
		ms = m.last
	}
	u, err := ulid.New(ms, m.entropy)
	if err != nil {
		return ID[D, ulid.ULID]{}, fmt.Errorf("idx: monotonic %s: %w", DomainName[D](), err)
	}
	m.last = ms
	if err := validate[D](u); err != nil {
		return ID[D, ulid.ULID]{}, err
	}
	return ID[D, ulid.ULID]{r: u}, nil
}
