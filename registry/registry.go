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
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/config"
	"dirpx.dev/idx/strategy"
	uref "dirpx.dev/idx/utils/reflect"
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a Registry implementation backed by two sync.Maps:
// type -> key for resolution and key -> type for collision checks.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency, the counter, rejected and sealing.
	mu sync.Mutex
	// m maps reflect.Type to its registered key.
	m sync.Map // map[reflect.Type]apis.Key
	// owners maps a key back to the type that claimed it.
	owners sync.Map // map[apis.Key]reflect.Type
	// count tracks the number of registered entries.
	count int
	// rejected holds declared-key claims that collided.
	rejected []apis.Entry
	// sealed is set by a successful Seal.
	sealed atomic.Bool
}

// Register associates t, pointer levels dropped, with key.
// It is idempotent for the same (type,key) pair.
func (r *registry) Register(t reflect.Type, key apis.Key) error {
	return r.add(t, key, false)
}

// Claim is Register for declared keys: it ignores the seal and remembers
// collisions for Seal.
func (r *registry) Claim(t reflect.Type, key apis.Key) error {
	return r.add(t, key, true)
}

func (r *registry) add(t reflect.Type, key apis.Key, claim bool) error {
	if t == nil {
		return ErrNilType
	}
	if key == 0 {
		return ErrZeroKey
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	// A type that declares its own key may only be registered under it.
	if dk, ok := strategy.DeclaredKey(b); ok && dk != key {
		return conflict(r.name(b), dk, key)
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.Key) == key {
			return nil
		}
		return conflict(r.name(b), old.(apis.Key), key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !claim && r.sealed.Load() {
		return ErrSealed
	}

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.Key) == key {
			return nil
		}
		return conflict(r.name(b), old.(apis.Key), key)
	}
	if owner, ok := r.owners.Load(key); ok {
		if claim {
			e := apis.Entry{Type: b, Key: key}
			if !slices.Contains(r.rejected, e) {
				r.rejected = append(r.rejected, e)
			}
		}
		return &CollisionError{Key: key, Existing: r.name(owner.(reflect.Type)), Incoming: r.name(b)}
	}

	r.m.Store(b, key)
	r.owners.Store(key, b)
	r.count++
	return nil
}

// Lookup returns the key registered for a type if present.
func (r *registry) Lookup(t reflect.Type) (apis.Key, bool) {
	if t == nil {
		return 0, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return 0, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(apis.Key), true
	}
	return 0, false
}

// Owner returns the type that registered key, if any.
func (r *registry) Owner(key apis.Key) (reflect.Type, bool) {
	if v, ok := r.owners.Load(key); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Key:  value.(apis.Key),
		})
		return true
	})
	return entries
}

// Rejected returns a copy of the colliding claims.
func (r *registry) Rejected() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rejected)
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Seal audits every registered entry, the keys the registered types declare
// themselves and the rejected claims, and freezes the registry when the set
// is consistent. Sealing a sealed registry only reports claims rejected
// since.
func (r *registry) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() && len(r.rejected) == 0 {
		return nil
	}

	var claims []Claim
	r.m.Range(func(key, value any) bool {
		t := key.(reflect.Type)
		name := r.name(t)
		claims = append(claims, Claim{Name: name, Key: value.(apis.Key)})
		if dk, ok := strategy.DeclaredKey(t); ok {
			claims = append(claims, Claim{Name: name, Key: dk})
		}
		return true
	})
	for _, e := range r.rejected {
		claims = append(claims, Claim{Name: r.name(e.Type), Key: e.Key})
	}
	if err := Audit(claims); err != nil {
		return err
	}
	r.sealed.Store(true)
	return nil
}

// Sealed reports whether Seal has completed.
func (r *registry) Sealed() bool {
	return r.sealed.Load()
}

// Reset clears all registered entries and rejected claims and unseals the
// registry.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.owners.Clear()
	r.count = 0
	r.rejected = nil
	r.sealed.Store(false)
}

// name is the full canonical name used in error messages and audits. Type
// arguments are always kept: entries are distinct reflect.Types.
func (r *registry) name(t reflect.Type) string {
	return uref.CanonicalName(t, true)
}
