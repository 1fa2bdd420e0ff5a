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
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/builder"
	"dirpx.dev/idx/config"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	reg, err := b.BuildRegistry(s.cfg, nil)
	if err != nil {
		panic(err)
	}
	s.reg = reg
	s.res = b.BuildResolver(s.cfg, s.reg, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

// TypeDomain is the domain of stable type identifiers.
type TypeDomain struct{}

// DomainName implements apis.Namer.
func (TypeDomain) DomainName() string { return "idx.type" }

// TypeID is the stable identifier of a Go type, as an identifier in its own
// domain.
type TypeID = ID[TypeDomain, apis.Key]

// TypeKey returns the stable key of t using the global resolver: the key t
// declares, else the key it was registered with, else the derived key.
// It returns 0 only for a nil type.
func TypeKey(t reflect.Type) apis.Key {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// TypeKeyOf returns the stable key of T.
func TypeKeyOf[T any]() apis.Key {
	return TypeKey(reflect.TypeFor[T]())
}

// KeyOf returns the stable key of v's dynamic type.
func KeyOf(v any) apis.Key {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TypeIDOf returns the stable key of T as a TypeID.
func TypeIDOf[T any]() TypeID {
	return New[TypeDomain](TypeKeyOf[T]())
}

// TypeByKey returns the registered type that owns k.
// Only registered types can be found; derived keys are one-way.
func TypeByKey(k apis.Key) (reflect.Type, bool) {
	return st.Load().reg.Owner(k)
}

// RegisterType claims the current key of T (declared or derived) in the
// global registry, so a later type resolving to the same key is reported as
// a collision instead of silently sharing it.
func RegisterType[T any]() (apis.Key, error) {
	t := reflect.TypeFor[T]()
	k := TypeKey(t)
	if err := st.Load().reg.Register(t, k); err != nil {
		return 0, fmt.Errorf("idx: register %v: %w", t, err)
	}
	return k, nil
}

// RegisterTypeKey binds T to the literal key k in the global registry.
func RegisterTypeKey[T any](k apis.Key) error {
	t := reflect.TypeFor[T]()
	if err := st.Load().reg.Register(t, k); err != nil {
		return fmt.Errorf("idx: register %v: %w", t, err)
	}
	return nil
}

// MustRegisterType is like RegisterType but panics on error.
// It is meant for package initialization.
func MustRegisterType[T any]() apis.Key {
	k, err := RegisterType[T]()
	if err != nil {
		panic(err)
	}
	return k
}

// MustRegisterTypeKey is like RegisterTypeKey but panics on error.
func MustRegisterTypeKey[T any](k apis.Key) {
	if err := RegisterTypeKey[T](k); err != nil {
		panic(err)
	}
}

// Seal audits every registration in the global registry and freezes it.
// Call it once, at the end of program initialization, before any type key
// is trusted.
func Seal() error {
	return st.Load().reg.Seal()
}

// IsSealed reports whether the global registry is sealed.
func IsSealed() bool {
	return st.Load().reg.Sealed()
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged, except that a
// nil registry or resolver is rebuilt by the builder.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		var err error
		if nreg, err = nbld.BuildRegistry(ncfg, old.reg); err != nil {
			return err
		}
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, old.res)
	} else {
		npres = true
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		return ErrNilRegistry
	}
	if nres == nil {
		return ErrNilResolver
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			reg:  nreg,
			res:  nres,
			bld:  nbld,
			preg: npreg,
			pres: npres,
		},
	)
	return nil
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the global reg and res using the new configuration, carrying
// over registrations and the sealed state. On error nothing changes.
func SetConfig(cfg apis.Config) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	return publish(old, cfg, old.bld)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global registry to reg and pins it.
// It uses the global configuration to rebuild the global res.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new res based on the old cfg and new reg.
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, reg, old.res)
	}
	if nres == nil {
		return
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			reg:  reg,
			res:  nres,
			bld:  b,
			preg: true,
			pres: old.pres,
		},
	)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global resolver to res and pins it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	next := *old
	next.res = res
	next.pres = true
	st.Store(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the unpinned layers
// with it.
func SetBuilder(b apis.Builder) error {
	if b == nil {
		return nil
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	return publish(old, old.cfg, b)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// UnpinRegistry lets the next reconfiguration rebuild the registry.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.preg = false
	st.Store(&next)
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// UnpinResolver lets the next reconfiguration rebuild the resolver.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.pres = false
	st.Store(&next)
}

// publish rebuilds the unpinned layers of old for cfg with builder b and
// stores the result. Callers hold buildMu.
func publish(old *state, cfg apis.Config, b apis.Builder) error {
	nreg := old.reg
	if !old.preg {
		var err error
		if nreg, err = b.BuildRegistry(cfg, old.reg); err != nil {
			return err
		}
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, old.res)
	}

	// Ensure non-nil nreg and res.
	if nreg == nil {
		return ErrNilRegistry
	}
	if nres == nil {
		return ErrNilResolver
	}

	st.Store(
		&state{
			cfg:  cfg,
			reg:  nreg,
			res:  nres,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
		},
	)
	return nil
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the reg is pinned.
	preg bool
	// pres indicates whether the res is pinned.
	pres bool
}
