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

package strategy

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/idx/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }
type As []A

const pkg = "dirpx.dev/idx/strategy"

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
		MapPreferElem:   true,
		KeepTypeArgs:    true,
		Namespace:       "idx/type/v1",
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestDeriveKey_Golden(t *testing.T) {
	cases := []struct {
		name, ns string
		want     apis.Key
	}{
		{"example.com/shop.Product", "idx/type/v1", 0xa027191bfbdea1ce},
		{"example.com/shop.Order", "idx/type/v1", 0x30b822c4dd2ec8e1},
		{"example.com/shop.Product", "acme/type/v2", 0x77c65144a8662324},
		{"int", "idx/type/v1", 0x58f24f15adfe9609},
		// Empty namespace means the default one.
		{"example.com/shop.Product", "", 0xa027191bfbdea1ce},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveKey(tc.name, tc.ns), "%s in %q", tc.name, tc.ns)
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		cfg  apis.Config
		want string
	}{
		{"plain", reflect.TypeOf(A{}), cfg(), pkg + ".A"},
		{"ptr", reflect.TypeOf(&A{}), cfg(), pkg + ".A"},
		{"double ptr", reflect.TypeOf((**A)(nil)), cfg(), pkg + ".A"},
		{"slice", reflect.TypeOf([]A{}), cfg(), "unnamed:[]" + pkg + ".A"},
		{"slice of ptr", reflect.TypeOf([]*A{}), cfg(), "unnamed:[]*" + pkg + ".A"},
		{"map", reflect.TypeOf(map[string]A{}), cfg(), "unnamed:map[string]" + pkg + ".A"},
		{"map ignores preference", reflect.TypeOf(map[string]A{}), cfg(func(c *apis.Config) { c.MapPreferElem = false }), "unnamed:map[string]" + pkg + ".A"},
		{"named slice", reflect.TypeOf(As{}), cfg(), pkg + ".As"},
		{"builtin", reflect.TypeOf(0), cfg(), "int"},
		{"generic keeps args", reflect.TypeOf(G[int]{}), cfg(), pkg + ".G[int]"},
		{"generic strips args", reflect.TypeOf(G[int]{}), cfg(func(c *apis.Config) { c.KeepTypeArgs = false }), pkg + ".G"},
		{"unnamed", reflect.TypeOf(struct{ X int }{}), cfg(), "unnamed:struct { X int }"},
		{"nil", nil, cfg(), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TypeName(tc.typ, tc.cfg))
		})
	}
}

func TestDeriveStrategy_ByValue(t *testing.T) {
	s := NewDeriveStrategy()
	keyA := DeriveKey(pkg+".A", "idx/type/v1")

	cases := []struct {
		name     string
		val      any
		cfg      apis.Config
		expected apis.Key
	}{
		{"plain struct", A{}, cfg(), keyA},
		{"ptr", &A{}, cfg(), keyA},
		{"slice", []A{}, cfg(), DeriveKey("unnamed:[]"+pkg+".A", "idx/type/v1")},
		{"array", [2]A{}, cfg(), DeriveKey("unnamed:[2]"+pkg+".A", "idx/type/v1")},
		{"chan", make(chan A), cfg(), DeriveKey("unnamed:chan "+pkg+".A", "idx/type/v1")},
		{"named slice", As{}, cfg(), DeriveKey(pkg+".As", "idx/type/v1")},
		{"byte slice", []byte{}, cfg(), DeriveKey("unnamed:[]uint8", "idx/type/v1")},
		{"builtin", 42, cfg(), 0x58f24f15adfe9609},
		{"other namespace", A{}, cfg(func(c *apis.Config) { c.Namespace = "acme/type/v2" }), DeriveKey(pkg+".A", "acme/type/v2")},
		{"generic keeps args", G[int]{}, cfg(), DeriveKey(pkg+".G[int]", "idx/type/v1")},
		{"generic strips args", G[int]{}, cfg(func(c *apis.Config) { c.KeepTypeArgs = false }), DeriveKey(pkg+".G", "idx/type/v1")},
		{"wrapped generic", &W[G[int]]{}, cfg(), DeriveKey(pkg+".W["+pkg+".G[int]]", "idx/type/v1")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %v, want %v", got, tc.expected)
			}
		})
	}

	if _, ok := s.TryResolve(nil, cfg()); ok {
		t.Fatal("nil value: expected ok=false, got true")
	}
}

func TestDeriveStrategy_ByType(t *testing.T) {
	s := NewDeriveStrategy()

	if _, ok := s.TryResolveType(nil, cfg()); ok {
		t.Fatal("nil type: expected ok=false, got true")
	}

	// Distinct generic instantiations never share a key when arguments are kept.
	k1, _ := s.TryResolveType(reflect.TypeOf(G[int]{}), cfg())
	k2, _ := s.TryResolveType(reflect.TypeOf(G[string]{}), cfg())
	assert.NotEqual(t, k1, k2)

	// Unnamed types derive from their canonical string, never zero.
	k3, ok := s.TryResolveType(reflect.TypeOf(struct{ X int }{}), cfg())
	assert.True(t, ok)
	assert.NotZero(t, k3)
	assert.Equal(t, DeriveKey("unnamed:struct { X int }", "idx/type/v1"), k3)
}

func TestDeriveStrategy_DistinctTypes(t *testing.T) {
	s := NewDeriveStrategy()
	types := []reflect.Type{
		reflect.TypeOf(A{}), reflect.TypeOf(As{}), reflect.TypeOf([]A{}), reflect.TypeOf([1]A{}),
		reflect.TypeOf(map[string]A{}), reflect.TypeOf(map[A]string{}), reflect.TypeOf(make(chan A)),
		reflect.TypeOf(0), reflect.TypeOf([]int{}), reflect.TypeOf(byte(0)), reflect.TypeOf([16]byte{}),
		reflect.TypeOf(G[int]{}), reflect.TypeOf(G[string]{}),
	}
	owner := make(map[apis.Key]reflect.Type, len(types))
	for _, typ := range types {
		k, ok := s.TryResolveType(typ, cfg())
		assert.True(t, ok)
		if prev, dup := owner[k]; dup {
			t.Errorf("%v and %v share key %v", prev, typ, k)
		}
		owner[k] = typ
	}
}

func TestDeriveStrategy_MaxUnwrap(t *testing.T) {
	s := NewDeriveStrategy()

	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem() // **A type (not a value)

	// One pointer level left over derives from the unnamed form.
	t.Run("tight limit", func(t *testing.T) {
		got, ok := s.TryResolveType(tt, cfg(func(c *apis.Config) { c.MaxUnwrap = 1 }))
		if !ok || got != DeriveKey("unnamed:*"+pkg+".A", "idx/type/v1") {
			t.Fatalf("MaxUnwrap=1: got (%v,%v), want the *A key", got, ok)
		}
	})

	// Large enough -> success.
	t.Run("wide limit", func(t *testing.T) {
		got, ok := s.TryResolveType(tt, cfg())
		if !ok || got != DeriveKey(pkg+".A", "idx/type/v1") {
			t.Fatalf("MaxUnwrap=8: got (%v,%v)", got, ok)
		}
	})
}

// This test stresses the memoization and Normalize path under concurrency.
func TestDeriveStrategy_Concurrent(t *testing.T) {
	s := NewDeriveStrategy()
	conf := cfg()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(0),
	}
	expect := make([]apis.Key, len(types))
	for i, typ := range types {
		expect[i] = DeriveKey(TypeName(typ, conf), conf.Namespace)
	}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan apis.Key, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				got, ok := s.TryResolveType(types[idx], conf)
				if !ok || got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%v", e)
	}
}

func TestShortName(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		cfg  apis.Config
		want string
	}{
		{"plain", reflect.TypeOf(A{}), cfg(), "strategy.A"},
		{"slice", reflect.TypeOf([]A{}), cfg(), "strategy.A"},
		{"named slice", reflect.TypeOf(As{}), cfg(), "strategy.As"},
		{"generic strips params", reflect.TypeOf(G[int]{}), cfg(), "strategy.G"},
		{"wrapped generic", reflect.TypeOf([]W[G[int]]{}), cfg(), "strategy.W"},
		{"builtin visible", reflect.TypeOf(0), cfg(), "int"},
		{"builtin hidden", reflect.TypeOf(0), cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), ""},
		{"unnamed", reflect.TypeOf(struct{}{}), cfg(), ""},
		{"nil", nil, cfg(), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShortName(tc.typ, tc.cfg))
		})
	}
}

// ---- Benchmarks ----

func BenchmarkDeriveStrategy_ByType(b *testing.B) {
	s := NewDeriveStrategy()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}

	configs := []struct {
		name string
		cfg  apis.Config
	}{
		{"default", cfg()},
		{"strip_args", cfg(func(c *apis.Config) { c.KeepTypeArgs = false })},
		{"prefer_key", cfg(func(c *apis.Config) { c.MapPreferElem = false })},
		{"low_maxunwrap", cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })},
	}

	for _, cc := range configs {
		b.Run(cc.name, func(b *testing.B) {
			// Warm-up cache
			for _, t0 := range types {
				s.TryResolveType(t0, cc.cfg)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				t0 := types[i%len(types)]
				s.TryResolveType(t0, cc.cfg)
			}
		})
	}
}

func BenchmarkDeriveKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		DeriveKey("example.com/shop.Product", "idx/type/v1")
	}
}
