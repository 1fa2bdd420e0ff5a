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

package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/strategy"
)

type (
	Voucher         struct{}
	Envelope[T any] struct{ X T }
)

func TestDeriveStrategy_StableUnderLoad(t *testing.T) {
	s := strategy.NewDeriveStrategy()
	conf := cfg(func(c *apis.Config) { c.Namespace = "idx/type/v1" })

	vals := []any{
		Voucher{}, &Voucher{}, []Voucher{}, [2]Voucher{}, make(chan Voucher),
		Envelope[int]{}, &Envelope[string]{},
		123, "abc", []byte{1, 2, 3}, map[string]int{"a": 1},
	}
	want := make([]apis.Key, len(vals))
	for i, v := range vals {
		key, ok := s.TryResolve(v, conf)
		require.True(t, ok, "%T", v)
		require.NotZero(t, key, "%T", v)
		want[i] = key
	}
	assert.Equal(t, want[0], want[1], "pointers share the pointee's key")
	assert.NotEqual(t, want[0], want[2], "containers have their own key")
	assert.NotEqual(t, want[2], want[3])
	assert.NotEqual(t, want[5], want[6], "type arguments are part of the key")

	var (
		wg       sync.WaitGroup
		unstable atomic.Int64
	)
	for w := range runtime.GOMAXPROCS(0) * 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 2000 {
				j := (i + w) % len(vals)
				if key, ok := s.TryResolve(vals[j], conf); !ok || key != want[j] {
					unstable.Add(1)
				}
				if key, ok := s.TryResolveType(reflect.TypeOf(vals[j]), conf); !ok || key != want[j] {
					unstable.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, unstable.Load())
}

func TestDeriveStrategy_HashesPackagePath(t *testing.T) {
	conf := cfg(func(c *apis.Config) { c.Namespace = "idx/type/v1" })
	typ := reflect.TypeFor[Voucher]()

	assert.Equal(t, "dirpx.dev/idx/strategy_test.Voucher", strategy.TypeName(typ, conf))
	key, ok := strategy.NewDeriveStrategy().TryResolveType(typ, conf)
	assert.True(t, ok)
	assert.Equal(t, strategy.DeriveKey("dirpx.dev/idx/strategy_test.Voucher", "idx/type/v1"), key)
}
