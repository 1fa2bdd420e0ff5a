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

package rule_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/idx"
	"dirpx.dev/idx/rule"
)

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		is   error
	}{
		{"empty", "   ", rule.ErrEmpty},
		{"syntax", `id.startsWith(`, nil},
		{"unknown variable", `name == "x"`, nil},
		{"not bool", `size + 1`, rule.ErrNotBool},
		{"string result", `id`, rule.ErrNotBool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rule.Compile(tt.expr)
			require.Error(t, err)
			assert.Nil(t, r)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	r := rule.MustCompile(` id.startsWith("c-") && size <= 8 `)
	assert.Equal(t, `id.startsWith("c-") && size <= 8`, r.String())

	tests := []struct {
		in string
		ok bool
	}{
		{"c-1", true},
		{"c-123456", true},
		{"c-1234567", false},
		{"x-1", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ok, err := r.Eval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)

			err = r.Check(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, rule.ErrRejected)
			}
		})
	}
}

func TestCheck_Matches(t *testing.T) {
	r := rule.MustCompile(`id.matches("^[a-z]+$")`)
	assert.NoError(t, r.Check("abc"))
	assert.ErrorIs(t, r.Check("ABC"), rule.ErrRejected)
}

func TestCheck_EvalError(t *testing.T) {
	r := rule.MustCompile(`int(id) > 0`)
	assert.NoError(t, r.Check("5"))
	err := r.Check("five")
	require.Error(t, err)
	assert.NotErrorIs(t, err, rule.ErrRejected)
}

func TestCheckValue(t *testing.T) {
	r := rule.MustCompile(`size == 36`)
	assert.NoError(t, r.CheckValue(uuid.New()))
	assert.NoError(t, r.CheckValue("123456789012345678901234567890123456"))
	assert.ErrorIs(t, r.CheckValue(42), rule.ErrRejected)
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { rule.MustCompile("size") })
}

func TestSet(t *testing.T) {
	s, err := rule.CompileAll(`size >= 3`, `!id.contains(" ")`)
	require.NoError(t, err)
	assert.NoError(t, s.Check("abc"))
	assert.ErrorIs(t, s.Check("ab"), rule.ErrRejected)
	assert.ErrorIs(t, s.Check("a bc"), rule.ErrRejected)

	_, err = rule.CompileAll(`size`, `id`, `size > 1`)
	assert.ErrorIs(t, err, rule.ErrNotBool)
}

func TestConcurrentCheck(t *testing.T) {
	r := rule.MustCompile(`size % 2 == 0`)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := string(make([]byte, n))
			assert.Equal(t, n%2 == 0, r.Check(text) == nil)
		}(i)
	}
	wg.Wait()
}

var sku = rule.MustCompile(`id.matches("^SKU-[0-9]{4}$")`)

type Product struct{}

func (Product) ValidateBacking(s string) error { return sku.Check(s) }

func TestDomainValidator(t *testing.T) {
	id, err := idx.Parse[Product, string]("SKU-0042")
	require.NoError(t, err)
	assert.Equal(t, "SKU-0042", id.String())

	_, err = idx.Parse[Product, string]("SKU-42")
	assert.ErrorIs(t, err, idx.ErrInvalid)
	assert.ErrorIs(t, err, rule.ErrRejected)

	assert.ErrorIs(t, idx.New[Product]("nope").Validate(), rule.ErrRejected)
}
