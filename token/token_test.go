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

package token_test

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/idx/token"
)

// cycle is an endless reader repeating a fixed byte pattern.
type cycle struct {
	pat []byte
	pos int
}

func (c *cycle) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = c.pat[c.pos%len(c.pat)]
		c.pos++
	}
	return len(p), nil
}

type failing struct{}

func (failing) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

type badShape struct{}

func (badShape) Size() int        { return 4 }
func (badShape) Alphabet() string { return "aab" }

type binary8 struct{}

func (binary8) Size() int        { return 8 }
func (binary8) Alphabet() string { return "01" }

func assertShape(t *testing.T, s string, sp token.Spec) {
	t.Helper()
	require.Len(t, s, sp.Size)
	for i := 0; i < len(s); i++ {
		require.True(t, strings.IndexByte(sp.Alphabet, s[i]) >= 0, "byte %q at %d", s[i], i)
	}
}

func TestNew_Shape(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := token.New[token.Nano]()
		require.NoError(t, err)
		assertShape(t, n.String(), token.Spec{Size: 21, Alphabet: token.NanoAlphabet})

		a := token.MustNew[token.Alnum12]()
		assertShape(t, a.String(), token.Spec{Size: 12, Alphabet: token.AlnumAlphabet})

		h := token.MustNew[token.Hex32]()
		assertShape(t, h.String(), token.Spec{Size: 32, Alphabet: token.HexAlphabet})

		b := token.MustNew[binary8]()
		assertShape(t, b.String(), token.Spec{Size: 8, Alphabet: "01"})
	}
}

func TestNewFrom_RejectionSampling(t *testing.T) {
	// 62 letters -> mask 63; bytes 62 and 63 are out of range and skipped.
	src := &cycle{pat: []byte{62, 63, 0, 1, 61, 0xff, 64 + 10}}
	tok, err := token.NewFrom[token.Alnum12](src)
	require.NoError(t, err)
	// 0 -> '0', 1 -> '1', 61 -> 'z', 0xff&63=63 skipped, (64+10)&63=10 -> 'A'.
	assert.Equal(t, "01zA01zA01zA", tok.String())
}

func TestNewFrom_ReaderError(t *testing.T) {
	_, err := token.NewFrom[token.Nano](failing{})
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestNew_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	seen := sync.Map{}
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				tok := token.MustNew[token.Nano]()
				if _, dup := seen.LoadOrStore(tok, struct{}{}); dup {
					t.Errorf("duplicate token %s", tok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind token.Kind
		is   error
	}{
		{"valid", "Ab3dEf7hIj9K", 0, nil},
		{"empty", "", token.KindLength, token.ErrLength},
		{"short", "Ab3dEf", token.KindLength, token.ErrLength},
		{"long", "Ab3dEf7hIj9KL", token.KindLength, token.ErrLength},
		{"bad char", "Ab3dEf7h-j9K", token.KindCharacter, token.ErrCharacter},
		{"bad char and length", "Ab-", token.KindLength, token.ErrLength},
		{"non-ascii", "Ab3dEf7hIjé", token.KindCharacter, token.ErrCharacter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := token.Parse[token.Alnum12](tc.in)
			if tc.is == nil {
				require.NoError(t, err)
				assert.Equal(t, tc.in, tok.String())
				return
			}
			require.ErrorIs(t, err, tc.is)
			var fe *token.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.kind, fe.Kind)
			assert.True(t, tok.IsZero())
		})
	}
}

func TestParse_ErrorDetail(t *testing.T) {
	_, err := token.Parse[token.Hex32]("abc")
	var fe *token.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 32, fe.Want)
	assert.Equal(t, 3, fe.Got)
	assert.False(t, errors.Is(err, token.ErrCharacter))
	assert.Equal(t, "token: invalid length: want 32, got 3", err.Error())

	_, err = token.Parse[token.Hex32]("0123456789abcdef0123456789abcdeF")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 31, fe.Offset)
	assert.Equal(t, 'F', fe.Char)
	assert.False(t, errors.Is(err, token.ErrLength))
	assert.Equal(t, "token: invalid character 'F' at offset 31", err.Error())
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { token.MustParse[token.Alnum12]("abcdefGHIJ12") })
	assert.PanicsWithValue(t,
		"token: MustParse(\"abc\"): token: invalid length: want 12, got 3",
		func() { token.MustParse[token.Alnum12]("abc") })
}

func TestBadShape(t *testing.T) {
	_, err := token.SpecOf[badShape]()
	assert.ErrorIs(t, err, token.ErrBadShape)
	_, err = token.Parse[badShape]("aaaa")
	assert.ErrorIs(t, err, token.ErrBadShape)
	_, err = token.New[badShape]()
	assert.ErrorIs(t, err, token.ErrBadShape)
	_, err = token.SpecOf[token.Shape]()
	assert.ErrorIs(t, err, token.ErrBadShape)
}

func TestSpecValidate(t *testing.T) {
	cases := []struct {
		name string
		sp   token.Spec
		ok   bool
	}{
		{"ok", token.Spec{Size: 4, Alphabet: "ab"}, true},
		{"zero size", token.Spec{Size: 0, Alphabet: "ab"}, false},
		{"one letter", token.Spec{Size: 4, Alphabet: "a"}, false},
		{"duplicate", token.Spec{Size: 4, Alphabet: "abca"}, false},
		{"non-ascii", token.Spec{Size: 4, Alphabet: "abé"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sp.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, token.ErrBadShape)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a := token.MustParse[token.Alnum12]("AAAAAAAAAAAA")
	b := token.MustParse[token.Alnum12]("AAAAAAAAAAAB")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(token.MustParse[token.Alnum12]("AAAAAAAAAAAA")))
	assert.True(t, a == token.MustParse[token.Alnum12]("AAAAAAAAAAAA"))
}

// Generate a 12 character alphanumeric token, serialize it, parse it back.
func TestRoundTrip_Alnum12(t *testing.T) {
	for i := 0; i < 100; i++ {
		orig := token.MustNew[token.Alnum12]()

		data, err := json.Marshal(orig)
		require.NoError(t, err)
		assert.Equal(t, "\""+orig.String()+"\"", string(data))

		var back token.Token[token.Alnum12]
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, orig, back)

		parsed, err := token.Parse[token.Alnum12](orig.String())
		require.NoError(t, err)
		assert.Equal(t, orig, parsed)
	}
}

func TestUnmarshal_Rejects(t *testing.T) {
	var tok token.Token[token.Alnum12]
	err := json.Unmarshal([]byte("\"short\""), &tok)
	assert.ErrorIs(t, err, token.ErrLength)
	assert.True(t, tok.IsZero())
}

func TestSQL(t *testing.T) {
	orig := token.MustNew[token.Hex32]()
	v, err := orig.Value()
	require.NoError(t, err)

	var back token.Token[token.Hex32]
	require.NoError(t, back.Scan(v))
	assert.Equal(t, orig, back)
	require.NoError(t, back.Scan([]byte(orig.String())))
	assert.Equal(t, orig, back)

	assert.Error(t, back.Scan(42))
	assert.ErrorIs(t, back.Scan("zz"), token.ErrLength)
}

func TestValidate(t *testing.T) {
	var zero token.Token[token.Nano]
	assert.ErrorIs(t, zero.Validate(), token.ErrLength)
	assert.NoError(t, token.MustNew[token.Nano]().Validate())
}

func TestLookupShape(t *testing.T) {
	assert.Equal(t, []string{"alnum12", "hex32", "nano"}, token.Shapes())

	for _, name := range token.Shapes() {
		sp, ok := token.LookupShape(name)
		require.True(t, ok, name)
		assert.NoError(t, sp.Validate())
	}
	sp, _ := token.LookupShape("nano")
	want, err := token.SpecOf[token.Nano]()
	require.NoError(t, err)
	assert.Equal(t, want, sp)

	_, ok := token.LookupShape("nope")
	assert.False(t, ok)
}

func TestSpecGenerate_BinaryAlphabet(t *testing.T) {
	sp := token.Spec{Size: 8, Alphabet: "01"}
	s, err := sp.Generate(&cycle{pat: []byte{0, 1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "01010101", s)
	assert.NoError(t, sp.Check(s))
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = token.New[token.Nano]()
	}
}

func BenchmarkParse(b *testing.B) {
	s := token.MustNew[token.Nano]().String()
	for i := 0; i < b.N; i++ {
		_, _ = token.Parse[token.Nano](s)
	}
}
