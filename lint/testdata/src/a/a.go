package a

import (
	"dirpx.dev/idx"
	"dirpx.dev/idx/token"
)

type Pin struct{} // want Pin:"size=4 alphabet=0123456789"

func (Pin) Size() int        { return 4 }
func (Pin) Alphabet() string { return "0123456789" }

type Broken struct{}

func (Broken) Size() int        { return 0 } // want `Broken is not a valid token shape`
func (Broken) Alphabet() string { return "ab" }

var n = 3

type Dynamic struct{}

func (Dynamic) Size() int        { return n }
func (Dynamic) Alphabet() string { return "ab" }

type User struct{}

const pin = "4321"

var (
	_ = token.MustParse[token.Nano]("V1StGXR8_Z5jdHi6B-myT")
	_ = token.MustParse[token.Nano]("short")                 // want `invalid token.Nano literal "short": token: invalid length: want 21, got 5`
	_ = token.MustParse[Pin]("1234")
	_ = token.MustParse[Pin](pin)
	_ = token.MustParse[Pin]("12a4")                         // want `invalid a.Pin literal "12a4": token: invalid character 'a' at offset 2`
	_ = idx.MustParse[User, token.Token[Pin]]("12345")       // want `invalid a.Pin literal "12345": token: invalid length: want 4, got 5`
	_ = idx.MustParse[User, token.Token[token.Nano]]("V1StGXR8_Z5jdHi6B-myT")
	_ = idx.MustParse[User, string]("anything")
	_ = token.MustParse[Dynamic]("abc")
)

func parse(s string) {
	_ = token.MustParse[Pin](s) // want `argument to MustParse is not a constant`
	_ = idx.MustParse[User, string](s)
}
