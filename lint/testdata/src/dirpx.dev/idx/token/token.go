package token

type Shape interface {
	Size() int
	Alphabet() string
}

const NanoAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type Nano struct{}

func (Nano) Size() int        { return 21 }
func (Nano) Alphabet() string { return NanoAlphabet }

type Token[S Shape] struct{ s string }

func MustParse[S Shape](lit string) Token[S] { return Token[S]{s: lit} }
