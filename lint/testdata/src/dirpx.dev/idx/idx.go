package idx

type ID[D any, R comparable] struct{ r R }

func MustParse[D any, R comparable](lit string) ID[D, R] {
	var r R
	return ID[D, R]{r: r}
}
