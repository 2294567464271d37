package errmodel

const (
	firstSymbol = 0x21
	lastSymbol  = 0x7e
)

var alphabet = func() []rune {
	out := make([]rune, 0, lastSymbol-firstSymbol+1)
	for r := rune(firstSymbol); r <= lastSymbol; r++ {
		out = append(out, r)
	}
	return out
}()

// Alphabet returns the printable ASCII symbols used for prompts, in order.
func Alphabet() []rune {
	out := make([]rune, len(alphabet))
	copy(out, alphabet)
	return out
}

// InAlphabet reports whether r can appear in a prompt.
func InAlphabet(r rune) bool {
	return r >= firstSymbol && r <= lastSymbol
}
