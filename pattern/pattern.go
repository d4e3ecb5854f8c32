// Package pattern computes the feedback a puzzle gives for a guess against
// an answer, and groups candidate answers by that feedback.
package pattern

import (
	"fmt"
	"strings"

	"github.com/domino14/opener/lexicon"
)

// Symbol is the feedback for a single letter position.
type Symbol uint8

const (
	Miss Symbol = iota
	Present
	Hit
)

func (s Symbol) String() string {
	switch s {
	case Hit:
		return "hit"
	case Present:
		return "present"
	}
	return "miss"
}

// Pattern is the feedback for a whole guess, one Symbol per position.
type Pattern [lexicon.WordLength]Symbol

// NumPatterns is the number of distinct patterns (3^WordLength).
const NumPatterns = 243

// Compute returns the pattern for guess against answer. Both are
// case-insensitive and must be exactly five letters.
func Compute(guess, answer string) (Pattern, error) {
	var p Pattern
	g, ok := fold(guess)
	if !ok {
		return p, fmt.Errorf("%w: guess %q", lexicon.ErrInvalidInput, guess)
	}
	a, ok := fold(answer)
	if !ok {
		return p, fmt.Errorf("%w: answer %q", lexicon.ErrInvalidInput, answer)
	}

	// Letters of the answer not yet claimed by an exact match.
	var remaining [26]int8
	for i := range a {
		if g[i] == a[i] {
			p[i] = Hit
		} else {
			remaining[a[i]-'a']++
		}
	}
	for i := range g {
		if p[i] == Hit {
			continue
		}
		if remaining[g[i]-'a'] > 0 {
			p[i] = Present
			remaining[g[i]-'a']--
		}
	}
	return p, nil
}

// MustCompute is Compute for words already known to be valid.
func MustCompute(guess, answer string) Pattern {
	p, err := Compute(guess, answer)
	if err != nil {
		panic(err)
	}
	return p
}

// fold lowercases an ASCII word without allocating.
func fold(s string) ([lexicon.WordLength]byte, bool) {
	var out [lexicon.WordLength]byte
	if len(s) != lexicon.WordLength {
		return out, false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			return out, false
		}
		out[i] = c
	}
	return out, true
}

// Solved is true if every position is a hit.
func (p Pattern) Solved() bool {
	for _, s := range p {
		if s != Hit {
			return false
		}
	}
	return true
}

// Code is a dense index in [0, NumPatterns).
func (p Pattern) Code() int {
	c := 0
	for _, s := range p {
		c = c*3 + int(s)
	}
	return c
}

// String renders the pattern with the colored squares players share.
func (p Pattern) String() string {
	var sb strings.Builder
	for _, s := range p {
		switch s {
		case Hit:
			sb.WriteString("🟩")
		case Present:
			sb.WriteString("🟨")
		default:
			sb.WriteString("⬛")
		}
	}
	return sb.String()
}

// Letters renders the pattern as g (hit), y (present), b (miss).
func (p Pattern) Letters() string {
	out := make([]byte, len(p))
	for i, s := range p {
		switch s {
		case Hit:
			out[i] = 'g'
		case Present:
			out[i] = 'y'
		default:
			out[i] = 'b'
		}
	}
	return string(out)
}

// Parse reads a pattern written as squares, as g/y/b letters, as 2/1/0
// digits, or as +/~/- marks. A dot or x also means a miss.
func Parse(s string) (Pattern, error) {
	var p Pattern
	i := 0
	for _, r := range strings.TrimSpace(s) {
		if i >= len(p) {
			return p, fmt.Errorf("%w: pattern %q is too long", lexicon.ErrInvalidInput, s)
		}
		switch r {
		case 'g', 'G', '2', '+', '🟩':
			p[i] = Hit
		case 'y', 'Y', '1', '~', '🟨':
			p[i] = Present
		case 'b', 'B', '0', '-', '.', 'x', 'X', '⬛', '⬜':
			p[i] = Miss
		default:
			return p, fmt.Errorf("%w: bad pattern symbol %q in %q", lexicon.ErrInvalidInput, r, s)
		}
		i++
	}
	if i != len(p) {
		return p, fmt.Errorf("%w: pattern %q is too short", lexicon.ErrInvalidInput, s)
	}
	return p, nil
}
