// Package lexicon holds the words the engine reasons about: normalization
// and validation at the input boundary, the ordered guess vocabulary, and
// the per-word weight table.
package lexicon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordLength is the number of letters in every guess and answer.
const WordLength = 5

var ErrInvalidInput = errors.New("invalid input")

// IsWord returns true if s is exactly WordLength lowercase ASCII letters.
func IsWord(s string) bool {
	if len(s) != WordLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Normalize trims and lowercases s and checks that what is left is a word.
func Normalize(s string) (string, error) {
	// A Caser keeps state, so it can't be shared across goroutines.
	w := cases.Lower(language.Und).String(strings.TrimSpace(s))
	if !IsWord(w) {
		return "", fmt.Errorf("%w: %q is not %d alphabetic characters",
			ErrInvalidInput, s, WordLength)
	}
	return w, nil
}

// Vocabulary is an ordered, deduplicated list of valid guesses.
type Vocabulary struct {
	words []string
	index map[string]int
	trie  *patricia.Trie
}

// NewVocabulary normalizes every word. Duplicates after normalization keep
// their first position.
func NewVocabulary(words []string) (*Vocabulary, error) {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		n, err := Normalize(w)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}
	normalized = lo.Uniq(normalized)

	v := &Vocabulary{
		words: normalized,
		index: make(map[string]int, len(normalized)),
		trie:  patricia.NewTrie(),
	}
	for i, w := range normalized {
		v.index[w] = i
		v.trie.Insert(patricia.Prefix(w), i)
	}
	return v, nil
}

// Words returns the vocabulary in order. The slice is shared; don't modify it.
func (v *Vocabulary) Words() []string {
	return v.words
}

func (v *Vocabulary) Len() int {
	return len(v.words)
}

func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[strings.ToLower(word)]
	return ok
}

// Complete returns up to max vocabulary words starting with prefix, in
// alphabetical order. A max of zero or less means no limit.
func (v *Vocabulary) Complete(prefix string, max int) []string {
	out := []string{}
	err := v.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)),
		func(p patricia.Prefix, item patricia.Item) error {
			out = append(out, string(p))
			return nil
		})
	if err != nil {
		return nil
	}
	// child order inside the trie is not guaranteed to be alphabetical.
	sort.Strings(out)
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
