package lexicon

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestNormalize(t *testing.T) {
	is := is.New(t)
	type tc struct {
		in    string
		out   string
		valid bool
	}
	cases := []tc{
		{"crate", "crate", true},
		{"CRATE", "crate", true},
		{"  Trace\n", "trace", true},
		{"crat", "", false},
		{"crates", "", false},
		{"cr4te", "", false},
		{"crâte", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		w, err := Normalize(c.in)
		if c.valid {
			is.NoErr(err)
			is.Equal(w, c.out)
		} else {
			is.True(errors.Is(err, ErrInvalidInput))
		}
	}
}

func TestNewVocabularyDedupes(t *testing.T) {
	is := is.New(t)
	v, err := NewVocabulary([]string{"crate", "TRACE", "Crate", "react", "trace"})
	is.NoErr(err)
	is.Equal(v.Words(), []string{"crate", "trace", "react"})
	is.Equal(v.Len(), 3)
	is.True(v.Contains("REACT"))
	is.True(!v.Contains("stare"))
}

func TestNewVocabularyRejectsBadWord(t *testing.T) {
	is := is.New(t)
	_, err := NewVocabulary([]string{"crate", "no"})
	is.True(errors.Is(err, ErrInvalidInput))
}

func TestComplete(t *testing.T) {
	is := is.New(t)
	v, err := NewVocabulary([]string{"stare", "crate", "crane", "cramp", "trace"})
	is.NoErr(err)
	is.Equal(v.Complete("cra", 0), []string{"cramp", "crane", "crate"})
	is.Equal(v.Complete("CRA", 2), []string{"cramp", "crane"})
	is.Equal(len(v.Complete("zz", 0)), 0)
}

func TestWeightsFallback(t *testing.T) {
	is := is.New(t)
	w, err := NewWeights(map[string]float64{"Crate": 3, "trace": 0.5})
	is.NoErr(err)
	is.Equal(w.Of("crate"), 3.0)
	is.Equal(w.Of("stare"), DefaultWeight)
	is.Equal(w.Total([]string{"crate", "trace", "stare"}), 4.5)

	var none Weights
	is.Equal(none.Of("crate"), DefaultWeight)
	is.Equal(none.Total([]string{"crate", "trace"}), 2.0)
}

func TestWeightsRejectNegative(t *testing.T) {
	is := is.New(t)
	w := Weights{}
	err := w.Set("crate", -1)
	is.True(errors.Is(err, ErrInvalidInput))
}

func TestTopK(t *testing.T) {
	is := is.New(t)
	words := []string{"aaaaa", "bbbbb", "ccccc", "ddddd"}

	is.Equal(TopK(words, nil, 2), []string{"aaaaa", "bbbbb"})
	is.Equal(TopK(words, nil, 10), words)
	is.Equal(TopK(words, nil, 0), []string{})

	w := Weights{"ccccc": 5, "ddddd": 2}
	// bbbbb and aaaaa both fall back to 1.0 and keep their order.
	is.Equal(TopK(words, w, 4), []string{"ccccc", "ddddd", "aaaaa", "bbbbb"})
	is.Equal(TopK(words, w, 1), []string{"ccccc"})
	// input untouched
	is.Equal(words, []string{"aaaaa", "bbbbb", "ccccc", "ddddd"})
}
