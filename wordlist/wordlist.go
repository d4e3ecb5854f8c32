// Package wordlist reads the engine's inputs from disk: a guess vocabulary
// with one word per line, and a word frequency table in CSV.
package wordlist

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	wglcache "github.com/domino14/word-golib/cache"
	"github.com/rs/zerolog/log"

	"github.com/domino14/opener/lexicon"
)

// File name patterns. The date in the name sorts lexically.
const (
	WordsGlob   = "wordle-words-*.txt"
	WeightsGlob = "words-frequencies-*.csv"
)

var ErrNoList = errors.New("no word list found")

// LoadWords reads one word per line. Blank lines are ignored; anything that
// is not a five-letter word is skipped and logged.
func LoadWords(r io.Reader) ([]string, error) {
	var words []string
	skipped := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		w, err := lexicon.Normalize(line)
		if err != nil {
			skipped++
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("invalid-words-in-list")
	}
	return words, nil
}

// LoadWordsFile reads a word list from a local path or any location the
// word-golib file cache can open.
func LoadWordsFile(path string) ([]string, error) {
	f, _, err := wglcache.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWords(f)
}

// LoadWeights reads a frequency table. With a header, the word and
// frequency columns are found by name; without one, they are the first
// two columns. Rows with a word that isn't five letters are skipped.
func LoadWeights(r io.Reader) (lexicon.Weights, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return lexicon.Weights{}, nil
	}

	wordCol, freqCol := 0, 1
	start := 0
	header := records[0]
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "word":
			wordCol = i
			start = 1
		case "frequency", "freq", "weight":
			freqCol = i
			start = 1
		}
	}

	raw := map[string]float64{}
	skipped := 0
	for i, rec := range records[start:] {
		if len(rec) <= wordCol || len(rec) <= freqCol {
			return nil, fmt.Errorf("frequency row %d: want at least %d columns, got %d",
				i+start+1, max(wordCol, freqCol)+1, len(rec))
		}
		freq, err := strconv.ParseFloat(strings.TrimSpace(rec[freqCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("frequency row %d: %w", i+start+1, err)
		}
		word, err := lexicon.Normalize(rec[wordCol])
		if err != nil {
			skipped++
			continue
		}
		raw[word] = freq
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("invalid-words-in-frequency-table")
	}
	// a valid word with a bad weight is a broken table
	weights, err := lexicon.NewWeights(raw)
	if err != nil {
		return nil, fmt.Errorf("frequency table: %w", err)
	}
	return weights, nil
}

func LoadWeightsFile(path string) (lexicon.Weights, error) {
	f, _, err := wglcache.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWeights(f)
}

// Latest returns the newest file in dir matching glob.
func Latest(dir, glob string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrNoList, glob, dir)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches[0], nil
}

// Answers picks the answer set and its weights from a vocabulary. With no
// frequency table every vocabulary word is an answer and the weights are
// nil. With one, answers are the vocabulary words in the table.
func Answers(vocabulary []string, freqs lexicon.Weights) ([]string, lexicon.Weights) {
	if freqs == nil {
		return vocabulary, nil
	}
	answers := []string{}
	for _, w := range vocabulary {
		if _, ok := freqs[w]; ok {
			answers = append(answers, w)
		}
	}
	return answers, freqs
}
