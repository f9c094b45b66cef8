package scam

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// tokenPattern matches runs of two or more word characters, the default
// TF-IDF tokenizer, extended to non-ASCII letters and digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer is an exported TF-IDF transform.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   bool           `json:"lowercase"`
	NgramRange  [2]int         `json:"ngram_range"`
	SublinearTF bool           `json:"sublinear_tf"`
	Norm        string         `json:"norm"`
}

func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return errors.New("vectorizer: empty vocabulary")
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("vectorizer: %d idf weights for %d terms", len(v.IDF), len(v.Vocabulary))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("vectorizer: term %q has out-of-range index %d", term, idx)
		}
	}
	if v.NgramRange == [2]int{} {
		v.NgramRange = [2]int{1, 1}
	}
	if v.NgramRange[0] < 1 || v.NgramRange[1] < v.NgramRange[0] {
		return fmt.Errorf("vectorizer: invalid ngram_range %v", v.NgramRange)
	}
	switch v.Norm {
	case "", "l2", "l1", "none":
	default:
		return fmt.Errorf("vectorizer: unsupported norm %q", v.Norm)
	}
	return nil
}

// Features returns the number of vocabulary columns.
func (v *Vectorizer) Features() int {
	return len(v.IDF)
}

// Tokens splits text the way the vectorizer was fitted and expands n-grams.
func (v *Vectorizer) Tokens(text string) []string {
	if v.Lowercase {
		text = strings.ToLower(text)
	}
	words := tokenPattern.FindAllString(text, -1)
	lo, hi := v.NgramRange[0], v.NgramRange[1]
	if lo == 0 {
		lo, hi = 1, 1
	}
	if lo == 1 && hi == 1 {
		return words
	}
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}

// Transform maps text to a dense TF-IDF row. Out-of-vocabulary tokens are
// dropped.
func (v *Vectorizer) Transform(text string) []float64 {
	row := make([]float64, v.Features())
	for _, tok := range v.Tokens(text) {
		if idx, ok := v.Vocabulary[tok]; ok {
			row[idx]++
		}
	}
	for i, tf := range row {
		if tf == 0 {
			continue
		}
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		row[i] = tf * v.IDF[i]
	}
	switch v.Norm {
	case "", "l2":
		if n := floats.Norm(row, 2); n > 0 {
			floats.Scale(1/n, row)
		}
	case "l1":
		if n := floats.Norm(row, 1); n > 0 {
			floats.Scale(1/n, row)
		}
	}
	return row
}
