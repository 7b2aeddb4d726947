package scoring

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when no document contains a single token
var ErrEmptyVocabulary = errors.New("empty vocabulary: the job description and resumes contain no words")

// tokenPattern matches runs of two or more word characters. Combining marks
// are not word characters, so decomposed accents split a token.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector is a sparse document vector indexed by vocabulary position
type Vector map[int]float64

// Vectorizer converts documents into L2-normalised TF-IDF vectors
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// Tokenize lowercases text and splits it into tokens
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// FitTransform learns the vocabulary and IDF weights from docs and returns their vectors
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		tokens := Tokenize(doc)
		tokenized[i] = tokens

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Terms are indexed in sorted order so vectors are reproducible
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF: as if one extra document contained every term once
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = v.weigh(tokens)
	}

	return vectors, nil
}

// Transform vectorizes text with the fitted vocabulary; unknown terms are ignored
func (v *Vectorizer) Transform(text string) Vector {
	return v.weigh(Tokenize(text))
}

// VocabularySize returns the number of fitted terms
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

func (v *Vectorizer) weigh(tokens []string) Vector {
	vec := make(Vector)
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx, count := range vec {
		w := count * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}

	return vec
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 if either is zero
func CosineSimilarity(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, na, nb float64
	for idx, x := range a {
		dot += x * b[idx]
		na += x * x
	}
	for _, y := range b {
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
