package scoring

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Lowercases and splits on punctuation",
			input: "Senior Go-Developer, 5+ years",
			want:  []string{"senior", "go", "developer", "years"},
		},
		{
			name:  "Drops single characters",
			input: "C and R a b",
			want:  []string{"and"},
		},
		{
			name:  "Keeps underscores and digits",
			input: "snake_case v2 2024",
			want:  []string{"snake_case", "v2", "2024"},
		},
		{
			name:  "Unicode letters",
			input: "Café Über naïve",
			want:  []string{"café", "über", "naïve"},
		},
		{
			name:  "Decomposed accents",
			input: "nai\u0308ve Cafe\u0301",
			want:  []string{"nai", "ve", "cafe"},
		},
		{
			name:  "Empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFitTransform_Normalised tests that non-empty vectors have unit length
func TestFitTransform_Normalised(t *testing.T) {
	var v Vectorizer
	vectors, err := v.FitTransform([]string{"hello world hello", "world peace", "!!"})
	if err != nil {
		t.Fatalf("FitTransform() returned error: %v", err)
	}

	for i, vec := range vectors[:2] {
		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if math.Abs(norm-1) > 1e-12 {
			t.Errorf("Vector %d has squared norm %f, want 1", i, norm)
		}
	}

	if len(vectors[2]) != 0 {
		t.Errorf("Expected empty vector for a document without tokens, got %v", vectors[2])
	}

	if v.VocabularySize() != 3 {
		t.Errorf("Expected vocabulary of 3 terms, got %d", v.VocabularySize())
	}
}

func TestFitTransform_EmptyVocabulary(t *testing.T) {
	var v Vectorizer
	if _, err := v.FitTransform([]string{"", "a"}); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("Expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestTransform_IgnoresUnknownTerms(t *testing.T) {
	var v Vectorizer
	if _, err := v.FitTransform([]string{"golang developer"}); err != nil {
		t.Fatalf("FitTransform() returned error: %v", err)
	}

	vec := v.Transform("golang wizard")
	if len(vec) != 1 {
		t.Errorf("Expected one known term, got %v", vec)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{name: "Identical", a: Vector{0: 1, 1: 2}, b: Vector{0: 1, 1: 2}, want: 1},
		{name: "Orthogonal", a: Vector{0: 1}, b: Vector{1: 1}, want: 0},
		{name: "Scaled", a: Vector{0: 3, 1: 4}, b: Vector{0: 6, 1: 8}, want: 1},
		{name: "Zero vector", a: Vector{}, b: Vector{0: 1}, want: 0},
		{name: "Partial overlap", a: Vector{0: 1, 1: 1}, b: Vector{0: 1}, want: 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}
