package scoring

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

const epsilon = 1e-9

// TestRank_SortedAndComplete checks that every resume is ranked and scores never increase
func TestRank_SortedAndComplete(t *testing.T) {
	resumes := []models.Resume{
		{Filename: "chef.pdf", Text: "Head chef with pastry and kitchen management experience"},
		{Filename: "gopher.pdf", Text: "Senior Go developer building backend services on Kubernetes"},
		{Filename: "data.pdf", Text: "Python data scientist, some Go and backend exposure"},
		{Filename: "empty.pdf", Text: "x"},
	}

	ranked, err := NewScorer(nil).Rank("Go backend developer with Kubernetes experience", resumes)
	if err != nil {
		t.Fatalf("Rank() returned error: %v", err)
	}

	if len(ranked) != len(resumes) {
		t.Fatalf("Expected %d results, got %d", len(resumes), len(ranked))
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("Scores not sorted: position %d (%f) > position %d (%f)", i, ranked[i].Score, i-1, ranked[i-1].Score)
		}
	}

	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("Position %d has rank %d", i, r.Rank)
		}
	}

	if ranked[0].Filename != "gopher.pdf" {
		t.Errorf("Expected gopher.pdf to rank first, got %s", ranked[0].Filename)
	}
}

// TestRank_IdenticalTextScoresOne tests that a resume equal to the job description gets the maximum score
func TestRank_IdenticalTextScoresOne(t *testing.T) {
	jd := "Experienced payroll specialist familiar with benefits administration"
	resumes := []models.Resume{
		{Filename: "other.pdf", Text: "Warehouse forklift operator"},
		{Filename: "match.pdf", Text: jd},
	}

	ranked, err := NewScorer(nil).Rank(jd, resumes)
	if err != nil {
		t.Fatalf("Rank() returned error: %v", err)
	}

	if ranked[0].Filename != "match.pdf" {
		t.Fatalf("Expected match.pdf first, got %s", ranked[0].Filename)
	}
	if math.Abs(ranked[0].Score-1.0) > epsilon {
		t.Errorf("Expected score 1.0, got %f", ranked[0].Score)
	}
}

// TestRank_KnownValue pins the smoothed IDF weighting against a hand-computed similarity
func TestRank_KnownValue(t *testing.T) {
	resumes := []models.Resume{
		{Filename: "a.pdf", Text: "golang developer"},
		{Filename: "b.pdf", Text: "python developer"},
	}

	ranked, err := NewScorer(nil).Rank("golang developer", resumes)
	if err != nil {
		t.Fatalf("Rank() returned error: %v", err)
	}

	// idf(golang) = ln(4/3)+1, idf(developer) = 1, idf(python) = ln(2)+1
	g := math.Log(4.0/3.0) + 1
	p := math.Log(2.0) + 1
	want := 1 / (math.Sqrt(g*g+1) * math.Sqrt(p*p+1))

	if math.Abs(ranked[1].Score-want) > epsilon {
		t.Errorf("Expected b.pdf score %f, got %f", want, ranked[1].Score)
	}
	if FormatScore(ranked[1].Score) != "0.31" {
		t.Errorf("Expected formatted score 0.31, got %s", FormatScore(ranked[1].Score))
	}
}

// TestRank_TiesKeepUploadOrder tests that equal scores preserve input order
func TestRank_TiesKeepUploadOrder(t *testing.T) {
	resumes := []models.Resume{
		{Filename: "first.pdf", Text: "forklift operator"},
		{Filename: "second.pdf", Text: "forklift operator"},
		{Filename: "third.pdf", Text: "forklift operator"},
	}

	ranked, err := NewScorer(nil).Rank("accountant", resumes)
	if err != nil {
		t.Fatalf("Rank() returned error: %v", err)
	}

	for i, want := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		if ranked[i].Filename != want {
			t.Errorf("Position %d: got %s, want %s", i, ranked[i].Filename, want)
		}
		if ranked[i].Score != 0 {
			t.Errorf("Expected zero score for %s, got %f", ranked[i].Filename, ranked[i].Score)
		}
	}
}

// TestRank_Warnings tests the empty-input warnings
func TestRank_Warnings(t *testing.T) {
	resumes := []models.Resume{{Filename: "a.pdf", Text: "some resume text"}}

	tests := []struct {
		name    string
		jd      string
		resumes []models.Resume
		want    error
	}{
		{name: "No resumes", jd: "Engineer", resumes: nil, want: ErrNoResumes},
		{name: "No resumes and no job description", jd: "", resumes: nil, want: ErrNoResumes},
		{name: "Empty job description", jd: "", resumes: resumes, want: ErrNoJobDescription},
		{name: "Whitespace job description", jd: "  \n\t", resumes: resumes, want: ErrNoJobDescription},
		{name: "No tokens anywhere", jd: "a", resumes: []models.Resume{{Filename: "b.pdf", Text: "b ? !"}}, want: ErrEmptyVocabulary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := NewScorer(nil).Rank(tt.jd, tt.resumes)
			if !errors.Is(err, tt.want) {
				t.Errorf("Rank() error = %v, want %v", err, tt.want)
			}
			if ranked != nil {
				t.Errorf("Expected no results, got %d", len(ranked))
			}
			if !IsWarning(err) {
				t.Errorf("IsWarning(%v) = false", err)
			}
		})
	}
}

func TestIsWarning_OtherError(t *testing.T) {
	if IsWarning(fmt.Errorf("disk on fire")) {
		t.Error("IsWarning() should be false for unrelated errors")
	}
}
