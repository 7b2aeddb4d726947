package scoring

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

var (
	// ErrNoResumes is returned when ranking is requested before any upload
	ErrNoResumes = errors.New("Please upload resumes first.")
	// ErrNoJobDescription is returned when the job description is blank
	ErrNoJobDescription = errors.New("Please enter a job description.")
)

// Scorer ranks resumes by TF-IDF cosine similarity to a job description
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a new scorer instance
func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		logger: logger.With("module", "scoring"),
	}
}

// Rank scores every resume against jobDescription and returns them best first.
// Resumes with equal scores keep their upload order.
func (s *Scorer) Rank(jobDescription string, resumes []models.Resume) ([]models.RankedResume, error) {
	if len(resumes) == 0 {
		return nil, ErrNoResumes
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrNoJobDescription
	}

	docs := make([]string, 0, len(resumes)+1)
	docs = append(docs, jobDescription)
	for _, r := range resumes {
		docs = append(docs, r.Text)
	}

	var vectorizer Vectorizer
	vectors, err := vectorizer.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize documents: %w", err)
	}

	jobVec := vectors[0]
	ranked := make([]models.RankedResume, len(resumes))
	for i, r := range resumes {
		ranked[i] = models.RankedResume{
			Filename: r.Filename,
			Score:    CosineSimilarity(jobVec, vectors[i+1]),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	s.logger.Debug("Ranked resumes", "resumes", len(resumes), "vocabulary", vectorizer.VocabularySize())

	return ranked, nil
}

// FormatScore renders a similarity score the way it is shown to users
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// IsWarning reports whether err is a user-facing ranking warning rather than a failure
func IsWarning(err error) bool {
	return errors.Is(err, ErrNoResumes) || errors.Is(err, ErrNoJobDescription) || errors.Is(err, ErrEmptyVocabulary)
}
