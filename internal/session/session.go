package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/google/uuid"
)

// Session holds one user's resumes, last ranking and HR records
type Session struct {
	mu sync.Mutex

	id             string
	createdAt      time.Time
	updatedAt      time.Time
	resumes        []models.Resume
	jobDescription string
	ranking        []models.RankedResume
	payroll        []models.PayrollEntry
	performance    []models.PerformanceEntry
	interviews     []models.Interview
}

// Snapshot is the serialised form of a session
type Snapshot struct {
	ID             string                    `json:"id"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	Resumes        []models.Resume           `json:"resumes"`
	JobDescription string                    `json:"job_description,omitempty"`
	Ranking        []models.RankedResume     `json:"ranking,omitempty"`
	Payroll        []models.PayrollEntry     `json:"payroll,omitempty"`
	Performance    []models.PerformanceEntry `json:"performance,omitempty"`
	Interviews     []models.Interview        `json:"interviews,omitempty"`
}

// New creates an empty session with a random id
func New() *Session {
	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		createdAt: now,
		updatedAt: now,
	}
}

// FromSnapshot restores a session
func FromSnapshot(snap Snapshot) *Session {
	return &Session{
		id:             snap.ID,
		createdAt:      snap.CreatedAt,
		updatedAt:      snap.UpdatedAt,
		resumes:        snap.Resumes,
		jobDescription: snap.JobDescription,
		ranking:        snap.Ranking,
		payroll:        snap.Payroll,
		performance:    snap.Performance,
		interviews:     snap.Interviews,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// UpdatedAt returns the time of the last change
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

// AddResume stores a resume. A resume with the same filename is replaced in
// place and true is returned. Any stored ranking is dropped since it no
// longer matches the resume set; the job description is kept.
func (s *Session) AddResume(r models.Resume) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	s.ranking = nil

	for i := range s.resumes {
		if s.resumes[i].Filename == r.Filename {
			s.resumes[i] = r
			return true
		}
	}
	s.resumes = append(s.resumes, r)
	return false
}

// Resumes returns the uploaded resumes in upload order
func (s *Session) Resumes() []models.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Resume(nil), s.resumes...)
}

// ClearResumes drops every resume and the ranking built from them
func (s *Session) ClearResumes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes = nil
	s.ranking = nil
	s.jobDescription = ""
	s.touch()
}

// SetRanking records the latest ranking and the job description it was built for
func (s *Session) SetRanking(jobDescription string, ranking []models.RankedResume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = jobDescription
	s.ranking = append([]models.RankedResume(nil), ranking...)
	s.touch()
}

// Ranking returns the latest ranking and its job description
func (s *Session) Ranking() (string, []models.RankedResume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription, append([]models.RankedResume(nil), s.ranking...)
}

// AddPayroll appends a payroll entry
func (s *Session) AddPayroll(e models.PayrollEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payroll = append(s.payroll, e)
	s.touch()
}

// Payroll returns the payroll entries in insertion order
func (s *Session) Payroll() []models.PayrollEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PayrollEntry(nil), s.payroll...)
}

// AddPerformance appends a performance entry
func (s *Session) AddPerformance(e models.PerformanceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performance = append(s.performance, e)
	s.touch()
}

// Performance returns the performance entries in insertion order
func (s *Session) Performance() []models.PerformanceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PerformanceEntry(nil), s.performance...)
}

// AddInterview appends a scheduled interview
func (s *Session) AddInterview(iv models.Interview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviews = append(s.interviews, iv)
	s.touch()
}

// Interviews returns the scheduled interviews in insertion order
func (s *Session) Interviews() []models.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Interview(nil), s.interviews...)
}

// Snapshot copies the session state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.id,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
		Resumes:        append([]models.Resume(nil), s.resumes...),
		JobDescription: s.jobDescription,
		Ranking:        append([]models.RankedResume(nil), s.ranking...),
		Payroll:        append([]models.PayrollEntry(nil), s.payroll...),
		Performance:    append([]models.PerformanceEntry(nil), s.performance...),
		Interviews:     append([]models.Interview(nil), s.interviews...),
	}
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	restored := FromSnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = restored.id
	s.createdAt = restored.createdAt
	s.updatedAt = restored.updatedAt
	s.resumes = restored.resumes
	s.jobDescription = restored.jobDescription
	s.ranking = restored.ranking
	s.payroll = restored.payroll
	s.performance = restored.performance
	s.interviews = restored.interviews
	return nil
}
