package models

import "time"

// Resume is an uploaded resume keyed by its filename
type Resume struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// RankedResume is one entry of a ranking against a job description
type RankedResume struct {
	Rank     int     `json:"rank"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"` // cosine similarity, 0-1
}

// UploadResult reports the outcome of ingesting a single file
type UploadResult struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
}

// ResumePreview is a truncated view of an uploaded resume
type ResumePreview struct {
	Filename string `json:"filename"`
	Preview  string `json:"preview"`
}

// PayrollEntry is a computed payroll record
type PayrollEntry struct {
	EmployeeName string  `json:"employee_name"`
	BaseSalary   float64 `json:"base_salary"`
	TotalSalary  float64 `json:"total_salary"`
}

// PerformanceEntry is a performance score for an employee
type PerformanceEntry struct {
	EmployeeName string `json:"employee_name"`
	Score        int    `json:"score"` // 1-10
}

// Interview is a scheduled candidate interview
type Interview struct {
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email,omitempty"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Time           string    `json:"time"` // HH:MM:SS
	ScheduledAt    time.Time `json:"scheduled_at"`
}

// Chat answer sources
const (
	SourceCanned    = "canned"
	SourceAssistant = "assistant"
	SourceFallback  = "fallback"
)

// ChatResponse is the chatbot's reply to a query
type ChatResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Matched bool   `json:"matched"`
	Source  string `json:"source"`
}

// PayrollRequest is the payroll form payload
type PayrollRequest struct {
	EmployeeName     string  `json:"employee_name"`
	BaseSalary       float64 `json:"base_salary"`
	PerformanceBonus float64 `json:"performance_bonus"` // percent, 0-100
}

// PerformanceRequest is the performance form payload
type PerformanceRequest struct {
	EmployeeName string `json:"employee_name"`
	Score        int    `json:"score"`
}

// InterviewRequest is the interview scheduling form payload
type InterviewRequest struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email,omitempty"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// RankRequest is the payload for ranking uploaded resumes
type RankRequest struct {
	JobDescription string `json:"job_description"`
}

// ChatRequest is the chatbot query payload
type ChatRequest struct {
	Query  string `json:"query"`
	Assist bool   `json:"assist"`
}

// GmailRequest is the payload for fetching resumes from Gmail
type GmailRequest struct {
	Subject string `json:"subject"`
}

// ReportResponse summarises a session for export and display
type ReportResponse struct {
	JobDescription string             `json:"job_description"`
	Ranking        []RankedResume     `json:"ranking"`
	Payroll        []PayrollEntry     `json:"payroll"`
	Performance    []PerformanceEntry `json:"performance"`
	Interviews     []Interview        `json:"interviews"`
	Timestamp      string             `json:"timestamp"`
}

// InterviewResponse confirms a scheduled interview
type InterviewResponse struct {
	Message   string    `json:"message"`
	Interview Interview `json:"interview"`
	// Warning is set when the invitation e-mail could not be sent
	Warning string `json:"warning,omitempty"`
}

// PayrollResponse confirms an added payroll entry
type PayrollResponse struct {
	Message string       `json:"message"`
	Entry   PayrollEntry `json:"entry"`
}

// PerformanceResponse confirms an added performance entry
type PerformanceResponse struct {
	Message string           `json:"message"`
	Entry   PerformanceEntry `json:"entry"`
}
