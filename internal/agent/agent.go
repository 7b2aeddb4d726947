package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/chatbot"
	"github.com/fmuoria/HR-automation-system/internal/ingestion"
	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/fmuoria/HR-automation-system/internal/notify"
	"github.com/fmuoria/HR-automation-system/internal/records"
	"github.com/fmuoria/HR-automation-system/internal/scoring"
	"github.com/fmuoria/HR-automation-system/internal/session"
)

// PreviewLength is the number of characters shown per resume preview
const PreviewLength = 300

var (
	// ErrNoFiles is returned when an upload contains no files
	ErrNoFiles = errors.New("Please upload resumes first.")
	// ErrNoSubject is returned when a Gmail fetch has no subject to search for
	ErrNoSubject = errors.New("Please enter an email subject.")
	// ErrGmailNotConfigured is returned when no Gmail credentials are available
	ErrGmailNotConfigured = errors.New("Gmail is not configured")
)

// ProgressCallback is called to report progress during processing
type ProgressCallback func(current, total int, message string)

// GmailFetcher downloads resume attachments from a mailbox
type GmailFetcher interface {
	FetchResumes(ctx context.Context, subject string, progress ingestion.ProgressCallback) ([]ingestion.Upload, error)
}

// GmailFactory opens a Gmail connection on demand, since the OAuth flow may prompt the user
type GmailFactory func(ctx context.Context) (GmailFetcher, error)

// Options wires the agent's collaborators. Nil fields get defaults.
type Options struct {
	Files    *ingestion.FileHandler
	Scorer   *scoring.Scorer
	Bot      *chatbot.Bot
	Notifier notify.Notifier
	Gmail    GmailFactory
	Logger   *slog.Logger
	// Now is used for "not in the past" checks
	Now func() time.Time
}

// HRAgent orchestrates the HR workflows on a user session
type HRAgent struct {
	files    *ingestion.FileHandler
	scorer   *scoring.Scorer
	bot      *chatbot.Bot
	notifier notify.Notifier
	gmail    GmailFactory
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.RWMutex
	progressCb ProgressCallback
}

// New creates an HR agent
func New(opts Options) *HRAgent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &HRAgent{
		files:    opts.Files,
		scorer:   opts.Scorer,
		bot:      opts.Bot,
		notifier: opts.Notifier,
		gmail:    opts.Gmail,
		logger:   logger.With("module", "agent"),
		now:      opts.Now,
	}
	if a.files == nil {
		a.files = ingestion.NewFileHandler("uploads")
	}
	if a.scorer == nil {
		a.scorer = scoring.NewScorer(logger)
	}
	if a.bot == nil {
		a.bot = chatbot.New(nil, logger)
	}
	if a.notifier == nil {
		a.notifier = notify.Noop{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// IsWarning reports whether err is a user input problem rather than a failure
func IsWarning(err error) bool {
	return scoring.IsWarning(err) ||
		records.IsValidation(err) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrNoSubject)
}

// Files returns the handler for the resumes directory
func (a *HRAgent) Files() *ingestion.FileHandler {
	return a.files
}

// Bot returns the chatbot
func (a *HRAgent) Bot() *chatbot.Bot {
	return a.bot
}

// SetProgressCallback sets the progress callback function
func (a *HRAgent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set
func (a *HRAgent) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// UploadResumes extracts each upload into the session. Files that fail are
// reported in their result and do not stop the rest.
func (a *HRAgent) UploadResumes(ctx context.Context, sess *session.Session, uploads []ingestion.Upload) ([]models.UploadResult, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]models.UploadResult, 0, len(uploads))
	for i, up := range uploads {
		// Check for cancellation
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		a.reportProgress(i, len(uploads), fmt.Sprintf("Processing %s (%d/%d)", up.Filename, i+1, len(uploads)))

		resumes, res := ingestion.Process([]ingestion.Upload{up})
		for _, r := range resumes {
			if sess.AddResume(r) {
				a.logger.Info("Resume replaced", "file", r.Filename)
			}
		}
		if !res[0].OK {
			a.logger.Warn("Failed to process resume", "file", up.Filename, "message", res[0].Message)
		}
		results = append(results, res...)
	}

	a.reportProgress(len(uploads), len(uploads), "Upload complete!")
	a.logger.Info("Resumes uploaded", "files", len(uploads), "total", len(sess.Resumes()))
	return results, nil
}

// LoadResumesFromDir ingests every supported file of the resumes directory
func (a *HRAgent) LoadResumesFromDir(ctx context.Context, sess *session.Session) ([]models.UploadResult, error) {
	uploads, err := a.files.LoadUploads()
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no documents found in %s: %w", a.files.Dir(), ErrNoFiles)
	}

	a.logger.Info("Loading resumes from directory", "dir", a.files.Dir(), "files", len(uploads))
	return a.UploadResumes(ctx, sess, uploads)
}

// FetchResumesFromGmail downloads attachments of messages with the given subject
func (a *HRAgent) FetchResumesFromGmail(ctx context.Context, sess *session.Session, subject string) ([]models.UploadResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrNoSubject
	}
	if a.gmail == nil {
		return nil, ErrGmailNotConfigured
	}

	a.reportProgress(0, 100, "Initializing Gmail handler...")
	fetcher, err := a.gmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gmail handler: %w", err)
	}

	a.reportProgress(10, 100, "Fetching emails from Gmail...")
	uploads, err := fetcher.FetchResumes(ctx, subject, func(current, total int, message string) {
		// Map Gmail progress to 10-50%
		if total > 0 {
			a.reportProgress(10+40*current/total, 100, message)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Gmail attachments: %w", err)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no resume attachments found with subject %q: %w", subject, ErrNoFiles)
	}

	a.logger.Info("Fetched resumes from Gmail", "subject", subject, "files", len(uploads))
	return a.UploadResumes(ctx, sess, uploads)
}

// ClearResumes removes the session's resumes and ranking
func (a *HRAgent) ClearResumes(sess *session.Session) {
	sess.ClearResumes()
	a.logger.Info("Resumes cleared", "session", sess.ID())
}

// RankResumes ranks the session's resumes against the job description and
// keeps the ranking in the session
func (a *HRAgent) RankResumes(sess *session.Session, jobDescription string) ([]models.RankedResume, error) {
	ranking, err := a.scorer.Rank(jobDescription, sess.Resumes())
	if err != nil {
		return nil, err
	}

	sess.SetRanking(strings.TrimSpace(jobDescription), ranking)
	return ranking, nil
}

// Ask answers an HR question. With assist set, unknown questions go to the assistant.
func (a *HRAgent) Ask(ctx context.Context, query string, assist bool) models.ChatResponse {
	if assist {
		return a.bot.Assist(ctx, query)
	}
	return a.bot.Answer(query)
}

// ScheduleInterview validates and records an interview, then notifies the
// candidate. A failed notification is returned as a warning only.
func (a *HRAgent) ScheduleInterview(ctx context.Context, sess *session.Session, req models.InterviewRequest) (models.InterviewResponse, error) {
	iv, msg, err := records.ScheduleInterview(req, a.now())
	if err != nil {
		return models.InterviewResponse{}, err
	}
	iv.ScheduledAt = iv.ScheduledAt.UTC()
	sess.AddInterview(iv)

	resp := models.InterviewResponse{Message: msg, Interview: iv}
	if iv.CandidateEmail != "" {
		if err := a.notifier.InterviewScheduled(ctx, iv); err != nil {
			a.logger.Warn("Interview invitation not sent", "candidate", iv.CandidateName, "error", err)
			resp.Warning = fmt.Sprintf("Interview scheduled but the invitation was not sent: %v", err)
		}
	}
	return resp, nil
}

// AddPayroll computes and records a payroll entry
func (a *HRAgent) AddPayroll(sess *session.Session, req models.PayrollRequest) (models.PayrollResponse, error) {
	entry, msg, err := records.NewPayrollEntry(req.EmployeeName, req.BaseSalary, req.PerformanceBonus)
	if err != nil {
		return models.PayrollResponse{}, err
	}
	sess.AddPayroll(entry)
	return models.PayrollResponse{Message: msg, Entry: entry}, nil
}

// AddPerformance records a performance score
func (a *HRAgent) AddPerformance(sess *session.Session, req models.PerformanceRequest) (models.PerformanceResponse, error) {
	entry, msg, err := records.NewPerformanceEntry(req.EmployeeName, req.Score)
	if err != nil {
		return models.PerformanceResponse{}, err
	}
	sess.AddPerformance(entry)
	return models.PerformanceResponse{Message: msg, Entry: entry}, nil
}

// ResumePreviews returns the start of each uploaded resume
func (a *HRAgent) ResumePreviews(sess *session.Session) []models.ResumePreview {
	resumes := sess.Resumes()
	previews := make([]models.ResumePreview, 0, len(resumes))
	for _, r := range resumes {
		previews = append(previews, models.ResumePreview{
			Filename: r.Filename,
			Preview:  truncate(r.Text, PreviewLength),
		})
	}
	return previews
}

// Report summarises the session
func (a *HRAgent) Report(sess *session.Session) models.ReportResponse {
	jd, ranking := sess.Ranking()
	return models.ReportResponse{
		JobDescription: jd,
		Ranking:        ranking,
		Payroll:        sess.Payroll(),
		Performance:    sess.Performance(),
		Interviews:     sess.Interviews(),
		Timestamp:      a.now().Format(time.RFC3339),
	}
}

// truncate shortens a string to maxLen characters
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
