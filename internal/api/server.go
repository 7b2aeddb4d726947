package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/agent"
	"github.com/fmuoria/HR-automation-system/internal/export"
	"github.com/fmuoria/HR-automation-system/internal/ingestion"
	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/fmuoria/HR-automation-system/internal/session"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "hr_session"

const (
	maxUploadSize = 32 << 20 // 32 MB
	maxJSONSize   = 1 << 20
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrEmptyQuery is returned for a blank chatbot question
var ErrEmptyQuery = errors.New("Please enter a question.")

// Server handles HTTP requests
type Server struct {
	agent  *agent.HRAgent
	store  session.Store
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(a *agent.HRAgent, store session.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		agent:  a,
		store:  store,
		logger: logger.With("module", "api"),
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /resumes", s.withSession(s.handleUploadResumes))
	mux.HandleFunc("GET /resumes", s.withSession(s.handleListResumes))
	mux.HandleFunc("DELETE /resumes", s.withSession(s.handleClearResumes))
	mux.HandleFunc("POST /resumes/gmail", s.withSession(s.handleGmail))
	mux.HandleFunc("POST /rank", s.withSession(s.handleRank))
	mux.HandleFunc("GET /rank/export", s.withSession(s.handleExportReport))
	mux.HandleFunc("POST /chatbot", s.withSession(s.handleChatbot))
	mux.HandleFunc("POST /interviews", s.withSession(s.handleScheduleInterview))
	mux.HandleFunc("GET /interviews", s.withSession(s.handleListInterviews))
	mux.HandleFunc("GET /interviews/export", s.withSession(s.handleExportInterviews))
	mux.HandleFunc("POST /payroll", s.withSession(s.handleAddPayroll))
	mux.HandleFunc("GET /payroll", s.withSession(s.handleListPayroll))
	mux.HandleFunc("GET /payroll/export", s.withSession(s.handleExportPayroll))
	mux.HandleFunc("POST /performance", s.withSession(s.handleAddPerformance))
	mux.HandleFunc("GET /performance", s.withSession(s.handleListPerformance))
	mux.HandleFunc("GET /performance/export", s.withSession(s.handleExportPerformance))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "HR Automation System",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /resumes":           "Upload resumes (multipart field 'files')",
			"GET /resumes":            "List uploaded resumes with previews",
			"DELETE /resumes":         "Clear uploaded resumes",
			"POST /resumes/gmail":     "Fetch resumes from Gmail by subject",
			"POST /rank":              "Rank resumes against a job description",
			"GET /rank/export":        "Download the session report as Excel",
			"POST /chatbot":           "Ask the HR chatbot",
			"POST /interviews":        "Schedule an interview",
			"GET /interviews":         "List scheduled interviews",
			"GET /interviews/export":  "Download interviews as CSV",
			"POST /payroll":           "Add a payroll entry",
			"GET /payroll":            "List payroll entries",
			"GET /payroll/export":     "Download payroll as CSV",
			"POST /performance":       "Add a performance score",
			"GET /performance":        "List performance scores",
			"GET /performance/export": "Download performance scores as CSV",
			"GET /health":             "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleUploadResumes extracts uploaded files into the session
func (s *Server) handleUploadResumes(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	keep := r.FormValue("keep") == "true"
	files := r.MultipartForm.File["files"]
	uploads := make([]ingestion.Upload, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to open uploaded file: %v", err))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read %s: %v", fileHeader.Filename, err))
			return
		}

		if keep {
			if _, err := s.agent.Files().SaveUploadedFile(fileHeader.Filename, bytes.NewReader(data)); err != nil {
				s.logger.Warn("Failed to keep uploaded file", "file", fileHeader.Filename, "error", err)
			}
		}
		uploads = append(uploads, ingestion.Upload{Filename: fileHeader.Filename, Data: data})
	}

	results, err := s.agent.UploadResumes(r.Context(), sess, uploads)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"resumes": len(sess.Resumes()),
	})
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"resumes": s.agent.ResumePreviews(sess),
	})
}

func (s *Server) handleClearResumes(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.agent.ClearResumes(sess)
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "cleared",
	})
}

func (s *Server) handleGmail(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.GmailRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	results, err := s.agent.FetchResumesFromGmail(r.Context(), sess, req.Subject)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"resumes": len(sess.Resumes()),
	})
}

// handleRank ranks the session's resumes
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.RankRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	ranking, err := s.agent.RankResumes(sess, req.JobDescription)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_description": strings.TrimSpace(req.JobDescription),
		"ranking":         ranking,
	})
}

// handleExportReport returns the session report as an Excel workbook
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, s.agent.Report(sess)); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondFile(w, xlsxMIME, "hr_report.xlsx", buf.Bytes())
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondWarning(w, ErrEmptyQuery.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, s.agent.Ask(r.Context(), req.Query, req.Assist))
}

func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.InterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.agent.ScheduleInterview(r.Context(), sess, req)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"interviews": sess.Interviews(),
	})
}

func (s *Server) handleExportInterviews(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var buf bytes.Buffer
	if err := export.WriteInterviewsCSV(&buf, sess.Interviews()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondFile(w, "text/csv", export.InterviewsFilename, buf.Bytes())
}

func (s *Server) handleAddPayroll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.PayrollRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.agent.AddPayroll(sess, req)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPayroll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"payroll": sess.Payroll(),
	})
}

func (s *Server) handleExportPayroll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var buf bytes.Buffer
	if err := export.WritePayrollCSV(&buf, sess.Payroll()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondFile(w, "text/csv", export.PayrollFilename, buf.Bytes())
}

func (s *Server) handleAddPerformance(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.PerformanceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.agent.AddPerformance(sess, req)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPerformance(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"performance": sess.Performance(),
	})
}

func (s *Server) handleExportPerformance(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var buf bytes.Buffer
	if err := export.WritePerformanceCSV(&buf, sess.Performance()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondFile(w, "text/csv", export.PerformanceFilename, buf.Bytes())
}

// decodeJSON reads a JSON body into v and answers the request itself on failure
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondWarning reports a problem with the user's input
func (s *Server) respondWarning(w http.ResponseWriter, message string) {
	s.respondJSON(w, http.StatusBadRequest, map[string]string{
		"warning": message,
	})
}

// respondAgentError maps agent errors to warnings and status codes
func (s *Server) respondAgentError(w http.ResponseWriter, err error) {
	switch {
	case agent.IsWarning(err):
		s.respondWarning(w, err.Error())
	case errors.Is(err, agent.ErrGmailNotConfigured):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("Request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondFile sends a download
func (s *Server) respondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write download", "file", filename, "error", err)
	}
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession loads the caller's session, creating one when the cookie is
// missing or stale, and saves it after the handler ran
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.loadSession(r)
		if err != nil {
			s.logger.Error("Failed to load session", "error", err)
			s.respondError(w, http.StatusInternalServerError, "failed to load session")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h(w, r, sess)

		if err := s.store.Save(r.Context(), sess); err != nil {
			s.logger.Error("Failed to save session", "session", sess.ID(), "error", err)
		}
	}
}

func (s *Server) loadSession(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return session.New(), nil
	}

	sess, err := s.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, session.ErrNotFound) {
		return session.New(), nil
	}
	return sess, err
}

// statusRecorder captures the status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
