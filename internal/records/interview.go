package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// ScheduleInterview validates an interview request against today's date and
// returns the interview with its confirmation message.
func ScheduleInterview(req models.InterviewRequest, today time.Time) (models.Interview, string, error) {
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		return models.Interview{}, "", invalid("candidate_name", "candidate name is required")
	}

	loc := today.Location()
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), loc)
	if err != nil {
		return models.Interview{}, "", invalid("date", "date must be in YYYY-MM-DD format")
	}

	y, m, d := today.Date()
	if date.Before(time.Date(y, m, d, 0, 0, 0, 0, loc)) {
		return models.Interview{}, "", invalid("date", "interview date cannot be in the past")
	}

	clock, err := parseClock(strings.TrimSpace(req.Time))
	if err != nil {
		return models.Interview{}, "", err
	}

	at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	interview := models.Interview{
		CandidateName:  name,
		CandidateEmail: strings.TrimSpace(req.CandidateEmail),
		Date:           at.Format(dateLayout),
		Time:           at.Format(timeLayout),
		ScheduledAt:    at,
	}

	msg := fmt.Sprintf("Interview scheduled for %s on %s at %s.", interview.CandidateName, interview.Date, interview.Time)
	return interview, msg, nil
}

// parseClock accepts HH:MM and HH:MM:SS
func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04", timeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid("time", "time must be in HH:MM or HH:MM:SS format")
}
