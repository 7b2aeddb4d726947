package records

import (
	"fmt"
	"strings"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

// Score bounds
const (
	MinScore = 1
	MaxScore = 10
)

// NewPerformanceEntry validates a performance score for an employee
func NewPerformanceEntry(name string, score int) (models.PerformanceEntry, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.PerformanceEntry{}, "", invalid("employee_name", "employee name is required")
	}
	if score < MinScore || score > MaxScore {
		return models.PerformanceEntry{}, "", invalid("score", "performance score must be between %d and %d", MinScore, MaxScore)
	}

	entry := models.PerformanceEntry{EmployeeName: name, Score: score}
	msg := fmt.Sprintf("Performance score added for %s: Score = %d", entry.EmployeeName, entry.Score)
	return entry, msg, nil
}
