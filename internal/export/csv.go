package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

// Download filenames for the CSV exports
const (
	PayrollFilename     = "payroll_data.csv"
	PerformanceFilename = "performance_data.csv"
	InterviewsFilename  = "interviews_data.csv"
)

var (
	PayrollHeader     = []string{"Employee Name", "Base Salary", "Total Salary"}
	PerformanceHeader = []string{"Employee Name", "Performance Score"}
	InterviewsHeader  = []string{"Candidate Name", "Interview Date", "Interview Time"}
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WritePayrollCSV writes one row per payroll entry
func WritePayrollCSV(w io.Writer, entries []models.PayrollEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.EmployeeName, formatNumber(e.BaseSalary), formatNumber(e.TotalSalary)})
	}
	return writeCSV(w, PayrollHeader, rows)
}

// WritePerformanceCSV writes one row per performance entry
func WritePerformanceCSV(w io.Writer, entries []models.PerformanceEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.EmployeeName, strconv.Itoa(e.Score)})
	}
	return writeCSV(w, PerformanceHeader, rows)
}

// WriteInterviewsCSV writes one row per scheduled interview
func WriteInterviewsCSV(w io.Writer, interviews []models.Interview) error {
	rows := make([][]string, 0, len(interviews))
	for _, iv := range interviews {
		rows = append(rows, []string{iv.CandidateName, iv.Date, iv.Time})
	}
	return writeCSV(w, InterviewsHeader, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
