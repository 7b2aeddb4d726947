package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/xuri/excelize/v2"
)

// Similarity bands used to colour ranked resumes
const (
	StrongMatch  = 0.5
	GoodMatch    = 0.3
	PartialMatch = 0.1
)

const (
	summarySheet   = "Summary"
	rankedSheet    = "Ranked Resumes"
	payrollSheet   = "Payroll"
	perfSheet      = "Performance"
	interviewSheet = "Interviews"
)

// scoreNumFmt is the built-in "0.00" number format
const scoreNumFmt = 2

const (
	excelTimeFmt = "2006-01-02 15:04:05"
	headerFill   = "4472C4"
	strongFill   = "C6EFCE"
	goodFill     = "FFEB9C"
	partialFill  = "FFC7CE"
	weakFill     = "FF9999"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// ExportToExcel generates an Excel report of a session
func ExportToExcel(report models.ReportResponse, outputPath string) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

// WriteExcel streams the report workbook to w
func WriteExcel(w io.Writer, report models.ReportResponse) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func buildWorkbook(report models.ReportResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	for _, name := range []string{rankedSheet, payrollSheet, perfSheet, interviewSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := createSummarySheet(f, report); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createRankedResumesSheet(f, report.Ranking); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create ranked resumes sheet: %w", err)
	}

	payroll := make([][]any, 0, len(report.Payroll))
	for _, e := range report.Payroll {
		payroll = append(payroll, []any{e.EmployeeName, e.BaseSalary, e.TotalSalary})
	}
	if err := createTableSheet(f, payrollSheet, PayrollHeader, payroll); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create payroll sheet: %w", err)
	}

	perf := make([][]any, 0, len(report.Performance))
	for _, e := range report.Performance {
		perf = append(perf, []any{e.EmployeeName, e.Score})
	}
	if err := createTableSheet(f, perfSheet, PerformanceHeader, perf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create performance sheet: %w", err)
	}

	interviews := make([][]any, 0, len(report.Interviews))
	for _, iv := range report.Interviews {
		interviews = append(interviews, []any{iv.CandidateName, iv.Date, iv.Time})
	}
	if err := createTableSheet(f, interviewSheet, InterviewsHeader, interviews); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create interviews sheet: %w", err)
	}

	return f, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

// newFillStyle returns a bordered fill style; numFmt 0 keeps the General format
func newFillStyle(f *excelize.File, color string, numFmt int) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: thinBorder,
		NumFmt: numFmt,
	})
}

// createSummarySheet writes the job description and statistics of the session
func createSummarySheet(f *excelize.File, report models.ReportResponse) error {
	sheet := summarySheet
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 60)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}

	row := 1
	section := func(title string) {
		f.SetCellValue(sheet, cell(1, row), title)
		f.SetCellStyle(sheet, cell(1, row), cell(2, row), titleStyle)
		f.MergeCell(sheet, cell(1, row), cell(2, row))
		row++
	}
	line := func(label string, value any) {
		f.SetCellValue(sheet, cell(1, row), label)
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), labelStyle)
		f.SetCellValue(sheet, cell(2, row), value)
		row++
	}

	generated := report.Timestamp
	if generated == "" {
		generated = time.Now().Format(excelTimeFmt)
	}

	section("HR Automation Report")
	row++
	line("Generated:", generated)
	line("Job Description:", report.JobDescription)
	f.SetCellStyle(sheet, cell(2, row-1), cell(2, row-1), wrapStyle)
	line("Resumes Ranked:", len(report.Ranking))
	line("Payroll Records:", len(report.Payroll))
	line("Performance Records:", len(report.Performance))
	line("Interviews Scheduled:", len(report.Interviews))
	row++

	if len(report.Ranking) > 0 {
		section("Ranking Statistics:")
		var strong, good, partial, weak int
		var total float64
		highest, lowest := report.Ranking[0].Score, report.Ranking[0].Score
		for _, r := range report.Ranking {
			switch band(r.Score) {
			case strongFill:
				strong++
			case goodFill:
				good++
			case partialFill:
				partial++
			default:
				weak++
			}
			total += r.Score
			highest = max(highest, r.Score)
			lowest = min(lowest, r.Score)
		}
		line(fmt.Sprintf("Strong match (>= %.2f):", StrongMatch), strong)
		line(fmt.Sprintf("Good match (>= %.2f):", GoodMatch), good)
		line(fmt.Sprintf("Partial match (>= %.2f):", PartialMatch), partial)
		line(fmt.Sprintf("Weak match (< %.2f):", PartialMatch), weak)
		line("Average Similarity:", fmt.Sprintf("%.2f", total/float64(len(report.Ranking))))
		line("Highest Similarity:", fmt.Sprintf("%.2f", highest))
		line("Lowest Similarity:", fmt.Sprintf("%.2f", lowest))
		row++
	}

	if len(report.Payroll) > 0 {
		section("Payroll Statistics:")
		var base, total float64
		for _, e := range report.Payroll {
			base += e.BaseSalary
			total += e.TotalSalary
		}
		line("Total Base Salary:", fmt.Sprintf("%.2f", base))
		line("Total Salary incl. Bonus:", fmt.Sprintf("%.2f", total))
		row++
	}

	if len(report.Performance) > 0 {
		section("Performance Statistics:")
		var sum int
		for _, e := range report.Performance {
			sum += e.Score
		}
		line("Average Score:", fmt.Sprintf("%.2f", float64(sum)/float64(len(report.Performance))))
	}

	return nil
}

// band returns the fill colour for a similarity score
func band(score float64) string {
	switch {
	case score >= StrongMatch:
		return strongFill
	case score >= GoodMatch:
		return goodFill
	case score >= PartialMatch:
		return partialFill
	default:
		return weakFill
	}
}

// createRankedResumesSheet creates the ranked resumes sheet with color-coding
func createRankedResumesSheet(f *excelize.File, ranking []models.RankedResume) error {
	sheet := rankedSheet
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "C", 15)

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return err
	}

	rowStyles := make(map[string]int)
	scoreStyles := make(map[string]int)
	for _, color := range []string{strongFill, goodFill, partialFill, weakFill} {
		style, err := newFillStyle(f, color, 0)
		if err != nil {
			return err
		}
		rowStyles[color] = style
		if scoreStyles[color], err = newFillStyle(f, color, scoreNumFmt); err != nil {
			return err
		}
	}

	for col, header := range []string{"Rank", "Resume", "Similarity Score"} {
		f.SetCellValue(sheet, cell(col+1, 1), header)
		f.SetCellStyle(sheet, cell(col+1, 1), cell(col+1, 1), headerStyle)
	}

	for i, r := range ranking {
		row := i + 2
		f.SetCellValue(sheet, cell(1, row), r.Rank)
		f.SetCellValue(sheet, cell(2, row), r.Filename)
		f.SetCellValue(sheet, cell(3, row), r.Score)
		color := band(r.Score)
		f.SetCellStyle(sheet, cell(1, row), cell(2, row), rowStyles[color])
		f.SetCellStyle(sheet, cell(3, row), cell(3, row), scoreStyles[color])
	}

	return finishTable(f, sheet, 3, len(ranking))
}

// createTableSheet writes a header row and plain data rows
func createTableSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return err
	}

	for col, header := range headers {
		f.SetCellValue(sheet, cell(col+1, 1), header)
		f.SetCellStyle(sheet, cell(col+1, 1), cell(col+1, 1), headerStyle)
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, name, name, 22)
	}

	for i, values := range rows {
		row := i + 2
		for col, v := range values {
			f.SetCellValue(sheet, cell(col+1, row), v)
		}
		f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), bodyStyle)
	}

	return finishTable(f, sheet, len(headers), len(rows))
}

// finishTable enables the auto-filter and freezes the header row
func finishTable(f *excelize.File, sheet string, cols, rows int) error {
	if rows > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s", cell(cols, rows+1)), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
