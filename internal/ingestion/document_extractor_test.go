package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestIsBinaryData_PlainText tests that plain text is not detected as binary
func TestIsBinaryData_PlainText(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "Simple text",
			content: "This is a plain text resume with normal content.",
		},
		{
			name:    "Multi-line text",
			content: "Jane Doe\nPayroll Specialist\n5 years experience",
		},
		{
			name:    "Empty string",
			content: "",
		},
		{
			name:    "Text with tabs and newlines",
			content: "Name:\tJane\nTitle:\tAccountant\nYears:\t5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsBinaryData(tt.content) {
				t.Errorf("IsBinaryData() returned true for plain text: %q", tt.content)
			}
		})
	}
}

// TestIsBinaryData_Binary tests PDF and ZIP markers and control-character noise
func TestIsBinaryData_Binary(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "PDF header", content: "%PDF-1.4\n%âãÏÓ\n"},
		{name: "ZIP magic number", content: "PK\x03\x04"},
		{name: "Mostly control bytes", content: strings.Repeat("\x01", 400) + strings.Repeat("x", 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsBinaryData(tt.content) {
				t.Errorf("IsBinaryData() returned false for binary content")
			}
		})
	}
}

func TestExtractText_TXT(t *testing.T) {
	text, err := ExtractText("resume.TXT", strings.NewReader("Jane Doe\nAccountant"))
	if err != nil {
		t.Fatalf("ExtractText() returned error: %v", err)
	}
	if text != "Jane Doe\nAccountant" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExtractText_TXTInvalidUTF8(t *testing.T) {
	text, err := ExtractText("resume.txt", strings.NewReader("Before\xffAfter"))
	if err != nil {
		t.Fatalf("ExtractText() returned error: %v", err)
	}
	if !strings.Contains(text, "Before") || !strings.Contains(text, "After") || !strings.Contains(text, "�") {
		t.Errorf("Expected sanitised text, got %q", text)
	}
}

func TestExtractText_TXTBinaryRejected(t *testing.T) {
	_, err := ExtractText("resume.txt", strings.NewReader("%PDF-1.7 renamed"))
	if err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("Expected binary content error, got %v", err)
	}
}

func TestExtractText_EmptyText(t *testing.T) {
	_, err := ExtractText("blank.txt", strings.NewReader("  \n\t "))
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
}

// TestExtractText_UnsupportedType tests that unsupported file types return error
func TestExtractText_UnsupportedType(t *testing.T) {
	for _, filename := range []string{"test.jpg", "test.docx", "test.xlsx", "noext"} {
		t.Run(filename, func(t *testing.T) {
			_, err := ExtractText(filename, strings.NewReader("data"))
			if err == nil {
				t.Fatalf("ExtractText() should return error for unsupported file type %s", filename)
			}
			if !strings.Contains(err.Error(), "unsupported file type") {
				t.Errorf("Error message should mention 'unsupported file type', got: %v", err)
			}
		})
	}
}

// buildPDF writes a minimal PDF with one Helvetica text line per page
func buildPDF(pages ...string) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestExtractText_PDF(t *testing.T) {
	text, err := ExtractText("resume.pdf", bytes.NewReader(buildPDF("Senior Go developer")))
	if err != nil {
		t.Fatalf("ExtractText() returned error: %v", err)
	}
	if strings.TrimSpace(text) != "Senior Go developer" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExtractText_MultiPagePDF(t *testing.T) {
	data := buildPDF("Jane Doe Payroll Specialist", "Excel and compliance experience")

	text, err := ExtractText("resume.PDF", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ExtractText() returned error: %v", err)
	}

	first := strings.Index(text, "Jane Doe Payroll Specialist")
	second := strings.Index(text, "Excel and compliance experience")
	if first < 0 || second < 0 {
		t.Fatalf("Expected text of both pages, got %q", text)
	}
	if first > second {
		t.Errorf("Pages out of order: %q", text)
	}
}

// TestExtractText_MalformedPDF tests that garbage bytes fail cleanly instead of panicking
func TestExtractText_MalformedPDF(t *testing.T) {
	inputs := map[string]string{
		"not a pdf":      "hello world, definitely not a pdf",
		"truncated":      "%PDF-1.4\n1 0 obj\n<<",
		"empty":          "",
		"broken trailer": "%PDF-1.4\nxref\n0 1\n0000000000 65535 f \ntrailer\n<< /Size 1 >>\nstartxref\n9\n%%EOF",
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := ExtractText("resume.pdf", strings.NewReader(data)); err == nil {
				t.Error("Expected an error for a malformed PDF")
			}
		})
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Go developer"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	text, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile() returned error: %v", err)
	}
	if text != "Go developer" {
		t.Errorf("Unexpected text: %q", text)
	}

	if _, err := ExtractFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := map[string]bool{
		"a.pdf":  true,
		"a.PDF":  true,
		"a.txt":  true,
		"a.docx": false,
		"a":      false,
	}
	for name, want := range tests {
		if got := SupportedExtension(name); got != want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}
