package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileHandler(t *testing.T) {
	fh := NewFileHandler("test_uploads")
	if fh == nil {
		t.Fatal("Expected non-nil FileHandler")
	}

	if fh.Dir() != "test_uploads" {
		t.Errorf("Expected uploadsDir 'test_uploads', got '%s'", fh.Dir())
	}
}

func TestSaveUploadedFile(t *testing.T) {
	tmpDir := t.TempDir()
	fh := NewFileHandler(filepath.Join(tmpDir, "uploads"))

	path, err := fh.SaveUploadedFile("jane_resume.txt", strings.NewReader("Test resume content"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, "uploads", "jane_resume.txt")
	if path != expectedPath {
		t.Errorf("Expected path %s, got %s", expectedPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "Test resume content" {
		t.Errorf("Expected content 'Test resume content', got '%s'", string(data))
	}
}

// TestSaveUploadedFile_StripsDirectories tests that path components in upload names are dropped
func TestSaveUploadedFile_StripsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	fh := NewFileHandler(tmpDir)

	path, err := fh.SaveUploadedFile("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	if filepath.Dir(path) != tmpDir {
		t.Errorf("Expected file inside %s, got %s", tmpDir, path)
	}
}

func TestLoadUploads(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "b_resume.txt"), []byte("Bob resume"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "a_resume.txt"), []byte("Alice resume"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "photo.jpg"), []byte("jpeg"), 0644)
	os.MkdirAll(filepath.Join(tmpDir, "nested.pdf"), 0755)

	uploads, err := NewFileHandler(tmpDir).LoadUploads()
	if err != nil {
		t.Fatalf("Failed to load uploads: %v", err)
	}

	if len(uploads) != 2 {
		t.Fatalf("Expected 2 uploads, got %d", len(uploads))
	}
	if uploads[0].Filename != "a_resume.txt" || uploads[1].Filename != "b_resume.txt" {
		t.Errorf("Expected uploads sorted by name, got %s, %s", uploads[0].Filename, uploads[1].Filename)
	}
	if string(uploads[0].Data) != "Alice resume" {
		t.Errorf("Unexpected content %q", uploads[0].Data)
	}
}

func TestLoadUploads_MissingDir(t *testing.T) {
	uploads, err := NewFileHandler(filepath.Join(t.TempDir(), "missing")).LoadUploads()
	if err != nil {
		t.Fatalf("Expected no error for a missing directory, got %v", err)
	}
	if len(uploads) != 0 {
		t.Errorf("Expected no uploads, got %d", len(uploads))
	}
}

func TestClearUploads(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "clear")
	os.MkdirAll(tmpDir, 0755)
	os.WriteFile(filepath.Join(tmpDir, "test.txt"), []byte("test"), 0644)

	if err := NewFileHandler(tmpDir).ClearUploads(); err != nil {
		t.Fatalf("Failed to clear uploads: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, got %d entries", len(entries))
	}
}

// TestProcess_PerFileFailures tests that one bad file does not stop the rest
func TestProcess_PerFileFailures(t *testing.T) {
	uploads := []Upload{
		{Filename: "good.txt", Data: []byte("Go developer")},
		{Filename: "broken.pdf", Data: []byte("not really a pdf")},
		{Filename: "image.png", Data: []byte("png")},
		{Filename: "also_good.txt", Data: []byte("Payroll clerk")},
	}

	resumes, results := Process(uploads)

	if len(results) != len(uploads) {
		t.Fatalf("Expected %d results, got %d", len(uploads), len(results))
	}
	if len(resumes) != 2 {
		t.Fatalf("Expected 2 resumes, got %d", len(resumes))
	}
	if resumes[0].Filename != "good.txt" || resumes[1].Filename != "also_good.txt" {
		t.Errorf("Unexpected resumes: %+v", resumes)
	}

	wantOK := []bool{true, false, false, true}
	for i, r := range results {
		if r.OK != wantOK[i] {
			t.Errorf("Result %d (%s): OK = %v, want %v", i, r.Filename, r.OK, wantOK[i])
		}
	}

	if results[0].Message != "Resume uploaded: good.txt" {
		t.Errorf("Unexpected success message %q", results[0].Message)
	}
	if !strings.HasPrefix(results[1].Message, "Error processing broken.pdf: ") {
		t.Errorf("Unexpected failure message %q", results[1].Message)
	}
}

func TestSenderFromHeader(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{from: "Jane Doe <jane@example.com>", want: "JaneDoe"},
		{from: `"John Smith" <john@example.com>`, want: "JohnSmith"},
		{from: "applicant@example.com", want: "applicant"},
		{from: "<anon@example.com>", want: "anon"},
		{from: "nobody", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if got := senderFromHeader(tt.from); got != tt.want {
				t.Errorf("senderFromHeader(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestUniqueName(t *testing.T) {
	seen := make(map[string]int)
	if got := uniqueName(seen, "Jane_cv.pdf"); got != "Jane_cv.pdf" {
		t.Errorf("First use should keep the name, got %s", got)
	}
	if got := uniqueName(seen, "Jane_cv.pdf"); got != "2_Jane_cv.pdf" {
		t.Errorf("Second use should be numbered, got %s", got)
	}
}
