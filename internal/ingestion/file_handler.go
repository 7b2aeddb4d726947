package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

// Upload is a file received from a user, kept in memory
type Upload struct {
	Filename string
	Data     []byte
}

// Process extracts every upload independently. A failing file is reported in
// its result and does not stop the others.
func Process(uploads []Upload) ([]models.Resume, []models.UploadResult) {
	resumes := make([]models.Resume, 0, len(uploads))
	results := make([]models.UploadResult, 0, len(uploads))

	for _, up := range uploads {
		text, err := ExtractText(up.Filename, bytes.NewReader(up.Data))
		if err != nil {
			results = append(results, models.UploadResult{
				Filename: up.Filename,
				OK:       false,
				Message:  fmt.Sprintf("Error processing %s: %v", up.Filename, err),
			})
			continue
		}

		resumes = append(resumes, models.Resume{Filename: up.Filename, Text: text})
		results = append(results, models.UploadResult{
			Filename: up.Filename,
			OK:       true,
			Message:  fmt.Sprintf("Resume uploaded: %s", up.Filename),
		})
	}

	return resumes, results
}

// FileHandler manages resume files on disk
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// Dir returns the directory the handler works in
func (fh *FileHandler) Dir() string {
	return fh.uploadsDir
}

// SaveUploadedFile saves an uploaded file to the uploads directory
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	// Only the base name is kept so uploads cannot escape the directory
	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// LoadUploads reads every supported file of the directory, sorted by name
func (fh *FileHandler) LoadUploads() ([]Upload, error) {
	entries, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Upload{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	uploads := make([]Upload, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !SupportedExtension(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(fh.uploadsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", entry.Name(), err)
		}
		uploads = append(uploads, Upload{Filename: entry.Name(), Data: data})
	}

	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].Filename < uploads[j].Filename
	})

	return uploads, nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
