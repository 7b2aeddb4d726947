package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"google.golang.org/api/gmail/v1"
)

// TestAttachmentParts tests that attachments nested in multipart bodies are found
func TestAttachmentParts(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "aGk="}},
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{Filename: "nested_cv.pdf", Body: &gmail.MessagePartBody{AttachmentId: "att-2"}},
				},
			},
			{Filename: "resume.pdf", Body: &gmail.MessagePartBody{AttachmentId: "att-1"}},
			{Filename: "inline.png", Body: &gmail.MessagePartBody{}},
		},
	}

	parts := attachmentParts(payload)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 attachments, got %d", len(parts))
	}
	if parts[0].Filename != "nested_cv.pdf" || parts[1].Filename != "resume.pdf" {
		t.Errorf("Unexpected attachments: %s, %s", parts[0].Filename, parts[1].Filename)
	}

	if attachmentParts(nil) != nil {
		t.Error("Expected nil for a nil payload")
	}
}

func TestExtractSenderName(t *testing.T) {
	msg := &gmail.Message{Payload: &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{
			{Name: "Subject", Value: "Job Application"},
			{Name: "From", Value: "Ada Lovelace <ada@example.com>"},
		},
	}}

	if got := extractSenderName(msg); got != "AdaLovelace" {
		t.Errorf("extractSenderName() = %q, want AdaLovelace", got)
	}
	if got := extractSenderName(&gmail.Message{}); got != "Unknown" {
		t.Errorf("extractSenderName() without payload = %q, want Unknown", got)
	}
}

func TestNewGmailHandler_MissingCredentials(t *testing.T) {
	_, err := NewGmailHandler(context.Background(), GmailOptions{
		CredentialsPath: filepath.Join(t.TempDir(), "credentials.json"),
	}, nil)
	if err == nil {
		t.Error("Expected an error when the credentials file is missing")
	}
}
