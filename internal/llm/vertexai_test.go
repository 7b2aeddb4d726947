package llm

import (
	"context"
	"testing"
)

func TestNewVertexAIClient_RequiresProject(t *testing.T) {
	client, err := NewVertexAIClient(context.Background(), "", "us-central1", "")
	if err == nil {
		t.Fatal("Expected error for missing project")
	}
	if client != nil {
		t.Error("Expected nil client on error")
	}
}
