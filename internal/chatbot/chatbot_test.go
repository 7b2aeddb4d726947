package chatbot

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

type fakeAssistant struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (f *fakeAssistant) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

func TestAnswer_CaseInsensitive(t *testing.T) {
	bot := New(nil, nil)

	tests := []struct {
		name  string
		query string
	}{
		{name: "lowercase", query: "hello"},
		{name: "uppercase", query: "HELLO"},
		{name: "mixed case", query: "How Do I Resign From The Company?"},
		{name: "surrounding spaces", query: "  what is the dress code policy?  "},
		{name: "ascii apostrophe", query: "What is the company's code of conduct?"},
		{name: "curly apostrophe", query: "What is the company’s code of conduct?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := bot.Answer(tt.query)
			if !resp.Matched {
				t.Fatalf("Expected a match for %q", tt.query)
			}
			if resp.Source != models.SourceCanned {
				t.Errorf("Expected source %q, got %q", models.SourceCanned, resp.Source)
			}
			if resp.Query != tt.query {
				t.Errorf("Expected query echoed back, got %q", resp.Query)
			}
		})
	}
}

func TestAnswer_KnownAnswers(t *testing.T) {
	bot := New(nil, nil)

	if got := bot.Answer("hello").Answer; got != "Hi there! How can I assist you today?" {
		t.Errorf("Unexpected greeting: %q", got)
	}

	got := bot.Answer("what is the policy on remote work?").Answer
	if !strings.Contains(got, "2 days per week") {
		t.Errorf("Unexpected remote work answer: %q", got)
	}
}

func TestAnswer_Fallback(t *testing.T) {
	bot := New(nil, nil)

	for _, q := range []string{"", "what is the meaning of life?", "hello!"} {
		resp := bot.Answer(q)
		if resp.Matched {
			t.Errorf("Expected no match for %q", q)
		}
		if resp.Answer != Fallback {
			t.Errorf("Expected fallback for %q, got %q", q, resp.Answer)
		}
		if resp.Source != models.SourceFallback {
			t.Errorf("Expected source %q, got %q", models.SourceFallback, resp.Source)
		}
	}
}

func TestQuestions(t *testing.T) {
	questions := New(nil, nil).Questions()

	if len(questions) != 18 {
		t.Fatalf("Expected 18 questions, got %d", len(questions))
	}
	if !sort.StringsAreSorted(questions) {
		t.Error("Expected questions to be sorted")
	}
	for _, q := range questions {
		if q != strings.ToLower(q) {
			t.Errorf("Question %q is not lowercase", q)
		}
	}
}

// TestAssist_CannedFirst tests that known questions never reach the assistant
func TestAssist_CannedFirst(t *testing.T) {
	fake := &fakeAssistant{answer: "generated"}
	bot := New(fake, nil)

	resp := bot.Assist(context.Background(), "Hello")
	if resp.Source != models.SourceCanned {
		t.Errorf("Expected canned answer, got %q", resp.Source)
	}
	if fake.calls != 0 {
		t.Errorf("Expected no assistant calls, got %d", fake.calls)
	}
}

func TestAssist_UsesAssistantOnMiss(t *testing.T) {
	fake := &fakeAssistant{answer: "  Please contact HR Support about relocation.  "}
	bot := New(fake, nil)

	resp := bot.Assist(context.Background(), "Is there a relocation allowance?")
	if resp.Source != models.SourceAssistant {
		t.Fatalf("Expected assistant answer, got %q", resp.Source)
	}
	if resp.Answer != "Please contact HR Support about relocation." {
		t.Errorf("Expected trimmed answer, got %q", resp.Answer)
	}
	if !strings.Contains(fake.prompt, "Is there a relocation allowance?") {
		t.Error("Prompt should contain the question")
	}
	if !strings.Contains(fake.prompt, "what is the notice period policy?") {
		t.Error("Prompt should contain the FAQ")
	}
}

func TestAssist_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeAssistant
	}{
		{name: "error", fake: &fakeAssistant{err: errors.New("quota exceeded")}},
		{name: "empty answer", fake: &fakeAssistant{answer: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New(tt.fake, nil).Assist(context.Background(), "unknown question")
			if resp.Answer != Fallback || resp.Source != models.SourceFallback {
				t.Errorf("Expected fallback, got %+v", resp)
			}
		})
	}
}

func TestAssist_NoAssistant(t *testing.T) {
	bot := New(nil, nil)
	if bot.HasAssistant() {
		t.Error("Expected HasAssistant() to be false")
	}

	resp := bot.Assist(context.Background(), "unknown question")
	if resp.Answer != Fallback {
		t.Errorf("Expected fallback, got %q", resp.Answer)
	}
}
