package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

// Fallback is returned for questions the bot does not know
const Fallback = "Sorry, I don't understand that. Please try asking differently or contact HR for support."

// Assistant generates free-form answers. The Vertex AI client satisfies it.
type Assistant interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

var responses = map[string]string{
	"hello": "Hi there! How can I assist you today?",

	"what is the process for applying for parental leave?": "To apply for parental leave:\n\n- Visit the Parental Leave Application section in the HR portal.\n- Complete the form and attach any required documents, such as a medical certificate.\n- Submit the application at least [X weeks] in advance.\n\nNeed help? Contact HR Support.",

	"how do i request a letter of employment?": "You can request a letter of employment by:\n\n- Logging into the HR portal.\n- Navigating to Requests > Letter of Employment.\n- Filling in the required details, such as the purpose of the letter.\n- The letter will be ready within [X business days].",

	"how do i resign from the company?": "To resign:\n\n- Submit your resignation letter to your manager via email or the HR portal.\n- Ensure your notice period matches your contract requirements ([X weeks/months]).\n- For assistance, contact HR Support.",

	"what is the notice period policy?": "The notice period is typically [X weeks/months]. Please refer to your employment agreement for specifics or contact HR for clarity.",

	"how do i access my final pay slip?": "Your final pay slip will be available in the Payroll section of the HR portal after completing exit formalities. You will receive a notification once it’s ready.",

	"will i receive an experience letter?": "Yes! An experience letter will be issued after you complete all exit formalities. Processing typically takes [X days].",

	"how do i request training for professional development?": "Explore training options by:\n\n- Visiting the Learning and Development section in the HR portal.\n- Submitting a request for the desired program.\n\nNeed personalized recommendations? Contact the Learning Team.",

	"what is the performance appraisal process?": "The performance appraisal includes:\n\n- **Self-Evaluation**: Submit your goals and progress.\n- **Manager Review**: Receive feedback and discuss growth opportunities.\n- **Goal Setting**: Plan objectives for the next cycle.\n\nCheck the HR portal for the appraisal timeline and guidelines.",

	"are there internal opportunities for promotions?": "Yes! View internal openings in the Career Opportunities section of the HR portal. Apply directly to roles that align with your skills and goals.",

	"how do i set my career goals within the company?": "Set your career goals by:\n\n- Scheduling a one-on-one meeting with your manager.\n- Using the Career Development Plan template in the HR portal.\n\nFor additional support, contact the Career Coach.",

	"who can guide me about career development?": "For career guidance:\n\n- Reach out to the HR Learning and Development team.\n- Participate in mentorship programs (details available on the HR portal).",

	"can i request a meeting with my manager?": "Yes! Schedule a meeting by:\n\n- Sending a request via your manager’s calendar.\n- Emailing your manager directly for urgent matters.",

	"what is the company’s code of conduct?": "The Code of Conduct outlines ethical and professional standards. Access it in the Policies section of the HR portal. For queries, contact Compliance.",

	"what is the dress code policy?": "The dress code is [formal/business casual/casual]. Detailed guidelines are available in the Employee Handbook on the HR portal.",

	"what is the policy on remote work?": "The remote work policy allows eligible employees to work from home 2 days per week. Approval from your manager is required. View full details in the HR portal.",

	"how do i report workplace harassment?": "Report workplace harassment via:\n\n- The Confidential Reporting Form in the HR portal.\n- Directly contacting the Compliance Officer.\n\nAll reports are handled with strict confidentiality.",

	"how do i escalate compliance concerns?": "Escalate concerns by:\n\n- Submitting a report in the Compliance section of the HR portal.\n- For urgent issues, contact the Compliance Team.",
}

// Bot answers HR questions from a fixed answer set
type Bot struct {
	assistant Assistant
	logger    *slog.Logger
}

// New creates a bot. assistant may be nil.
func New(assistant Assistant, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		assistant: assistant,
		logger:    logger.With("module", "chatbot"),
	}
}

// HasAssistant reports whether free-form answers are available
func (b *Bot) HasAssistant() bool {
	return b.assistant != nil
}

func normalize(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.ReplaceAll(q, "'", "’")
}

// Answer looks the query up in the answer set. It never calls the assistant.
func (b *Bot) Answer(query string) models.ChatResponse {
	if answer, ok := responses[normalize(query)]; ok {
		return models.ChatResponse{Query: query, Answer: answer, Matched: true, Source: models.SourceCanned}
	}
	return models.ChatResponse{Query: query, Answer: Fallback, Source: models.SourceFallback}
}

// Assist answers from the answer set first and asks the assistant on a miss.
// Without an assistant, or when it fails, the fallback answer is returned.
func (b *Bot) Assist(ctx context.Context, query string) models.ChatResponse {
	resp := b.Answer(query)
	if resp.Matched || b.assistant == nil || strings.TrimSpace(query) == "" {
		return resp
	}

	answer, err := b.assistant.GenerateContent(ctx, buildPrompt(query))
	if err != nil {
		b.logger.Warn("Assistant failed, using fallback", "error", err)
		return resp
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return resp
	}
	return models.ChatResponse{Query: query, Answer: answer, Source: models.SourceAssistant}
}

// Questions returns the known questions, sorted
func (b *Bot) Questions() []string {
	return sortedQuestions()
}

func sortedQuestions() []string {
	questions := make([]string, 0, len(responses))
	for q := range responses {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	return questions
}

func buildPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("You are an HR assistant for an internal company portal. ")
	sb.WriteString("Answer the employee's question briefly, using only the FAQ below. ")
	sb.WriteString("If the FAQ does not cover the question, tell the employee to contact HR Support.\n\n")
	sb.WriteString("FAQ:\n")
	for _, q := range sortedQuestions() {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n\n", q, responses[q])
	}
	fmt.Fprintf(&sb, "Question: %s\n", query)
	return sb.String()
}
