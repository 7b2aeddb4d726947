package ingestion

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// ProgressCallback is called to report progress while fetching
type ProgressCallback func(current, total int, message string)

// GmailHandler fetches resume attachments from a Gmail inbox
type GmailHandler struct {
	service *gmail.Service
	logger  *slog.Logger
}

// GmailOptions configures OAuth for the Gmail handler
type GmailOptions struct {
	CredentialsPath string
	TokenPath       string
	// Prompt reads the authorization code when no cached token exists
	Prompt io.Reader
}

// NewGmailHandler creates a Gmail handler, running the OAuth flow if no token is cached
func NewGmailHandler(ctx context.Context, opts GmailOptions, logger *slog.Logger) (*GmailHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CredentialsPath == "" {
		opts.CredentialsPath = "credentials.json"
	}
	if opts.TokenPath == "" {
		opts.TokenPath = "token.json"
	}
	if opts.Prompt == nil {
		opts.Prompt = os.Stdin
	}

	b, err := os.ReadFile(opts.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := getClient(ctx, config, opts)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service: srv,
		logger:  logger.With("module", "gmail"),
	}, nil
}

// getClient retrieves a token, saves it, then returns the generated client
func getClient(ctx context.Context, config *oauth2.Config, opts GmailOptions) (*http.Client, error) {
	tok, err := tokenFromFile(opts.TokenPath)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config, opts.Prompt)
		if err != nil {
			return nil, err
		}
		if err := saveToken(opts.TokenPath, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// getTokenFromWeb requests a token from the web
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, prompt io.Reader) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	scanner := bufio.NewScanner(prompt)
	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	authCode := strings.TrimSpace(scanner.Text())

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchResumes downloads the supported attachments of every message with the given subject
func (gh *GmailHandler) FetchResumes(ctx context.Context, subject string, progress ProgressCallback) ([]Upload, error) {
	user := "me"
	query := fmt.Sprintf("subject:%q has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var uploads []Upload
	names := make(map[string]int)

	for i, msg := range r.Messages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if progress != nil {
			progress(i, len(r.Messages), fmt.Sprintf("Fetching message %d/%d", i+1, len(r.Messages)))
		}

		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			gh.logger.Warn("Unable to retrieve message", "id", msg.Id, "error", err)
			continue
		}

		sender := extractSenderName(message)
		for _, part := range attachmentParts(message.Payload) {
			if !SupportedExtension(part.Filename) {
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				gh.logger.Warn("Unable to retrieve attachment", "file", part.Filename, "error", err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				gh.logger.Warn("Unable to decode attachment", "file", part.Filename, "error", err)
				continue
			}

			uploads = append(uploads, Upload{
				Filename: uniqueName(names, fmt.Sprintf("%s_%s", sender, part.Filename)),
				Data:     data,
			})
			gh.logger.Info("Downloaded attachment", "file", part.Filename, "sender", sender)
		}
	}

	if progress != nil {
		progress(len(r.Messages), len(r.Messages), fmt.Sprintf("Fetched %d attachments", len(uploads)))
	}

	return uploads, nil
}

// attachmentParts walks nested multipart payloads for parts with attachments
func attachmentParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}

	var found []*gmail.MessagePart
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		found = append(found, part)
	}
	for _, child := range part.Parts {
		found = append(found, attachmentParts(child)...)
	}
	return found
}

// uniqueName appends a counter when the same filename was already used
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	if n := seen[name]; n > 1 {
		return fmt.Sprintf("%d_%s", n, name)
	}
	return name
}

// extractSenderName extracts the sender's name from email headers
func extractSenderName(message *gmail.Message) string {
	if message.Payload == nil {
		return "Unknown"
	}
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			return senderFromHeader(header.Value)
		}
	}
	return "Unknown"
}

// senderFromHeader parses "Name <email@example.com>" into a filename-safe name
func senderFromHeader(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		name := strings.Trim(strings.TrimSpace(from[:idx]), `"`)
		return strings.ReplaceAll(name, " ", "")
	}
	// If no name, use email prefix
	if idx := strings.Index(from, "@"); idx > 0 {
		return strings.TrimPrefix(from[:idx], "<")
	}
	return "Unknown"
}
