package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fmuoria/HR-automation-system/internal/agent"
	"github.com/fmuoria/HR-automation-system/internal/api"
	"github.com/fmuoria/HR-automation-system/internal/chatbot"
	"github.com/fmuoria/HR-automation-system/internal/config"
	"github.com/fmuoria/HR-automation-system/internal/export"
	"github.com/fmuoria/HR-automation-system/internal/gui"
	"github.com/fmuoria/HR-automation-system/internal/ingestion"
	"github.com/fmuoria/HR-automation-system/internal/llm"
	"github.com/fmuoria/HR-automation-system/internal/logging"
	"github.com/fmuoria/HR-automation-system/internal/notify"
	"github.com/fmuoria/HR-automation-system/internal/scoring"
	"github.com/fmuoria/HR-automation-system/internal/session"
)

func main() {
	configPath := flag.String("config", "", "config file (.json, .yaml or .yml); defaults to the user config directory")
	envFile := flag.String("env", ".env", "env file with HR_* overrides")
	runGUI := flag.Bool("gui", false, "start the desktop application instead of the HTTP server")
	resumesDir := flag.String("resumes", "", "rank the resumes of this folder once and exit")
	jobFile := flag.String("job", "", "job description file used with -resumes")
	reportPath := flag.String("out", "", "Excel report written by -resumes")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	cfg.ApplyToEnv()

	if *resumesDir != "" {
		cfg.UploadsDir = *resumesDir
	}

	ctx := context.Background()
	hrAgent, cleanup := buildAgent(ctx, cfg, logger)
	defer cleanup()

	if *resumesDir != "" {
		if err := rankFolder(ctx, hrAgent, *jobFile, *reportPath, os.Stdout); err != nil {
			logger.Error("Ranking failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *runGUI {
		gui.NewApp(hrAgent, cfg, *configPath, logger).Run()
		return
	}

	if err := serve(cfg, hrAgent, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path, envFile string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildAgent wires the agent's collaborators from the configuration
func buildAgent(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*agent.HRAgent, func()) {
	var (
		assistant chatbot.Assistant
		closers   []func() error
	)
	if cfg.AssistantEnabled {
		client, err := llm.NewVertexAIClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.VertexModel)
		if err != nil {
			logger.Warn("Vertex AI assistant unavailable, using canned answers only", "error", err)
		} else {
			assistant = client
			closers = append(closers, client.Close)
		}
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SMTPConfigured() {
		notifier = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, logger)
		logger.Info("Interview invitations enabled", "smtp_host", cfg.SMTPHost)
	}

	gmailOpts := ingestion.GmailOptions{
		CredentialsPath: cfg.GmailCredentialsPath,
		TokenPath:       cfg.GmailTokenPath,
	}
	var gmailFactory agent.GmailFactory
	if _, err := os.Stat(gmailOpts.CredentialsPath); err == nil {
		gmailFactory = func(ctx context.Context) (agent.GmailFetcher, error) {
			gh, err := ingestion.NewGmailHandler(ctx, gmailOpts, logger)
			if err != nil {
				return nil, err
			}
			return gh, nil
		}
	} else {
		logger.Info("Gmail ingestion disabled, credentials not found", "path", gmailOpts.CredentialsPath)
	}

	a := agent.New(agent.Options{
		Files:    ingestion.NewFileHandler(cfg.UploadsDir),
		Scorer:   scoring.NewScorer(logger),
		Bot:      chatbot.New(assistant, logger),
		Notifier: notifier,
		Gmail:    gmailFactory,
		Logger:   logger,
	})

	return a, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Close failed", "error", err)
			}
		}
	}
}

// rankFolder ranks the resumes directory against a job description file
func rankFolder(ctx context.Context, hrAgent *agent.HRAgent, jobFile, reportPath string, out io.Writer) error {
	if jobFile == "" {
		return fmt.Errorf("-job is required with -resumes")
	}
	jd, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	sess := session.New()
	results, err := hrAgent.LoadResumesFromDir(ctx, sess)
	if err != nil {
		return err
	}
	for _, r := range results {
		if !r.OK {
			fmt.Fprintf(out, "skipped %s: %s\n", r.Filename, r.Message)
		}
	}

	ranking, err := hrAgent.RankResumes(sess, string(jd))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tResume\tSimilarity Score")
	for _, r := range ranking {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Rank, r.Filename, scoring.FormatScore(r.Score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if reportPath != "" {
		if err := export.ExportToExcel(hrAgent.Report(sess), reportPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "report written to %s\n", reportPath)
	}
	return nil
}

func serve(cfg *config.Config, hrAgent *agent.HRAgent, logger *slog.Logger) error {
	store, err := session.NewStore(session.StoreConfig{
		Driver:     cfg.SessionDriver,
		TTL:        cfg.SessionTTL(),
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch s := store.(type) {
	case *session.RedisStore:
		if err := s.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
	case *session.SQLiteStore:
		go purgeExpired(ctx, s, cfg.SessionTTL(), logger)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewServer(hrAgent, store, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server in a goroutine to allow graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HR Automation System", "port", cfg.Port, "session_driver", cfg.SessionDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// purgeExpired removes stale sqlite sessions until ctx is done
func purgeExpired(ctx context.Context, store *session.SQLiteStore, ttl time.Duration, logger *slog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("Failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Purged expired sessions", "count", n)
			}
		}
	}
}
