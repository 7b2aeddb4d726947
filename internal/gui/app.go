package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/fmuoria/HR-automation-system/internal/agent"
	"github.com/fmuoria/HR-automation-system/internal/config"
	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/fmuoria/HR-automation-system/internal/session"
)

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	configPath string
	agent      *agent.HRAgent
	session    *session.Session
	logger     *slog.Logger
	cancelFunc context.CancelFunc

	// Rank Resumes tab
	subjectEntry  *widget.Entry
	jobDescText   *widget.Entry
	resumeList    *widget.List
	resultsTable  *widget.Table
	ingestBtns    []*widget.Button
	rankBtn       *widget.Button
	cancelBtn     *widget.Button
	exportBtn     *widget.Button
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label

	previews []models.ResumePreview
	ranking  []models.RankedResume

	// record tabs
	interviewList   *widget.List
	payrollList     *widget.List
	performanceList *widget.List
}

// NewApp creates the desktop application around an agent. The desktop user
// works in a single session for the lifetime of the window.
func NewApp(a *agent.HRAgent, cfg *config.Config, configPath string, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	fa := app.New()
	w := fa.NewWindow("HR Automation System")
	w.Resize(fyne.NewSize(1000, 700))

	guiApp := &App{
		fyneApp:    fa,
		mainWindow: w,
		config:     cfg,
		configPath: configPath,
		agent:      a,
		session:    session.New(),
		logger:     logger.With("module", "gui"),
	}

	// Apply config to environment
	cfg.ApplyToEnv()

	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Home", a.createHomeTab()),
		container.NewTabItem("Rank Resumes", a.createRankTab()),
		container.NewTabItem("Chatbot", a.createChatbotTab()),
		container.NewTabItem("Interview Scheduling", a.createInterviewTab()),
		container.NewTabItem("Payroll Management", a.createPayrollTab()),
		container.NewTabItem("Performance Checking", a.createPerformanceTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)
	tabs.SetTabLocation(container.TabLocationLeading)

	a.mainWindow.SetContent(tabs)
}

func (a *App) createHomeTab() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Welcome to the HR Automation System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	intro := widget.NewRichTextFromMarkdown(
		"Use the tabs to:\n\n" +
			"- **Rank Resumes** against a job description\n" +
			"- ask the **Chatbot** common HR questions\n" +
			"- schedule candidate **interviews**\n" +
			"- manage **payroll** and **performance** scores\n",
	)
	intro.Wrapping = fyne.TextWrapWord

	return container.NewVBox(title, intro)
}

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	modelEntry := widget.NewEntry()
	modelEntry.SetText(a.config.VertexModel)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	gmailCredsEntry := widget.NewEntry()
	gmailCredsEntry.SetText(a.config.GmailCredentialsPath)

	uploadsEntry := widget.NewEntry()
	uploadsEntry.SetText(a.config.UploadsDir)

	smtpHostEntry := widget.NewEntry()
	smtpHostEntry.SetText(a.config.SMTPHost)

	smtpPortEntry := widget.NewEntry()
	smtpPortEntry.SetText(strconv.Itoa(a.config.SMTPPort))

	smtpFromEntry := widget.NewEntry()
	smtpFromEntry.SetText(a.config.SMTPFrom)

	assistantCheck := widget.NewCheck("Enable Vertex AI assistant", nil)
	assistantCheck.SetChecked(a.config.AssistantEnabled)

	form := widget.NewForm(
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Vertex AI Model", modelEntry),
		widget.NewFormItem("Google Credentials", a.browseEntry(googleCredsEntry)),
		widget.NewFormItem("Gmail Credentials", a.browseEntry(gmailCredsEntry)),
		widget.NewFormItem("Uploads Folder", uploadsEntry),
		widget.NewFormItem("SMTP Host", smtpHostEntry),
		widget.NewFormItem("SMTP Port", smtpPortEntry),
		widget.NewFormItem("SMTP From", smtpFromEntry),
		widget.NewFormItem("", assistantCheck),
	)

	apply := func() error {
		port, err := strconv.Atoi(smtpPortEntry.Text)
		if err != nil {
			return fmt.Errorf("SMTP port must be a number")
		}
		a.config.GoogleCloudProject = projectEntry.Text
		a.config.GoogleCloudLocation = locationEntry.Text
		a.config.VertexModel = modelEntry.Text
		a.config.GoogleCredentialsPath = googleCredsEntry.Text
		a.config.GmailCredentialsPath = gmailCredsEntry.Text
		a.config.UploadsDir = uploadsEntry.Text
		a.config.SMTPHost = smtpHostEntry.Text
		a.config.SMTPPort = port
		a.config.SMTPFrom = smtpFromEntry.Text
		a.config.AssistantEnabled = assistantCheck.Checked
		return nil
	}

	saveBtn := widget.NewButton("Save Settings", func() {
		if err := apply(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		var err error
		if a.configPath != "" {
			err = a.config.SaveTo(a.configPath)
		} else {
			err = a.config.Save()
		}
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		// Apply to environment
		a.config.ApplyToEnv()

		dialog.ShowInformation("Success", "Settings saved. Restart the application to apply them.", a.mainWindow)
	})

	testBtn := widget.NewButton("Validate", func() {
		if err := apply(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVScroll(container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	))
}

// browseEntry puts a file picker button next to a path entry
func (a *App) browseEntry(entry *widget.Entry) fyne.CanvasObject {
	btn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				entry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})
	return container.NewBorder(nil, nil, nil, btn, entry)
}

// showResult shows user input problems as warnings and everything else as errors
func (a *App) showResult(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if agent.IsWarning(err) {
		dialog.ShowInformation("Warning", err.Error(), a.mainWindow)
		return
	}
	dialog.ShowError(err, a.mainWindow)
}

// saveFile asks for a destination and writes the download into it
func (a *App) saveFile(defaultName string, write func(w fyne.URIWriteCloser) error) {
	d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		if err := write(uc); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Exported to "+uc.URI().Name(), a.mainWindow)
	}, a.mainWindow)
	d.SetFileName(defaultName)
	d.Show()
}
