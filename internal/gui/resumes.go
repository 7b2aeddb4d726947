package gui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/fmuoria/HR-automation-system/internal/export"
	"github.com/fmuoria/HR-automation-system/internal/ingestion"
	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/fmuoria/HR-automation-system/internal/scoring"
)

// createRankTab creates the resume upload and ranking tab
func (a *App) createRankTab() fyne.CanvasObject {
	// Upload section
	addBtn := widget.NewButton("Add Resume...", a.handleAddFile)
	folderBtn := widget.NewButton("Load Folder...", a.handleLoadFolder)
	uploadsBtn := widget.NewButton("Load Uploads Folder", func() {
		a.runIngest(func(ctx context.Context) ([]models.UploadResult, error) {
			return a.agent.LoadResumesFromDir(ctx, a.session)
		})
	})
	clearBtn := widget.NewButton("Clear Resumes", func() {
		a.agent.ClearResumes(a.session)
		a.refreshResumes()
	})

	a.subjectEntry = widget.NewEntry()
	a.subjectEntry.SetPlaceHolder("e.g., Job Application")
	gmailBtn := widget.NewButton("Fetch from Gmail", func() {
		subject := a.subjectEntry.Text
		a.runIngest(func(ctx context.Context) ([]models.UploadResult, error) {
			return a.agent.FetchResumesFromGmail(ctx, a.session, subject)
		})
	})
	a.ingestBtns = []*widget.Button{addBtn, folderBtn, uploadsBtn, clearBtn, gmailBtn}

	a.resumeList = widget.NewList(
		func() int {
			return len(a.previews)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < len(a.previews) {
				p := a.previews[id]
				item.(*widget.Label).SetText(p.Filename + ": " + strings.Join(strings.Fields(p.Preview), " "))
			}
		},
	)

	uploadSection := container.NewVBox(
		widget.NewLabel("Upload Resumes (PDF or TXT)"),
		container.NewHBox(addBtn, folderBtn, uploadsBtn, clearBtn),
		container.NewBorder(nil, nil, widget.NewLabel("Email Subject"), gmailBtn, a.subjectEntry),
	)

	// Job description section
	a.jobDescText = widget.NewMultiLineEntry()
	a.jobDescText.SetPlaceHolder("Enter the job description...")
	a.jobDescText.SetMinRowsVisible(5)

	// Progress section
	a.progressBar = widget.NewProgressBar()
	a.progressLabel = widget.NewLabel("Ready")
	a.rankBtn = widget.NewButton("Rank Resumes", a.handleRank)
	a.cancelBtn = widget.NewButton("Cancel", a.handleCancel)
	a.cancelBtn.Disable()

	a.agent.SetProgressCallback(func(current, total int, message string) {
		fyne.Do(func() {
			if total > 0 {
				a.progressBar.SetValue(float64(current) / float64(total))
			}
			a.progressLabel.SetText(message)
		})
	})

	// Results section
	a.resultsTable = widget.NewTable(
		func() (int, int) {
			return len(a.ranking) + 1, 3 // +1 for header
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"Rank", "Resume", "Similarity Score"}
				label.SetText(headers[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			label.TextStyle = fyne.TextStyle{}
			if id.Row-1 < len(a.ranking) {
				r := a.ranking[id.Row-1]
				switch id.Col {
				case 0:
					label.SetText(fmt.Sprintf("%d", r.Rank))
				case 1:
					label.SetText(r.Filename)
				case 2:
					label.SetText(scoring.FormatScore(r.Score))
				}
			}
		},
	)
	a.resultsTable.SetColumnWidth(0, 60)
	a.resultsTable.SetColumnWidth(1, 400)
	a.resultsTable.SetColumnWidth(2, 140)

	a.exportBtn = widget.NewButton("Export to Excel", a.handleExport)

	top := container.NewVBox(
		uploadSection,
		widget.NewSeparator(),
		widget.NewLabel("Job Description"),
		a.jobDescText,
		a.progressLabel,
		a.progressBar,
		container.NewHBox(a.rankBtn, a.cancelBtn, a.exportBtn),
		widget.NewSeparator(),
	)

	lists := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Uploaded Resumes"), nil, nil, nil, a.resumeList),
		container.NewBorder(widget.NewLabel("Ranked Resumes"), nil, nil, nil, a.resultsTable),
	)

	return container.NewBorder(top, nil, nil, nil, lists)
}

// handleAddFile ingests a single picked file
func (a *App) handleAddFile() {
	dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		data, err := io.ReadAll(uc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read %s: %w", uc.URI().Name(), err), a.mainWindow)
			return
		}

		upload := ingestion.Upload{Filename: uc.URI().Name(), Data: data}
		a.runIngest(func(ctx context.Context) ([]models.UploadResult, error) {
			return a.agent.UploadResumes(ctx, a.session, []ingestion.Upload{upload})
		})
	}, a.mainWindow)
}

// handleLoadFolder ingests every supported file of a picked folder
func (a *App) handleLoadFolder() {
	dialog.ShowFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if lu == nil {
			return // User canceled
		}

		dir := lu.Path()
		a.runIngest(func(ctx context.Context) ([]models.UploadResult, error) {
			uploads, err := ingestion.NewFileHandler(dir).LoadUploads()
			if err != nil {
				return nil, err
			}
			return a.agent.UploadResumes(ctx, a.session, uploads)
		})
	}, a.mainWindow)
}

// runIngest runs an ingestion in the background and reports per-file results
func (a *App) runIngest(ingest func(ctx context.Context) ([]models.UploadResult, error)) {
	a.setBusy(true)

	a.cancelFunc = runCancellable(func(ctx context.Context) {
		results, err := ingest(ctx)

		// All UI updates must be done on the main thread using fyne.Do
		fyne.Do(func() {
			a.setBusy(false)
			a.refreshResumes()

			if err != nil {
				a.progressLabel.SetText("Error: " + err.Error())
				a.showResult(err)
				return
			}

			var failed []string
			for _, r := range results {
				if !r.OK {
					failed = append(failed, r.Message)
				}
			}
			a.progressLabel.SetText(fmt.Sprintf("Uploaded %d of %d files", len(results)-len(failed), len(results)))
			if len(failed) > 0 {
				dialog.ShowInformation("Some files were skipped", strings.Join(failed, "\n"), a.mainWindow)
			}
		})
	})
}

// handleRank ranks the session's resumes against the job description
func (a *App) handleRank() {
	ranking, err := a.agent.RankResumes(a.session, a.jobDescText.Text)
	if err != nil {
		a.showResult(err)
		return
	}

	a.ranking = ranking
	a.resultsTable.Refresh()
	a.progressLabel.SetText(fmt.Sprintf("Ranked %d resumes", len(ranking)))
}

// handleCancel handles cancellation of ingestion
func (a *App) handleCancel() {
	if a.cancelFunc != nil {
		a.cancelFunc()
		a.progressLabel.SetText("Canceling...")
	}
}

// handleExport exports the session report to Excel
func (a *App) handleExport() {
	timestamp := time.Now().Format("2006-01-02_150405")
	defaultName := fmt.Sprintf("HR_Report_%s.xlsx", timestamp)

	a.saveFile(defaultName, func(w fyne.URIWriteCloser) error {
		return export.WriteExcel(w, a.agent.Report(a.session))
	})
}

func (a *App) setBusy(busy bool) {
	for _, btn := range append(a.ingestBtns, a.rankBtn) {
		if busy {
			btn.Disable()
		} else {
			btn.Enable()
		}
	}
	if busy {
		a.cancelBtn.Enable()
		a.progressBar.SetValue(0)
	} else {
		a.cancelBtn.Disable()
	}
}

func (a *App) refreshResumes() {
	a.previews = a.agent.ResumePreviews(a.session)
	_, a.ranking = a.session.Ranking()
	a.resumeList.Refresh()
	a.resultsTable.Refresh()
}
