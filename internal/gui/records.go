package gui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/fmuoria/HR-automation-system/internal/export"
	"github.com/fmuoria/HR-automation-system/internal/models"
	"github.com/fmuoria/HR-automation-system/internal/records"
)

func (a *App) createChatbotTab() fyne.CanvasObject {
	bot := a.agent.Bot()

	answer := widget.NewRichTextFromMarkdown("")
	answer.Wrapping = fyne.TextWrapWord

	queryEntry := widget.NewEntry()
	queryEntry.SetPlaceHolder("Ask me anything about HR policies...")

	assistCheck := widget.NewCheck("Ask the AI assistant when I don't know the answer", nil)
	if !bot.HasAssistant() {
		assistCheck.Disable()
	}

	var askBtn *widget.Button
	ask := func() {
		query := queryEntry.Text
		if strings.TrimSpace(query) == "" {
			dialog.ShowInformation("Warning", "Please enter a question.", a.mainWindow)
			return
		}

		askBtn.Disable()
		assist := assistCheck.Checked
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp := a.agent.Ask(ctx, query, assist)

			fyne.Do(func() {
				askBtn.Enable()
				answer.ParseMarkdown(resp.Answer)
			})
		}()
	}
	askBtn = widget.NewButton("Ask", ask)
	queryEntry.OnSubmitted = func(string) { ask() }

	questions := widget.NewSelect(bot.Questions(), func(q string) {
		queryEntry.SetText(q)
		ask()
	})
	questions.PlaceHolder = "Common questions"

	top := container.NewVBox(
		widget.NewLabelWithStyle("HR Chatbot", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		questions,
		container.NewBorder(nil, nil, nil, askBtn, queryEntry),
		assistCheck,
		widget.NewSeparator(),
	)

	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(answer))
}

func (a *App) createInterviewTab() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("optional, sends an invitation")
	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD")
	dateEntry.SetText(time.Now().Format("2006-01-02"))
	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("HH:MM")

	a.interviewList = widget.NewList(
		func() int {
			return len(a.session.Interviews())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			ivs := a.session.Interviews()
			if id < len(ivs) {
				iv := ivs[id]
				item.(*widget.Label).SetText(fmt.Sprintf("%s  %s %s", iv.CandidateName, iv.Date, iv.Time))
			}
		},
	)

	var scheduleBtn *widget.Button
	scheduleBtn = widget.NewButton("Schedule Interview", func() {
		req := models.InterviewRequest{
			CandidateName:  nameEntry.Text,
			CandidateEmail: strings.TrimSpace(emailEntry.Text),
			Date:           dateEntry.Text,
			Time:           timeEntry.Text,
		}

		scheduleBtn.Disable()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err := a.agent.ScheduleInterview(ctx, a.session, req)

			fyne.Do(func() {
				scheduleBtn.Enable()
				if err != nil {
					a.showResult(err)
					return
				}
				a.interviewList.Refresh()
				msg := resp.Message
				if resp.Warning != "" {
					msg += "\n" + resp.Warning
				}
				dialog.ShowInformation("Interview Scheduled", msg, a.mainWindow)
			})
		}()
	})

	exportBtn := widget.NewButton("Download CSV", func() {
		a.saveFile(export.InterviewsFilename, func(w fyne.URIWriteCloser) error {
			return export.WriteInterviewsCSV(w, a.session.Interviews())
		})
	})

	form := widget.NewForm(
		widget.NewFormItem("Candidate Name", nameEntry),
		widget.NewFormItem("Candidate E-mail", emailEntry),
		widget.NewFormItem("Interview Date", dateEntry),
		widget.NewFormItem("Interview Time", timeEntry),
	)

	top := container.NewVBox(form, container.NewHBox(scheduleBtn, exportBtn), widget.NewSeparator())
	return container.NewBorder(top, nil, nil, nil, a.interviewList)
}

func (a *App) createPayrollTab() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	salaryEntry := widget.NewEntry()
	salaryEntry.SetPlaceHolder("0.00")

	bonusLabel := widget.NewLabel("0%")
	bonus := widget.NewSlider(records.MinBonus, records.MaxBonus)
	bonus.Step = 1
	bonus.OnChanged = func(v float64) {
		bonusLabel.SetText(fmt.Sprintf("%.0f%%", v))
	}

	a.payrollList = widget.NewList(
		func() int {
			return len(a.session.Payroll())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			entries := a.session.Payroll()
			if id < len(entries) {
				e := entries[id]
				item.(*widget.Label).SetText(fmt.Sprintf("%s  base $%.2f  total $%.2f", e.EmployeeName, e.BaseSalary, e.TotalSalary))
			}
		},
	)

	addBtn := widget.NewButton("Add Payroll", func() {
		base, err := strconv.ParseFloat(strings.TrimSpace(salaryEntry.Text), 64)
		if err != nil {
			dialog.ShowInformation("Warning", "Base salary must be a number.", a.mainWindow)
			return
		}

		resp, err := a.agent.AddPayroll(a.session, models.PayrollRequest{
			EmployeeName:     nameEntry.Text,
			BaseSalary:       base,
			PerformanceBonus: bonus.Value,
		})
		if err != nil {
			a.showResult(err)
			return
		}
		a.payrollList.Refresh()
		dialog.ShowInformation("Payroll Added", resp.Message, a.mainWindow)
	})

	exportBtn := widget.NewButton("Download CSV", func() {
		a.saveFile(export.PayrollFilename, func(w fyne.URIWriteCloser) error {
			return export.WritePayrollCSV(w, a.session.Payroll())
		})
	})

	form := widget.NewForm(
		widget.NewFormItem("Employee Name", nameEntry),
		widget.NewFormItem("Base Salary", salaryEntry),
		widget.NewFormItem("Performance Bonus", container.NewBorder(nil, nil, nil, bonusLabel, bonus)),
	)

	top := container.NewVBox(form, container.NewHBox(addBtn, exportBtn), widget.NewSeparator())
	return container.NewBorder(top, nil, nil, nil, a.payrollList)
}

func (a *App) createPerformanceTab() fyne.CanvasObject {
	nameEntry := widget.NewEntry()

	scoreLabel := widget.NewLabel(strconv.Itoa(records.MinScore))
	score := widget.NewSlider(records.MinScore, records.MaxScore)
	score.Step = 1
	score.Value = records.MinScore
	score.OnChanged = func(v float64) {
		scoreLabel.SetText(fmt.Sprintf("%.0f", v))
	}

	a.performanceList = widget.NewList(
		func() int {
			return len(a.session.Performance())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			entries := a.session.Performance()
			if id < len(entries) {
				e := entries[id]
				item.(*widget.Label).SetText(fmt.Sprintf("%s  %d/10", e.EmployeeName, e.Score))
			}
		},
	)

	addBtn := widget.NewButton("Add Score", func() {
		resp, err := a.agent.AddPerformance(a.session, models.PerformanceRequest{
			EmployeeName: nameEntry.Text,
			Score:        int(score.Value),
		})
		if err != nil {
			a.showResult(err)
			return
		}
		a.performanceList.Refresh()
		dialog.ShowInformation("Score Added", resp.Message, a.mainWindow)
	})

	exportBtn := widget.NewButton("Download CSV", func() {
		a.saveFile(export.PerformanceFilename, func(w fyne.URIWriteCloser) error {
			return export.WritePerformanceCSV(w, a.session.Performance())
		})
	})

	form := widget.NewForm(
		widget.NewFormItem("Employee Name", nameEntry),
		widget.NewFormItem("Performance Score", container.NewBorder(nil, nil, nil, scoreLabel, score)),
	)

	top := container.NewVBox(form, container.NewHBox(addBtn, exportBtn), widget.NewSeparator())
	return container.NewBorder(top, nil, nil, nil, a.performanceList)
}
