package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/adpulse/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/adpulse/internal/config"
	"github.com/MrJamesThe3rd/adpulse/internal/database"
	"github.com/MrJamesThe3rd/adpulse/internal/importer"
	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
	reportStore "github.com/MrJamesThe3rd/adpulse/internal/report/store"
)

type model struct {
	appName       string
	reportService *report.Service
	importService *importer.Service

	currentView View

	importView  view.ImportModel
	recordsView view.RecordsModel
}

type View int

const (
	ViewMenu    View = 0
	ViewImport  View = 1
	ViewRecords View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	importOpts := []importer.ServiceOption{importer.WithDefaultProfile(cfg.Import.Profile)}
	if cfg.Import.HeaderMatch != "" {
		match, ok := meta.ParseHeaderMatch(cfg.Import.HeaderMatch)
		if !ok {
			slog.Error("invalid header match mode", "value", cfg.Import.HeaderMatch)
			os.Exit(1)
		}

		importOpts = append(importOpts, importer.WithHeaderMatch(match))
	}

	reportSvc := report.NewService(reportStore.New(db))
	impSvc := importer.NewService(importOpts...)

	if _, err := impSvc.DefaultProfile(); err != nil {
		slog.Error("invalid import configuration", "error", err)
		os.Exit(1)
	}

	return model{
		appName:       cfg.App.Name,
		reportService: reportSvc,
		importService: impSvc,
		currentView:   ViewMenu,
		importView:    view.NewImportModel(reportSvc, impSvc),
		recordsView:   view.NewRecordsModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.reportService, m.importService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewRecords
				m.recordsView = view.NewRecordsModel(m.reportService)

				return m, m.recordsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Import Ads Report\n" +
				"2. Browse Records\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewRecords:
		return m.recordsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
