package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/adpulse/internal/importer"
	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateProfileSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	reportService *report.Service
	importService *importer.Service

	state      importState
	form       *huh.Form
	profile    string
	filePicker filepicker.Model

	newRecords   []report.Record
	conflicts    []report.Conflict
	conflictList list.Model
	selected     map[int]bool
	diagnostics  meta.Diagnostics

	status string
	err    error
}

func NewImportModel(reportSvc *report.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		reportService: reportSvc,
		importService: impSvc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
	m.form = m.newProfileForm()

	return m
}

func (m *ImportModel) newProfileForm() *huh.Form {
	names := m.importService.ProfileNames()
	m.profile = names[0]

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("profile").
				Title("Export profile").
				Options(huh.NewOptions(names...)...).
				Value(&m.profile),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Report" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		m.diagnostics = msg.diagnostics

		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d records.", len(msg.result.Imported))

			return m, nil
		}

		m.newRecords = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = "Already imported for this date and campaign"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d records.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateProfileSelect:
		return m.updateProfileSelect(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) updateProfileSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStateConflicts:
		return m.reset()
	}

	return m, Back
}

func (m ImportModel) reset() (tea.Model, tea.Cmd) {
	m.state = importStateProfileSelect
	m.err = nil
	m.status = ""
	m.conflicts = nil
	m.newRecords = nil
	m.selected = make(map[int]bool)
	m.diagnostics = meta.Diagnostics{}
	m.form = m.newProfileForm()

	return m, m.form.Init()
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateProfileSelect:
		return lipgloss.NewStyle().Padding(2).Render(m.form.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select export to import (%s):\n\n%s", m.profile, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(color).Render(m.status) +
			"\n\n" + formatDiagnostics(m.diagnostics) +
			"\n\n(Esc to go back)",
	)
}

func formatDiagnostics(d meta.Diagnostics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Data rows: %d\n", d.DataRows)
	fmt.Fprintf(&b, "Dropped: %d (no date %d, no data %d, inactive %d)\n",
		d.Dropped(), d.DroppedNoDate, d.DroppedNoData, d.DroppedInactive)
	fmt.Fprintf(&b, "Unreadable numbers: %d", d.CoercedCells)

	if len(d.UnmappedHeaders) > 0 {
		fmt.Fprintf(&b, "\nIgnored columns: %s", strings.Join(d.UnmappedHeaders, ", "))
	}

	return lipgloss.NewStyle().Faint(true).Render(b.String())
}

// Messages

type importResultMsg struct {
	result      *report.ImportResult
	diagnostics meta.Diagnostics
	err         error
}

type confirmResultMsg struct {
	count int
	err   error
}

func formatForPath(path string) importer.Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return importer.FormatXLSX
	}

	return importer.FormatCSV
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	profile := m.profile

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		res, err := m.importService.Import(formatForPath(path), profile, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.reportService.ImportBatch(ctx, res.Records)
		if err != nil {
			return importResultMsg{diagnostics: res.Diagnostics, err: err}
		}

		return importResultMsg{result: result, diagnostics: res.Diagnostics}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	newRecords := m.newRecords
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		var records []report.Record
		records = append(records, newRecords...)

		for i, c := range conflicts {
			if !selected[i] {
				continue
			}

			records = append(records, c.Incoming)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		stored, err := m.reportService.CreateBatch(ctx, records)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(stored)}
	}
}

// Conflict list item

type conflictItem struct {
	conflict report.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct {
	selected *map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s %s  %s  spend %s  clicks %s",
		cursor, checkbox,
		incoming.Date,
		incoming.CampaignName,
		FormatMetric(incoming, report.FieldSpend),
		FormatMetric(incoming, report.FieldLinkClicks),
	)

	line2 := fmt.Sprintf("      Existing: spend %s  clicks %s",
		FormatMetric(existing, report.FieldSpend),
		FormatMetric(existing, report.FieldLinkClicks),
	)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
