package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

type recordsState int

const (
	recordsStateBrowse recordsState = iota
	recordsStateSearch
)

var recordColumns = []struct {
	title string
	field report.Field
	width int
}{
	{"Spend", report.FieldSpend, 10},
	{"Impr.", report.FieldImpressions, 10},
	{"Reach", report.FieldReach, 10},
	{"Link clicks", report.FieldLinkClicks, 11},
	{"CTR link", report.FieldCTRLink, 9},
	{"Purchases", report.FieldPurchases, 10},
	{"ROAS", report.FieldROAS, 8},
}

type RecordsModel struct {
	reportService *report.Service

	state   recordsState
	table   table.Model
	records []report.Record
	form    *huh.Form

	timeframe Timeframe
	campaign  string
	search    string

	loading bool
	err     error
	status  string
}

func NewRecordsModel(reportSvc *report.Service) RecordsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Campaign", Width: 30},
	}
	for _, c := range recordColumns {
		columns = append(columns, table.Column{Title: c.title, Width: c.width})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RecordsModel{
		reportService: reportSvc,
		table:         t,
		loading:       true,
	}
}

func (m RecordsModel) Title() string { return "Records" }

func (m RecordsModel) ShortHelp() string {
	if m.state == recordsStateSearch {
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | x: delete | d: date filter | /: campaign | r: refresh"
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.records = msg.records
		m.refreshTable()

		return m, nil

	case deleteRecordMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Record deleted."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case recordsStateBrowse:
		return m.updateBrowse(msg)
	case recordsStateSearch:
		return m.updateSearch(msg)
	}

	return m, nil
}

func (m RecordsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "d":
			m.timeframe = m.timeframe.Next()
			m.loading = true

			return m, m.loadCmd()
		case "x":
			return m, m.deleteCmd()
		case "/":
			return m.enterSearch()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecordsModel) enterSearch() (tea.Model, tea.Cmd) {
	m.search = m.campaign
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("campaign").
				Title("Campaign name").
				Value(&m.search),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = recordsStateSearch
	m.table.Blur()

	return m, m.form.Init()
}

func (m RecordsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = recordsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.campaign = strings.TrimSpace(m.search)
	m.state = recordsStateBrowse
	m.form = nil
	m.table.Focus()
	m.loading = true

	return m, m.loadCmd()
}

func (m RecordsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	campaign := "any"
	if m.campaign != "" {
		campaign = m.campaign
	}

	header := fmt.Sprintf(
		"Filter: [d] Date: %s | [/] Campaign: %s | %d records",
		activeStyle(m.timeframe.String()),
		activeStyle(campaign),
		len(m.records),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Faint(true).PaddingBottom(1).Render(formatSummary(report.Summarize(m.records))),
		tableView,
	)

	if m.state == recordsStateSearch && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func formatSummary(s report.Summary) string {
	ratio := func(name string) string {
		v, ok := s.Ratios[name]
		if !ok {
			return "-"
		}

		return decimal.NewFromFloat(v).StringFixed(2)
	}

	return fmt.Sprintf("%d days | spend %s | purchases %s | CPA %s | ROAS %s | CTR link %s%%",
		s.Days,
		decimal.NewFromFloat(s.Totals[report.FieldSpend]).StringFixed(2),
		decimal.NewFromFloat(s.Totals[report.FieldPurchases]).StringFixed(0),
		ratio(report.RatioCPA),
		ratio(report.RatioROAS),
		ratio(report.RatioCTRLink),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m RecordsModel) filter() report.ListFilter {
	start, end := m.timeframe.Bounds(time.Now())

	f := report.ListFilter{StartDate: start, EndDate: end}
	if m.campaign != "" {
		f.Campaign = new(m.campaign)
	}

	return f
}

func (m *RecordsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))

	for _, r := range m.records {
		row := table.Row{r.Date, r.CampaignName}
		for _, c := range recordColumns {
			row = append(row, FormatMetric(r, c.field))
		}

		rows = append(rows, row)
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Messages

type loadRecordsMsg struct {
	records []report.Record
	err     error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.reportService.List(ctx, filter)

		return loadRecordsMsg{records: records, err: err}
	}
}

type deleteRecordMsg struct {
	err error
}

func (m RecordsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	id := m.records[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteRecordMsg{err: m.reportService.Delete(ctx, id)}
	}
}
