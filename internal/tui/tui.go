package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/output"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type frameMsg inspect.Frame

type modelState int

const (
	stateSockets modelState = iota
	stateAncestry
	stateWarnings
)

var tabNames = []string{"Sockets", "Ancestry", "Warnings"}

type tuiModel struct {
	state       modelState
	table       table.Model
	filterInput textinput.Model
	filtering   bool
	frame       inspect.Frame
	hasFrame    bool
	paused      bool
	sortColumn  int
	sortAsc     bool
	message     string
	messageTime time.Time
	now         func() time.Time
	width       int
	height      int
}

func initialModel() tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 50
	ti.Width = 30

	m := tuiModel{
		state:       stateSockets,
		filterInput: ti,
		sortAsc:     true,
		now:         time.Now,
		height:      30,
	}
	m.initTable()
	return m
}

func (m *tuiModel) initTable() {
	var columns []table.Column
	switch m.state {
	case stateSockets:
		columns = []table.Column{
			{Title: "Proto", Width: 6},
			{Title: "Local Address", Width: 25},
			{Title: "Remote Address", Width: 25},
			{Title: "State", Width: 12},
			{Title: "Explanation", Width: 50},
		}
	case stateAncestry:
		columns = []table.Column{
			{Title: "PID", Width: 8},
			{Title: "User", Width: 12},
			{Title: "Command", Width: 30},
			{Title: "Health", Width: 13},
			{Title: "Ports", Width: 20},
		}
	case stateWarnings:
		columns = []table.Column{
			{Title: "Severity", Width: 10},
			{Title: "Warning", Width: 90},
		}
	}

	// Add sort indicator
	if m.sortColumn < len(columns) {
		indicator := " ↑"
		if !m.sortAsc {
			indicator = " ↓"
		}
		columns[m.sortColumn].Title += indicator
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-15, 3)),
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
		Bold(true)
	t.SetStyles(s)

	m.table = t
	m.updateRows()
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.filtering {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filterInput.Blur()
				m.updateRows()
				return m, nil
			}
		case frameMsg:
			m.applyFrame(inspect.Frame(msg))
			return m, nil
		}
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.updateRows()
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1", "2", "3":
			m.state = modelState(msg.String()[0] - '1')
			m.sortColumn = 0
			m.sortAsc = true
			m.initTable()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, nil
		case "s":
			m.sortColumn = (m.sortColumn + 1) % len(m.table.Columns())
			m.sortAsc = true
			m.initTable()
			return m, nil
		case "r":
			m.sortAsc = !m.sortAsc
			m.initTable()
			return m, nil
		case "S":
			m.saveSnapshot()
			return m, nil
		}
	case frameMsg:
		m.applyFrame(inspect.Frame(msg))
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-15, 3))
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyFrame takes a new watch frame unless the view is paused. A lost
// target is always shown.
func (m *tuiModel) applyFrame(f inspect.Frame) {
	if m.paused && !f.Lost {
		return
	}
	m.frame = f
	m.hasFrame = true
	m.updateRows()
}

func (m *tuiModel) updateRows() {
	var rows []table.Row
	filterRaw := strings.ToLower(m.filterInput.Value())
	filterPrefix := ""
	filterValue := filterRaw

	if strings.Contains(filterRaw, ":") {
		parts := strings.SplitN(filterRaw, ":", 2)
		filterPrefix = parts[0]
		filterValue = parts[1]
	}

	res := m.frame.Result
	switch m.state {
	case stateSockets:
		for _, s := range res.Process.Sockets {
			row := table.Row{
				s.Protocol,
				hostPort(s.LocalAddr, s.Port),
				s.RemoteAddr,
				s.State,
				s.Explanation,
			}
			if filterValue != "" {
				match := false
				switch filterPrefix {
				case "port":
					match = strings.HasSuffix(row[1], ":"+filterValue) || strings.HasSuffix(row[2], ":"+filterValue)
				case "state":
					match = strings.Contains(strings.ToLower(row[3]), filterValue)
				case "proto":
					match = strings.Contains(strings.ToLower(row[0]), filterValue)
				default:
					match = rowContains(row, filterValue)
				}
				if !match {
					continue
				}
			}
			rows = append(rows, row)
		}
	case stateAncestry:
		for i, p := range res.Ancestry {
			indent := ""
			if i > 0 {
				indent = strings.Repeat("  ", i-1) + "└─ "
			}
			row := table.Row{
				strconv.Itoa(p.PID),
				p.User,
				indent + p.Command,
				p.Health,
				portList(p.ListeningPorts),
			}
			if filterValue != "" {
				match := false
				switch filterPrefix {
				case "pid":
					match = strings.Contains(row[0], filterValue)
				case "user":
					match = strings.Contains(strings.ToLower(row[1]), filterValue)
				case "cmd":
					match = strings.Contains(strings.ToLower(row[2]), filterValue)
				default:
					match = rowContains(row, filterValue)
				}
				if !match {
					continue
				}
			}
			rows = append(rows, row)
		}
	case stateWarnings:
		for _, w := range res.Warnings {
			severity := "WARNING"
			if source.IsCritical(w) {
				severity = "CRITICAL"
			}
			row := table.Row{severity, w}
			if filterValue != "" && !rowContains(row, filterValue) {
				continue
			}
			rows = append(rows, row)
		}
	}

	// Sorting. The ancestry tab keeps chain order unless a column was picked.
	if len(rows) > 0 && m.sortColumn < len(m.table.Columns()) && !(m.state == stateAncestry && m.sortColumn == 0 && m.sortAsc) {
		sort.SliceStable(rows, func(i, j int) bool {
			valI := rows[i][m.sortColumn]
			valJ := rows[j][m.sortColumn]

			// Numeric sort for PID
			if m.state == stateAncestry && m.sortColumn == 0 {
				numI, _ := strconv.Atoi(valI)
				numJ, _ := strconv.Atoi(valJ)
				if m.sortAsc {
					return numI < numJ
				}
				return numI > numJ
			}

			// Numeric sort for ports in address columns
			if m.state == stateSockets && (m.sortColumn == 1 || m.sortColumn == 2) {
				portI := extractPort(valI)
				portJ := extractPort(valJ)
				if portI != portJ {
					if m.sortAsc {
						return portI < portJ
					}
					return portI > portJ
				}
			}

			if m.sortAsc {
				return valI < valJ
			}
			return valI > valJ
		})
	}

	for _, row := range rows {
		for i := range row {
			row[i] = output.SanitizeLine(row[i])
		}
	}
	m.table.SetRows(rows)
}

func rowContains(row table.Row, value string) bool {
	for _, f := range row {
		if strings.Contains(strings.ToLower(f), value) {
			return true
		}
	}
	return false
}

func hostPort(addr string, port int) string {
	if strings.Contains(addr, ":") {
		return "[" + addr + "]:" + strconv.Itoa(port)
	}
	return addr + ":" + strconv.Itoa(port)
}

func portList(ports []int) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ",")
}

func extractPort(addr string) int {
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		port, _ := strconv.Atoi(addr[idx+1:])
		return port
	}
	return 0
}

func (m *tuiModel) saveSnapshot() {
	timestamp := m.now().Format("20060102_150405")
	filename := fmt.Sprintf("witr_snapshot_%s.md", timestamp)

	if err := os.WriteFile(filename, []byte(m.snapshotMarkdown()), 0644); err != nil {
		m.message = "Error saving snapshot: " + err.Error()
	} else {
		m.message = "Snapshot saved to " + filename
	}
	m.messageTime = m.now()
}

func (m *tuiModel) snapshotMarkdown() string {
	var content strings.Builder
	content.WriteString("# witr Snapshot - " + m.now().Format(time.RFC1123) + "\n\n")

	if m.hasFrame {
		res := m.frame.Result
		content.WriteString("## Process Details (PID " + strconv.Itoa(res.Process.PID) + ")\n")
		content.WriteString("```\n")
		output.RenderStandard(&content, res, m.now(), false)
		content.WriteString("```\n\n")
	}

	content.WriteString("## Current View (" + tabNames[m.state] + ")\n\n")
	cols := m.table.Columns()
	for i, col := range cols {
		content.WriteString("| " + col.Title + " ")
		if i == len(cols)-1 {
			content.WriteString("|\n")
		}
	}
	for i := range cols {
		content.WriteString("| --- ")
		if i == len(cols)-1 {
			content.WriteString("|\n")
		}
	}
	for _, row := range m.table.Rows() {
		for _, cell := range row {
			content.WriteString("| " + output.SanitizeLine(cell) + " ")
		}
		content.WriteString("|\n")
	}
	return content.String()
}

func (m tuiModel) header() string {
	if !m.hasFrame {
		return "Waiting for first inspection..."
	}
	res := m.frame.Result
	p := res.Process

	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s   Health: %s   Restarts: %d\n", source.Describe(res.Source), p.Health, res.RestartCount)
	started := "unknown"
	if !p.StartedAt.IsZero() {
		started = output.RelativeTime(p.StartedAt, m.frame.At)
	}
	fmt.Fprintf(&b, "Memory: %s   CPU: %.1f%%   Started: %s", humanize.IBytes(p.MemoryRSS), p.CPUPercent, started)
	if res.FileContext != nil {
		fmt.Fprintf(&b, "   Open files: %d", res.FileContext.OpenFiles)
		if res.FileContext.FileLimit > 0 {
			fmt.Fprintf(&b, "/%d", res.FileContext.FileLimit)
		}
	}
	fmt.Fprintf(&b, "\nLast update: %s (tick %d)", m.frame.At.Format("15:04:05"), m.frame.Tick)
	return output.SanitizeTerminal(b.String())
}

func (m tuiModel) View() string {
	var b strings.Builder

	// Title
	title := "witr watch"
	if m.hasFrame {
		p := m.frame.Result.Process
		title += fmt.Sprintf(": %s (pid %d)", output.SanitizeTerminal(p.Command), p.PID)
	}
	if m.paused {
		title += " (PAUSED)"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true).Render(title) + "\n")

	if m.frame.Lost {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1).
			Render(" TARGET LOST: process is no longer running ") + "\n")
	} else if m.frame.Err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("Error: "+output.SanitizeTerminal(m.frame.Err.Error())) + "\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(m.header()) + "\n\n")

	// Tabs
	for i, t := range tabNames {
		label := fmt.Sprintf("[%d] %s", i+1, t)
		if modelState(i) == stateWarnings && len(m.frame.Result.Warnings) > 0 {
			label += fmt.Sprintf(" (%d)", len(m.frame.Result.Warnings))
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if int(m.state) == i {
			style = style.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true)
		} else {
			style = style.Foreground(lipgloss.Color("240"))
		}
		b.WriteString(style.Render(label))
		b.WriteString(" ")
	}

	// Sort info
	if m.sortColumn < len(m.table.Columns()) {
		colName := m.table.Columns()[m.sortColumn].Title
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(fmt.Sprintf("  Sort: [s] %s", colName)))
	}
	b.WriteString("\n\n")

	// Filter
	if m.filtering {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Render(" / ") + m.filterInput.View() + "\n")
	} else if m.filterInput.Value() != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(" Filter: "+m.filterInput.Value()) + "\n")
	} else {
		b.WriteString("\n")
	}

	// Table
	b.WriteString(baseStyle.Render(m.table.View()) + "\n")

	// Message (Snapshot feedback)
	if m.message != "" && m.now().Sub(m.messageTime) < 3*time.Second {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1).
			Render(" "+m.message+" ") + "\n")
	}

	// Help
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	help := "\n  q: quit • 1-3: tabs • /: filter • s: sort • r: reverse • S: snapshot • p: pause"
	b.WriteString(helpStyle.Render(help) + "\n")

	return b.String()
}

// Run shows a live dashboard for pid, re-inspected every interval until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, in *inspect.Inspector, t model.Target, pid int, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- in.Watch(ctx, t, pid, interval, func(f inspect.Frame) {
			p.Send(frameMsg(f))
		})
		p.Quit()
	}()

	_, err := p.Run()
	cancel()
	if werr := <-watchErr; err == nil {
		err = werr
	}
	return err
}
