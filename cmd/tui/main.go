package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/urbanmesh/linescout/pkg/export"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0087D7")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF87")).
			Padding(0, 2).
			MarginLeft(2).
			MarginTop(1)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			MarginLeft(2)
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "next mode"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab", "prev mode"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	outputs []*export.RankedOutput
	active  int
	table   table.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

func newResultsTable(out *export.RankedOutput) table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "From", Width: 28},
		{Title: "To", Width: 28},
		{Title: "Gain (s)", Width: 10},
		{Title: "Travel (s)", Width: 10},
		{Title: "Dist (km)", Width: 10},
		{Title: "New pairs", Width: 10},
	}

	rows := make([]table.Row, 0, len(out.Results))
	for _, r := range out.Results {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Rank),
			r.FromID,
			r.ToID,
			fmt.Sprintf("%.2f", r.GainSeconds),
			fmt.Sprintf("%.0f", r.WeightSeconds),
			fmt.Sprintf("%.1f", r.DistanceKM),
			strconv.Itoa(r.NewlyReachable),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0087D7")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(outputs []*export.RankedOutput) model {
	return model{
		outputs: outputs,
		table:   newResultsTable(outputs[0]),
		help:    help.New(),
		keys:    keys,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.active = (m.active + 1) % len(m.outputs)
			m.table = newResultsTable(m.outputs[m.active])
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.active = (m.active - 1 + len(m.outputs)) % len(m.outputs)
			m.table = newResultsTable(m.outputs[m.active])
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	out := m.outputs[m.active]

	var tabs string
	for i, o := range m.outputs {
		style := inactiveTabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs += style.Render(string(o.Mode))
	}

	summary := summaryStyle.Render(fmt.Sprintf(
		"Run %s | baseline mean travel time %.1f s | %d ranked connections",
		out.RunID, out.BaselineSeconds, len(out.Results)))

	body := contentStyle.Render(m.table.View())
	if len(out.Results) == 0 {
		body = errorStyle.Render("no candidates evaluated for this mode")
	}

	return titleStyle.Render("🚇 LineScout Results") + "\n" +
		contentStyle.Render(tabs) + "\n" +
		summary + "\n" +
		body + "\n" +
		helpStyle.Render(m.help.View(m.keys))
}

// loadOutputs reads every linescout_*.json the results directory holds.
func loadOutputs(dir string) ([]*export.RankedOutput, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "linescout_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var outputs []*export.RankedOutput
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var out export.RankedOutput
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		outputs = append(outputs, &out)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no linescout_*.json files in %s", dir)
	}
	return outputs, nil
}

func main() {
	resultsDir := flag.String("results", "results", "Directory holding exported JSON results")
	flag.Parse()

	outputs, err := loadOutputs(*resultsDir)
	if err != nil {
		log.Fatalf("Failed to load results: %v", err)
	}

	p := tea.NewProgram(initialModel(outputs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}
