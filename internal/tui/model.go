package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pratish7991/TablueMeta/internal/index"
)

// SearchPort is the TUI-facing subset of the search engine.
type SearchPort interface {
	Search(ctx context.Context, workbook, query string, topK int) ([]index.Result, error)
}

// Model is the Bubble Tea model for the dashboard search console.
type Model struct {
	engine   SearchPort
	workbook string
	input    textinput.Model
	viewport viewport.Model
	results  []index.Result
	status   string
	cursor   int
	ready    bool
	topK     int
}

// New creates the model bound to one workbook's index.
func New(engine SearchPort, workbook string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe the dashboard you are looking for and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if topK <= 0 {
		topK = 5
	}
	return Model{
		engine:   engine,
		workbook: workbook,
		input:    ti,
		viewport: vp,
		topK:     topK,
		status:   fmt.Sprintf("Workbook %q loaded. Type to search.", workbook),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.engine.Search(context.Background(), m.workbook, q, m.topK)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.results = nil
				} else {
					m.status = fmt.Sprintf("Results for %q", q)
					m.results = res
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Dashboard Search")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	d := r.Dashboard
	title := titleStyle.Render(fmt.Sprintf("%d/%d  %s", m.cursor+1, len(m.results), d.Name))
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(fmt.Sprintf("\ndistance=%.4f  id=%s", r.Distance, d.ID))
	if len(d.Tags) > 0 {
		b.WriteString("\ntags: " + strings.Join(d.Tags, ", "))
	}
	if d.Description != "" {
		b.WriteString("\n\n" + d.Description)
	}
	if len(d.KPIs) > 0 {
		b.WriteString("\n\nKPIs:")
		for _, k := range d.KPIs {
			b.WriteString("\n  " + k.Name)
			if k.Description != "" {
				b.WriteString(" - " + k.Description)
			}
		}
	}
	if d.URL != "" {
		b.WriteString("\n\n" + d.URL)
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
