package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/monoid/hprof-dump-parser/internal/index"
	"github.com/monoid/hprof-dump-parser/utils"
)

const (
	chartHeight  = 10
	maxChartBars = 8
)

type kindRow struct {
	label string
	stat  *index.KindStat
}

type Model struct {
	snap     *index.Snapshot
	rows     []kindRow
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func newModel(snap *index.Snapshot) *Model {
	rows := make([]kindRow, 0, len(snap.Stats.PerKind))
	for label, stat := range snap.Stats.PerKind {
		rows = append(rows, kindRow{label: label, stat: stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Count != rows[j].stat.Count {
			return rows[i].stat.Count > rows[j].stat.Count
		}
		return rows[i].label < rows[j].label
	})

	return &Model{snap: snap, rows: rows}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := lipgloss.Height(m.headerView()) + chartHeight + 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-headerHeight, 3))
			m.viewport.SetContent(m.tableView())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-headerHeight, 3)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.chartView(),
		m.viewport.View(),
		utils.MutedStyle.Render("↑/↓ scroll · q quit"),
	)
}

func (m *Model) headerView() string {
	title := utils.TitleStyle.Render("hprof records")
	info := utils.MutedStyle.Render(fmt.Sprintf(" %s · id size %d · %d records",
		m.snap.Banner, m.snap.IDSize, m.snap.Stats.Records))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, info)
}

var barStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(utils.InfoColor),
	lipgloss.NewStyle().Foreground(utils.GoodColor),
	lipgloss.NewStyle().Foreground(utils.WarningColor),
	lipgloss.NewStyle().Foreground(utils.CriticalColor),
}

func (m *Model) chartView() string {
	if len(m.rows) == 0 {
		return utils.MutedStyle.Render("no records")
	}

	width := max(m.width-2, 20)
	bc := barchart.New(width, chartHeight)
	for i, row := range m.rows {
		if i >= maxChartBars {
			break
		}
		bc.Push(barchart.BarData{
			Label: shortLabel(row.label),
			Values: []barchart.BarValue{
				{Name: row.label, Value: float64(row.stat.Count), Style: barStyles[i%len(barStyles)]},
			},
		})
	}
	bc.Draw()
	return bc.View()
}

func (m *Model) tableView() string {
	var b strings.Builder
	header := fmt.Sprintf("%-24s %10s %10s", "RECORD", "COUNT", "PAYLOAD")
	b.WriteString(utils.InfoStyle.Render(header))
	b.WriteString("\n")
	for _, row := range m.rows {
		line := fmt.Sprintf("%-24s %10d %10s",
			row.label, row.stat.Count, utils.MemorySize(row.stat.Bytes))
		b.WriteString(utils.TextStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(utils.InfoStyle.Render(fmt.Sprintf("%d strings · %d classes",
		m.snap.Strings.Count(), m.snap.Classes.Count())))
	return b.String()
}

// shortLabel compresses tag names so bar labels fit under the bars.
func shortLabel(label string) string {
	label = strings.TrimPrefix(label, "GC_")
	if len(label) > 10 {
		return label[:10]
	}
	return label
}

// Run opens the record browser over a finished snapshot and blocks
// until the user quits.
func Run(snap *index.Snapshot) error {
	p := tea.NewProgram(newModel(snap), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
