package cli

import (
	"fmt"
	"strings"
	"time"

	"quarters/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of quarter progress, refreshed every second",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := opts.zone()
			if err != nil {
				return err
			}
			model := newWatchModel(zone, opts.app.Now, interval)
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := program.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(watchModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval")
	return cmd
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	barFill    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	barEmpty   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

type watchModel struct {
	zone     *time.Location
	now      func() time.Time
	interval time.Duration
	width    int
	progress service.Progress
	err      error
}

func newWatchModel(zone *time.Location, now func() time.Time, interval time.Duration) watchModel {
	if interval <= 0 {
		interval = time.Second
	}
	m := watchModel{zone: zone, now: now, interval: interval, width: 60}
	m.progress, m.err = progressAt(now(), zone)
	return m
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.progress, m.err = progressAt(m.now(), m.zone)
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	p := m.progress
	barWidth := m.width - 20
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("We are in "+p.Name) + "\n\n")
	b.WriteString(renderBar(p.Percentage, barWidth) + fmt.Sprintf(" %6.2f%%\n\n", p.Percentage))
	b.WriteString(labelStyle.Render("Now        ") + p.TimestampText + "\n")
	b.WriteString(labelStyle.Render("Timezone   ") + p.Timezone + "\n")
	b.WriteString(labelStyle.Render("Started    ") + p.ElapsedText + " ago\n")
	b.WriteString(labelStyle.Render("Next in    ") + p.RemainingText + "\n")
	return boxStyle.Render(b.String()) + "\n" + helpStyle.Render("q to quit") + "\n"
}

func renderBar(percentage float64, width int) string {
	filled := int(percentage / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return barFill.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", width-filled))
}
