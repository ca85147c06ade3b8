package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

func overlayTitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Accent()).Bold(true)
}

func overlayBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocused()).
		Padding(1, 2)
}

// renderHelp lists every bound action, following the user's keybindings.
func (d *Desk) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Highlight()).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	section := lipgloss.NewStyle().Foreground(theme.Muted()).Padding(0, 1)

	var rows [][]string
	for _, s := range config.HelpSections(d.Keys) {
		for _, b := range s.Bindings {
			rows = append(rows, []string{b.Key, b.Description, s.Title})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Muted())).
		Headers("Keys", "Action", "Section").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().Bold(true).Foreground(theme.BorderFocused()).Padding(0, 1)
			case col == 0:
				return keyStyle
			case col == 2:
				return section
			}
			return cell
		})
	if d.Height > 0 {
		t = t.Height(max(d.Height-8, 6))
	}

	return overlayBox().Render(overlayTitle().Render("Keybindings") + "\n\n" + t.Render() + "\n\n" +
		dimStyle().Render("Press esc or ? to close"))
}

// ScrollLogs moves the log viewer by delta lines.
func (d *Desk) ScrollLogs(delta int) {
	d.LogScroll = max(d.LogScroll+delta, 0)
}

func (d *Desk) logsPerPage() int {
	// Border, padding, title and hint lines.
	return max(d.Height-12, 1)
}

// renderLogs shows the buffered log lines, newest at the bottom.
func (d *Desk) renderLogs() string {
	messages := logging.Messages()
	perPage := d.logsPerPage()
	maxScroll := max(len(messages)-perPage, 0)
	d.LogScroll = min(d.LogScroll, maxScroll)
	start := d.LogScroll
	end := min(start+perPage, len(messages))

	width := min(max(d.Width-10, 20), 100)
	lines := []string{overlayTitle().Render("System Logs"), ""}
	if len(messages) == 0 {
		lines = append(lines, dimStyle().Render("No log messages yet."))
	}
	for _, msg := range messages[start:end] {
		lines = append(lines, colorLevel(ansi.Truncate(msg, width, "…")))
	}
	if maxScroll > 0 {
		lines = append(lines, "", dimStyle().Render(fmt.Sprintf("Showing %d-%d of %d logs (↑/↓ to scroll)", start+1, end, len(messages))))
	}
	lines = append(lines, "", dimStyle().Render("Press esc to exit, j/k or ↑/↓ to scroll"))

	return overlayBox().Width(width + 6).Render(strings.Join(lines, "\n"))
}

func colorLevel(line string) string {
	for _, tag := range []string{"ERRO", "WARN", "INFO", "DEBU"} {
		if i := strings.Index(line, tag); i >= 0 {
			return line[:i] + lipgloss.NewStyle().Foreground(theme.LogLevel(tag)).Render(tag) + line[i+len(tag):]
		}
	}
	return line
}
