package panels

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

type crmPanel struct{}

var contacts = [][]string{
	{"Ada Lovelace", "Analytical Engines", "Lead"},
	{"Grace Hopper", "COBOL Systems", "Customer"},
	{"Alan Turing", "Bletchley Labs", "Prospect"},
	{"Edsger Dijkstra", "Shortest Path Inc", "Customer"},
	{"Barbara Liskov", "Substitution Co", "Lead"},
}

func (crmPanel) Render(props registry.Props, width, height int) (string, error) {
	rows := contacts
	if f := strings.ToLower(propString(props, "filter", "")); f != "" {
		rows = nil
		for _, r := range contacts {
			if strings.Contains(strings.ToLower(strings.Join(r, " ")), f) {
				rows = append(rows, r)
			}
		}
	}
	// Header plus borders take four lines.
	if limit := height - 4; limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("NAME", "COMPANY", "STAGE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render(), nil
}

type schedulerPanel struct{}

var agenda = []struct{ at, what string }{
	{"09:00", "Standup"},
	{"10:30", "Pipeline review"},
	{"13:00", "Lunch with Grace"},
	{"15:00", "Design sync"},
	{"17:30", "Ship notes"},
}

func (schedulerPanel) Render(props registry.Props, width, _ int) (string, error) {
	lines := []string{headerStyle.UnsetPadding().Render(propString(props, "date", "Today"))}
	for _, item := range agenda {
		lines = append(lines, accentStyle.Render(item.at)+"  "+item.what)
	}
	return truncateLines(lines, width), nil
}

type notesPanel struct{}

const defaultNote = "Nothing here yet. Open a note with a text prop, or use " +
	"`tuidesk open notes --prop text=...` from another terminal."

func (notesPanel) Render(props registry.Props, width, _ int) (string, error) {
	text := propString(props, "text", defaultNote)
	if width <= 0 {
		return text, nil
	}
	return ansi.Wordwrap(text, width, ""), nil
}

type studioPanel struct{}

func (studioPanel) Render(props registry.Props, width, height int) (string, error) {
	body := propString(props, "content", "Empty widget")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("13")).
		Align(lipgloss.Center, lipgloss.Center)
	if width > 2 && height > 2 {
		box = box.Width(width).Height(height)
	}
	return box.Render(body), nil
}

type formsPanel struct{}

var formFields = []string{"Name", "Email", "Company", "Message"}

func (formsPanel) Render(props registry.Props, width, _ int) (string, error) {
	field := max(width-12, 4)
	lines := make([]string, 0, len(formFields)+2)
	for _, f := range formFields {
		value := propString(props, strings.ToLower(f), "")
		pad := max(field-ansi.StringWidth(value), 0)
		lines = append(lines, fmt.Sprintf("%-9s %s", f+":", mutedStyle.Render("["+value+strings.Repeat("_", pad)+"]")))
	}
	lines = append(lines, "", accentStyle.Render("[ Submit ]"))
	return truncateLines(lines, width), nil
}

type videoPanel struct{}

func (videoPanel) Render(props registry.Props, width, height int) (string, error) {
	title := propString(props, "src", "demo.mp4")
	bar := max(width-16, 4)
	screen := lipgloss.NewStyle().
		Background(lipgloss.Color("0")).
		Foreground(lipgloss.Color("7")).
		Align(lipgloss.Center, lipgloss.Center).
		Width(max(width, 1)).
		Height(max(height-2, 1)).
		Render("▶ " + title)
	progress := "00:00 " + accentStyle.Render("●") + mutedStyle.Render(strings.Repeat("─", bar)) + " 03:12"
	return screen + "\n\n" + ansi.Truncate(progress, width, ""), nil
}

type previewPanel struct{}

// Render draws a shaded sphere with a truecolor gradient.
func (previewPanel) Render(_ registry.Props, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", nil
	}
	var b strings.Builder
	cx, cy := float64(width)/2, float64(height)/2
	r := min(cx/2, cy)
	for y := range height {
		for x := range width {
			dx, dy := (float64(x)-cx)/2, float64(y)-cy
			if dx*dx+dy*dy > r*r {
				b.WriteByte(' ')
				continue
			}
			shade := 255 - int(155*(dx+dy+2*r)/(4*r))
			c := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", shade/3, shade/2, shade))
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func truncateLines(lines []string, width int) string {
	if width > 0 {
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}
