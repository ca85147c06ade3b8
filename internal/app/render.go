package app

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// Layer ids carry a prefix naming what was hit.
const (
	WindowLayer  = "window:"
	DockLayer    = "dock:"
	ToolbarLayer = "toolbar:"
	OverlayLayer = "overlay"
)

// Toolbar hit targets, suffixed to ToolbarLayer.
const (
	ToolbarGrip = "grip"
)

// Chrome sits above every window, overlays above the chrome.
const (
	chromeZ  = 1 << 20
	overlayZ = 1 << 21
)

func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Muted())
}

func buttonStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.ButtonFg()).Background(theme.ButtonBg())
}

func dockStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.DockFg()).Background(theme.DockBg())
}

func toolbarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.ToolbarFg()).Background(theme.ToolbarBg())
}

// View renders the desktop.
func (d *Desk) View() tea.View {
	v := tea.NewView(d.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.WindowTitle = "tuidesk"
	return v
}

// Render composes every visible window, the dock, the toolbar and any
// overlay into one frame.
func (d *Desk) Render() string {
	if d.Width <= 0 || d.Height <= 0 {
		return ""
	}
	if d.Registry.Len() == 0 {
		return d.renderDiagnostic()
	}
	return lipgloss.NewCanvas(d.Width, d.Height).Compose(d.Scene()).Render()
}

// Scene returns the layer tree of the current frame. It is rebuilt once
// per update and shared by rendering and mouse hit testing.
func (d *Desk) Scene() *lipgloss.Compositor {
	if d.scene == nil {
		d.scene = lipgloss.NewCompositor(d.layers()...)
	}
	return d.scene
}

// HitID returns the id of the top-most layer under (x, y), or "".
func (d *Desk) HitID(x, y int) string {
	return d.Scene().Hit(x, y).ID()
}

func (d *Desk) layers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	for _, w := range d.Store.Stack() {
		if w.Minimized {
			continue
		}
		x, y, width, height := cells(d.WindowRect(w))
		layers = append(layers, lipgloss.NewLayer(d.renderWindow(w, width, height)).
			X(x).Y(y).Z(w.Z).ID(WindowLayer+w.ID))
	}

	layers = append(layers, d.dockLayers()...)
	layers = append(layers, d.toolbarLayer())

	switch {
	case d.ShowHelp:
		layers = append(layers, d.overlay(d.renderHelp()))
	case d.ShowLogs:
		layers = append(layers, d.overlay(d.renderLogs()))
	}
	return layers
}

// WindowRect is where w is drawn: its drag or resize preview while a
// gesture is live, otherwise its committed rect.
func (d *Desk) WindowRect(w desk.Window) geom.Rect {
	if r, ok := d.Drag.Preview(w.ID); ok {
		return r
	}
	return w.Rect()
}

func cells(r geom.Rect) (x, y, width, height int) {
	return int(math.Round(r.X)), int(math.Round(r.Y)),
		max(int(math.Round(r.Width)), minFrameWidth), max(int(math.Round(r.Height)), minFrameHeight)
}

// TitleButton is a control on a window's title bar.
type TitleButton int

const (
	NoButton TitleButton = iota
	MinimizeButton
	MaximizeButton
	CloseButton
)

const (
	buttonWidth    = 3
	minFrameWidth  = 3*buttonWidth + 4
	minFrameHeight = 3
)

// TitleButtonAt reports which title bar button of a window drawn at r lies
// under (x, y). Buttons sit right-aligned on the top border.
func TitleButtonAt(r geom.Rect, x, y int) TitleButton {
	left, top, width, _ := cells(r)
	if y != top {
		return NoButton
	}
	rel := x - left
	closeStart := width - 1 - buttonWidth
	switch {
	case rel >= closeStart && rel < closeStart+buttonWidth:
		return CloseButton
	case rel >= closeStart-buttonWidth && rel < closeStart:
		return MaximizeButton
	case rel >= closeStart-2*buttonWidth && rel < closeStart-buttonWidth:
		return MinimizeButton
	}
	return NoButton
}

// OnTitleBar reports whether (x, y) is on the top border of a window at r.
func OnTitleBar(r geom.Rect, x, y int) bool {
	left, top, width, _ := cells(r)
	return y == top && x >= left && x < left+width
}

func (d *Desk) renderWindow(w desk.Window, width, height int) string {
	border := theme.BorderUnfocused()
	switch {
	case w.ID == d.Store.Active():
		border = theme.BorderFocused()
	case w.Pinned:
		border = theme.BorderPinned()
	}
	body := d.renderPanel(w, width-2, height-2)
	return frame(w, body, width, height, border)
}

// frame draws the rounded border by hand so the title bar buttons land on
// known columns.
func frame(w desk.Window, body string, width, height int, c color.Color) string {
	edge := lipgloss.NewStyle().Foreground(c)
	inner := width - 2

	label := " " + w.Icon + " " + w.Title + " "
	if w.Pinned {
		label = " ▲" + label
	}
	titleSpace := inner - 3*buttonWidth
	label = ansi.Truncate(label, titleSpace, "…")
	fill := titleSpace - ansi.StringWidth(label)

	maxGlyph := " □ "
	if w.Maximized {
		maxGlyph = " ▣ "
	}
	buttons := buttonStyle().Render(" − ") + buttonStyle().Render(maxGlyph) +
		buttonStyle().Background(theme.Error()).Render(" × ")

	var b strings.Builder
	b.WriteString(edge.Render("╭"))
	b.WriteString(edge.Bold(true).Render(label))
	b.WriteString(edge.Render(strings.Repeat("─", fill)))
	b.WriteString(buttons)
	b.WriteString(edge.Render("╮"))

	lines := strings.Split(body, "\n")
	side := edge.Render("│")
	for i := range height - 2 {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteByte('\n')
		b.WriteString(side)
		b.WriteString(fit(line, inner))
		b.WriteString(side)
	}
	b.WriteByte('\n')
	b.WriteString(edge.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return b.String()
}

// fit truncates or pads s to exactly width cells and closes any open style.
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s + ansi.ResetStyle
}

// renderPanel renders a window's panel inside its isolation boundary. Load
// and render failures become an inline error block in this window only.
func (d *Desk) renderPanel(w desk.Window, width, height int) string {
	c, _ := d.Registry.Component(w.BaseKey)
	switch c.Status {
	case registry.Pending:
		return dimStyle().Render("Loading " + w.Title + "…")
	case registry.Failed:
		return errorBlock(w.Title+" failed to load", c.Err, c.Stack, width)
	}

	out, err := registry.SafeRender(w.BaseKey, c.Panel, w.Props, width, height)
	if err != nil {
		msg := err.Error()
		if d.renderFailures[w.ID] != msg {
			d.renderFailures[w.ID] = msg
			d.Logger.Warn("panel render failed", "window", w.ID, "err", err)
		}
		stack := ""
		if re, ok := err.(*registry.RenderError); ok {
			stack = re.Stack
		}
		return errorBlock(w.Title+" crashed", err, stack, width)
	}
	delete(d.renderFailures, w.ID)
	return out
}

func errorBlock(headline string, err error, stack string, width int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Error())
	lines := []string{title.Render("✗ " + headline)}
	if err != nil {
		lines = append(lines, ansi.Wordwrap(err.Error(), max(width, 1), ""))
	}
	if stack != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(strings.TrimSpace(stack), "\n") {
			lines = append(lines, dimStyle().Render(strings.ReplaceAll(l, "\t", "  ")))
		}
	}
	return strings.Join(lines, "\n")
}

func (d *Desk) dockLayers() []*lipgloss.Layer {
	y := d.Height - DockHeight
	items := d.Store.DockItems()
	if len(items) == 0 {
		hint := dimStyle().Render("dock empty")
		return []*lipgloss.Layer{lipgloss.NewLayer(hint).
			X(max((d.Width-lipgloss.Width(hint))/2, 0)).Y(y).Z(chromeZ)}
	}

	pills := make([]string, len(items))
	total := 0
	for i, it := range items {
		pills[i] = dockStyle().Render(" " + it.Icon + " " + ansi.Truncate(it.Title, 16, "…") + " ")
		total += lipgloss.Width(pills[i]) + 1
	}

	x := max((d.Width-total)/2, 0)
	layers := make([]*lipgloss.Layer, 0, len(items))
	for i, it := range items {
		layers = append(layers, lipgloss.NewLayer(pills[i]).X(x).Y(y).Z(chromeZ).ID(DockLayer+it.ID))
		x += lipgloss.Width(pills[i]) + 1
	}
	return layers
}

// ToolbarActions are the toolbar buttons in display order, keyed by the
// action they dispatch.
var ToolbarActions = []struct{ Action, Label string }{
	{"dock_all", "Dock"},
	{"restore_all", "Restore"},
	{"reset_layout", "Reset"},
	{"toggle_help", "Help"},
}

func (d *Desk) toolbarLayer() *lipgloss.Layer {
	pos := d.Toolbar.Position()
	width := max(int(2*d.Config.Desk.Toolbar.HalfWidth), 1)

	grip := toolbarStyle().Render(" ⠿ ")
	var children []*lipgloss.Layer
	children = append(children, lipgloss.NewLayer(grip).Z(chromeZ+1).ID(ToolbarLayer+ToolbarGrip))

	x := lipgloss.Width(grip)
	for _, a := range ToolbarActions {
		label := toolbarStyle().Bold(true).Render(" " + a.Label + " ")
		children = append(children, lipgloss.NewLayer(label).X(x).Z(chromeZ+1).ID(ToolbarLayer+a.Action))
		x += lipgloss.Width(label)
	}

	width = max(width, x)
	clock := time.Now().Format("15:04")
	if !d.Drag.AllowOffscreen() {
		clock = "⊡ " + clock
	}
	bar := toolbarStyle().Width(width).Render(strings.Repeat(" ", x) + rightAlign(clock+" ", width-x))
	return lipgloss.NewLayer(bar, children...).
		X(int(math.Round(pos.X))).Y(int(math.Round(pos.Y))).Z(chromeZ).ID(ToolbarLayer + "bar")
}

func rightAlign(s string, width int) string {
	if pad := width - ansi.StringWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return ansi.Truncate(s, max(width, 0), "")
}

func (d *Desk) overlay(content string) *lipgloss.Layer {
	x := max((d.Width-lipgloss.Width(content))/2, 0)
	y := max((d.Height-lipgloss.Height(content))/2, 0)
	return lipgloss.NewLayer(content).X(x).Y(y).Z(overlayZ).ID(OverlayLayer)
}

func (d *Desk) renderDiagnostic() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error()).
		Padding(1, 2).
		Render(fmt.Sprintf("%s\n\n%s",
			lipgloss.NewStyle().Bold(true).Foreground(theme.Error()).Render("No panels registered"),
			"tuidesk has nothing to open. Check [panels] disabled in\nthe config file, then restart."))
	return lipgloss.Place(d.Width, d.Height, lipgloss.Center, lipgloss.Center, box)
}
