package panels

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

const (
	// sampleInterval throttles stat collection to twice a second.
	sampleInterval = 500 * time.Millisecond
	historyLen     = 10
)

// Stats is one sample of host load.
type Stats struct {
	CPU        float64
	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64
}

// Sampler collects host stats.
type Sampler interface {
	Sample(ctx context.Context) (Stats, error)
}

// HostSampler reads the local machine's CPU and memory through gopsutil.
type HostSampler struct{}

// Sample implements Sampler.
func (HostSampler) Sample(ctx context.Context) (Stats, error) {
	var s Stats
	// A zero interval compares against the previous call instead of sleeping.
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return s, fmt.Errorf("cpu: %w", err)
	}
	if len(pct) > 0 {
		s.CPU = pct[0]
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("memory: %w", err)
	}
	s.MemUsed, s.MemTotal, s.MemPercent = vm.Used, vm.Total, vm.UsedPercent
	return s, nil
}

// DashboardPanel shows a rolling CPU graph and memory usage.
type DashboardPanel struct {
	sampler Sampler
	now     func() time.Time

	mu      sync.Mutex
	last    time.Time
	history []float64
	current Stats
	err     error
}

// NewDashboard creates a dashboard fed by s.
func NewDashboard(s Sampler) *DashboardPanel {
	return &DashboardPanel{sampler: s, now: time.Now}
}

func (d *DashboardPanel) update() {
	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < sampleInterval {
		return
	}
	d.last = now

	ctx, cancel := context.WithTimeout(context.Background(), sampleInterval)
	defer cancel()
	s, err := d.sampler.Sample(ctx)
	d.err = err
	if err != nil {
		return
	}
	d.current = s
	if len(d.history) >= historyLen {
		d.history = d.history[1:]
	}
	d.history = append(d.history, s.CPU)
}

// Render implements registry.Panel.
func (d *DashboardPanel) Render(props registry.Props, width, _ int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.update()

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	lines := []string{
		label.Render(propString(props, "greeting", "Welcome back")),
		"",
		"CPU:" + CPUGraph(d.history) + fmt.Sprintf(" %3.0f%%", d.current.CPU),
		"Mem:" + meter(d.current.MemPercent, historyLen) + fmt.Sprintf(" %3.0f%%", d.current.MemPercent),
		dim.Render(fmt.Sprintf("    %s / %s", humanBytes(d.current.MemUsed), humanBytes(d.current.MemTotal))),
	}
	if d.err != nil {
		lines = append(lines, "", dim.Render("stats unavailable: "+d.err.Error()))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n")), nil
}

var bars = []rune("▁▂▃▄▅▆▇█")

// CPUGraph draws the last samples as a fixed-width bar graph, left padded
// while the history is still filling up.
func CPUGraph(history []float64) string {
	if len(history) > historyLen {
		history = history[len(history)-historyLen:]
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", historyLen-len(history)))
	for _, usage := range history {
		h := min(max(int(usage/12.5), 0), len(bars)-1)
		b.WriteRune(bars[h])
	}
	return b.String()
}

func meter(pct float64, width int) string {
	filled := min(max(int(pct/100*float64(width)+0.5), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
