// Package panels holds the built-in panel catalog. Each panel is registered
// under a stable id with a lazy resolver; the desktop only ever talks to
// them through the registry.
package panels

import (
	"context"
	"fmt"

	"github.com/charmbracelet/colorprofile"

	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

// Panel ids shipped with tuidesk.
const (
	Dashboard = "dashboard"
	CRM       = "crm"
	Scheduler = "scheduler"
	Notes     = "notes"
	Studio    = "studio"
	Forms     = "forms"
	Video     = "video"
	Preview3D = "preview3d"
)

// Options tunes the catalog for the host it runs in.
type Options struct {
	// Profile is the color profile of the output the desktop renders to.
	Profile colorprofile.Profile
	// Disabled reports ids that must not be registered.
	Disabled func(id string) bool
	// Sampler feeds the dashboard. Nil uses the host's real stats.
	Sampler Sampler
}

// Builtins returns the catalog entries in launcher order.
func Builtins(opts Options) []registry.Entry {
	sampler := opts.Sampler
	if sampler == nil {
		sampler = HostSampler{}
	}
	profile := opts.Profile

	return []registry.Entry{
		{ID: Dashboard, Title: "Dashboard", Icon: "◉", Resolver: func(context.Context) (registry.Panel, error) {
			return NewDashboard(sampler), nil
		}},
		{ID: CRM, Title: "Contacts", Icon: "☰", Resolver: static(crmPanel{})},
		{ID: Scheduler, Title: "Scheduler", Icon: "◷", Resolver: static(schedulerPanel{})},
		{ID: Notes, Title: "Notes", Icon: "✎", Resolver: static(notesPanel{})},
		{ID: Studio, Title: "Studio", Icon: "✦", Resolver: static(studioPanel{})},
		{ID: Forms, Title: "Forms", Icon: "▤", Resolver: static(formsPanel{})},
		{ID: Video, Title: "Video", Icon: "▶", Resolver: static(videoPanel{})},
		{ID: Preview3D, Title: "3D Preview", Icon: "◈", Resolver: func(context.Context) (registry.Panel, error) {
			if profile != colorprofile.TrueColor {
				return nil, fmt.Errorf("3D preview needs a truecolor terminal (detected %s)", profile)
			}
			return previewPanel{}, nil
		}},
	}
}

// Register adds every enabled built-in panel to reg.
func Register(reg *registry.Registry, opts Options) error {
	for _, e := range Builtins(opts) {
		if opts.Disabled != nil && opts.Disabled(e.ID) {
			continue
		}
		if err := reg.Register(e); err != nil {
			return fmt.Errorf("failed to register panel %s: %w", e.ID, err)
		}
	}
	return nil
}

func static(p registry.Panel) registry.Resolver {
	return func(context.Context) (registry.Panel, error) { return p, nil }
}

// propString reads a string prop, falling back to def.
func propString(props registry.Props, key, def string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return def
}
