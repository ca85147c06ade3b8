package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/control"
)

func controlClient() (*control.Client, error) {
	path, err := control.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine socket path: %w", err)
	}
	return control.NewClient(path), nil
}

func publish(ev bus.Event) error {
	client, err := controlClient()
	if err != nil {
		return err
	}
	n, err := client.Publish(ev)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println(mutedStyle.Render("No window listened for " + string(ev.EventName())))
	}
	return nil
}

// tokenProp tags a window for close-by-token. It always stays a string.
const tokenProp = "winToken"

// parseProps turns key=value pairs into panel props. Values that parse as
// numbers or booleans keep that type.
func parseProps(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid prop %q, expected key=value", pair)
		}
		if key == tokenProp {
			props[key] = value
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			props[key] = f
		} else if b, err := strconv.ParseBool(value); err == nil {
			props[key] = b
		} else {
			props[key] = value
		}
	}
	return props, nil
}

// optionalFloat returns a pointer to the flag's value when it was set.
func optionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

func remoteCommands() []*cobra.Command {
	var (
		dup   bool
		title string
		props []string
	)
	openCmd := &cobra.Command{
		Use:   "open <panel>",
		Short: "Open a panel in the running desktop",
		Example: `  tuidesk open crm
  tuidesk open notes --dup --title Scratch --prop text="remember the milk" --prop winToken=42
  tuidesk close 42
  tuidesk open studio --x 4 --y 2 --width 40 --height 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProps(props)
			if err != nil {
				return err
			}
			return publish(bus.OpenPanel{
				ID:             args[0],
				AllowDuplicate: dup,
				Title:          title,
				Props:          p,
				X:              optionalFloat(cmd, "x"),
				Y:              optionalFloat(cmd, "y"),
				Width:          optionalFloat(cmd, "width"),
				Height:         optionalFloat(cmd, "height"),
			})
		},
	}
	openCmd.Flags().BoolVar(&dup, "dup", false, "Open another window even if the panel is already open")
	openCmd.Flags().StringVar(&title, "title", "", "Window title")
	openCmd.Flags().StringArrayVar(&props, "prop", nil, "Panel prop as key=value (repeatable)")
	openCmd.Flags().Float64("x", 0, "Window column")
	openCmd.Flags().Float64("y", 0, "Window row")
	openCmd.Flags().Float64("width", 0, "Window width in cells")
	openCmd.Flags().Float64("height", 0, "Window height in cells")

	closeCmd := &cobra.Command{
		Use:   "close <token>",
		Short: "Close every window opened with --prop winToken=<token>",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return publish(bus.BoardCloseByToken{Token: args[0]})
		},
	}

	pinCmd := &cobra.Command{
		Use:   "pin <panel>",
		Short: "Keep a panel's windows above the others",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return publish(bus.StickyPin{PanelID: args[0], IsPinned: true})
		},
	}

	unpinCmd := &cobra.Command{
		Use:   "unpin <panel>",
		Short: "Release a pinned panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return publish(bus.StickyPin{PanelID: args[0], IsPinned: false})
		},
	}

	widgetCmd := &cobra.Command{
		Use:   "widget [title]",
		Short: "Add a studio widget window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			title := "Widget"
			if len(args) == 1 {
				title = args[0]
			}
			return publish(bus.HUDAddWidget{Title: title})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running desktop's windows",
		RunE: func(*cobra.Command, []string) error {
			client, err := controlClient()
			if err != nil {
				return err
			}
			data, err := client.Status()
			if err != nil {
				return err
			}
			printStatus(data)
			return nil
		},
	}

	return []*cobra.Command{openCmd, closeCmd, pinCmd, unpinCmd, widgetCmd, statusCmd}
}

func printStatus(data *control.StatusData) {
	uptime := time.Duration(data.UptimeSeconds) * time.Second
	fmt.Println(titleStyle.Render(fmt.Sprintf("tuidesk: %d windows, %d panels, up %s",
		len(data.Windows), data.Panels, uptime)))
	if len(data.Windows) == 0 {
		fmt.Println(mutedStyle.Render("No windows open"))
		return
	}

	rows := make([][]string, 0, len(data.Windows))
	for _, w := range data.Windows {
		id := w.ID
		if id == data.Active {
			id = "* " + id
		}
		if w.Pinned {
			id += " ▲"
		}
		rows = append(rows, []string{
			id,
			w.Title,
			w.State,
			strconv.Itoa(w.Z),
			fmt.Sprintf("%.0f,%.0f %.0fx%.0f", w.X, w.Y, w.Width, w.Height),
		})
	}
	fmt.Println(newTable("ID", "Title", "State", "Z", "Geometry").Rows(rows...).Render())
}
