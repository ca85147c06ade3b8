package bus

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Name is an event's wire name.
type Name string

// Events understood by the desktop.
const (
	OpenPanelEvent         Name = "open-panel"
	BoardCloseByTokenEvent Name = "board-close-by-token"
	HUDAddWidgetEvent      Name = "hud-add-widget"
	StickyPinEvent         Name = "sticky-pin"
)

// ErrUnknownEvent is returned when decoding a name the bus does not know.
var ErrUnknownEvent = errors.New("unknown event")

// Event is a typed bus message.
type Event interface {
	EventName() Name
}

// OpenPanel asks the desktop to open (or focus) a panel window.
type OpenPanel struct {
	ID             string         `json:"id"`
	AllowDuplicate bool           `json:"allowDuplicate,omitempty"`
	X              *float64       `json:"x,omitempty"`
	Y              *float64       `json:"y,omitempty"`
	Width          *float64       `json:"width,omitempty"`
	Height         *float64       `json:"height,omitempty"`
	Title          string         `json:"title,omitempty"`
	Props          map[string]any `json:"props,omitempty"`
}

// BoardCloseByToken closes every window carrying the token in its props.
type BoardCloseByToken struct {
	Token string `json:"token"`
}

// HUDAddWidget opens a new studio widget window.
type HUDAddWidget struct {
	Title string `json:"title"`
}

// StickyPin pins or unpins every window of a panel.
type StickyPin struct {
	PanelID  string `json:"panelId"`
	IsPinned bool   `json:"isPinned"`
}

func (OpenPanel) EventName() Name         { return OpenPanelEvent }
func (BoardCloseByToken) EventName() Name { return BoardCloseByTokenEvent }
func (HUDAddWidget) EventName() Name      { return HUDAddWidgetEvent }
func (StickyPin) EventName() Name         { return StickyPinEvent }

// Names lists every known event name.
func Names() []Name {
	return []Name{OpenPanelEvent, BoardCloseByTokenEvent, HUDAddWidgetEvent, StickyPinEvent}
}

// Envelope is the wire form of an event: its name plus a JSON payload.
type Envelope struct {
	Event   Name            `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps ev in an envelope.
func Encode(ev Event) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s: %w", ev.EventName(), err)
	}
	return Envelope{Event: ev.EventName(), Payload: payload}, nil
}

// Decode parses a wire payload into the typed event for name.
func Decode(name Name, payload []byte) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch name {
	case OpenPanelEvent:
		var e OpenPanel
		err = unmarshal(payload, &e)
		if err == nil && e.ID == "" {
			err = errors.New("missing id")
		}
		ev = e
	case BoardCloseByTokenEvent:
		var e BoardCloseByToken
		err = unmarshal(payload, &e)
		ev = e
	case HUDAddWidgetEvent:
		var e HUDAddWidget
		err = unmarshal(payload, &e)
		ev = e
	case StickyPinEvent:
		var e StickyPin
		err = unmarshal(payload, &e)
		if err == nil && e.PanelID == "" {
			err = errors.New("missing panelId")
		}
		ev = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", name, err)
	}
	return ev, nil
}

func unmarshal(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}
