package node

import "fmt"

// Event is one of the inputs a node reacts to.
type Event interface {
	eventName() string
}

type (
	// Created fires once when the node is spawned.
	Created struct{}
	// ReadingChanged fires when the battery reading moved.
	ReadingChanged struct{}
	// RefreshRequested asks for a UI re-derivation.
	RefreshRequested struct{}
	// ToggleRequested is a manual breaker toggle from a requester.
	ToggleRequested struct{ Requester string }
	// ToolUsed is an implement applied to the node by a user.
	ToolUsed struct{ Tool, User string }
	// ToolFinished is the completion of an accepted tool operation.
	ToolFinished struct{}
	// CompromiseEvent is the permanent compromise override.
	CompromiseEvent struct{}
	// DisturbanceEvent is the transient disturbance pulse.
	DisturbanceEvent struct{}
	// Examined asks for the examine key; Reply receives it synchronously.
	Examined struct{ Reply func(key string) }
)

func (Created) eventName() string          { return "created" }
func (ReadingChanged) eventName() string   { return "reading_changed" }
func (RefreshRequested) eventName() string { return "refresh_requested" }
func (ToggleRequested) eventName() string  { return "toggle_requested" }
func (ToolUsed) eventName() string         { return "tool_used" }
func (ToolFinished) eventName() string     { return "tool_finished" }
func (CompromiseEvent) eventName() string  { return "compromise" }
func (DisturbanceEvent) eventName() string { return "disturbance" }
func (Examined) eventName() string         { return "examined" }

// EventName returns the log name of an event.
func EventName(ev Event) string {
	return ev.eventName()
}

// Handle dispatches one event and reports whether it was handled (consumed,
// accepted, or had an effect, depending on the event).
func (n *Node) Handle(ev Event) bool {
	switch e := ev.(type) {
	case Created:
		n.pushPanelVisual()
		n.Refresh()
		return true
	case ReadingChanged, RefreshRequested:
		n.Refresh()
		return true
	case ToggleRequested:
		return n.RequestToggle(e.Requester)
	case ToolUsed:
		return n.BeginPanelToggle(e.Tool, e.User)
	case ToolFinished:
		n.CompletePanelToggle()
		return true
	case CompromiseEvent:
		return n.Compromise()
	case DisturbanceEvent:
		return n.Disturb()
	case Examined:
		if e.Reply != nil {
			e.Reply(n.Examine())
		}
		return true
	default:
		panic(fmt.Sprintf("node: unhandled event %T", ev))
	}
}
