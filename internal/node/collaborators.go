package node

// NetworkBattery is the node's battery as registered on the power network.
type NetworkBattery interface {
	Reading() Reading
	SetCanDischarge(enabled bool)
}

// VisualSink accepts appearance data writes.
type VisualSink interface {
	SetVisual(nodeID string, key VisualKey, value string)
}

// UISink accepts UI snapshots.
type UISink interface {
	SetUIState(nodeID string, state UIState)
}

// SoundSink plays cues at the node.
type SoundSink interface {
	PlayCue(nodeID string, cue Cue)
}

// Notifier shows a transient notice to a single requester.
type Notifier interface {
	Notify(requester, nodeID, messageKey string)
}

// AccessChecker answers whether a requester satisfies an access requirement.
type AccessChecker interface {
	IsAllowed(requester string, req AccessRequirement) bool
}

// ToolEngine runs timed tool operations. Start returns false when the tool
// does not qualify or another operation is pending on the target; on success
// the engine later delivers ToolFinished to the target node unless cancelled.
type ToolEngine interface {
	Start(req ToolRequest) bool
}
