package node

// PanelState projects the panel flag.
func (n *Node) PanelState() PanelState {
	if n.panelOpen {
		return PanelOpen
	}
	return PanelClosed
}

// Examine returns the localization key describing the panel.
func (n *Node) Examine() string {
	if n.panelOpen {
		return ExaminePanelOpen
	}
	return ExaminePanelClosed
}

// BeginPanelToggle asks the tool engine for a screwing operation on this node.
// The in-flight operation is owned by the engine; the node holds no state for it.
func (n *Node) BeginPanelToggle(tool, user string) bool {
	if n.deps.Tools == nil {
		return false
	}
	return n.deps.Tools.Start(ToolRequest{
		Tool:     tool,
		User:     user,
		Target:   n.id,
		Duration: n.cfg.ScrewTime,
		Quality:  ScrewingQuality,
	})
}

// CompletePanelToggle flips the panel once the tool operation finishes.
func (n *Node) CompletePanelToggle() {
	n.panelOpen = !n.panelOpen
	n.pushPanelVisual()

	if n.panelOpen {
		n.play(CuePanelOpened)
	} else {
		n.play(CuePanelClosed)
	}
}
