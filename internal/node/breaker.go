package node

// ToggleBreaker flips the manual breaker and mirrors it into the battery's
// discharge permission. It always succeeds.
func (n *Node) ToggleBreaker() {
	n.breakerEnabled = !n.breakerEnabled
	n.deps.Battery.SetCanDischarge(n.breakerEnabled)

	n.pushUI(n.deps.Battery.Reading())
	n.play(CueBreakerToggled)
}

// RequestToggle toggles the breaker on behalf of a requester if they pass the
// access check. A denied requester gets a notice and the node is unchanged.
func (n *Node) RequestToggle(requester string) bool {
	if !n.authorized(requester) {
		if n.deps.Notices != nil {
			n.deps.Notices.Notify(requester, n.id, NoticeAccessDenied)
		}
		return false
	}
	n.ToggleBreaker()
	return true
}

// authorized skips the check when the node is compromised, has no
// requirement, or has no checker to ask.
func (n *Node) authorized(requester string) bool {
	if n.compromised || n.requirement == nil || n.deps.Access == nil {
		return true
	}
	return n.deps.Access.IsAllowed(requester, n.requirement)
}
