package node

// Compromise permanently disables authorization checks and forces the charge
// indicator to Compromised from the next derivation on. The event is always
// handled.
func (n *Node) Compromise() bool {
	n.compromised = true
	return true
}

// Disturb forces an enabled breaker off. It reports whether it had an effect.
func (n *Node) Disturb() bool {
	if !n.breakerEnabled {
		return false
	}
	n.ToggleBreaker()
	return true
}
