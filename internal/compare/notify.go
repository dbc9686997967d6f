package compare

// Invoker identifies who triggered the update cycle a notification came
// from. Empty means the periodic schedule fired it.
type Invoker string

// Notify is the payload published to subscribers after an update cycle
// that changed at least one page.
type Notify struct {
	Nonce    string       `json:"nonce"`
	Invoker  Invoker      `json:"invoker,omitempty"`
	Groups   *PageCompare `json:"groups,omitempty"`
	Teachers *PageCompare `json:"teachers,omitempty"`
}

// HasChanges reports whether either page diff carries real changes.
func (n *Notify) HasChanges() bool {
	if n.Groups != nil && n.Groups.HasChanges() {
		return true
	}
	if n.Teachers != nil && n.Teachers.HasChanges() {
		return true
	}
	return false
}
