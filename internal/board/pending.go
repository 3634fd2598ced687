package board

import "recruiter-console/internal/domain"

// PendingActions records the mutating action in flight per application id.
// An id moves none -> action -> none; Begin refuses a second action.
type PendingActions map[string]domain.Action

// Get returns the action in flight for id, or domain.ActionNone.
func (p PendingActions) Get(id string) domain.Action {
	return p[id]
}

// Begin marks action as in flight for id. It reports false when id already has one.
func (p PendingActions) Begin(id string, action domain.Action) bool {
	if action == domain.ActionNone || p[id] != domain.ActionNone {
		return false
	}
	p[id] = action
	return true
}

// End returns id to no action. Ending an idle id is a no-op.
func (p PendingActions) End(id string) {
	delete(p, id)
}

func (p PendingActions) clone() PendingActions {
	out := make(PendingActions, len(p))
	for id, action := range p {
		out[id] = action
	}
	return out
}
