package domain

// Action is the mutating operation in flight for one application.
type Action string

const (
	ActionNone   Action = ""
	ActionDelete Action = "delete"
)

// StatusAction returns the in-flight action for a status change to s.
func StatusAction(s ApplicationStatus) Action {
	return Action(s)
}

// IsStatusChange reports whether the action moves an application to a new status.
func (a Action) IsStatusChange() bool {
	return a != ActionNone && a != ActionDelete
}
