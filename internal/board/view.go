package board

import "recruiter-console/internal/domain"

// View is a point-in-time copy of the board's state.
type View struct {
	Applications []domain.Application
	Error        string
	Loading      bool
	Pending      PendingActions
}

// Find returns the application with id.
func (v View) Find(id string) (domain.Application, bool) {
	for _, app := range v.Applications {
		if app.ID == id {
			return app, true
		}
	}
	return domain.Application{}, false
}

// CanSetStatus reports whether the trigger moving id to status is enabled:
// the application exists, nothing is in flight for it and it is not already
// in status.
func (v View) CanSetStatus(id string, status domain.ApplicationStatus) bool {
	app, ok := v.Find(id)
	return ok && v.Pending.Get(id) == domain.ActionNone && app.Status != status
}

// CanDelete reports whether the delete trigger for id is enabled.
func (v View) CanDelete(id string) bool {
	_, ok := v.Find(id)
	return ok && v.Pending.Get(id) == domain.ActionNone
}

// Empty reports whether the empty-state view applies.
func (v View) Empty() bool {
	return !v.Loading && len(v.Applications) == 0
}
