package board

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"recruiter-console/internal/api/rest"
	"recruiter-console/internal/domain"
	"recruiter-console/internal/logger"
	"recruiter-console/internal/security"
)

var (
	ErrActionInFlight = errors.New("another action is in progress for this application")
	ErrUnchanged      = errors.New("application already has this status")
	ErrNotFound       = errors.New("application not found")
	ErrDeclined       = errors.New("deletion was not confirmed")
	ErrClosed         = errors.New("board is closed")
)

const (
	loadFailedMessage   = "Failed to load applications. Please try again."
	updateFailedMessage = "Failed to update application status."
	deleteFailedMessage = "Failed to delete application."

	// DeletePrompt is the question put to the Confirmer before a delete.
	DeletePrompt = "Are you sure you want to delete this application?"
)

// Navigator sends the recruiter to the authentication entry point.
type Navigator interface {
	RedirectToAuth()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToAuth() { f() }

// Confirmer asks the recruiter a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Board is the local view of a recruiter's applications. The server is the
// source of truth; the board caches the list, tracks the action in flight
// per application and holds the transient error banner.
type Board struct {
	client    rest.ApplicationClient
	token     string
	navigator Navigator
	banner    *Banner
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	apps    []domain.Application
	loading bool
	pending PendingActions
	tasks   map[string]context.CancelFunc
	closed  bool

	changed chan struct{}
}

// New creates a board. An empty token means no stored credential: Load then
// redirects to auth without calling the API.
func New(client rest.ApplicationClient, token string, navigator Navigator, bannerTTL time.Duration) *Board {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Board{
		client:    client,
		token:     token,
		navigator: navigator,
		log:       logger.WithComponent("board"),
		ctx:       ctx,
		cancel:    cancel,
		apps:      []domain.Application{},
		pending:   make(PendingActions),
		tasks:     make(map[string]context.CancelFunc),
		changed:   make(chan struct{}, 1),
	}
	b.banner = NewBanner(bannerTTL, b.notify)
	return b
}

// Changed delivers a value after the view state changes. Bursts coalesce.
func (b *Board) Changed() <-chan struct{} {
	return b.changed
}

func (b *Board) notify() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the current view state.
func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return View{
		Applications: append([]domain.Application(nil), b.apps...),
		Error:        b.banner.Message(),
		Loading:      b.loading,
		Pending:      b.pending.clone(),
	}
}

// ClearError dismisses the banner.
func (b *Board) ClearError() {
	b.banner.Clear()
}

// Load is the initial fetch. It raises the loading flag for its duration and
// always lowers it again.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.loading = true
	b.mu.Unlock()
	b.notify()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
		b.notify()
	}()
	return b.fetch(ctx)
}

// Refresh fetches the list again without raising the loading flag.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return b.fetch(ctx)
}

func (b *Board) fetch(ctx context.Context) error {
	if b.token == "" {
		b.log.Info("No stored credential, redirecting to auth")
		b.navigator.RedirectToAuth()
		return security.ErrNoCredential
	}

	ctx, cancel := b.bind(ctx)
	defer cancel()

	apps, err := b.client.ListApplications(ctx, b.token)
	if b.isClosed() {
		return ErrClosed
	}
	if err != nil {
		b.log.Warn("Failed to load applications", "error", err)
		b.banner.Set(rest.Message(err, loadFailedMessage))
		if errors.Is(err, rest.ErrUnauthorized) {
			b.navigator.RedirectToAuth()
		}
		return err
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	b.mu.Lock()
	b.apps = apps
	b.mu.Unlock()
	b.log.Debug("Applications loaded", "count", len(apps))
	b.notify()
	return nil
}

// SetStatus starts moving application id to status. It returns at once; the
// request runs as a task and its outcome lands in the view state.
func (b *Board) SetStatus(id string, status domain.ApplicationStatus) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	if b.pending.Get(id) != domain.ActionNone {
		b.mu.Unlock()
		return ErrActionInFlight
	}
	if b.apps[i].Status == status {
		b.mu.Unlock()
		return ErrUnchanged
	}
	ctx := b.startTaskLocked(id, domain.StatusAction(status))
	b.mu.Unlock()
	b.notify()

	go b.runStatusChange(ctx, id, status)
	return nil
}

func (b *Board) runStatusChange(ctx context.Context, id string, status domain.ApplicationStatus) {
	defer b.wg.Done()
	defer b.finishTask(id)

	updated, err := b.client.UpdateStatus(ctx, b.token, id, status)
	if b.isClosed() {
		return
	}
	if err != nil {
		b.log.Warn("Failed to update application status", "application_id", id, "status", status, "error", err)
		b.banner.Set(rest.Message(err, updateFailedMessage))
		return
	}
	if updated.ID == "" {
		updated.ID = id
	}

	b.mu.Lock()
	if i := b.indexLocked(id); i >= 0 && !b.closed {
		b.apps[i] = *updated
	}
	b.mu.Unlock()
	b.log.Info("Application status updated", "application_id", id, "status", updated.Status)
}

// Delete asks confirm, then starts deleting application id. A declined
// confirmation returns ErrDeclined and changes nothing.
func (b *Board) Delete(id string, confirm Confirmer) error {
	if err := b.checkDeletable(id); err != nil {
		return err
	}
	if !confirm.Confirm(DeletePrompt) {
		return ErrDeclined
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.indexLocked(id) < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	if b.pending.Get(id) != domain.ActionNone {
		b.mu.Unlock()
		return ErrActionInFlight
	}
	ctx := b.startTaskLocked(id, domain.ActionDelete)
	b.mu.Unlock()
	b.notify()

	go b.runDelete(ctx, id)
	return nil
}

func (b *Board) checkDeletable(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.closed:
		return ErrClosed
	case b.indexLocked(id) < 0:
		return ErrNotFound
	case b.pending.Get(id) != domain.ActionNone:
		return ErrActionInFlight
	}
	return nil
}

func (b *Board) runDelete(ctx context.Context, id string) {
	defer b.wg.Done()
	defer b.finishTask(id)

	err := b.client.DeleteApplication(ctx, b.token, id)
	if b.isClosed() {
		return
	}
	if err != nil {
		b.log.Warn("Failed to delete application", "application_id", id, "error", err)
		b.banner.Set(rest.Message(err, deleteFailedMessage))
		return
	}

	b.mu.Lock()
	if i := b.indexLocked(id); i >= 0 && !b.closed {
		b.apps = append(b.apps[:i:i], b.apps[i+1:]...)
	}
	b.mu.Unlock()
	b.log.Info("Application deleted", "application_id", id)
}

// Wait blocks until no task is in flight.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Close cancels every task in flight, waits for them and stops the banner
// timer. Results of cancelled tasks are discarded.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, cancel := range b.tasks {
		b.log.Debug("Cancelling in-flight action", "application_id", id, "action", b.pending.Get(id))
		cancel()
	}
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
	b.banner.Stop()
}

func (b *Board) startTaskLocked(id string, action domain.Action) context.Context {
	b.pending.Begin(id, action)
	ctx, cancel := context.WithCancel(b.ctx)
	b.tasks[id] = cancel
	b.wg.Add(1)
	return ctx
}

// finishTask returns id to no action on every path.
func (b *Board) finishTask(id string) {
	b.mu.Lock()
	if cancel, ok := b.tasks[id]; ok {
		cancel()
		delete(b.tasks, id)
	}
	b.pending.End(id)
	b.mu.Unlock()
	b.notify()
}

// bind ties ctx to the board's lifetime.
func (b *Board) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(b.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (b *Board) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Board) indexLocked(id string) int {
	for i := range b.apps {
		if b.apps[i].ID == id {
			return i
		}
	}
	return -1
}
