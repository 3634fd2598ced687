package board

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recruiter-console/internal/api/rest"
	"recruiter-console/internal/domain"
	"recruiter-console/internal/security"
)

const token = "recruiter-token"

func app(id string, status domain.ApplicationStatus) domain.Application {
	return domain.Application{
		ID:       id,
		Status:   status,
		FullName: "Applicant " + id,
		Email:    id + "@example.com",
		Job:      domain.JobRef{Title: "Backend Engineer"},
	}
}

func loadedBoard(t *testing.T, client *MockClient, nav *MockNavigator, apps ...domain.Application) *Board {
	t.Helper()
	client.On("ListApplications", mock.Anything, token).Return(apps, nil).Once()
	b := New(client, token, nav, time.Hour)
	t.Cleanup(b.Close)
	require.NoError(t, b.Load(context.Background()))
	return b
}

func TestBoard_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("No credential redirects without a request", func(t *testing.T) {
		client := new(MockClient)
		nav := new(MockNavigator)
		nav.On("RedirectToAuth").Return().Once()
		b := New(client, "", nav, time.Hour)
		defer b.Close()

		err := b.Load(ctx)
		assert.ErrorIs(t, err, security.ErrNoCredential)
		nav.AssertExpectations(t)
		client.AssertNotCalled(t, "ListApplications", mock.Anything, mock.Anything)
		view := b.Snapshot()
		assert.False(t, view.Loading)
		assert.Empty(t, view.Applications)
	})

	t.Run("Success", func(t *testing.T) {
		client := new(MockClient)
		nav := new(MockNavigator)
		b := loadedBoard(t, client, nav, app("a1", domain.ApplicationStatusPending))

		view := b.Snapshot()
		require.Len(t, view.Applications, 1)
		assert.Equal(t, "a1", view.Applications[0].ID)
		assert.False(t, view.Loading)
		assert.Empty(t, view.Error)
		assert.False(t, view.CanSetStatus("a1", domain.ApplicationStatusPending))
		assert.True(t, view.CanSetStatus("a1", domain.ApplicationStatusAccepted))
		assert.True(t, view.CanSetStatus("a1", domain.ApplicationStatusRejected))
		assert.True(t, view.CanDelete("a1"))
		nav.AssertNotCalled(t, "RedirectToAuth")
	})

	t.Run("Empty list", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator))
		assert.True(t, b.Snapshot().Empty())
	})

	t.Run("Unauthorized redirects and surfaces message", func(t *testing.T) {
		client := new(MockClient)
		nav := new(MockNavigator)
		nav.On("RedirectToAuth").Return().Once()
		client.On("ListApplications", mock.Anything, token).
			Return(nil, &rest.Error{StatusCode: http.StatusUnauthorized, Message: "Not authorized"})
		b := New(client, token, nav, time.Hour)
		defer b.Close()

		err := b.Load(ctx)
		assert.ErrorIs(t, err, rest.ErrUnauthorized)
		nav.AssertExpectations(t)
		view := b.Snapshot()
		assert.Empty(t, view.Applications)
		assert.Equal(t, "Not authorized", view.Error)
		assert.False(t, view.Loading)
	})

	t.Run("Generic failure uses fallback", func(t *testing.T) {
		client := new(MockClient)
		nav := new(MockNavigator)
		client.On("ListApplications", mock.Anything, token).Return(nil, errors.New("connection refused"))
		b := New(client, token, nav, time.Hour)
		defer b.Close()

		assert.Error(t, b.Load(ctx))
		assert.Equal(t, "Failed to load applications. Please try again.", b.Snapshot().Error)
		nav.AssertNotCalled(t, "RedirectToAuth")
	})

	t.Run("Closed board", func(t *testing.T) {
		b := New(new(MockClient), token, new(MockNavigator), time.Hour)
		b.Close()
		assert.ErrorIs(t, b.Load(ctx), ErrClosed)
		assert.ErrorIs(t, b.Refresh(ctx), ErrClosed)
	})
}

func TestBoard_Refresh(t *testing.T) {
	client := new(MockClient)
	b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))

	client.On("ListApplications", mock.Anything, token).
		Return([]domain.Application{app("a1", domain.ApplicationStatusAccepted), app("a2", domain.ApplicationStatusPending)}, nil)

	require.NoError(t, b.Refresh(context.Background()))
	view := b.Snapshot()
	require.Len(t, view.Applications, 2)
	assert.Equal(t, domain.ApplicationStatusAccepted, view.Applications[0].Status)
}

func TestBoard_SetStatus(t *testing.T) {
	t.Run("Success replaces item with server representation", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending), app("a2", domain.ApplicationStatusPending))

		updated := app("a1", domain.ApplicationStatusAccepted)
		updated.Message = "refreshed by server"
		client.On("UpdateStatus", mock.Anything, token, "a1", domain.ApplicationStatusAccepted).Return(&updated, nil)

		require.NoError(t, b.SetStatus("a1", domain.ApplicationStatusAccepted))
		b.Wait()

		view := b.Snapshot()
		got, ok := view.Find("a1")
		require.True(t, ok)
		assert.Equal(t, domain.ApplicationStatusAccepted, got.Status)
		assert.Equal(t, "refreshed by server", got.Message)
		assert.Equal(t, domain.ActionNone, view.Pending.Get("a1"))
		assert.False(t, view.CanSetStatus("a1", domain.ApplicationStatusAccepted))
		assert.True(t, view.CanSetStatus("a1", domain.ApplicationStatusRejected))
		assert.True(t, view.CanSetStatus("a1", domain.ApplicationStatusPending))
		assert.Equal(t, "a2", view.Applications[1].ID)
	})

	t.Run("Current status is refused", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))

		assert.ErrorIs(t, b.SetStatus("a1", domain.ApplicationStatusPending), ErrUnchanged)
		client.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown id", func(t *testing.T) {
		b := loadedBoard(t, new(MockClient), new(MockNavigator))
		assert.ErrorIs(t, b.SetStatus("ghost", domain.ApplicationStatusAccepted), ErrNotFound)
	})

	t.Run("One action in flight per id", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending), app("a2", domain.ApplicationStatusPending))

		release := make(chan struct{})
		accepted := app("a1", domain.ApplicationStatusAccepted)
		client.On("UpdateStatus", mock.Anything, token, "a1", domain.ApplicationStatusAccepted).
			Run(func(mock.Arguments) { <-release }).
			Return(&accepted, nil)
		rejected := app("a2", domain.ApplicationStatusRejected)
		client.On("UpdateStatus", mock.Anything, token, "a2", domain.ApplicationStatusRejected).Return(&rejected, nil)

		require.NoError(t, b.SetStatus("a1", domain.ApplicationStatusAccepted))

		view := b.Snapshot()
		assert.Equal(t, domain.StatusAction(domain.ApplicationStatusAccepted), view.Pending.Get("a1"))
		for _, s := range domain.Statuses {
			assert.False(t, view.CanSetStatus("a1", s), s)
		}
		assert.False(t, view.CanDelete("a1"))
		assert.ErrorIs(t, b.SetStatus("a1", domain.ApplicationStatusRejected), ErrActionInFlight)
		assert.ErrorIs(t, b.Delete("a1", confirmAll(true)), ErrActionInFlight)

		// a different application is not blocked
		require.NoError(t, b.SetStatus("a2", domain.ApplicationStatusRejected))
		assert.Eventually(t, func() bool {
			got, _ := b.Snapshot().Find("a2")
			return got.Status == domain.ApplicationStatusRejected
		}, time.Second, 5*time.Millisecond)

		close(release)
		b.Wait()
		view = b.Snapshot()
		assert.Empty(t, view.Pending)
		got, _ := view.Find("a1")
		assert.Equal(t, domain.ApplicationStatusAccepted, got.Status)
		client.AssertNumberOfCalls(t, "UpdateStatus", 2)
	})

	t.Run("Failure surfaces message and leaves list untouched", func(t *testing.T) {
		client := new(MockClient)
		client.On("ListApplications", mock.Anything, token).Return([]domain.Application{app("a1", domain.ApplicationStatusPending)}, nil)
		b := New(client, token, new(MockNavigator), 50*time.Millisecond)
		defer b.Close()
		require.NoError(t, b.Load(context.Background()))

		client.On("UpdateStatus", mock.Anything, token, "a1", domain.ApplicationStatusAccepted).
			Return(nil, &rest.Error{StatusCode: http.StatusBadRequest, Message: "Invalid status"})

		require.NoError(t, b.SetStatus("a1", domain.ApplicationStatusAccepted))
		b.Wait()

		view := b.Snapshot()
		assert.Equal(t, "Invalid status", view.Error)
		got, _ := view.Find("a1")
		assert.Equal(t, domain.ApplicationStatusPending, got.Status)
		assert.Equal(t, domain.ActionNone, view.Pending.Get("a1"))
		assert.Eventually(t, func() bool { return b.Snapshot().Error == "" }, time.Second, 10*time.Millisecond)
	})

	t.Run("Failure without message uses fallback", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))
		client.On("UpdateStatus", mock.Anything, token, "a1", domain.ApplicationStatusRejected).Return(nil, errors.New("timeout"))

		require.NoError(t, b.SetStatus("a1", domain.ApplicationStatusRejected))
		b.Wait()
		assert.Equal(t, "Failed to update application status.", b.Snapshot().Error)
	})
}

func TestBoard_Delete(t *testing.T) {
	t.Run("Declined does nothing", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))

		var asked string
		err := b.Delete("a1", ConfirmFunc(func(prompt string) bool {
			asked = prompt
			return false
		}))
		assert.ErrorIs(t, err, ErrDeclined)
		assert.Equal(t, "Are you sure you want to delete this application?", asked)
		assert.Len(t, b.Snapshot().Applications, 1)
		assert.Empty(t, b.Snapshot().Pending)
		client.AssertNotCalled(t, "DeleteApplication", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success removes the last item", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))
		client.On("DeleteApplication", mock.Anything, token, "a1").Return(nil)

		require.NoError(t, b.Delete("a1", confirmAll(true)))
		b.Wait()

		view := b.Snapshot()
		assert.Empty(t, view.Applications)
		assert.True(t, view.Empty())
		assert.Empty(t, view.Pending)
	})

	t.Run("Pending flag is delete while in flight", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))
		release := make(chan struct{})
		client.On("DeleteApplication", mock.Anything, token, "a1").Run(func(mock.Arguments) { <-release }).Return(nil)

		require.NoError(t, b.Delete("a1", confirmAll(true)))
		assert.Equal(t, domain.ActionDelete, b.Snapshot().Pending.Get("a1"))
		assert.ErrorIs(t, b.SetStatus("a1", domain.ApplicationStatusAccepted), ErrActionInFlight)

		close(release)
		b.Wait()
		assert.Empty(t, b.Snapshot().Pending)
	})

	t.Run("Failure keeps the item", func(t *testing.T) {
		client := new(MockClient)
		b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))
		client.On("DeleteApplication", mock.Anything, token, "a1").Return(errors.New("boom"))

		require.NoError(t, b.Delete("a1", confirmAll(true)))
		b.Wait()

		view := b.Snapshot()
		assert.Len(t, view.Applications, 1)
		assert.Equal(t, "Failed to delete application.", view.Error)
		assert.Empty(t, view.Pending)
	})

	t.Run("Unknown id is refused before asking", func(t *testing.T) {
		b := loadedBoard(t, new(MockClient), new(MockNavigator))
		err := b.Delete("ghost", ConfirmFunc(func(string) bool {
			t.Fatal("confirmation must not be requested")
			return true
		}))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBoard_Close(t *testing.T) {
	client := new(MockClient)
	client.On("ListApplications", mock.Anything, token).Return([]domain.Application{app("a1", domain.ApplicationStatusPending)}, nil)
	b := New(client, token, new(MockNavigator), time.Hour)
	require.NoError(t, b.Load(context.Background()))

	started := make(chan struct{})
	accepted := app("a1", domain.ApplicationStatusAccepted)
	client.On("UpdateStatus", mock.Anything, token, "a1", domain.ApplicationStatusAccepted).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(&accepted, nil)

	require.NoError(t, b.SetStatus("a1", domain.ApplicationStatusAccepted))
	<-started
	b.Close()

	view := b.Snapshot()
	got, _ := view.Find("a1")
	assert.Equal(t, domain.ApplicationStatusPending, got.Status, "result of a cancelled task must not be applied")
	assert.Empty(t, view.Pending)
	assert.ErrorIs(t, b.SetStatus("a1", domain.ApplicationStatusAccepted), ErrClosed)

	// Close is idempotent
	b.Close()
}

func TestBoard_Changed(t *testing.T) {
	client := new(MockClient)
	b := loadedBoard(t, client, new(MockNavigator), app("a1", domain.ApplicationStatusPending))

	// drain notifications from Load
	select {
	case <-b.Changed():
	default:
	}

	client.On("DeleteApplication", mock.Anything, token, "a1").Return(nil)
	require.NoError(t, b.Delete("a1", confirmAll(true)))
	select {
	case <-b.Changed():
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
	b.Wait()
}
