package board

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recruiter-console/internal/domain"
)

// MockClient
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListApplications(ctx context.Context, token string) ([]domain.Application, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockClient) UpdateStatus(ctx context.Context, token, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	args := m.Called(ctx, token, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockClient) DeleteApplication(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

// MockNavigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) RedirectToAuth() {
	m.Called()
}

func confirmAll(answer bool) Confirmer {
	return ConfirmFunc(func(string) bool { return answer })
}
