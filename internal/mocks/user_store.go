package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/store"
)

// MockUserStore implements store.UserStore with an in-memory map keyed by
// email. Function fields override individual methods when set.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	UpdateNameFn func(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]*domain.User, error)

	Users map[string]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty in-memory user store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

// Add seeds the store with a user and returns it for convenience.
func (m *MockUserStore) Add(user *domain.User) *domain.User {
	m.Users[user.Email] = user
	return user
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.Users[user.Email] = user
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if user, ok := m.Users[email]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	if m.UpdateNameFn != nil {
		return m.UpdateNameFn(ctx, id, name)
	}
	for _, user := range m.Users {
		if user.ID == id {
			user.Name = name
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		users = append(users, user.Projection())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
