package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Tomlord1122/todo-otp-backend/internal/domain"
)

type mockTodoRepo struct {
	mock.Mock
}

func (m *mockTodoRepo) Create(ctx context.Context, todo *domain.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	args := m.Called(ctx, id)
	todo, _ := args.Get(0).(*domain.Todo)
	return todo, args.Error(1)
}

func (m *mockTodoRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error) {
	args := m.Called(ctx, userID)
	todos, _ := args.Get(0).([]domain.Todo)
	return todos, args.Error(1)
}

func (m *mockTodoRepo) Update(ctx context.Context, todo *domain.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockOTPStore struct {
	mock.Mock
}

func (m *mockOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	args := m.Called(ctx, email, code, ttl)
	return args.Error(0)
}

func (m *mockOTPStore) Get(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
