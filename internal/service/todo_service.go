package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/Tomlord1122/todo-otp-backend/internal/domain"
	"github.com/Tomlord1122/todo-otp-backend/internal/repository"

	"gorm.io/gorm"
)

const maxContentsLength = 256

// OrderDesc reverses the listing. Any other order value keeps insertion order.
const OrderDesc = "DESC"

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Contents string `json:"contents"`
	IsDone   bool   `json:"is_done"`
}

// UpdateTodoRequest is the body of PATCH /todos/{id}.
// IsDone is a pointer so that an omitted field can be told apart from false.
type UpdateTodoRequest struct {
	IsDone *bool `json:"is_done"`
}

// TodoResponse is the public representation of a todo.
type TodoResponse struct {
	ID       uint   `json:"id"`
	Contents string `json:"contents"`
	IsDone   bool   `json:"is_done"`
}

// TodoListResponse wraps a listing.
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
}

// TodoService holds the todo business logic.
type TodoService interface {
	// ListTodos returns the todos owned by username, reversed when order is "DESC".
	ListTodos(ctx context.Context, username, order string) (*TodoListResponse, error)

	GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error)

	// CreateTodo stores a new todo. An empty owner creates an unowned todo.
	CreateTodo(ctx context.Context, req CreateTodoRequest, owner string) (*TodoResponse, error)

	// UpdateTodo sets is_done on an existing todo.
	UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error)

	DeleteTodo(ctx context.Context, id uint) error
}

type todoService struct {
	todos repository.TodoRepository
	users repository.UserRepository
}

func NewTodoService(todos repository.TodoRepository, users repository.UserRepository) TodoService {
	return &todoService{
		todos: todos,
		users: users,
	}
}

func (s *todoService) ListTodos(ctx context.Context, username, order string) (*TodoListResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	todos, err := s.todos.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos of user %d: %w", user.ID, err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toTodoResponse(&todo))
	}
	if order == OrderDesc {
		slices.Reverse(responses)
	}

	return &TodoListResponse{Todos: responses}, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error) {
	todo, err := s.findTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest, owner string) (*TodoResponse, error) {
	if utf8.RuneCountInString(req.Contents) > maxContentsLength {
		return nil, ErrContentsTooLong
	}

	var userID *uint
	if owner != "" {
		user, err := s.users.FindByUsername(ctx, owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("find owner %q: %w", owner, err)
		}
		userID = &user.ID
	}

	todo := domain.NewTodo(req.Contents, req.IsDone, userID)
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	slog.DebugContext(ctx, "todo created", slog.Uint64("todo_id", uint64(todo.ID)), slog.String("owner", owner))

	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	if req.IsDone == nil {
		return nil, ErrIsDoneRequired
	}

	todo, err := s.findTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	if *req.IsDone {
		todo.MarkDone()
	} else {
		todo.MarkUndone()
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}

	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id uint) error {
	// Delete itself does not error on a missing row, so check first.
	if _, err := s.findTodo(ctx, id); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func (s *todoService) findTodo(ctx context.Context, id uint) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo %d: %w", id, err)
	}
	return todo, nil
}

func toTodoResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:       todo.ID,
		Contents: todo.Contents,
		IsDone:   todo.IsDone,
	}
}
