package repository

import (
	"context"

	"github.com/Tomlord1122/todo-otp-backend/internal/domain"

	"gorm.io/gorm"
)

// TodoRepository defines the data operations on the todo table.
// Lookups by id return gorm.ErrRecordNotFound when nothing matches.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uint) error
}

type gormTodoRepository struct {
	db *gorm.DB
}

func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

// Create inserts the todo and fills in its generated ID.
func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// FindByUserID returns the user's todos in insertion order.
func (r *gormTodoRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// Update writes every column of the todo back.
func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Todo{}, id).Error
}
