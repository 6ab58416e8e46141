package repository

import (
	"context"

	"github.com/Tomlord1122/todo-otp-backend/internal/domain"

	"gorm.io/gorm"
)

// UserRepository defines the data operations on the user table.
type UserRepository interface {
	// Create inserts the user. A duplicate username surfaces as the driver's
	// unique-violation error; no check is made beforehand.
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername returns gorm.ErrRecordNotFound for an unknown username.
func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
