package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/models"
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func userErr(err error) error {
	return translate(err, "user", apperr.FieldError{
		Location: "body",
		Path:     "/email",
		Message:  "email is already registered",
	})
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return userErr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, userErr(err)
	}
	return &user, nil
}
