package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/models"
	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/internal/voting"
)

// SauceFilter narrows Find. Zero values match everything.
type SauceFilter struct {
	UserID string
}

// SauceRepository is the persistence contract of the sauce pipeline.
type SauceRepository interface {
	Find(ctx context.Context, filter SauceFilter) ([]models.Sauce, error)
	FindByID(ctx context.Context, id string) (*models.Sauce, error)
	Insert(ctx context.Context, sauce *models.Sauce) error
	// UpdateFields writes the given columns of one sauce.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// UpdateVotes writes the vote state if the stored version still equals
	// version, and reports whether it did.
	UpdateVotes(ctx context.Context, id string, version int, state voting.State) (bool, error)
	Delete(ctx context.Context, id string) error
}

// GormSauceRepository implements SauceRepository.
type GormSauceRepository struct {
	db *gorm.DB
}

func NewSauceRepository(db *gorm.DB) *GormSauceRepository {
	return &GormSauceRepository{db: db}
}

const sauceResource = "sauce"

func sauceErr(err error) error {
	return translate(err, sauceResource, apperr.FieldError{
		Location: "body",
		Path:     "/_id",
		Message:  "sauce already exists",
	})
}

func (r *GormSauceRepository) Find(ctx context.Context, filter SauceFilter) ([]models.Sauce, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.UserID != "" {
		if !validation.IsObjectID(filter.UserID) {
			return nil, apperr.MalformedID(filter.UserID)
		}
		q = q.Where("user_id = ?", filter.UserID)
	}
	sauces := []models.Sauce{}
	if err := q.Find(&sauces).Error; err != nil {
		return nil, sauceErr(err)
	}
	return sauces, nil
}

func (r *GormSauceRepository) FindByID(ctx context.Context, id string) (*models.Sauce, error) {
	if !validation.IsObjectID(id) {
		return nil, apperr.MalformedID(id)
	}
	var sauce models.Sauce
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sauce).Error; err != nil {
		return nil, sauceErr(err)
	}
	return &sauce, nil
}

func (r *GormSauceRepository) Insert(ctx context.Context, sauce *models.Sauce) error {
	return sauceErr(r.db.WithContext(ctx).Create(sauce).Error)
}

func (r *GormSauceRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if !validation.IsObjectID(id) {
		return apperr.MalformedID(id)
	}
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Sauce{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return sauceErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(sauceResource)
	}
	return nil
}

func (r *GormSauceRepository) UpdateVotes(ctx context.Context, id string, version int, state voting.State) (bool, error) {
	if !validation.IsObjectID(id) {
		return false, apperr.MalformedID(id)
	}
	res := r.db.WithContext(ctx).Model(&models.Sauce{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"likes":          state.Likes,
			"dislikes":       state.Dislikes,
			"users_liked":    datatypes.JSONSlice[string](nonNil(state.UsersLiked)),
			"users_disliked": datatypes.JSONSlice[string](nonNil(state.UsersDisliked)),
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, sauceErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormSauceRepository) Delete(ctx context.Context, id string) error {
	if !validation.IsObjectID(id) {
		return apperr.MalformedID(id)
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Sauce{})
	if res.Error != nil {
		return sauceErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(sauceResource)
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
