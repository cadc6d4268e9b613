// Package repository persists sauces and users with GORM.
//
// Repositories translate storage failures into apperr kinds: a malformed id
// becomes KindMalformedID, a missing row KindNotFound, a violated unique or
// check constraint KindValidation and anything else KindPersistence.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hottakes/hottakes-api/internal/apperr"
)

func translate(err error, resource string, dupField apperr.FieldError) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err):
		return apperr.Validation(dupField)
	case errors.Is(err, gorm.ErrCheckConstraintViolated) || isCheckViolation(err):
		return apperr.Validation(apperr.FieldError{
			Location: "body",
			Message:  resource + " violates a storage constraint",
		})
	}
	return apperr.Persistence(err)
}

// isDuplicate catches unique violations drivers do not translate.
func isDuplicate(err error) bool {
	// SQLite: "UNIQUE constraint failed"
	// Postgres: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

func isCheckViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "check constraint")
}
