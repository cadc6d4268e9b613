package services

import "github.com/hottakes/hottakes-api/internal/models"

// Scope is the per-request context shared between pipeline stages. It is a
// value: stages that learn something return a new Scope instead of mutating.
type Scope struct {
	UserID string
	sauce  *models.Sauce
}

func NewScope(userID string) Scope {
	return Scope{UserID: userID}
}

// WithSauce returns a copy of the scope carrying a loaded sauce.
func (s Scope) WithSauce(sauce *models.Sauce) Scope {
	s.sauce = sauce
	return s
}

// Sauce returns the loaded sauce if it is the one with id.
func (s Scope) Sauce(id string) (*models.Sauce, bool) {
	if s.sauce == nil || s.sauce.ID != id {
		return nil, false
	}
	return s.sauce, true
}
