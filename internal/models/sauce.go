package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hottakes/hottakes-api/internal/voting"
)

// Sauce is a reviewed sauce with its image and vote tallies.
// JSON names follow the front-end contract.
type Sauce struct {
	ID            string                      `json:"_id" gorm:"primaryKey;size:24"`
	UserID        string                      `json:"userId" gorm:"size:24;not null;index"`
	Name          string                      `json:"name" gorm:"not null"`
	Manufacturer  string                      `json:"manufacturer" gorm:"not null"`
	Description   string                      `json:"description" gorm:"not null"`
	MainPepper    string                      `json:"mainPepper" gorm:"not null"`
	ImageURL      string                      `json:"imageUrl" gorm:"not null"`
	Heat          int                         `json:"heat" gorm:"not null;check:heat >= 1 AND heat <= 10"`
	Likes         int                         `json:"likes" gorm:"not null;default:0;check:likes >= 0"`
	Dislikes      int                         `json:"dislikes" gorm:"not null;default:0;check:dislikes >= 0"`
	UsersLiked    datatypes.JSONSlice[string] `json:"usersLiked" gorm:"not null"`
	UsersDisliked datatypes.JSONSlice[string] `json:"usersDisliked" gorm:"not null"`
	Version       int                         `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"-"`
	UpdatedAt     time.Time                   `json:"-"`
}

// BeforeCreate assigns an id and starts with an empty vote state.
func (s *Sauce) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	s.SetVoteState(voting.State{})
	return nil
}

// VoteState extracts the vote tallies.
func (s *Sauce) VoteState() voting.State {
	return voting.State{
		Likes:         s.Likes,
		Dislikes:      s.Dislikes,
		UsersLiked:    append([]string(nil), s.UsersLiked...),
		UsersDisliked: append([]string(nil), s.UsersDisliked...),
	}
}

// SetVoteState replaces the vote tallies.
func (s *Sauce) SetVoteState(v voting.State) {
	s.Likes = v.Likes
	s.Dislikes = v.Dislikes
	s.UsersLiked = datatypes.JSONSlice[string](nonNil(v.UsersLiked))
	s.UsersDisliked = datatypes.JSONSlice[string](nonNil(v.UsersDisliked))
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
