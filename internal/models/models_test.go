package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/internal/voting"
)

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.True(t, validation.IsObjectID(id), id)
		require.False(t, seen[id], "duplicate id")
		seen[id] = true
	}
}

func TestSauceJSONHidesInternalFields(t *testing.T) {
	s := Sauce{ID: NewID(), UserID: NewID(), Name: "Tabasco", Heat: 5, Version: 3}
	s.SetVoteState(voting.State{})

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, s.ID, got["_id"])
	assert.Equal(t, []any{}, got["usersLiked"])
	assert.NotContains(t, got, "Version")
	assert.NotContains(t, got, "version")
	assert.NotContains(t, got, "CreatedAt")
}

func TestSauceVoteStateRoundTrip(t *testing.T) {
	var s Sauce
	s.SetVoteState(voting.State{Likes: 1, UsersLiked: []string{"a"}})

	v := s.VoteState()
	v.UsersLiked[0] = "changed"
	assert.Equal(t, "a", s.UsersLiked[0], "VoteState must copy the sets")
	assert.NotNil(t, s.UsersDisliked)
}

func TestUserPassword(t *testing.T) {
	u := User{Email: "cook@example.com", Password: "Hab4nero!"}
	require.NoError(t, u.BeforeCreate(nil))
	assert.NotEqual(t, "Hab4nero!", u.Password)
	assert.True(t, u.CheckPassword("Hab4nero!"))
	assert.False(t, u.CheckPassword("hab4nero!"))
	assert.True(t, validation.IsObjectID(u.ID))
}
