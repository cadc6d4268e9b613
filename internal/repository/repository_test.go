package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/models"
	"github.com/hottakes/hottakes-api/internal/testutil"
	"github.com/hottakes/hottakes-api/internal/voting"
)

func seedSauce(t *testing.T, repo *GormSauceRepository, owner string) *models.Sauce {
	t.Helper()
	s := &models.Sauce{
		UserID:       owner,
		Name:         "Sriracha",
		Manufacturer: "Huy Fong",
		Description:  "garlic chili",
		MainPepper:   "jalapeno",
		ImageURL:     "http://localhost/images/a.png",
		Heat:         6,
	}
	require.NoError(t, repo.Insert(context.Background(), s))
	return s
}

func TestSauceRepository_InsertAndFind(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	ctx := context.Background()
	owner := models.NewID()

	s := seedSauce(t, repo, owner)
	assert.Len(t, s.ID, 24)

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sriracha", got.Name)
	assert.Equal(t, owner, got.UserID)
	assert.Equal(t, 0, got.Likes)
	assert.NotNil(t, got.UsersLiked)
	assert.Empty(t, got.UsersLiked)

	seedSauce(t, repo, models.NewID())
	all, err := repo.Find(ctx, SauceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.Find(ctx, SauceFilter{UserID: owner})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s.ID, mine[0].ID)
}

func TestSauceRepository_ErrorTranslation(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-id")
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedID))

	_, err = repo.FindByID(ctx, models.NewID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = repo.UpdateFields(ctx, models.NewID(), map[string]any{"name": "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = repo.Delete(ctx, models.NewID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = repo.Find(ctx, SauceFilter{UserID: "nope"})
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedID))
}

func TestSauceRepository_CheckConstraint(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	s := seedSauce(t, repo, models.NewID())

	err := repo.UpdateFields(context.Background(), s.ID, map[string]any{"heat": 42})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
}

func TestSauceRepository_UpdateFields(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	ctx := context.Background()
	s := seedSauce(t, repo, models.NewID())

	require.NoError(t, repo.UpdateFields(ctx, s.ID, map[string]any{"name": "Cholula", "heat": 3}))

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cholula", got.Name)
	assert.Equal(t, 3, got.Heat)
	assert.Equal(t, "Huy Fong", got.Manufacturer)
}

func TestSauceRepository_UpdateVotesIsConditional(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	ctx := context.Background()
	s := seedSauce(t, repo, models.NewID())

	state, _ := voting.Apply(s.VoteState(), voting.Like, "u1")
	ok, err := repo.UpdateVotes(ctx, s.ID, s.Version, state)
	require.NoError(t, err)
	require.True(t, ok)

	// stale version: the write must not happen
	stale, _ := voting.Apply(s.VoteState(), voting.Dislike, "u2")
	ok, err = repo.UpdateVotes(ctx, s.ID, s.Version, stale)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, []string{"u1"}, []string(got.UsersLiked))
	assert.Equal(t, 0, got.Dislikes)
	assert.Equal(t, s.Version+1, got.Version)
}

func TestSauceRepository_Delete(t *testing.T) {
	repo := NewSauceRepository(testutil.NewDB(t))
	ctx := context.Background()
	s := seedSauce(t, repo, models.NewID())

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err := repo.FindByID(ctx, s.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	u := &models.User{Email: "cook@example.com", Password: "Hab4nero!"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.CheckPassword("Hab4nero!"))

	err = repo.Create(ctx, &models.User{Email: "cook@example.com", Password: "Other1!xx"})
	ae, ok := apperr.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	require.Len(t, ae.Fields, 1)
	assert.Equal(t, "/email", ae.Fields[0].Path)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
