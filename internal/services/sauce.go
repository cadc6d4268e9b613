package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/models"
	"github.com/hottakes/hottakes-api/internal/repository"
	"github.com/hottakes/hottakes-api/internal/storage"
	"github.com/hottakes/hottakes-api/internal/utils"
	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/internal/voting"
	"github.com/hottakes/hottakes-api/pkg/logger"
)

const (
	DefaultMaxImageBytes  = 5 << 20
	DefaultVoteAttempts   = 5
	DefaultCleanupTimeout = 30 * time.Second
)

var errVoteConflict = errors.New("vote write kept conflicting with concurrent updates")

// Image is an uploaded file as received from the client.
type Image struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// VoteResult is what a vote action reports back.
type VoteResult struct {
	Outcome  voting.Outcome
	Likes    int
	Dislikes int
}

type SauceService struct {
	repo  repository.SauceRepository
	store storage.Store

	maxImageBytes  int64
	voteAttempts   int
	cleanupTimeout time.Duration

	cleanup sync.WaitGroup
}

type SauceOption func(*SauceService)

func WithMaxImageBytes(n int64) SauceOption {
	return func(s *SauceService) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

func WithVoteAttempts(n int) SauceOption {
	return func(s *SauceService) {
		if n > 0 {
			s.voteAttempts = n
		}
	}
}

func WithCleanupTimeout(d time.Duration) SauceOption {
	return func(s *SauceService) {
		if d > 0 {
			s.cleanupTimeout = d
		}
	}
}

func NewSauceService(repo repository.SauceRepository, store storage.Store, opts ...SauceOption) *SauceService {
	if repo == nil || store == nil {
		panic("sauce service needs a repository and a store")
	}
	s := &SauceService{
		repo:           repo,
		store:          store,
		maxImageBytes:  DefaultMaxImageBytes,
		voteAttempts:   DefaultVoteAttempts,
		cleanupTimeout: DefaultCleanupTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxImageBytes is the largest accepted upload.
func (s *SauceService) MaxImageBytes() int64 { return s.maxImageBytes }

func (s *SauceService) List(ctx context.Context) ([]models.Sauce, error) {
	return s.repo.Find(ctx, repository.SauceFilter{})
}

// Get returns the sauce with id, reusing the one already in scope.
func (s *SauceService) Get(ctx context.Context, scope Scope, id string) (*models.Sauce, error) {
	if sauce, ok := scope.Sauce(id); ok {
		return sauce, nil
	}
	return s.repo.FindByID(ctx, id)
}

// CheckOwnership loads the sauce and fails unless the scope's user owns it.
// The returned scope carries the sauce for later stages.
func (s *SauceService) CheckOwnership(ctx context.Context, scope Scope, id string) (Scope, error) {
	sauce, err := s.Get(ctx, scope, id)
	if err != nil {
		return scope, err
	}
	if sauce.UserID != scope.UserID {
		return scope, apperr.Forbidden("you are not allowed to modify this sauce")
	}
	return scope.WithSauce(sauce), nil
}

// Create stores the image and inserts a sauce owned by the scope's user.
func (s *SauceService) Create(ctx context.Context, scope Scope, in *validation.SauceInput, img *Image, origin string) (*models.Sauce, error) {
	if img == nil {
		return nil, apperr.FileMissing("image")
	}
	key, err := s.putImage(ctx, img)
	if err != nil {
		return nil, err
	}

	sauce := &models.Sauce{
		UserID:       scope.UserID,
		Name:         utils.SanitizeString(in.Name),
		Manufacturer: utils.SanitizeString(in.Manufacturer),
		Description:  utils.SanitizeString(in.Description),
		MainPepper:   utils.SanitizeString(in.MainPepper),
		Heat:         *in.Heat,
		ImageURL:     s.store.URL(origin, key),
	}
	if err := s.repo.Insert(ctx, sauce); err != nil {
		s.discardImage(key)
		return nil, err
	}
	return sauce, nil
}

// Update applies a partial update and optionally replaces the image. The
// previous image is only discarded once the new record is written.
func (s *SauceService) Update(ctx context.Context, scope Scope, id string, in *validation.SauceUpdateInput, img *Image, origin string) (*models.Sauce, error) {
	current, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	updated := *current
	fields := map[string]any{}

	if in != nil {
		if in.Name != nil {
			updated.Name = utils.SanitizeString(*in.Name)
			fields["name"] = updated.Name
		}
		if in.Manufacturer != nil {
			updated.Manufacturer = utils.SanitizeString(*in.Manufacturer)
			fields["manufacturer"] = updated.Manufacturer
		}
		if in.Description != nil {
			updated.Description = utils.SanitizeString(*in.Description)
			fields["description"] = updated.Description
		}
		if in.MainPepper != nil {
			updated.MainPepper = utils.SanitizeString(*in.MainPepper)
			fields["main_pepper"] = updated.MainPepper
		}
		if in.Heat != nil {
			updated.Heat = *in.Heat
			fields["heat"] = updated.Heat
		}
	}

	var newKey string
	if img != nil {
		newKey, err = s.putImage(ctx, img)
		if err != nil {
			return nil, err
		}
		updated.ImageURL = s.store.URL(origin, newKey)
		fields["image_url"] = updated.ImageURL
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.discardImage(newKey)
		return nil, err
	}
	if newKey != "" {
		s.discardImage(storage.KeyFromURL(current.ImageURL))
	}
	return &updated, nil
}

// Delete removes the sauce, then its image in the background.
func (s *SauceService) Delete(ctx context.Context, scope Scope, id string) error {
	sauce, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(storage.KeyFromURL(sauce.ImageURL))
	return nil
}

// Vote applies the user's action to the sauce. The write is conditional on
// the version that was read; on conflict the action is replayed against a
// fresh read.
func (s *SauceService) Vote(ctx context.Context, scope Scope, id string, action voting.Action) (*VoteResult, error) {
	sauce, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		next, transition := voting.Apply(sauce.VoteState(), action, scope.UserID)

		ok, err := s.repo.UpdateVotes(ctx, id, sauce.Version, next)
		if err != nil {
			return nil, err
		}
		if ok {
			outcome := transition.Outcome()
			votesTotal.WithLabelValues(outcome.String()).Inc()
			return &VoteResult{Outcome: outcome, Likes: next.Likes, Dislikes: next.Dislikes}, nil
		}

		voteConflicts.Inc()
		if attempt >= s.voteAttempts {
			return nil, apperr.Persistence(errVoteConflict)
		}
		if sauce, err = s.repo.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
}

// Wait blocks until background image deletions have finished.
func (s *SauceService) Wait() {
	s.cleanup.Wait()
}

func (s *SauceService) putImage(ctx context.Context, img *Image) (string, error) {
	if _, ok := storage.ImageExtension(img.ContentType); !ok {
		return "", apperr.InvalidFileType(img.ContentType)
	}
	if img.Size > s.maxImageBytes {
		return "", apperr.FileTooLarge(img.Size, s.maxImageBytes)
	}
	key, err := s.store.Put(ctx, storage.Object{
		ContentType: img.ContentType,
		Size:        img.Size,
		Body:        img.Body,
	})
	if err != nil {
		return "", apperr.Persistence(err)
	}
	return key, nil
}

// discardImage deletes key off the request path. Failures are logged only.
func (s *SauceService) discardImage(key string) {
	if key == "" {
		return
	}
	s.cleanup.Add(1)
	go func() {
		defer s.cleanup.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
		defer cancel()
		if err := s.store.Delete(ctx, key); err != nil {
			logger.WithFields(logger.Fields{"image": key}).WithError(err).Warn("failed to delete image")
		}
	}()
}
