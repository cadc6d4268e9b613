package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/auth"
	"github.com/hottakes/hottakes-api/internal/repository"
	"github.com/hottakes/hottakes-api/internal/testutil"
	"github.com/hottakes/hottakes-api/internal/validation"
)

func newAuthService(t *testing.T) (*AuthService, *auth.Authenticator) {
	t.Helper()
	a := auth.NewAuthenticator("0123456789abcdef0123456789abcdef", time.Hour)
	return NewAuthService(repository.NewUserRepository(testutil.NewDB(t)), a), a
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, a := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &validation.SignupInput{Email: " Cook@Example.com ", Password: "Hab4nero!"})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "Hab4nero!", user.Password)

	res, err := svc.Login(ctx, &validation.LoginInput{Email: "COOK@example.com", Password: "Hab4nero!"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.UserID)
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())

	id, err := a.Authenticate("Bearer " + res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
}

func TestAuthService_SignupLongestPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	password := "Aa1!" + strings.Repeat("x", 68)

	_, err := svc.Signup(ctx, &validation.SignupInput{Email: "cook@example.com", Password: password})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &validation.LoginInput{Email: "cook@example.com", Password: password})
	require.NoError(t, err)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &validation.SignupInput{Email: "cook@example.com", Password: "Hab4nero!"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &validation.SignupInput{Email: "COOK@example.com", Password: "Ghost1!pepper"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &validation.SignupInput{Email: "cook@example.com", Password: "Hab4nero!"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &validation.LoginInput{Email: "cook@example.com", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.KindBadCredentials), "got %v", err)

	_, err = svc.Login(ctx, &validation.LoginInput{Email: "nobody@example.com", Password: "Hab4nero!"})
	assert.True(t, apperr.IsKind(err, apperr.KindBadCredentials), "got %v", err)
}
