package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/auth"
)

func newAuthFixture() (*AuthService, *memParentStore, *auth.JWTService) {
	parents := newMemParentStore()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "rosterhub-test",
	})
	return NewAuthService(parents, jwtSvc), parents, jwtSvc
}

func TestAuthService_RegisterParentNormalizesEmail(t *testing.T) {
	svc, parents, _ := newAuthFixture()
	ctx := context.Background()

	parent, err := svc.RegisterParent(ctx, &dto.ParentRegisterRequest{
		FirstName: "  Maria ",
		LastName:  " Santos",
		Email:     " Maria.Santos@Example.COM ",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria", parent.FirstName)
	assert.Equal(t, "Santos", parent.LastName)
	assert.Equal(t, "maria.santos@example.com", parent.Email)
	assert.NotEqual(t, "correct-horse", parent.PasswordHash)

	stored, err := parents.GetByEmail(ctx, "maria.santos@example.com")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, stored.ID)
}

func TestAuthService_RegisterParentDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	req := &dto.ParentRegisterRequest{
		FirstName: "Maria", LastName: "Santos",
		Email: "maria@example.com", Password: "correct-horse",
	}
	_, err := svc.RegisterParent(ctx, req)
	require.NoError(t, err)

	_, err = svc.RegisterParent(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrParentEmailExists)
}

func TestAuthService_LoginParent(t *testing.T) {
	svc, _, jwtSvc := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.RegisterParent(ctx, &dto.ParentRegisterRequest{
		FirstName: "Maria", LastName: "Santos",
		Email: "maria@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	token, parent, err := svc.LoginParent(ctx, &dto.ParentLoginRequest{
		Email: "maria@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, parent.ID)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, 3600, token.ExpiresIn)

	claims, err := jwtSvc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.AccountID)
	assert.Equal(t, string(models.RoleParent), claims.Role)
}

func TestAuthService_LoginParentBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.RegisterParent(ctx, &dto.ParentRegisterRequest{
		FirstName: "Maria", LastName: "Santos",
		Email: "maria@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	// Unknown email and wrong password collapse to the same error so the
	// response does not reveal which accounts exist.
	_, _, err = svc.LoginParent(ctx, &dto.ParentLoginRequest{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.LoginParent(ctx, &dto.ParentLoginRequest{
		Email: "maria@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
