package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

type MockUserRepoForToken struct {
	mock.Mock
}

func (m *MockUserRepoForToken) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepoForToken) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepoForToken) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepoForToken) ListChildren(ctx context.Context, familyID string) ([]*domain.User, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "balance-engine-test"

	user := &domain.User{
		ID:       "user-123-uuid",
		FamilyID: "family-456-uuid",
		Role:     domain.RoleParent,
	}

	setup := func() (*TokenService, *MockUserRepoForToken) {
		mockRepo := new(MockUserRepoForToken)
		return NewTokenService(secret, issuer, 1*time.Hour, mockRepo), mockRepo
	}

	t.Run("Success: Round-trips user, family and role through the token", func(t *testing.T) {
		service, mockRepo := setup()

		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		tokenString, err := service.GenerateToken(user)
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		claims, err := service.ValidateToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.FamilyID, claims.FamilyID)
		assert.Equal(t, domain.RoleParent, claims.Role)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should reject a valid token if the user is gone (DB check)", func(t *testing.T) {
		service, mockRepo := setup()

		mockRepo.On("GetByID", mock.Anything, user.ID).Return(nil, errors.New("user not found"))

		tokenString, err := service.GenerateToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Should reject a token signed with a different secret", func(t *testing.T) {
		service, _ := setup()

		other := NewTokenService("a-completely-different-secret", issuer, 1*time.Hour, new(MockUserRepoForToken))
		tokenString, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Should reject an expired token", func(t *testing.T) {
		mockRepo := new(MockUserRepoForToken)
		service := NewTokenService(secret, issuer, -1*time.Minute, mockRepo)

		tokenString, err := service.GenerateToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Should reject a token from another issuer", func(t *testing.T) {
		service, _ := setup()

		other := NewTokenService(secret, "somebody-else", 1*time.Hour, new(MockUserRepoForToken))
		tokenString, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Should reject an unsigned (alg=none) token", func(t *testing.T) {
		service, _ := setup()

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": user.ID,
			"iss": issuer,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})
}
