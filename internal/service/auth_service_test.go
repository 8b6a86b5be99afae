package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"questboard/internal/auth"
	"questboard/internal/errors"
	"questboard/internal/model"
)

func newTestAuthService(repo *MockUserRepository, blacklist *MockTokenBlacklist) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("access-secret", "refresh-secret")
	return NewAuthService(repo, jwtService, blacklist), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "new@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "user already exists",
			email: "taken@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: errors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, _ := newTestAuthService(mockRepo, new(MockTokenBlacklist))
			user, err := svc.Register(context.Background(), tt.email, "password123", "Someone")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "password123", user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	require.NoError(t, err)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login stores new refresh hash",
			email:    "alice@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID:           7,
					Email:        "alice@example.com",
					PasswordHash: string(hashed),
				}, nil)
				m.On("StoreRefreshTokenHash", mock.Anything, uint(7), mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "not-it",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID:           7,
					Email:        "alice@example.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, jwtService := newTestAuthService(mockRepo, new(MockTokenBlacklist))
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Unknown email and bad password must be indistinguishable.
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateAccessToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
				_, err = jwtService.ValidateRefreshToken(refreshToken)
				assert.NoError(t, err)
				mockRepo.AssertCalled(t, "StoreRefreshTokenHash", mock.Anything, uint(7), auth.HashToken(refreshToken))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(nil, stderrors.New("driver: bad connection"))

	svc, _ := newTestAuthService(mockRepo, new(MockTokenBlacklist))
	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "password123")

	// A database outage is a server fault, not a credential failure.
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestAuthService_Refresh_Rotation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc, jwtService := newTestAuthService(mockRepo, new(MockTokenBlacklist))

	presented, err := jwtService.GenerateRefreshToken(7)
	require.NoError(t, err)

	mockRepo.On("RotateRefreshTokenHash", mock.Anything, uint(7), auth.HashToken(presented), mock.AnythingOfType("string")).
		Return(true, nil)

	accessToken, newRefresh, err := svc.Refresh(context.Background(), presented)
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	// Single-use rotation issues a brand new refresh token.
	assert.NotEqual(t, presented, newRefresh)
	_, err = jwtService.ValidateRefreshToken(newRefresh)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_ReuseDetected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc, jwtService := newTestAuthService(mockRepo, new(MockTokenBlacklist))

	presented, err := jwtService.GenerateRefreshToken(7)
	require.NoError(t, err)

	// The compare-and-swap loses: the hash was already rotated away.
	mockRepo.On("RotateRefreshTokenHash", mock.Anything, uint(7), auth.HashToken(presented), mock.AnythingOfType("string")).
		Return(false, nil)
	mockRepo.On("ClearRefreshTokenHash", mock.Anything, uint(7)).Return(nil)

	accessToken, newRefresh, err := svc.Refresh(context.Background(), presented)
	assert.ErrorIs(t, err, errors.ErrTokenReuse)
	assert.Empty(t, accessToken)
	assert.Empty(t, newRefresh)

	// Reuse clears the stored hash, forcing a full re-login.
	mockRepo.AssertCalled(t, "ClearRefreshTokenHash", mock.Anything, uint(7))
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc, jwtService := newTestAuthService(mockRepo, new(MockTokenBlacklist))

	t.Run("missing token", func(t *testing.T) {
		_, _, err := svc.Refresh(context.Background(), "")
		assert.ErrorIs(t, err, errors.ErrNoRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	t.Run("access token in the refresh slot", func(t *testing.T) {
		// Signed under the other key domain; must not validate here.
		accessToken, err := jwtService.GenerateAccessToken(7)
		require.NoError(t, err)
		_, _, err = svc.Refresh(context.Background(), accessToken)
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	mockRepo.AssertNotCalled(t, "RotateRefreshTokenHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Logout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlacklist := new(MockTokenBlacklist)
	svc, jwtService := newTestAuthService(mockRepo, mockBlacklist)

	refreshToken, err := jwtService.GenerateRefreshToken(7)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(7)
	require.NoError(t, err)

	mockRepo.On("ClearRefreshTokenHashByHash", mock.Anything, auth.HashToken(refreshToken)).Return(nil)
	mockBlacklist.On("BlacklistAccessToken", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	err = svc.Logout(context.Background(), refreshToken, accessToken)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockBlacklist.AssertExpectations(t)
}

func TestAuthService_Logout_NoTokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlacklist := new(MockTokenBlacklist)
	svc, _ := newTestAuthService(mockRepo, mockBlacklist)

	// Nothing to revoke is not an error; the client clears its cookie anyway.
	err := svc.Logout(context.Background(), "", "")
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "ClearRefreshTokenHashByHash", mock.Anything, mock.Anything)
	mockBlacklist.AssertNotCalled(t, "BlacklistAccessToken", mock.Anything, mock.Anything, mock.Anything)
}
