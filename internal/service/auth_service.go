package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"questboard/internal/auth"
	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/repository"
)

const bcryptCost = 10

// AuthService orchestrates the session lifecycle: login, single-use
// refresh rotation with reuse detection, and revocation.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	// Refresh rotates on every call: the presented token becomes
	// permanently invalid whether or not the caller retries.
	Refresh(ctx context.Context, presentedRefreshToken string) (accessToken, newRefreshToken string, err error)
	// Logout revokes server-side state best effort. refreshToken and
	// accessToken may each be empty; a failure never propagates because
	// the client clears its cookie regardless.
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// Register creates a new user with hashed password.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrUserAlreadyExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and issues a fresh token pair. The new refresh
// token's hash overwrites any previously stored one, so logging in
// invalidates other outstanding refresh tokens for that user.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown email and bad password share one error value so the
			// response cannot be used to enumerate accounts.
			return "", "", nil, errors.ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.userRepo.StoreRefreshTokenHash(ctx, user.ID, auth.HashToken(refreshToken)); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token hash: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates the presented token and rotates it. A token that is
// well signed but no longer matches the stored hash was already rotated or
// revoked; that is treated as possible theft, so the stored hash is cleared
// to force a full re-login.
func (s *authService) Refresh(ctx context.Context, presented string) (string, string, error) {
	if presented == "" {
		return "", "", errors.ErrNoRefreshToken
	}

	claims, err := s.jwtService.ValidateRefreshToken(presented)
	if err != nil {
		return "", "", errors.ErrInvalidRefreshToken
	}

	newRefreshToken, err := s.jwtService.GenerateRefreshToken(claims.UserID)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	rotated, err := s.userRepo.RotateRefreshTokenHash(ctx, claims.UserID,
		auth.HashToken(presented), auth.HashToken(newRefreshToken))
	if err != nil {
		return "", "", fmt.Errorf("rotate refresh token hash: %w", err)
	}
	if !rotated {
		// The compare-and-swap lost: reuse of an already-rotated token.
		if clearErr := s.userRepo.ClearRefreshTokenHash(ctx, claims.UserID); clearErr != nil {
			return "", "", fmt.Errorf("clear refresh token hash after reuse: %w", clearErr)
		}
		return "", "", errors.ErrTokenReuse
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// Logout clears the stored refresh hash matching the presented cookie and
// blacklists the presented access token until its natural expiry.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken != "" {
		if err := s.userRepo.ClearRefreshTokenHashByHash(ctx, auth.HashToken(refreshToken)); err != nil {
			return fmt.Errorf("clear refresh token hash: %w", err)
		}
	}

	if accessToken != "" {
		if claims, err := s.jwtService.ValidateAccessToken(accessToken); err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := s.blacklist.BlacklistAccessToken(ctx, claims.ID, ttl); err != nil {
				return fmt.Errorf("blacklist access token: %w", err)
			}
		}
	}

	return nil
}
