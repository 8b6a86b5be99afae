package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProgress(ctx context.Context, id uint, xp int, levelID uint) error {
	args := m.Called(ctx, id, xp, levelID)
	return args.Error(0)
}

func (m *MockUserRepository) StoreRefreshTokenHash(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshTokenHash(ctx context.Context, id uint, oldHash, newHash string) (bool, error) {
	args := m.Called(ctx, id, oldHash, newHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ClearRefreshTokenHash(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshTokenHashByHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func (m *MockUserRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

// MockTaskRepository is a mock implementation of repository.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTaskRepository) FindOwned(ctx context.Context, id, userID uint) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOwnedForUpdate(ctx context.Context, id, userID uint) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateStatus(ctx context.Context, id uint, status model.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTaskRepository) AttachTag(ctx context.Context, task *model.Task, tag *model.Tag) error {
	args := m.Called(ctx, task, tag)
	return args.Error(0)
}

func (m *MockTaskRepository) DetachTag(ctx context.Context, task *model.Task, tag *model.Tag) error {
	args := m.Called(ctx, task, tag)
	return args.Error(0)
}

// MockLevelRepository is a mock implementation of repository.LevelRepository.
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) ListOrdered(ctx context.Context) ([]model.Level, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Level), args.Error(1)
}

func (m *MockLevelRepository) Seed(ctx context.Context, levels []model.Level) error {
	args := m.Called(ctx, levels)
	return args.Error(0)
}

// MockTokenBlacklist is a mock implementation of auth.TokenBlacklist.
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// stubTxRunner runs the transaction body against a fixed repository bundle.
type stubTxRunner struct {
	tx *repository.Tx
}

func (s *stubTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *repository.Tx) error) error {
	return fn(ctx, s.tx)
}

// testLevels mirrors the seeded tier table.
func testLevels() []model.Level {
	return []model.Level{
		{ID: 1, LevelNumber: 1, RequiredXP: 0},
		{ID: 2, LevelNumber: 2, RequiredXP: 1000},
		{ID: 3, LevelNumber: 3, RequiredXP: 3000},
		{ID: 4, LevelNumber: 4, RequiredXP: 6000},
		{ID: 5, LevelNumber: 5, RequiredXP: 10000},
		{ID: 6, LevelNumber: 6, RequiredXP: 15000},
	}
}
