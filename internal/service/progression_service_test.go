package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/repository"
)

func TestProgressionLedger_ApplyDelta(t *testing.T) {
	tests := []struct {
		name          string
		startXP       int
		delta         int
		wantXP        int
		wantLevel     int
		wantRequired  int
		wantToNext    int
	}{
		{
			name:    "first todo completion",
			startXP: 0, delta: 25,
			wantXP: 25, wantLevel: 1, wantRequired: 0, wantToNext: 975,
		},
		{
			name:    "revert returns to zero",
			startXP: 25, delta: -25,
			wantXP: 0, wantLevel: 1, wantRequired: 0, wantToNext: 1000,
		},
		{
			name:    "negative delta floors at zero",
			startXP: 10, delta: -25,
			wantXP: 0, wantLevel: 1, wantRequired: 0, wantToNext: 1000,
		},
		{
			name:    "habit completion crosses a threshold",
			startXP: 999, delta: 50,
			wantXP: 1049, wantLevel: 2, wantRequired: 1000, wantToNext: 1951,
		},
		{
			name:    "exact threshold promotes",
			startXP: 975, delta: 25,
			wantXP: 1000, wantLevel: 2, wantRequired: 1000, wantToNext: 2000,
		},
		{
			name:    "revert below a threshold demotes",
			startXP: 1020, delta: -50,
			wantXP: 970, wantLevel: 1, wantRequired: 0, wantToNext: 30,
		},
		{
			name:    "top tier has no next level",
			startXP: 14990, delta: 50,
			wantXP: 15040, wantLevel: 6, wantRequired: 15000, wantToNext: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockLevels := new(MockLevelRepository)

			mockUsers.On("FindByIDForUpdate", mock.Anything, uint(7)).
				Return(&model.User{ID: 7, XP: tt.startXP}, nil)
			mockLevels.On("ListOrdered", mock.Anything).Return(testLevels(), nil)
			mockUsers.On("UpdateProgress", mock.Anything, uint(7), tt.wantXP, mock.AnythingOfType("uint")).
				Return(nil)

			ledger := NewProgressionLedger(mockUsers, mockLevels)
			tx := &repository.Tx{Users: mockUsers, Levels: mockLevels}

			stats, err := ledger.ApplyDelta(context.Background(), tx, 7, tt.delta)
			require.NoError(t, err)

			assert.Equal(t, tt.wantXP, stats.XP)
			assert.Equal(t, tt.wantLevel, stats.LevelNumber)
			assert.Equal(t, tt.wantRequired, stats.RequiredXP)
			assert.Equal(t, tt.wantToNext, stats.XPToNextLevel)

			mockUsers.AssertExpectations(t)
		})
	}
}

// Level is a monotonic step function of XP: it never decreases as XP grows.
func TestProgressionLedger_LevelMonotonic(t *testing.T) {
	levels := testLevels()
	previous := 0
	for xp := 0; xp <= 16000; xp += 250 {
		stats, _, err := computeStats(levels, xp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.LevelNumber, previous, "xp=%d", xp)
		assert.LessOrEqual(t, stats.RequiredXP, xp, "xp=%d", xp)
		previous = stats.LevelNumber
	}
}

func TestProgressionLedger_ApplyDelta_UserVanished(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockLevels := new(MockLevelRepository)
	mockUsers.On("FindByIDForUpdate", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	ledger := NewProgressionLedger(mockUsers, mockLevels)
	tx := &repository.Tx{Users: mockUsers, Levels: mockLevels}

	_, err := ledger.ApplyDelta(context.Background(), tx, 9, 25)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
	mockUsers.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressionLedger_StatsFor(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockLevels := new(MockLevelRepository)
	mockUsers.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, XP: 3100}, nil)
	mockLevels.On("ListOrdered", mock.Anything).Return(testLevels(), nil)

	ledger := NewProgressionLedger(mockUsers, mockLevels)
	stats, err := ledger.StatsFor(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 3100, stats.XP)
	assert.Equal(t, 3, stats.LevelNumber)
	assert.Equal(t, 2900, stats.XPToNextLevel)
}
