package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/repository"
)

// UserStats is the post-mutation progression snapshot returned to clients.
type UserStats struct {
	XP            int `json:"xp"`
	LevelNumber   int `json:"level_number"`
	RequiredXP    int `json:"required_xp"`
	XPToNextLevel int `json:"xp_to_next_level"`
}

// ProgressionLedger owns atomic XP mutation and level recomputation.
type ProgressionLedger interface {
	// ApplyDelta adds a signed XP delta inside the caller's transaction.
	// XP is floored at zero and the level is recomputed from scratch as
	// the highest tier whose threshold does not exceed the new XP.
	ApplyDelta(ctx context.Context, tx *repository.Tx, userID uint, delta int) (*UserStats, error)
	// StatsFor reads the current snapshot without mutating anything.
	StatsFor(ctx context.Context, userID uint) (*UserStats, error)
}

type progressionLedger struct {
	userRepo  repository.UserRepository
	levelRepo repository.LevelRepository
}

// NewProgressionLedger creates a new progression ledger.
func NewProgressionLedger(userRepo repository.UserRepository, levelRepo repository.LevelRepository) ProgressionLedger {
	return &progressionLedger{
		userRepo:  userRepo,
		levelRepo: levelRepo,
	}
}

func (l *progressionLedger) ApplyDelta(ctx context.Context, tx *repository.Tx, userID uint, delta int) (*UserStats, error) {
	user, err := tx.Users.FindByIDForUpdate(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user row: %w", err)
	}

	newXP := user.XP + delta
	if newXP < 0 {
		newXP = 0
	}

	levels, err := tx.Levels.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}

	stats, levelID, err := computeStats(levels, newXP)
	if err != nil {
		return nil, err
	}

	if err := tx.Users.UpdateProgress(ctx, userID, newXP, levelID); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	return stats, nil
}

func (l *progressionLedger) StatsFor(ctx context.Context, userID uint) (*UserStats, error) {
	user, err := l.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	levels, err := l.levelRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}

	stats, _, err := computeStats(levels, user.XP)
	return stats, err
}

// computeStats resolves XP to a tier. Recomputed in full on every call so a
// prior inconsistency heals itself; levels must be sorted by RequiredXP
// ascending. Falls back to the lowest tier when XP is below all thresholds.
func computeStats(levels []model.Level, xp int) (*UserStats, uint, error) {
	if len(levels) == 0 {
		return nil, 0, fmt.Errorf("level table is empty")
	}

	current := levels[0]
	nextRequired := 0
	for i, lvl := range levels {
		if lvl.RequiredXP > xp {
			nextRequired = lvl.RequiredXP
			break
		}
		current = levels[i]
	}

	xpToNext := 0
	if nextRequired > 0 {
		xpToNext = nextRequired - xp
	}

	return &UserStats{
		XP:            xp,
		LevelNumber:   current.LevelNumber,
		RequiredXP:    current.RequiredXP,
		XPToNextLevel: xpToNext,
	}, current.ID, nil
}
