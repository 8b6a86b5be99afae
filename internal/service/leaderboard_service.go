package service

import (
	"context"
	"fmt"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// maxLeaderboardSize caps the projection regardless of the requested limit.
const maxLeaderboardSize = 10

// LeaderboardService recomputes the ranked top-N view on demand. The
// projection is never cached; staleness is bounded by the next call.
type LeaderboardService interface {
	TopN(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type leaderboardService struct {
	userRepo repository.UserRepository
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(userRepo repository.UserRepository) LeaderboardService {
	return &leaderboardService{userRepo: userRepo}
}

// TopN ranks users by XP descending with id as the stable tiebreak, so
// repeated calls with equal XP yield identical ordering.
func (s *leaderboardService) TopN(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	rows, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
