package realtime

import (
	"fmt"

	"questboard/internal/model"
)

// Topic names. Every connection joins its private user topic plus the
// shared leaderboard topic at handshake.
const TopicLeaderboard = "leaderboard"

// UserTopic returns the private topic for a user id.
func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Event types sent to clients. No client-to-server commands exist; all
// writes go through HTTP.
const (
	EventUserProgress      = "user:progress"
	EventLeaderboardUpdate = "leaderboard:update"
)

// Event is the wire envelope for server-to-client pushes.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ProgressEvent reports a completion toggle to the owning user.
type ProgressEvent struct {
	TaskID        uint   `json:"taskId"`
	Title         string `json:"title"`
	XPDelta       int    `json:"xpDelta"`
	NewXP         int    `json:"newXp"`
	LevelNumber   int    `json:"levelNumber"`
	XPToNextLevel int    `json:"xpToNextLevel"`
}

// LeaderboardEvent carries the recomputed top rankings to all subscribers.
type LeaderboardEvent struct {
	Rankings      []model.LeaderboardEntry `json:"rankings"`
	UpdatedUserID uint                     `json:"updatedUserId"`
}
