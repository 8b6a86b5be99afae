package model

// Level is a static reference tier. A user's level is the tier with the
// highest RequiredXP that does not exceed their XP.
type Level struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	LevelNumber int  `json:"level_number" gorm:"uniqueIndex;not null"`
	RequiredXP  int  `json:"required_xp" gorm:"uniqueIndex;not null"`
}

// DefaultLevels is the seeded tier table.
var DefaultLevels = []Level{
	{LevelNumber: 1, RequiredXP: 0},
	{LevelNumber: 2, RequiredXP: 1000},
	{LevelNumber: 3, RequiredXP: 3000},
	{LevelNumber: 4, RequiredXP: 6000},
	{LevelNumber: 5, RequiredXP: 10000},
	{LevelNumber: 6, RequiredXP: 15000},
}
