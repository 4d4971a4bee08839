package domain

import "math"

const (
	// BaseLevelXP is the XP needed to leave level 1.
	BaseLevelXP = 100.0

	// LevelXPGrowth is the factor the requirement grows by per level.
	LevelXPGrowth = 1.5

	// LevelBonusPoints is multiplied by the newly reached level to get the
	// points granted on a level-up.
	LevelBonusPoints = 10
)

// XPRequiredForLevel returns the XP needed to advance from level to level+1:
// floor(100 * 1.5^(level-1)). Levels below 1 are treated as 1.
func XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(BaseLevelXP * math.Pow(LevelXPGrowth, float64(level-1))))
}

// LevelUp describes one level gained.
type LevelUp struct {
	Level int `json:"level"`
	Bonus int `json:"bonus"`
}

// AddXP adds amount to the XP pool and levels up as many times as the pool
// allows. Each level-up pays LevelBonusPoints times the new level into the
// point balance. On return XP is below the requirement of the current level.
func (s *PersistedState) AddXP(amount int) []LevelUp {
	if s.Level < 1 {
		s.Level = 1
	}
	s.XP += amount
	if s.XP < 0 {
		s.XP = 0
	}

	var ups []LevelUp
	for required := XPRequiredForLevel(s.Level); s.XP >= required; required = XPRequiredForLevel(s.Level) {
		s.XP -= required
		s.Level++
		bonus := s.Level * LevelBonusPoints
		s.Points += bonus
		ups = append(ups, LevelUp{Level: s.Level, Bonus: bonus})
	}
	return ups
}

// LevelProgress is the state of the XP bar.
type LevelProgress struct {
	Level    int `json:"level"`
	XP       int `json:"xp"`
	Required int `json:"required"`
}

// Percent returns the filled share of the XP bar between 0 and 1.
func (p LevelProgress) Percent() float64 {
	if p.Required <= 0 {
		return 0
	}
	return math.Min(1, float64(p.XP)/float64(p.Required))
}

// Progress returns the current level progress.
func (s *PersistedState) Progress() LevelProgress {
	return LevelProgress{
		Level:    s.Level,
		XP:       s.XP,
		Required: XPRequiredForLevel(s.Level),
	}
}

// Completion is the outcome of a successful task completion.
type Completion struct {
	Task        Task        `json:"task"`
	Quality     FoodQuality `json:"food_quality,omitempty"`
	Points      int         `json:"points"`
	XP          int         `json:"xp"`
	LevelUps    []LevelUp   `json:"level_ups,omitempty"`
	Level       int         `json:"level"`
	TotalPoints int         `json:"total_points"`
}
