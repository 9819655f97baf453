package model

// Medal names for the top three ranks.
const (
	MedalGold   = "gold"
	MedalSilver = "silver"
	MedalBronze = "bronze"
)

// LeaderboardEntry is a student with its position in the ranking.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Medal   string  `json:"medal,omitempty"`
	Student Student `json:"student"`
}

// CategoryAverages holds the roster-wide mean of each mark category.
type CategoryAverages struct {
	Presentation float64 `json:"presentation"`
	Efforts      float64 `json:"efforts"`
	Assignment   float64 `json:"assignment"`
	Assessment   float64 `json:"assessment"`
}

// LeaderboardStats summarises the roster.
type LeaderboardStats struct {
	Categories        CategoryAverages `json:"categories"`
	AverageTotal      int              `json:"average_total"`
	AverageAttendance int              `json:"average_attendance"`
}

// Leaderboard is the ranked roster plus its statistics.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Stats   LeaderboardStats   `json:"stats"`
}
