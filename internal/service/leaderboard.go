package service

import (
	"math"

	"github.com/stemsi/progresspoint/internal/model"
)

var medals = []string{model.MedalGold, model.MedalSilver, model.MedalBronze}

// BuildLeaderboard ranks students in their current order and computes the
// roster statistics. An empty roster yields zero statistics.
func BuildLeaderboard(students []model.Student) model.Leaderboard {
	board := model.Leaderboard{Entries: make([]model.LeaderboardEntry, 0, len(students))}
	for i, s := range students {
		entry := model.LeaderboardEntry{Rank: i + 1, Student: s}
		if i < len(medals) {
			entry.Medal = medals[i]
		}
		board.Entries = append(board.Entries, entry)
	}

	n := len(students)
	if n == 0 {
		return board
	}

	var presentation, efforts, assignment, assessment, total, attendance int
	for _, s := range students {
		presentation += s.Marks.Presentation
		efforts += s.Marks.Efforts
		assignment += s.Marks.Assignment
		assessment += s.Marks.Assessment
		total += s.Marks.Total
		attendance += s.AttendancePercentage
	}

	board.Stats = model.LeaderboardStats{
		Categories: model.CategoryAverages{
			Presentation: oneDecimal(presentation, n),
			Efforts:      oneDecimal(efforts, n),
			Assignment:   oneDecimal(assignment, n),
			Assessment:   oneDecimal(assessment, n),
		},
		AverageTotal:      roundDiv(total, n),
		AverageAttendance: roundDiv(attendance, n),
	}
	return board
}

func oneDecimal(sum, n int) float64 {
	return math.Round(float64(sum)*10/float64(n)) / 10
}
