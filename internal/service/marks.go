package service

import (
	"cmp"
	"slices"

	"github.com/stemsi/progresspoint/internal/model"
)

// Bounds of a single mark category.
const (
	MinMark = 0
	MaxMark = 100
)

// ClampMark forces v into [MinMark, MaxMark].
func ClampMark(v int) int {
	return min(max(v, MinMark), MaxMark)
}

// ApplyMarks overlays patch on m, clamps every category and recomputes the total.
func ApplyMarks(m model.MarkSet, patch model.MarksPatch) model.MarkSet {
	if patch.Presentation != nil {
		m.Presentation = *patch.Presentation
	}
	if patch.Efforts != nil {
		m.Efforts = *patch.Efforts
	}
	if patch.Assignment != nil {
		m.Assignment = *patch.Assignment
	}
	if patch.Assessment != nil {
		m.Assessment = *patch.Assessment
	}

	m.Presentation = ClampMark(m.Presentation)
	m.Efforts = ClampMark(m.Efforts)
	m.Assignment = ClampMark(m.Assignment)
	m.Assessment = ClampMark(m.Assessment)
	m.Total = m.Sum()
	return m
}

// compareRank orders by total descending, then attendance descending.
func compareRank(a, b model.Student) int {
	if c := cmp.Compare(b.Marks.Total, a.Marks.Total); c != 0 {
		return c
	}
	return cmp.Compare(b.AttendancePercentage, a.AttendancePercentage)
}

// SortRoster returns the roster ranked by total then attendance, both
// descending. The sort is stable: students tied on both keys keep their
// previous relative order. The input slice is not modified.
func SortRoster(students []model.Student) []model.Student {
	out := slices.Clone(students)
	slices.SortStableFunc(out, compareRank)
	return out
}

// ApplyStudentMarks returns a re-ranked copy of students with patch applied
// to the student with id. An unknown id changes no marks, but the roster is
// still re-ranked.
func ApplyStudentMarks(students []model.Student, id string, patch model.MarksPatch) []model.Student {
	out := slices.Clone(students)
	for i := range out {
		if out[i].ID == id {
			out[i].Marks = ApplyMarks(out[i].Marks, patch)
			break
		}
	}
	return SortRoster(out)
}
