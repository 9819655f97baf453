package service

import (
	"slices"

	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/validator"
)

// NormalizeRoster repairs a roster read back from storage so it satisfies
// the same rules as one built through the service: marks are clamped and
// totalled, attendance keeps only well-formed records with one entry per
// date (the first wins), and the percentage follows the history. It reports
// whether anything had to change. The input is not modified.
func NormalizeRoster(students []model.Student) ([]model.Student, bool) {
	out := slices.Clone(students)
	changed := false
	for i := range out {
		var c bool
		out[i], c = normalizeStudent(out[i])
		changed = changed || c
	}
	return out, changed
}

func normalizeStudent(st model.Student) (model.Student, bool) {
	before := st.Marks
	st.Marks = ApplyMarks(st.Marks, model.MarksPatch{})
	changed := st.Marks != before

	seen := make(map[string]struct{}, len(st.Attendance))
	records := make([]model.AttendanceRecord, 0, len(st.Attendance))
	for _, r := range st.Attendance {
		if !r.Status.Valid() || validator.Date(r.Date) != nil {
			continue
		}
		if _, dup := seen[r.Date]; dup {
			continue
		}
		seen[r.Date] = struct{}{}
		records = append(records, r)
	}
	if len(records) != len(st.Attendance) {
		changed = true
	}
	st.Attendance = records

	pct := AttendancePercentage(records)
	if len(records) == 0 {
		pct = min(max(st.AttendancePercentage, 0), 100)
	}
	if pct != st.AttendancePercentage {
		st.AttendancePercentage = pct
		changed = true
	}
	return st, changed
}
