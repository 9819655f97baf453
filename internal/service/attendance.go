package service

import (
	"sort"

	"github.com/stemsi/progresspoint/internal/model"
)

// roundDiv returns round(a / b) for non-negative a with halves rounded up,
// or 0 when b is zero. Integer arithmetic keeps x.5 results exact.
func roundDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (2*a + b) / (2 * b)
}

// percentOf returns round(100 * part / whole).
func percentOf(part, whole int) int {
	return roundDiv(100*part, whole)
}

// AttendancePercentage returns the share of present records, 0 for an empty history.
func AttendancePercentage(records []model.AttendanceRecord) int {
	present := 0
	for _, r := range records {
		if r.Status == model.StatusPresent {
			present++
		}
	}
	return percentOf(present, len(records))
}

// ApplyAttendance returns a copy of students with the roll call for date
// applied. A record that already exists for date is overwritten in place,
// otherwise one is appended. Touched students get their percentage
// recomputed; students without an entry and entries for unknown ids are
// ignored. If an id appears twice the first entry wins.
func ApplyAttendance(students []model.Student, date string, entries []model.AttendanceEntry) []model.Student {
	statuses := make(map[string]model.AttendanceStatus, len(entries))
	for _, e := range entries {
		if _, seen := statuses[e.StudentID]; !seen {
			statuses[e.StudentID] = e.Status
		}
	}

	out := make([]model.Student, len(students))
	for i, s := range students {
		out[i] = s
		status, ok := statuses[s.ID]
		if !ok {
			continue
		}

		history := make([]model.AttendanceRecord, len(s.Attendance), len(s.Attendance)+1)
		copy(history, s.Attendance)

		replaced := false
		for j := range history {
			if history[j].Date == date {
				history[j].Status = status
				replaced = true
				break
			}
		}
		if !replaced {
			history = append(history, model.AttendanceRecord{Date: date, Status: status})
		}

		out[i].Attendance = history
		out[i].AttendancePercentage = AttendancePercentage(history)
	}
	return out
}

// GroupAttendanceByDate collects every student's records into one
// AttendanceDay per date. Records inside a day follow roster order.
func GroupAttendanceByDate(students []model.Student) map[string]model.AttendanceDay {
	days := make(map[string]model.AttendanceDay)
	for _, s := range students {
		for _, r := range s.Attendance {
			day, ok := days[r.Date]
			if !ok {
				day = model.AttendanceDay{Date: r.Date}
			}
			day.Records = append(day.Records, model.AttendanceMark{
				StudentID: s.ID,
				Name:      s.Name,
				Status:    r.Status,
			})
			days[r.Date] = day
		}
	}
	return days
}

// SortedDates returns the keys of days, newest first.
func SortedDates(days map[string]model.AttendanceDay) []string {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	// YYYY-MM-DD sorts chronologically as a string.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// SummarizeDay counts the present records of one day.
func SummarizeDay(day model.AttendanceDay) model.DaySummary {
	present := 0
	for _, r := range day.Records {
		if r.Status == model.StatusPresent {
			present++
		}
	}
	return model.DaySummary{
		Date:       day.Date,
		Present:    present,
		Total:      len(day.Records),
		Percentage: percentOf(present, len(day.Records)),
	}
}

// AttendanceHistory lists every recorded day with its summary, newest first.
func AttendanceHistory(students []model.Student) []model.AttendanceHistoryItem {
	days := GroupAttendanceByDate(students)
	items := make([]model.AttendanceHistoryItem, 0, len(days))
	for _, date := range SortedDates(days) {
		day := days[date]
		items = append(items, model.AttendanceHistoryItem{
			AttendanceDay: day,
			Summary:       SummarizeDay(day),
		})
	}
	return items
}

// AttendanceSheet returns the statuses a roll-call form for date starts
// with: the recorded status where one exists, present otherwise.
func AttendanceSheet(students []model.Student, date string) []model.AttendanceEntry {
	sheet := make([]model.AttendanceEntry, 0, len(students))
	for _, s := range students {
		entry := model.AttendanceEntry{StudentID: s.ID, Status: model.StatusPresent}
		for _, r := range s.Attendance {
			if r.Date == date {
				entry.Status = r.Status
				break
			}
		}
		sheet = append(sheet, entry)
	}
	return sheet
}
