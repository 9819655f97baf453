// Package export renders a roster as an .xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetLeaderboard = "Leaderboard"
	SheetAttendance  = "Attendance"
	SheetSummary     = "Summary"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteRoster writes the workbook for students to w.
func WriteRoster(w io.Writer, students []model.Student) error {
	f, err := Workbook(students)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook for students: the ranking, the attendance
// history with one column per student, and the roster statistics.
func Workbook(students []model.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetLeaderboard); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetAttendance, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	board := service.BuildLeaderboard(students)
	steps := []func(*excelize.File) error{
		func(f *excelize.File) error { return writeLeaderboard(f, board) },
		func(f *excelize.File) error { return writeAttendance(f, students) },
		func(f *excelize.File) error { return writeSummary(f, board.Stats) },
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeLeaderboard(f *excelize.File, board model.Leaderboard) error {
	header := []interface{}{"Rank", "ID", "Name", "Presentation", "Efforts", "Assignment", "Assessment", "Total", "Attendance %"}
	if err := setRow(f, SheetLeaderboard, 1, header); err != nil {
		return err
	}
	for i, e := range board.Entries {
		s := e.Student
		row := []interface{}{
			e.Rank, s.ID, s.Name,
			s.Marks.Presentation, s.Marks.Efforts, s.Marks.Assignment, s.Marks.Assessment,
			s.Marks.Total, s.AttendancePercentage,
		}
		if err := setRow(f, SheetLeaderboard, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAttendance(f *excelize.File, students []model.Student) error {
	header := make([]interface{}, 0, len(students)+4)
	header = append(header, "Date")
	for _, s := range students {
		header = append(header, s.Name)
	}
	header = append(header, "Present", "Total", "Percentage")
	if err := setRow(f, SheetAttendance, 1, header); err != nil {
		return err
	}

	for i, item := range service.AttendanceHistory(students) {
		byID := make(map[string]model.AttendanceStatus, len(item.Records))
		for _, r := range item.Records {
			byID[r.StudentID] = r.Status
		}

		row := make([]interface{}, 0, len(header))
		row = append(row, item.Date)
		for _, s := range students {
			row = append(row, string(byID[s.ID]))
		}
		row = append(row, item.Summary.Present, item.Summary.Total, item.Summary.Percentage)
		if err := setRow(f, SheetAttendance, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, stats model.LeaderboardStats) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Average presentation", stats.Categories.Presentation},
		{"Average efforts", stats.Categories.Efforts},
		{"Average assignment", stats.Categories.Assignment},
		{"Average assessment", stats.Categories.Assessment},
		{"Average total", stats.AverageTotal},
		{"Average attendance %", stats.AverageAttendance},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}
