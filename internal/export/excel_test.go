package export

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRoster(t *testing.T) {
	students := []model.Student{
		{
			ID:   "d1",
			Name: "Aisha Patel",
			Attendance: []model.AttendanceRecord{
				{Date: "2024-01-09", Status: model.StatusPresent},
				{Date: "2024-01-10", Status: model.StatusAbsent},
			},
			Marks:                model.MarkSet{Presentation: 85, Efforts: 78, Assignment: 92, Assessment: 88, Total: 343},
			AttendancePercentage: 50,
		},
		{
			ID:                   "d2",
			Name:                 "Rahul Sharma",
			Attendance:           []model.AttendanceRecord{{Date: "2024-01-10", Status: model.StatusPresent}},
			Marks:                model.MarkSet{Presentation: 92, Efforts: 85, Assignment: 88, Assessment: 90, Total: 355},
			AttendancePercentage: 100,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLeaderboard, SheetAttendance, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetLeaderboard)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"1", "d1", "Aisha Patel", "85", "78", "92", "88", "343", "50"}, rows[1])
	assert.Equal(t, "d2", rows[2][1])

	rows, err = f.GetRows(SheetAttendance)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Aisha Patel", "Rahul Sharma", "Present", "Total", "Percentage"}, rows[0])
	assert.Equal(t, []string{"2024-01-10", "absent", "present", "1", "2", "50"}, rows[1])
	assert.Equal(t, []string{"2024-01-09", "present", "", "1", "1", "100"}, rows[2])

	rows, err = f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Average total", "349"}, rows[5])
}

func TestWriteRosterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetLeaderboard)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteRosterRanksMatchLeaderboard(t *testing.T) {
	students := []model.Student{
		{ID: "a", Name: "Low", Marks: model.MarkSet{Total: 100}, AttendancePercentage: 10},
		{ID: "b", Name: "High", Marks: model.MarkSet{Total: 300}, AttendancePercentage: 90},
		{ID: "c", Name: "Mid", Marks: model.MarkSet{Total: 200}, AttendancePercentage: 50},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, students))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetLeaderboard)
	require.NoError(t, err)
	board := service.BuildLeaderboard(students)
	require.Len(t, rows, len(board.Entries)+1)
	assert.Equal(t, "a", rows[1][1], "students stay in roster order")
	for i, entry := range board.Entries {
		assert.Equal(t, strconv.Itoa(entry.Rank), rows[i+1][0])
		assert.Equal(t, entry.Student.ID, rows[i+1][1])
	}
}
