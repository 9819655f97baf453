package seed

import (
	"strings"

	"github.com/stemsi/progresspoint/internal/model"
	"github.com/tiendc/go-deepcopy"
)

var admins = []model.Admin{
	{ID: "admin1", Username: "Dhanush", Password: "1234", DisplayName: "Dhanush"},
	{ID: "admin2", Username: "Mei", Password: "5678", DisplayName: "Mei"},
}

var rosters = map[string][]model.Student{
	"admin1": dhanushStudents,
	"admin2": meiStudents,
}

var dhanushStudents = []model.Student{
	student("d1", "Aisha Patel", 85, 78, 92, 88, 95),
	student("d2", "Rahul Sharma", 92, 85, 88, 90, 98),
	student("d3", "Priya Singh", 78, 82, 90, 85, 92),
	student("d4", "Vikram Mehta", 88, 90, 85, 92, 90),
	student("d5", "Divya Reddy", 90, 88, 94, 86, 97),
	student("d6", "Arjun Kumar", 84, 89, 82, 88, 94),
	student("d7", "Neha Gupta", 86, 92, 88, 90, 96),
	student("d8", "Rohan Malhotra", 92, 86, 90, 88, 93),
	student("d9", "Ananya Desai", 89, 85, 91, 87, 95),
	student("d10", "Karan Joshi", 82, 88, 86, 84, 91),
}

var meiStudents = []model.Student{
	student("m1", "Li Wei", 90, 88, 95, 92, 98),
	student("m2", "Chen Jing", 86, 92, 88, 90, 96),
	student("m3", "Wang Xiu", 94, 86, 90, 92, 97),
	student("m4", "Zhang Min", 88, 90, 92, 86, 94),
	student("m5", "Liu Yang", 92, 88, 90, 94, 99),
	student("m6", "Wu Fang", 86, 88, 90, 89, 95),
	student("m7", "Zhou Mei", 90, 92, 88, 86, 93),
	student("m8", "Huang Lei", 84, 88, 92, 90, 92),
	student("m9", "Zhao Ting", 90, 86, 88, 92, 96),
	student("m10", "Gao Lin", 88, 90, 92, 94, 98),
}

func student(id, name string, presentation, efforts, assignment, assessment, attendance int) model.Student {
	marks := model.MarkSet{
		Presentation: presentation,
		Efforts:      efforts,
		Assignment:   assignment,
		Assessment:   assessment,
	}
	marks.Total = marks.Sum()
	return model.Student{
		ID:                   id,
		Name:                 name,
		Attendance:           []model.AttendanceRecord{},
		Marks:                marks,
		AttendancePercentage: attendance,
	}
}

// Admins returns a copy of the built-in admin accounts.
func Admins() []model.Admin {
	out := make([]model.Admin, len(admins))
	copy(out, admins)
	return out
}

// FindAdmin looks up an admin by username, ignoring case.
func FindAdmin(username string) (model.Admin, bool) {
	for _, a := range admins {
		if strings.EqualFold(a.Username, username) {
			return a, true
		}
	}
	return model.Admin{}, false
}

// AdminByID looks up an admin by id.
func AdminByID(id string) (model.Admin, bool) {
	for _, a := range admins {
		if a.ID == id {
			return a, true
		}
	}
	return model.Admin{}, false
}

// Roster returns a deep copy of the seed roster owned by adminID, so callers
// may mutate it freely. Unknown admins get an empty roster.
func Roster(adminID string) ([]model.Student, error) {
	src, ok := rosters[adminID]
	if !ok {
		return []model.Student{}, nil
	}
	var dst []model.Student
	if err := deepcopy.Copy(&dst, &src); err != nil {
		return nil, err
	}
	model.FillAttendance(dst)
	return dst, nil
}
