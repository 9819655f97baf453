package model

// AttendanceStatus is the outcome of one roll call for one student.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceRecord is a (date, status) pair. Date is formatted YYYY-MM-DD and
// is unique within one student's history.
type AttendanceRecord struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
}

// MarkSet holds the four category scores and their sum.
type MarkSet struct {
	Presentation int `json:"presentation"`
	Efforts      int `json:"efforts"`
	Assignment   int `json:"assignment"`
	Assessment   int `json:"assessment"`
	Total        int `json:"total"`
}

// Sum returns the sum of the four category scores.
func (m MarkSet) Sum() int {
	return m.Presentation + m.Efforts + m.Assignment + m.Assessment
}

// Student is one entry of an admin's roster.
type Student struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Attendance           []AttendanceRecord `json:"attendance"`
	Marks                MarkSet            `json:"marks"`
	AttendancePercentage int                `json:"attendance_percentage"`
}

// MarksPatch carries a partial marks update. Nil fields keep their value.
type MarksPatch struct {
	Presentation *int `json:"presentation"`
	Efforts      *int `json:"efforts"`
	Assignment   *int `json:"assignment"`
	Assessment   *int `json:"assessment"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MarksPatch) IsEmpty() bool {
	return p.Presentation == nil && p.Efforts == nil && p.Assignment == nil && p.Assessment == nil
}

// FillAttendance replaces nil attendance slices with empty ones so rosters
// always serialize "attendance" as a list.
func FillAttendance(students []Student) {
	for i := range students {
		if students[i].Attendance == nil {
			students[i].Attendance = []AttendanceRecord{}
		}
	}
}
