package model

// AttendanceEntry marks one student for one date.
type AttendanceEntry struct {
	StudentID string           `json:"student_id" binding:"required,max=64"`
	Status    AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// UpdateAttendanceRequest is the payload for recording a roll call.
type UpdateAttendanceRequest struct {
	Date    string            `json:"date" binding:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

// AttendanceMark is one student's status inside an AttendanceDay.
type AttendanceMark struct {
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceDay groups every student's record for a single date.
type AttendanceDay struct {
	Date    string           `json:"date"`
	Records []AttendanceMark `json:"records"`
}

// DaySummary is the head count of an AttendanceDay.
type DaySummary struct {
	Date       string `json:"date"`
	Present    int    `json:"present"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// AttendanceHistoryItem pairs a day with its summary for history views.
type AttendanceHistoryItem struct {
	AttendanceDay
	Summary DaySummary `json:"summary"`
}
