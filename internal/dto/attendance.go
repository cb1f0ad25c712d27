package dto

// RosterRequest class roster for a day; class is the student year
type RosterRequest struct {
	Branch    string `form:"branch"    binding:"required"`
	ClassName string `form:"class"     binding:"required"`
	Date      string `form:"date"      binding:"required"`
	CourseID  string `form:"course_id" binding:"omitempty,uuid"`
}

// MarkAttendanceRequest students listed in PresentIDs are Present, the rest Absent
type MarkAttendanceRequest struct {
	Branch     string   `json:"branch"      binding:"required"`
	ClassName  string   `json:"class"       binding:"required"`
	Date       string   `json:"date"        binding:"required"`
	CourseID   string   `json:"course_id"   binding:"omitempty,uuid"`
	PresentIDs []string `json:"present_ids" binding:"omitempty,dive,uuid"`
}

// AttendanceFilter optional course and date range (YYYY-MM-DD)
type AttendanceFilter struct {
	CourseID  string `form:"course_id"  binding:"omitempty,uuid"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// RosterEntry one student with today's status, if already marked
type RosterEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	RollNo    string `json:"roll_no,omitempty"`
	Status    string `json:"status,omitempty"`
}

// RosterResponse class roster
type RosterResponse struct {
	Branch    string        `json:"branch"`
	ClassName string        `json:"class"`
	Date      string        `json:"date"`
	CourseID  string        `json:"course_id,omitempty"`
	Students  []RosterEntry `json:"students"`
}

// MarkAttendanceResponse counts written
type MarkAttendanceResponse struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// AttendanceSummary totals and percentage rounded to two places
type AttendanceSummary struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}

// AttendanceRecord one attendance row
type AttendanceRecord struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	Name       string `json:"name,omitempty"`
	CourseID   string `json:"course_id,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Remarks    string `json:"remarks,omitempty"`
}

// CourseAttendanceSummary per-course summary for a student
type CourseAttendanceSummary struct {
	Course CourseResponse `json:"course"`
	AttendanceSummary
}

// MyAttendanceResponse student view
type MyAttendanceResponse struct {
	Records       []AttendanceRecord        `json:"records"`
	Summary       AttendanceSummary         `json:"summary"`
	CourseSummary []CourseAttendanceSummary `json:"course_summary"`
	Courses       []CourseResponse          `json:"courses"`
	Warnings      []string                  `json:"warnings,omitempty"`
}

// CourseAttendanceResponse faculty/admin view of a course
type CourseAttendanceResponse struct {
	Course   CourseResponse     `json:"course"`
	Records  []AttendanceRecord `json:"records"`
	Summary  AttendanceSummary  `json:"summary"`
	Warnings []string           `json:"warnings,omitempty"`
}
