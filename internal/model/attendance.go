package model

import "time"

const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
)

// Attendance one status per student, date and course (attendance)
type Attendance struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID string    `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID  *string   `gorm:"type:uuid"                                      json:"course_id"`
	Branch    string    `gorm:"type:varchar(50);not null"                      json:"branch"`
	ClassName string    `gorm:"type:varchar(50);not null"                      json:"class_name"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	Status    string    `gorm:"type:varchar(10);not null"                      json:"status"`
	Remarks   string    `gorm:"type:varchar(255)"                              json:"remarks"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Attendance) TableName() string { return "attendance" }
