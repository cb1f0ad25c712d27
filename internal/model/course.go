package model

import "time"

// Course per-college course catalogue (courses)
type Course struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CollegeID  string `gorm:"type:uuid;not null"                             json:"college_id"`
	CourseName string `gorm:"type:varchar(150);not null"                     json:"course_name"`
	CourseCode string `gorm:"type:varchar(50);not null"                      json:"course_code"`
	BaseModel
}

func (Course) TableName() string { return "courses" }

// StudentCourse enrollment (student_courses)
type StudentCourse struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID string    `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID  string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Program   string    `gorm:"type:varchar(100)"                              json:"program"`
	Branch    string    `gorm:"type:varchar(100)"                              json:"branch"`
	Year      string    `gorm:"type:varchar(10)"                               json:"year"`
	Semester  string    `gorm:"type:varchar(20)"                               json:"semester"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Course  *Course `gorm:"foreignKey:CourseID"  json:"course,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (StudentCourse) TableName() string { return "student_courses" }

// Course types a faculty member can teach.
const (
	CourseTypeTheory    = "Theory"
	CourseTypePractical = "Practical"
)

// FacultyCourse teaching assignment (faculty_courses)
type FacultyCourse struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacultyID  string    `gorm:"type:uuid;not null"                             json:"faculty_id"`
	CourseID   string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Program    string    `gorm:"type:varchar(100);not null"                     json:"program"`
	Branch     string    `gorm:"type:varchar(100);not null"                     json:"branch"`
	Year       string    `gorm:"type:varchar(20);not null"                      json:"year"`
	Semester   string    `gorm:"type:varchar(20);not null"                      json:"semester"`
	CourseType string    `gorm:"type:varchar(20);not null"                      json:"course_type"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (FacultyCourse) TableName() string { return "faculty_courses" }
