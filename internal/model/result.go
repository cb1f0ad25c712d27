package model

// Result marks for one course and semester; hidden from the student until approved (results)
type Result struct {
	ID              string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID       string `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID        string `gorm:"type:uuid;not null"                             json:"course_id"`
	Semester        string `gorm:"type:varchar(10);not null"                      json:"semester"`
	Marks           int    `gorm:"not null"                                       json:"marks"`
	Grade           string `gorm:"type:varchar(5);not null"                       json:"grade"`
	ApprovedByAdmin bool   `gorm:"not null;default:false"                         json:"approved_by_admin"`
	BaseModel

	Student *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID"  json:"course,omitempty"`
}

func (Result) TableName() string { return "results" }

// GradeFor maps 0..100 marks to a letter grade.
func GradeFor(marks int) string {
	switch {
	case marks >= 90:
		return "A+"
	case marks >= 80:
		return "A"
	case marks >= 70:
		return "B+"
	case marks >= 60:
		return "B"
	case marks >= 50:
		return "C"
	case marks >= 40:
		return "D"
	default:
		return "F"
	}
}
