package model

import "time"

// Dropdown fields read from student profiles.
const (
	FieldProgram  = "program"
	FieldBranch   = "branch"
	FieldYear     = "year"
	FieldSection  = "section"
	FieldSemester = "semester"
)

// DropdownValue admin-managed option for a form field (dropdown_values)
type DropdownValue struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CollegeID string    `gorm:"type:uuid;not null"                             json:"college_id"`
	Field     string    `gorm:"type:varchar(100);not null"                     json:"field"`
	Value     string    `gorm:"type:varchar(150);not null"                     json:"value"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (DropdownValue) TableName() string { return "dropdown_values" }
