package dto

// CreateCourseRequest admin course creation
type CreateCourseRequest struct {
	CourseName string `json:"course_name" binding:"required,max=150"`
	CourseCode string `json:"course_code" binding:"required,max=50"`
}

// EnrollRequest student enrollment
type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// AssignCourseRequest faculty teaching assignment
type AssignCourseRequest struct {
	CourseID   string `json:"course_id"   binding:"required,uuid"`
	Program    string `json:"program"     binding:"required,max=100"`
	Branch     string `json:"branch"      binding:"required,max=100"`
	Year       string `json:"year"        binding:"required,max=20"`
	Semester   string `json:"semester"    binding:"required,max=20"`
	CourseType string `json:"course_type" binding:"required,oneof=Theory Practical"`
}

// CourseResponse course entry
type CourseResponse struct {
	ID         string `json:"id"`
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
	CreatedAt  string `json:"created_at"`
}

// EnrollmentResponse a student's enrollment
type EnrollmentResponse struct {
	ID       string         `json:"id"`
	Course   CourseResponse `json:"course"`
	Program  string         `json:"program,omitempty"`
	Branch   string         `json:"branch,omitempty"`
	Year     string         `json:"year,omitempty"`
	Semester string         `json:"semester,omitempty"`
}

// AssignmentResponse a faculty member's assignment
type AssignmentResponse struct {
	ID         string         `json:"id"`
	Course     CourseResponse `json:"course"`
	Program    string         `json:"program"`
	Branch     string         `json:"branch"`
	Year       string         `json:"year"`
	Semester   string         `json:"semester"`
	CourseType string         `json:"course_type"`
}
