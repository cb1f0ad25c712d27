package dto

// SubmitResultRequest faculty marks upload
type SubmitResultRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CourseID  string `json:"course_id"  binding:"required,uuid"`
	Semester  string `json:"semester"   binding:"required,max=10"`
	Marks     *int   `json:"marks"      binding:"required,min=0,max=100"`
}

// MyResultsRequest optional semester filter
type MyResultsRequest struct {
	Semester string `form:"semester"`
}

// ResultResponse result row
type ResultResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	RollNo      string `json:"roll_no,omitempty"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name,omitempty"`
	CourseCode  string `json:"course_code,omitempty"`
	Semester    string `json:"semester"`
	Marks       int    `json:"marks"`
	Grade       string `json:"grade"`
	Approved    bool   `json:"approved"`
	CreatedAt   string `json:"created_at"`
}

// MyResultsResponse approved results and the semesters that have any
type MyResultsResponse struct {
	Results   []ResultResponse `json:"results"`
	Semesters []string         `json:"semesters"`
	Selected  string           `json:"selected_semester,omitempty"`
}

// ApproveResponse number of results approved
type ApproveResponse struct {
	Approved int64 `json:"approved"`
}
