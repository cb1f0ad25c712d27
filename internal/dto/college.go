package dto

// CreateCollegeRequest multipart form; the logo arrives as a file part
type CreateCollegeRequest struct {
	Name   string `form:"name"   binding:"required,max=150"`
	Domain string `form:"domain" binding:"required,max=150"`
}

// UpdateCollegeRequest blank fields are left unchanged
type UpdateCollegeRequest struct {
	Name       string `form:"name"        binding:"omitempty,max=150"`
	Domain     string `form:"domain"      binding:"omitempty,max=150"`
	RemoveLogo bool   `form:"remove_logo"`
}

// UpdateOwnCollegeRequest Admin rebranding
type UpdateOwnCollegeRequest struct {
	Name string `form:"name" binding:"omitempty,max=150"`
}

// CollegeResponse college detail
type CollegeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	Logo      string `json:"logo,omitempty"`
	UserCount int64  `json:"user_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
