package dto

// ── auth requests ──

// RegisterRequest self-registration
type RegisterRequest struct {
	Name      string `json:"name"       binding:"omitempty,max=150"`
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	Role      string `json:"role"       binding:"omitempty,role"`
	CollegeID string `json:"college_id" binding:"required,uuid"`
}

// LoginRequest college is required for everyone but SuperAdmin
type LoginRequest struct {
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required"`
	CollegeID string `json:"college_id" binding:"omitempty,uuid"`
}

// VerifyEmailRequest OTP confirmation
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp"   binding:"required,len=4,numeric"`
}

// EmailRequest resend OTP / forgot password
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest set a new password with a reset OTP
type ResetPasswordRequest struct {
	Email       string `json:"email"        binding:"required,email"`
	OTP         string `json:"otp"          binding:"required,len=4,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// ── auth responses ──

// CollegeBrief picker entry on the login and register pages
type CollegeBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// RegisterResponse created account; OTP only echoed in demo mode
type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	OTP   string `json:"otp,omitempty"`
}

// OTPResponse result of issuing a code
type OTPResponse struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

// Branding college name and logo shown after login
type Branding struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// LoginResponse access token and session info
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
	Branding    Branding     `json:"branding"`
}

// UserResponse account summary without profile detail
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	CollegeID string `json:"college_id,omitempty"`
	Program   string `json:"program,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Year      string `json:"year,omitempty"`
	Photo     string `json:"photo,omitempty"`
	CreatedAt string `json:"created_at"`
}
