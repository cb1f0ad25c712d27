package dto

// StudentListRequest admin student search
type StudentListRequest struct {
	PaginationRequest
	Program string `form:"program"`
	Branch  string `form:"branch"`
	Year    string `form:"year"`
	Section string `form:"section"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// StudentSummary row in the student list
type StudentSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RollNo       string `json:"roll_no,omitempty"`
	EnrollmentNo string `json:"enrollment_no,omitempty"`
	Program      string `json:"program,omitempty"`
	Branch       string `json:"branch,omitempty"`
	Year         string `json:"year,omitempty"`
	Section      string `json:"section,omitempty"`
	Verified     bool   `json:"verified"`
}

// UpdateProfileRequest every field is optional; nil leaves the column
// unchanged and an empty string clears it.
type UpdateProfileRequest struct {
	Name  *string `json:"name"  binding:"omitempty,max=150"`
	Email *string `json:"email" binding:"omitempty,email"`

	EnrollmentNo  *string `json:"enrollment_no"  binding:"omitempty,max=50"`
	ScholarNo     *string `json:"scholar_no"     binding:"omitempty,max=50"`
	RollNo        *string `json:"roll_no"        binding:"omitempty,max=50"`
	Program       *string `json:"program"        binding:"omitempty,max=100"`
	Branch        *string `json:"branch"         binding:"omitempty,max=100"`
	Year          *string `json:"year"           binding:"omitempty,max=10"`
	Section       *string `json:"section"        binding:"omitempty,max=20"`
	Semester      *string `json:"semester"       binding:"omitempty,max=20"`
	ClassName     *string `json:"class_name"     binding:"omitempty,max=100"`
	AdmissionDate *string `json:"admission_date"`

	DOB           *string `json:"dob"`
	Gender        *string `json:"gender"         binding:"omitempty,max=20"`
	Nationality   *string `json:"nationality"    binding:"omitempty,max=50"`
	Religion      *string `json:"religion"       binding:"omitempty,max=50"`
	AadhaarNo     *string `json:"aadhaar_no"     binding:"omitempty,max=20"`
	BloodGroup    *string `json:"blood_group"    binding:"omitempty,max=5"`
	Contact       *string `json:"contact"        binding:"omitempty,max=20"`
	MotherTongue  *string `json:"mother_tongue"  binding:"omitempty,max=50"`
	MaritalStatus *string `json:"marital_status" binding:"omitempty,max=20"`
	SamagraID     *string `json:"samagra_id"     binding:"omitempty,max=50"`
	Category      *string `json:"category"       binding:"omitempty,max=50"`
	DomicileState *string `json:"domicile_state" binding:"omitempty,max=50"`

	FatherName      *string `json:"father_name"       binding:"omitempty,max=150"`
	FatherNameHindi *string `json:"father_name_hindi" binding:"omitempty,max=150"`
	FatherMobile    *string `json:"father_mobile"     binding:"omitempty,max=20"`
	FatherIncome    *string `json:"father_income"`
	MotherName      *string `json:"mother_name"       binding:"omitempty,max=150"`
	MotherNameHindi *string `json:"mother_name_hindi" binding:"omitempty,max=150"`
	MotherMobile    *string `json:"mother_mobile"     binding:"omitempty,max=20"`
	MotherIncome    *string `json:"mother_income"`

	PermanentAddress *string `json:"permanent_address"`
	PermanentCity    *string `json:"permanent_city"  binding:"omitempty,max=100"`
	PermanentState   *string `json:"permanent_state" binding:"omitempty,max=100"`
	PermanentPin     *string `json:"permanent_pin"   binding:"omitempty,max=20"`
	LocalAddress     *string `json:"local_address"`
	LocalCity        *string `json:"local_city"      binding:"omitempty,max=100"`
	LocalState       *string `json:"local_state"     binding:"omitempty,max=100"`
	LocalPin         *string `json:"local_pin"       binding:"omitempty,max=20"`

	BankName      *string `json:"bank_name"       binding:"omitempty,max=100"`
	BankBranch    *string `json:"bank_branch"     binding:"omitempty,max=100"`
	BankAccountNo *string `json:"bank_account_no" binding:"omitempty,max=50"`
	BankIFSC      *string `json:"bank_ifsc"       binding:"omitempty,max=20"`
}

// UpdateContactRequest self-service contact update
type UpdateContactRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=150"`
	Contact *string `json:"contact" binding:"omitempty,max=20"`
}

// DocumentResponse stored upload reference
type DocumentResponse struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}
