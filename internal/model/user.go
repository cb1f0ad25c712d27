package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User account and student profile (users)
type User struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CollegeID    *string `gorm:"type:uuid"                                      json:"college_id"`
	Role         string  `gorm:"type:varchar(20);not null;default:'Student'"    json:"role"`
	Name         string  `gorm:"type:varchar(150);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Verified     bool    `gorm:"not null;default:false"                         json:"verified"`

	// academic
	EnrollmentNo  *string    `gorm:"type:varchar(50);uniqueIndex" json:"enrollment_no"`
	ScholarNo     string     `gorm:"type:varchar(50)"             json:"scholar_no"`
	RollNo        *string    `gorm:"type:varchar(50);uniqueIndex" json:"roll_no"`
	Program       string     `gorm:"type:varchar(100)"            json:"program"`
	Branch        string     `gorm:"type:varchar(100)"            json:"branch"`
	Year          string     `gorm:"type:varchar(10)"             json:"year"`
	Section       string     `gorm:"type:varchar(20)"             json:"section"`
	Semester      string     `gorm:"type:varchar(20)"             json:"semester"`
	ClassName     string     `gorm:"type:varchar(100)"            json:"class_name"`
	AdmissionDate *time.Time `gorm:"type:date"                    json:"admission_date"`

	// personal
	DOB           *time.Time `gorm:"column:dob;type:date"        json:"dob"`
	Gender        string     `gorm:"type:varchar(20)"            json:"gender"`
	Nationality   string     `gorm:"type:varchar(50)"            json:"nationality"`
	Religion      string     `gorm:"type:varchar(50)"            json:"religion"`
	AadhaarNo     string     `gorm:"type:varchar(20)"            json:"aadhaar_no"`
	BloodGroup    string     `gorm:"type:varchar(5)"             json:"blood_group"`
	Contact       string     `gorm:"type:varchar(20)"            json:"contact"`
	MotherTongue  string     `gorm:"type:varchar(50)"            json:"mother_tongue"`
	MaritalStatus string     `gorm:"type:varchar(20);default:'Single'" json:"marital_status"`
	SamagraID     string     `gorm:"type:varchar(50)"            json:"samagra_id"`
	Category      string     `gorm:"type:varchar(50)"            json:"category"`
	DomicileState string     `gorm:"type:varchar(50)"            json:"domicile_state"`

	// parents
	FatherName      string              `gorm:"type:varchar(150)"  json:"father_name"`
	FatherNameHindi string              `gorm:"type:varchar(150)"  json:"father_name_hindi"`
	FatherMobile    string              `gorm:"type:varchar(20)"   json:"father_mobile"`
	FatherIncome    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"father_income"`
	MotherName      string              `gorm:"type:varchar(150)"  json:"mother_name"`
	MotherNameHindi string              `gorm:"type:varchar(150)"  json:"mother_name_hindi"`
	MotherMobile    string              `gorm:"type:varchar(20)"   json:"mother_mobile"`
	MotherIncome    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"mother_income"`

	// address
	PermanentAddress string `gorm:"type:text"         json:"permanent_address"`
	PermanentCity    string `gorm:"type:varchar(100)" json:"permanent_city"`
	PermanentState   string `gorm:"type:varchar(100)" json:"permanent_state"`
	PermanentPin     string `gorm:"type:varchar(20)"  json:"permanent_pin"`
	LocalAddress     string `gorm:"type:text"         json:"local_address"`
	LocalCity        string `gorm:"type:varchar(100)" json:"local_city"`
	LocalState       string `gorm:"type:varchar(100)" json:"local_state"`
	LocalPin         string `gorm:"type:varchar(20)"  json:"local_pin"`

	// bank
	BankName      string `gorm:"type:varchar(100)" json:"bank_name"`
	BankBranch    string `gorm:"type:varchar(100)" json:"bank_branch"`
	BankAccountNo string `gorm:"type:varchar(50)"  json:"bank_account_no"`
	BankIFSC      string `gorm:"column:bank_ifsc;type:varchar(20)" json:"bank_ifsc"`

	// documents (storage references)
	Photo       string `gorm:"type:varchar(250)" json:"photo"`
	IDCard      string `gorm:"column:id_card;type:varchar(250)" json:"id_card"`
	Certificate string `gorm:"type:varchar(250)" json:"certificate"`
	Transcript  string `gorm:"type:varchar(250)" json:"transcript"`
	Signature   string `gorm:"type:varchar(250)" json:"signature"`

	BaseModel

	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

func (User) TableName() string { return "users" }

// CollegeIDValue is the tenant id or "" for SuperAdmin.
func (u *User) CollegeIDValue() string {
	if u.CollegeID == nil {
		return ""
	}
	return *u.CollegeID
}

// RollNoValue is the roll number or "".
func (u *User) RollNoValue() string {
	if u.RollNo == nil {
		return ""
	}
	return *u.RollNo
}

// IsFirstYear matches "1", "1st", "I", "First" and similar spellings.
func (u *User) IsFirstYear() bool {
	y := strings.ToLower(strings.TrimSpace(u.Year))
	switch y {
	case "1", "1st", "i", "first", "first year", "1st year":
		return true
	}
	return false
}

// Document kinds accepted by the upload endpoints.
const (
	DocPhoto       = "photo"
	DocSignature   = "signature"
	DocIDCard      = "id_card"
	DocCertificate = "certificate"
	DocTranscript  = "transcript"
)

// DocumentRef returns the stored reference for kind.
func (u *User) DocumentRef(kind string) (string, bool) {
	switch kind {
	case DocPhoto:
		return u.Photo, true
	case DocSignature:
		return u.Signature, true
	case DocIDCard:
		return u.IDCard, true
	case DocCertificate:
		return u.Certificate, true
	case DocTranscript:
		return u.Transcript, true
	}
	return "", false
}

// DocumentColumn maps a document kind to its column name.
func DocumentColumn(kind string) (string, bool) {
	switch kind {
	case DocPhoto, DocSignature, DocIDCard, DocCertificate, DocTranscript:
		return kind, true
	}
	return "", false
}
