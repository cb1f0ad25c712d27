package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// Payment methods
const (
	MethodUPI        = "UPI"
	MethodNetBanking = "NetBanking"
)

// IsPaymentStatus reports whether s is one of the four payment statuses.
func IsPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// FeeConfig configured fee per program/branch/year (fee_configs)
type FeeConfig struct {
	ID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CollegeID string          `gorm:"type:uuid;not null"                             json:"college_id"`
	Program   string          `gorm:"type:varchar(100);not null"                     json:"program"`
	Branch    string          `gorm:"type:varchar(100);not null"                     json:"branch"`
	Year      string          `gorm:"type:varchar(20);not null"                      json:"year"`
	Section   string          `gorm:"type:varchar(20)"                               json:"section"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	LastDate  *time.Time      `gorm:"type:date"                                      json:"last_date"`
	BaseModel
}

func (FeeConfig) TableName() string { return "fee_configs" }

// FeePayment a student's payment attempt (fee_payments)
type FeePayment struct {
	ID               string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID        string          `gorm:"type:uuid;not null"                             json:"student_id"`
	CollegeID        string          `gorm:"type:uuid;not null"                             json:"college_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	Status           string          `gorm:"type:varchar(20);not null;default:'Unpaid'"     json:"status"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null"                      json:"payment_method"`
	GatewayOrderID   string          `gorm:"type:varchar(100)"                              json:"gateway_order_id"`
	PaymentReference string          `gorm:"type:varchar(100)"                              json:"payment_reference"`
	BaseModel

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (FeePayment) TableName() string { return "fee_payments" }
