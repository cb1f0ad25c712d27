package dto

import "github.com/shopspring/decimal"

// SaveFeeConfigRequest admin fee configuration
type SaveFeeConfigRequest struct {
	Program  string `json:"program"   binding:"required,max=100"`
	Branch   string `json:"branch"    binding:"required,max=100"`
	Year     string `json:"year"      binding:"required,max=20"`
	Section  string `json:"section"   binding:"omitempty,max=20"`
	Amount   string `json:"amount"    binding:"required"`
	LastDate string `json:"last_date"`
}

// CreatePaymentRequest amount defaults to the outstanding dues
type CreatePaymentRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method" binding:"required"`
}

// UpdatePaymentStatusRequest admin status override
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// FeeOverviewRequest admin overview filters
type FeeOverviewRequest struct {
	Program string `form:"program"`
	Branch  string `form:"branch"`
	Year    string `form:"year"`
}

// ExportStudentsRequest export format and filters
type ExportStudentsRequest struct {
	Format  string `form:"format" binding:"required,oneof=csv pdf xlsx"`
	Program string `form:"program"`
	Branch  string `form:"branch"`
	Year    string `form:"year"`
	Section string `form:"section"`
}

// FeeConfigResponse fee configuration
type FeeConfigResponse struct {
	ID        string          `json:"id"`
	Program   string          `json:"program"`
	Branch    string          `json:"branch"`
	Year      string          `json:"year"`
	Section   string          `json:"section,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	LastDate  string          `json:"last_date,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}

// PaymentResponse fee payment
type PaymentResponse struct {
	ID               string          `json:"id"`
	StudentID        string          `json:"student_id"`
	StudentName      string          `json:"student_name,omitempty"`
	StudentEmail     string          `json:"student_email,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"payment_method"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// MyFeesResponse student fee page; Config is nil until the admin sets one
type MyFeesResponse struct {
	Payments  []PaymentResponse  `json:"payments"`
	Config    *FeeConfigResponse `json:"config"`
	TotalPaid decimal.Decimal    `json:"total_paid"`
	Dues      decimal.Decimal    `json:"dues"`
	Status    string             `json:"status"`
	Message   string             `json:"message,omitempty"`
}

// CreatePaymentResponse pending payment plus where to pay it
type CreatePaymentResponse struct {
	Payment    PaymentResponse `json:"payment"`
	UPIURL     string          `json:"upi_url,omitempty"`
	QRCode     string          `json:"qr_code,omitempty"` // base64 PNG
	GatewayURL string          `json:"gateway_url,omitempty"`
}

// StudentFeeRow admin overview line
type StudentFeeRow struct {
	StudentID    string          `json:"student_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	RollNo       string          `json:"roll_no,omitempty"`
	Program      string          `json:"program"`
	Branch       string          `json:"branch"`
	Year         string          `json:"year"`
	ConfigAmount decimal.Decimal `json:"config_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Dues         decimal.Decimal `json:"dues"`
	Status       string          `json:"status"`
}
