package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
	pkgerrors "college-erp/pkg/errors"
	"college-erp/pkg/events"
	"college-erp/pkg/pdf"
)

// ── fee errors ──

var (
	ErrFeeNotConfigured    = errors.New("fee is not configured for this class")
	ErrNoDues              = errors.New("no outstanding dues")
	ErrInvalidMethod       = errors.New("payment method must be UPI or NetBanking")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidStatus       = errors.New("invalid payment status")
	ErrDuesExceeded        = errors.New("payment exceeds outstanding dues")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrUPIUnavailable      = errors.New("UPI payments are not configured")
	ErrReceiptNotAvailable = errors.New("receipt is only available for paid payments")
	ErrPaymentChanged      = errors.New("payment was modified concurrently, please retry")
)

const feeNotConfiguredMessage = "Fee has not been configured for your class yet"

// FeeService fee configuration, payments and receipts
type FeeService interface {
	SaveConfig(ctx context.Context, actor Actor, req *dto.SaveFeeConfigRequest) (*dto.FeeConfigResponse, error)
	ListConfigs(ctx context.Context, actor Actor) ([]dto.FeeConfigResponse, error)
	MyFees(ctx context.Context, actor Actor) (*dto.MyFeesResponse, error)
	CreatePayment(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	ConfirmNetBanking(ctx context.Context, actor Actor, paymentID string) (*dto.PaymentResponse, error)
	UpdatePaymentStatus(ctx context.Context, actor Actor, paymentID string, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, actor Actor) ([]dto.PaymentResponse, error)
	StudentFeeOverview(ctx context.Context, actor Actor, req *dto.FeeOverviewRequest) ([]dto.StudentFeeRow, error)
	PaymentReceipt(ctx context.Context, actor Actor, paymentID string) (*dto.FileResponse, error)
	StudentReceipt(ctx context.Context, actor Actor, studentID string) (*dto.FileResponse, error)
}

type feeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	events events.Publisher
	logger *zap.Logger
}

// NewFeeService creates a FeeService.
func NewFeeService(cfg *config.Config, repo *repository.Repository, pub events.Publisher, logger *zap.Logger) FeeService {
	return &feeService{cfg: cfg, repo: repo, events: pub, logger: logger}
}

// classKey normalizes the lookup key of a fee config.
func classKey(program, branch, year string) (string, string, string) {
	return strings.ToUpper(strings.TrimSpace(program)),
		strings.ToUpper(strings.TrimSpace(branch)),
		strings.TrimSpace(year)
}

// ────── Configuration ──────

func (s *feeService) SaveConfig(ctx context.Context, actor Actor, req *dto.SaveFeeConfigRequest) (*dto.FeeConfigResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.Valid || !amount.Decimal.IsPositive() {
		return nil, ErrInvalidAmount
	}

	program, branch, year := classKey(req.Program, req.Branch, req.Year)
	feeCfg := &model.FeeConfig{
		CollegeID: actor.CollegeID,
		Program:   program,
		Branch:    branch,
		Year:      year,
		Section:   strings.TrimSpace(req.Section),
		Amount:    amount.Decimal,
	}
	if strings.TrimSpace(req.LastDate) != "" {
		d, err := ParseDate(req.LastDate)
		if err != nil {
			return nil, err
		}
		feeCfg.LastDate = &d
	}

	if err := s.repo.FeeConfig.Create(ctx, feeCfg); err != nil {
		s.logger.Error("save fee config failed",
			zap.String("college_id", actor.CollegeID),
			zap.String("program", program), zap.String("branch", branch), zap.String("year", year),
			zap.Error(err))
		return nil, err
	}
	resp := toFeeConfigResponse(feeCfg)
	return &resp, nil
}

func (s *feeService) ListConfigs(ctx context.Context, actor Actor) ([]dto.FeeConfigResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	configs, err := s.repo.FeeConfig.ListByCollege(ctx, actor.CollegeID)
	if err != nil {
		s.logger.Error("list fee configs failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.FeeConfigResponse, 0, len(configs))
	for i := range configs {
		list = append(list, toFeeConfigResponse(&configs[i]))
	}
	return list, nil
}

// configFor returns the newest config for the student's class, or nil.
func (s *feeService) configFor(ctx context.Context, student *model.User) (*model.FeeConfig, error) {
	program, branch, year := classKey(student.Program, student.Branch, student.Year)
	feeCfg, err := s.repo.FeeConfig.Latest(ctx, student.CollegeIDValue(), program, branch, year)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		s.logger.Error("load fee config failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	return feeCfg, nil
}

// ────── Student view ──────

func (s *feeService) MyFees(ctx context.Context, actor Actor) (*dto.MyFeesResponse, error) {
	student, err := s.loadStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.FeePayment.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list payments failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	paid, err := s.repo.FeePayment.SumPaid(ctx, student.ID)
	if err != nil {
		s.logger.Error("sum paid failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	feeCfg, err := s.configFor(ctx, student)
	if err != nil {
		return nil, err
	}

	resp := &dto.MyFeesResponse{
		Payments:  make([]dto.PaymentResponse, 0, len(payments)),
		TotalPaid: paid,
		Dues:      decimal.Zero,
		Status:    FeeStatus(feeCfg, paid),
	}
	for i := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(&payments[i]))
	}
	if feeCfg == nil {
		resp.Message = feeNotConfiguredMessage
		return resp, nil
	}
	c := toFeeConfigResponse(feeCfg)
	resp.Config = &c
	resp.Dues = Dues(feeCfg.Amount, paid)
	return resp, nil
}

// ────── Payments ──────

func (s *feeService) CreatePayment(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, ErrForbidden
	}
	method := strings.TrimSpace(req.Method)
	if method != model.MethodUPI && method != model.MethodNetBanking {
		return nil, ErrInvalidMethod
	}
	if method == model.MethodUPI && s.cfg.Payment.UPIID == "" {
		return nil, ErrUPIUnavailable
	}

	student, err := s.loadStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	feeCfg, err := s.configFor(ctx, student)
	if err != nil {
		return nil, err
	}
	if feeCfg == nil {
		return nil, ErrFeeNotConfigured
	}
	paid, err := s.repo.FeePayment.SumPaid(ctx, student.ID)
	if err != nil {
		s.logger.Error("sum paid failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	dues := Dues(feeCfg.Amount, paid)
	if !dues.IsPositive() {
		return nil, ErrNoDues
	}

	amount := dues
	if strings.TrimSpace(req.Amount) != "" {
		parsed, err := ParseAmount(req.Amount)
		if err != nil {
			return nil, err
		}
		if !parsed.Decimal.IsPositive() {
			return nil, ErrInvalidAmount
		}
		amount = decimal.Min(parsed.Decimal, dues)
	}

	payment := &model.FeePayment{
		StudentID:      student.ID,
		CollegeID:      student.CollegeIDValue(),
		Amount:         amount.Round(2),
		Status:         model.PaymentPending,
		PaymentMethod:  method,
		GatewayOrderID: "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]),
	}
	if err := s.repo.FeePayment.Create(ctx, payment); err != nil {
		s.logger.Error("create payment failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	payment.Student = student

	resp := &dto.CreatePaymentResponse{Payment: toPaymentResponse(payment)}
	switch method {
	case model.MethodUPI:
		resp.UPIURL = s.upiURL(payment, student)
		png, err := qrcode.Encode(resp.UPIURL, qrcode.Medium, 256)
		if err != nil {
			s.logger.Error("encode upi qr failed", zap.String("payment_id", payment.ID), zap.Error(err))
			return nil, err
		}
		resp.QRCode = base64.StdEncoding.EncodeToString(png)
	case model.MethodNetBanking:
		resp.GatewayURL = strings.TrimRight(s.cfg.Server.BaseURL, "/") + "/api/v1/fees/payments/" + payment.ID + "/netbanking"
	}

	s.logger.Info("payment created",
		zap.String("payment_id", payment.ID),
		zap.String("student_id", student.ID),
		zap.String("method", method),
		zap.String("amount", payment.Amount.StringFixed(2)))
	return resp, nil
}

func (s *feeService) upiURL(p *model.FeePayment, student *model.User) string {
	currency := s.cfg.Payment.Currency
	if currency == "" {
		currency = "INR"
	}
	note := "Fee " + p.GatewayOrderID
	if r := student.RollNoValue(); r != "" {
		note += " " + r
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		url.QueryEscape(s.cfg.Payment.UPIID),
		url.QueryEscape(s.cfg.Payment.PayeeName),
		p.Amount.StringFixed(2),
		url.QueryEscape(currency),
		url.QueryEscape(note),
	)
}

func (s *feeService) ConfirmNetBanking(ctx context.Context, actor Actor, paymentID string) (*dto.PaymentResponse, error) {
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.StudentID != actor.UserID {
		return nil, ErrPaymentNotFound
	}
	if payment.PaymentMethod != model.MethodNetBanking {
		return nil, ErrInvalidMethod
	}
	switch payment.Status {
	case model.PaymentPaid:
		resp := toPaymentResponse(payment)
		return &resp, nil
	case model.PaymentPending:
	default:
		return nil, ErrPaymentNotPending
	}
	return s.confirmPaid(ctx, payment, "NB-"+payment.GatewayOrderID)
}

func (s *feeService) UpdatePaymentStatus(ctx context.Context, actor Actor, paymentID string, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	status := strings.TrimSpace(req.Status)
	if !model.IsPaymentStatus(status) {
		return nil, ErrInvalidStatus
	}
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CollegeID != actor.CollegeID {
		return nil, ErrPaymentNotFound
	}
	if status == model.PaymentPaid {
		return s.confirmPaid(ctx, payment, "")
	}
	if err := s.repo.FeePayment.UpdateStatus(ctx, payment.ID, status); err != nil {
		s.logger.Error("update payment status failed", zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, err
	}
	payment.Status = status
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// confirmPaid marks the payment Paid; the repository re-checks the paid
// total against the student's fee under row locks.
func (s *feeService) confirmPaid(ctx context.Context, payment *model.FeePayment, reference string) (*dto.PaymentResponse, error) {
	student := payment.Student
	if student == nil {
		var err error
		if student, err = s.loadStudent(ctx, payment.StudentID); err != nil {
			return nil, err
		}
	}
	feeCfg, err := s.configFor(ctx, student)
	if err != nil {
		return nil, err
	}
	if feeCfg == nil {
		return nil, ErrFeeNotConfigured
	}

	confirmed, err := s.repo.FeePayment.ConfirmPaid(ctx, payment.ID, feeCfg.Amount, reference)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuesExceeded) {
			return nil, ErrDuesExceeded
		}
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrPaymentChanged
		}
		if isNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("confirm payment failed", zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, err
	}
	confirmed.Student = student

	if err := s.events.Publish(ctx, events.FeePaymentPaid, confirmed.CollegeID, map[string]string{
		"payment_id": confirmed.ID,
		"student_id": confirmed.StudentID,
		"amount":     confirmed.Amount.StringFixed(2),
		"method":     confirmed.PaymentMethod,
	}); err != nil {
		s.logger.Warn("publish event failed", zap.String("type", events.FeePaymentPaid), zap.Error(err))
	}

	resp := toPaymentResponse(confirmed)
	return &resp, nil
}

func (s *feeService) ListPayments(ctx context.Context, actor Actor) ([]dto.PaymentResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	payments, err := s.repo.FeePayment.ListByCollege(ctx, actor.CollegeID)
	if err != nil {
		s.logger.Error("list payments failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		list = append(list, toPaymentResponse(&payments[i]))
	}
	return list, nil
}

// ────── Overview ──────

func (s *feeService) StudentFeeOverview(ctx context.Context, actor Actor, req *dto.FeeOverviewRequest) ([]dto.StudentFeeRow, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	students, err := s.repo.User.ListAllStudents(ctx, actor.CollegeID, repository.StudentFilter{
		Program: strings.TrimSpace(req.Program),
		Branch:  strings.TrimSpace(req.Branch),
		Year:    strings.TrimSpace(req.Year),
	})
	if err != nil {
		s.logger.Error("list students failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	return buildFeeRows(ctx, s.repo, s.logger, students)
}

// buildFeeRows derives config amount, paid total, dues and status per student.
// Configs are looked up once per class.
func buildFeeRows(ctx context.Context, repo *repository.Repository, logger *zap.Logger, students []model.User) ([]dto.StudentFeeRow, error) {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	paid, err := repo.FeePayment.SumPaidByStudents(ctx, ids)
	if err != nil {
		logger.Error("sum paid by students failed", zap.Error(err))
		return nil, err
	}

	configs := make(map[string]*model.FeeConfig)
	rows := make([]dto.StudentFeeRow, 0, len(students))
	for i := range students {
		st := &students[i]
		program, branch, year := classKey(st.Program, st.Branch, st.Year)
		key := program + "|" + branch + "|" + year
		feeCfg, seen := configs[key]
		if !seen {
			feeCfg, err = repo.FeeConfig.Latest(ctx, st.CollegeIDValue(), program, branch, year)
			if err != nil {
				if !isNotFound(err) {
					logger.Error("load fee config failed", zap.String("class", key), zap.Error(err))
					return nil, err
				}
				feeCfg = nil
			}
			configs[key] = feeCfg
		}

		row := dto.StudentFeeRow{
			StudentID:    st.ID,
			Name:         st.Name,
			Email:        st.Email,
			RollNo:       st.RollNoValue(),
			Program:      st.Program,
			Branch:       st.Branch,
			Year:         st.Year,
			ConfigAmount: decimal.Zero,
			PaidAmount:   paid[st.ID],
			Dues:         decimal.Zero,
			Status:       FeeStatus(feeCfg, paid[st.ID]),
		}
		if feeCfg != nil {
			row.ConfigAmount = feeCfg.Amount
			row.Dues = Dues(feeCfg.Amount, row.PaidAmount)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ────── Receipts ──────

func (s *feeService) PaymentReceipt(ctx context.Context, actor Actor, paymentID string) (*dto.FileResponse, error) {
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	owner := payment.StudentID == actor.UserID
	admin := actor.IsAdmin() && payment.CollegeID == actor.CollegeID
	if !owner && !admin {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != model.PaymentPaid {
		return nil, ErrReceiptNotAvailable
	}

	student := payment.Student
	if student == nil {
		if student, err = s.loadStudent(ctx, payment.StudentID); err != nil {
			return nil, err
		}
	}

	data, err := pdf.RenderReceipt(pdf.Receipt{
		College: s.collegeName(ctx, payment.CollegeID),
		Title:   "Fee Payment Receipt",
		Student: receiptStudent(student),
		Fields: []pdf.Field{
			{Label: "Receipt No", Value: payment.ID},
			{Label: "Order ID", Value: payment.GatewayOrderID},
			{Label: "Reference", Value: payment.PaymentReference},
			{Label: "Method", Value: payment.PaymentMethod},
			{Label: "Status", Value: payment.Status},
			{Label: "Date", Value: payment.UpdatedAt.Format("2006-01-02 15:04")},
		},
		Total: "Rs. " + payment.Amount.StringFixed(2),
	})
	if err != nil {
		s.logger.Error("render receipt failed", zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, err
	}
	return &dto.FileResponse{
		Filename:    "receipt_" + payment.ID + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *feeService) StudentReceipt(ctx context.Context, actor Actor, studentID string) (*dto.FileResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.CollegeIDValue() != actor.CollegeID {
		return nil, ErrUserNotFound
	}
	payments, err := s.repo.FeePayment.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list payments failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	total := decimal.Zero
	fields := make([]pdf.Field, 0, len(payments))
	for _, p := range payments {
		if p.Status != model.PaymentPaid {
			continue
		}
		total = total.Add(p.Amount)
		fields = append(fields, pdf.Field{
			Label: p.UpdatedAt.Format("2006-01-02") + " " + p.PaymentMethod,
			Value: "Rs. " + p.Amount.StringFixed(2) + "  " + p.GatewayOrderID,
		})
	}
	if len(fields) == 0 {
		return nil, ErrReceiptNotAvailable
	}

	data, err := pdf.RenderReceipt(pdf.Receipt{
		College: s.collegeName(ctx, actor.CollegeID),
		Title:   "Fee Payment Summary",
		Student: receiptStudent(student),
		Fields:  fields,
		Total:   "Rs. " + total.StringFixed(2),
	})
	if err != nil {
		s.logger.Error("render student receipt failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	name := student.RollNoValue()
	if name == "" {
		name = student.ID
	}
	return &dto.FileResponse{
		Filename:    "fee_summary_" + name + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// ── helpers ──

func (s *feeService) loadStudent(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load student failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *feeService) loadPayment(ctx context.Context, id string) (*model.FeePayment, error) {
	payment, err := s.repo.FeePayment.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("load payment failed", zap.String("payment_id", id), zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (s *feeService) collegeName(ctx context.Context, id string) string {
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		return defaultBrandName
	}
	return college.Name
}

func receiptStudent(u *model.User) pdf.Student {
	return pdf.Student{
		Name:    u.Name,
		RollNo:  u.RollNoValue(),
		Program: u.Program,
		Branch:  u.Branch,
		Year:    u.Year,
		Email:   u.Email,
	}
}

func toFeeConfigResponse(c *model.FeeConfig) dto.FeeConfigResponse {
	return dto.FeeConfigResponse{
		ID:        c.ID,
		Program:   c.Program,
		Branch:    c.Branch,
		Year:      c.Year,
		Section:   c.Section,
		Amount:    c.Amount,
		LastDate:  formatDate(c.LastDate),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func toPaymentResponse(p *model.FeePayment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:               p.ID,
		StudentID:        p.StudentID,
		Amount:           p.Amount,
		Status:           p.Status,
		PaymentMethod:    p.PaymentMethod,
		GatewayOrderID:   p.GatewayOrderID,
		PaymentReference: p.PaymentReference,
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
	}
	if p.Student != nil {
		resp.StudentName = p.Student.Name
		resp.StudentEmail = p.Student.Email
	}
	return resp
}
