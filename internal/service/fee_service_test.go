package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/dto"
	"college-erp/internal/model"
	pkgerrors "college-erp/pkg/errors"
)

type feeSetup struct {
	svc     FeeService
	f       *fixture
	college *model.College
	admin   *model.User
	student *model.User
}

func setupTestFeeService() *feeSetup {
	cfg := &config.Config{
		Server:  config.ServerConfig{BaseURL: "http://erp.test/"},
		Payment: config.PaymentConfig{UPIID: "alpha@upi", PayeeName: "Alpha Fees", Currency: "INR"},
	}
	f := newFixture()
	c := f.addCollege("Alpha", "alpha.edu")
	stu := f.addStudent(c.ID, "s@alpha.edu", "btech", "cse", "2")
	roll := "21CS007"
	stu.RollNo = &roll
	return &feeSetup{
		svc:     NewFeeService(cfg, f.repo, f.events, zap.NewNop()),
		f:       f,
		college: c,
		admin:   f.addUser(c.ID, model.RoleAdmin, "admin@alpha.edu"),
		student: stu,
	}
}

func (s *feeSetup) configure(t *testing.T, amount string) {
	t.Helper()
	_, err := s.svc.SaveConfig(context.Background(), actorOf(s.admin), &dto.SaveFeeConfigRequest{
		Program: " Btech ", Branch: "cse", Year: " 2 ", Amount: amount, LastDate: "2026-09-30",
	})
	if err != nil {
		t.Fatalf("save config failed: %v", err)
	}
}

func (s *feeSetup) pay(t *testing.T, amount, method string) *dto.CreatePaymentResponse {
	t.Helper()
	resp, err := s.svc.CreatePayment(context.Background(), actorOf(s.student), &dto.CreatePaymentRequest{Amount: amount, Method: method})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return resp
}

func TestSaveConfig_NormalizesAndValidates(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "50,000")

	list, err := s.svc.ListConfigs(context.Background(), actorOf(s.admin))
	if err != nil || len(list) != 1 {
		t.Fatalf("list configs = %v, %v", list, err)
	}
	c := list[0]
	if c.Program != "BTECH" || c.Branch != "CSE" || c.Year != "2" || c.LastDate != "2026-09-30" {
		t.Errorf("config not normalized: %+v", c)
	}
	if !c.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("amount = %v", c.Amount)
	}

	for _, bad := range []string{"0", "-5", "abc"} {
		_, err := s.svc.SaveConfig(context.Background(), actorOf(s.admin), &dto.SaveFeeConfigRequest{
			Program: "BTECH", Branch: "CSE", Year: "2", Amount: bad,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %q: expected ErrInvalidAmount, got %v", bad, err)
		}
	}
}

func TestMyFees_NotConfigured(t *testing.T) {
	s := setupTestFeeService()
	resp, err := s.svc.MyFees(context.Background(), actorOf(s.student))
	if err != nil {
		t.Fatalf("my fees failed: %v", err)
	}
	if resp.Config != nil || resp.Message == "" || resp.Status != model.PaymentUnpaid {
		t.Errorf("unexpected response %+v", resp)
	}
	if _, err := s.svc.CreatePayment(context.Background(), actorOf(s.student), &dto.CreatePaymentRequest{Method: model.MethodUPI}); !errors.Is(err, ErrFeeNotConfigured) {
		t.Errorf("expected ErrFeeNotConfigured, got %v", err)
	}
}

func TestMyFees_NewestConfigWins(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "40000")
	s.configure(t, "45000")

	resp, err := s.svc.MyFees(context.Background(), actorOf(s.student))
	if err != nil {
		t.Fatalf("my fees failed: %v", err)
	}
	if resp.Config == nil || !resp.Config.Amount.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("expected newest config, got %+v", resp.Config)
	}
	if !resp.Dues.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("dues = %v", resp.Dues)
	}
}

func TestCreatePayment_UPIClampsToDues(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "10000")

	resp := s.pay(t, "25000", model.MethodUPI)
	if !resp.Payment.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("amount should be clamped to dues, got %v", resp.Payment.Amount)
	}
	if resp.Payment.Status != model.PaymentPending {
		t.Errorf("status = %s", resp.Payment.Status)
	}
	if !strings.HasPrefix(resp.UPIURL, "upi://pay?pa=alpha%40upi&pn=Alpha+Fees&am=10000.00&cu=INR&tn=") {
		t.Errorf("upi url = %s", resp.UPIURL)
	}
	png, err := base64.StdEncoding.DecodeString(resp.QRCode)
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("qr code should be a base64 png, err=%v", err)
	}
}

func TestCreatePayment_DefaultsAndMethods(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "8000")

	resp := s.pay(t, "", model.MethodNetBanking)
	if !resp.Payment.Amount.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("amount should default to dues, got %v", resp.Payment.Amount)
	}
	want := "http://erp.test/api/v1/fees/payments/" + resp.Payment.ID + "/netbanking"
	if resp.GatewayURL != want {
		t.Errorf("gateway url = %s, want %s", resp.GatewayURL, want)
	}

	if _, err := s.svc.CreatePayment(context.Background(), actorOf(s.student), &dto.CreatePaymentRequest{Method: "Cash"}); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
	if _, err := s.svc.CreatePayment(context.Background(), actorOf(s.student), &dto.CreatePaymentRequest{Amount: "-1", Method: model.MethodUPI}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreatePayment_SubPaiseAmountRejected(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "8000")

	for _, amt := range []string{"0.001", "0.004"} {
		if _, err := s.svc.CreatePayment(context.Background(), actorOf(s.student), &dto.CreatePaymentRequest{Amount: amt, Method: model.MethodUPI}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s: expected ErrInvalidAmount, got %v", amt, err)
		}
	}
	if len(s.f.payments.payments) != 0 {
		t.Errorf("no payment should be stored, got %d", len(s.f.payments.payments))
	}

	resp := s.pay(t, "100.005", model.MethodUPI)
	if !resp.Payment.Amount.Equal(decimal.RequireFromString("100.01")) {
		t.Errorf("amount should round to paise, got %v", resp.Payment.Amount)
	}
}

func TestConfirmPaid_ConcurrentChangeIsConflict(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "8000")
	created := s.pay(t, "3000", model.MethodNetBanking)

	s.f.payments.confirmErr = pkgerrors.ErrOptimisticLock
	if _, err := s.svc.ConfirmNetBanking(context.Background(), actorOf(s.student), created.Payment.ID); !errors.Is(err, ErrPaymentChanged) {
		t.Errorf("expected ErrPaymentChanged, got %v", err)
	}
}

func TestConfirmNetBanking_OwnerOnlyAndEvent(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "8000")
	created := s.pay(t, "3000", model.MethodNetBanking)
	ctx := context.Background()

	intruder := s.f.addStudent(s.college.ID, "x@alpha.edu", "BTECH", "CSE", "2")
	if _, err := s.svc.ConfirmNetBanking(ctx, actorOf(intruder), created.Payment.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound for non-owner, got %v", err)
	}

	paid, err := s.svc.ConfirmNetBanking(ctx, actorOf(s.student), created.Payment.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if paid.Status != model.PaymentPaid || paid.PaymentReference == "" {
		t.Errorf("unexpected payment %+v", paid)
	}
	if len(s.f.events.events) != 1 || s.f.events.events[0].Type != "fee.payment_paid" {
		t.Errorf("expected fee.payment_paid event, got %+v", s.f.events.events)
	}

	fees, _ := s.svc.MyFees(ctx, actorOf(s.student))
	if !fees.Dues.Equal(decimal.NewFromInt(5000)) || fees.Status != model.PaymentPending {
		t.Errorf("dues=%v status=%s", fees.Dues, fees.Status)
	}
}

func TestUpdatePaymentStatus_DuesCheck(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "5000")
	first := s.pay(t, "5000", model.MethodUPI)
	second := s.pay(t, "5000", model.MethodUPI)
	ctx := context.Background()
	admin := actorOf(s.admin)

	if _, err := s.svc.UpdatePaymentStatus(ctx, admin, first.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: "Done"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := s.svc.UpdatePaymentStatus(ctx, admin, first.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := s.svc.UpdatePaymentStatus(ctx, admin, second.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentPaid}); !errors.Is(err, ErrDuesExceeded) {
		t.Errorf("expected ErrDuesExceeded, got %v", err)
	}
	if _, err := s.svc.UpdatePaymentStatus(ctx, admin, second.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentFailed}); err != nil {
		t.Errorf("mark failed: %v", err)
	}

	if _, err := s.svc.CreatePayment(ctx, actorOf(s.student), &dto.CreatePaymentRequest{Method: model.MethodUPI}); !errors.Is(err, ErrNoDues) {
		t.Errorf("expected ErrNoDues after full payment, got %v", err)
	}

	other := s.f.addCollege("Beta", "beta.edu")
	foreignAdmin := s.f.addUser(other.ID, model.RoleAdmin, "admin@beta.edu")
	if _, err := s.svc.UpdatePaymentStatus(ctx, actorOf(foreignAdmin), first.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentFailed}); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("foreign admin: expected ErrPaymentNotFound, got %v", err)
	}
}

func TestStudentFeeOverview(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "6000")
	created := s.pay(t, "2000", model.MethodUPI)
	ctx := context.Background()
	if _, err := s.svc.UpdatePaymentStatus(ctx, actorOf(s.admin), created.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	s.f.addStudent(s.college.ID, "mech@alpha.edu", "BTECH", "MECH", "1")

	rows, err := s.svc.StudentFeeOverview(ctx, actorOf(s.admin), &dto.FeeOverviewRequest{})
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	byEmail := map[string]dto.StudentFeeRow{}
	for _, r := range rows {
		byEmail[r.Email] = r
	}
	cse := byEmail["s@alpha.edu"]
	if !cse.PaidAmount.Equal(decimal.NewFromInt(2000)) || !cse.Dues.Equal(decimal.NewFromInt(4000)) || cse.Status != model.PaymentPending {
		t.Errorf("cse row = %+v", cse)
	}
	if mech := byEmail["mech@alpha.edu"]; mech.Status != model.PaymentUnpaid || !mech.ConfigAmount.IsZero() {
		t.Errorf("mech row = %+v", mech)
	}
}

func TestReceipts(t *testing.T) {
	s := setupTestFeeService()
	s.configure(t, "6000")
	created := s.pay(t, "2000", model.MethodUPI)
	ctx := context.Background()

	if _, err := s.svc.PaymentReceipt(ctx, actorOf(s.student), created.Payment.ID); !errors.Is(err, ErrReceiptNotAvailable) {
		t.Errorf("pending receipt: expected ErrReceiptNotAvailable, got %v", err)
	}
	if _, err := s.svc.UpdatePaymentStatus(ctx, actorOf(s.admin), created.Payment.ID, &dto.UpdatePaymentStatusRequest{Status: model.PaymentPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	file, err := s.svc.PaymentReceipt(ctx, actorOf(s.student), created.Payment.ID)
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if file.ContentType != "application/pdf" || !bytes.HasPrefix(file.Data, []byte("%PDF")) {
		t.Errorf("receipt is not a pdf: %s", file.ContentType)
	}

	summary, err := s.svc.StudentReceipt(ctx, actorOf(s.admin), s.student.ID)
	if err != nil {
		t.Fatalf("student receipt failed: %v", err)
	}
	if summary.Filename != "fee_summary_21CS007.pdf" {
		t.Errorf("filename = %s", summary.Filename)
	}
	if _, err := s.svc.StudentReceipt(ctx, actorOf(s.student), s.student.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("student access: expected ErrForbidden, got %v", err)
	}
}
