package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"college-erp/internal/model"
)

func TestParseFlexibleDate(t *testing.T) {
	want := time.Date(2004, time.March, 9, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2004-03-09", "09-Mar-2004", "09-03-2004", "09/03/2004", " 2004-03-09 "} {
		got, err := ParseFlexibleDate(in)
		if err != nil {
			t.Errorf("ParseFlexibleDate(%q) error: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", in, got, want)
		}
	}

	if got, err := ParseFlexibleDate("  "); err != nil || got != nil {
		t.Errorf("blank date should be nil, got %v %v", got, err)
	}
	if _, err := ParseFlexibleDate("March 9"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseDate_ISOOnly(t *testing.T) {
	if _, err := ParseDate("2024-07-01"); err != nil {
		t.Errorf("iso date rejected: %v", err)
	}
	if _, err := ParseDate("01/07/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1,25,000.50")
	if err != nil {
		t.Fatalf("ParseAmount error: %v", err)
	}
	if !got.Valid || !got.Decimal.Equal(decimal.RequireFromString("125000.50")) {
		t.Errorf("ParseAmount = %v", got)
	}
	if blank, err := ParseAmount(""); err != nil || blank.Valid {
		t.Errorf("blank amount should be null, got %v %v", blank, err)
	}
	if _, err := ParseAmount("12abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEmailMatchesDomain(t *testing.T) {
	cases := []struct {
		email, domain string
		want          bool
	}{
		{"a@alpha.edu", "alpha.edu", true},
		{"A@Alpha.EDU", "@alpha.edu", true},
		{"a@mail.alpha.edu", "alpha.edu", false},
		{"a@notalpha.edu", "alpha.edu", false},
		{"a@alpha.edu", "", false},
	}
	for _, c := range cases {
		if got := emailMatchesDomain(c.email, c.domain); got != c.want {
			t.Errorf("emailMatchesDomain(%q, %q) = %v, want %v", c.email, c.domain, got, c.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.Attendance{
		{Status: model.AttendancePresent},
		{Status: model.AttendancePresent},
		{Status: model.AttendanceAbsent},
	}
	s := Summarize(rows)
	if s.Total != 3 || s.Present != 2 || s.Absent != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Percentage != 66.67 {
		t.Errorf("percentage = %v, want 66.67", s.Percentage)
	}
	if empty := Summarize(nil); empty.Percentage != 0 || empty.Total != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestDuesAndFeeStatus(t *testing.T) {
	fee := decimal.NewFromInt(50000)
	cfg := &model.FeeConfig{Amount: fee}

	if d := Dues(fee, decimal.NewFromInt(60000)); !d.IsZero() {
		t.Errorf("dues should floor at zero, got %v", d)
	}
	if d := Dues(fee, decimal.NewFromInt(20000)); !d.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("dues = %v", d)
	}

	if s := FeeStatus(nil, decimal.NewFromInt(100)); s != model.PaymentUnpaid {
		t.Errorf("no config status = %s", s)
	}
	if s := FeeStatus(cfg, decimal.Zero); s != model.PaymentUnpaid {
		t.Errorf("nothing paid status = %s", s)
	}
	if s := FeeStatus(cfg, decimal.NewFromInt(1)); s != model.PaymentPending {
		t.Errorf("partial status = %s", s)
	}
	if s := FeeStatus(cfg, fee); s != model.PaymentPaid {
		t.Errorf("full status = %s", s)
	}
}

func TestNewOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NewOTP()
		if err != nil {
			t.Fatalf("NewOTP error: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("otp %q is not 4 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("otp %q has non-digit", code)
			}
		}
	}
}

func TestMemoryOTPStore_Expiry(t *testing.T) {
	store := NewMemoryOTPStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.SaveOTP(ctx, OTPVerify, "a@x.edu", "1234", time.Minute)
	if code, _ := store.GetOTP(ctx, OTPVerify, "a@x.edu"); code != "1234" {
		t.Errorf("GetOTP = %q", code)
	}
	if code, _ := store.GetOTP(ctx, OTPReset, "a@x.edu"); code != "" {
		t.Errorf("purposes must be isolated, got %q", code)
	}

	now = now.Add(2 * time.Minute)
	if code, _ := store.GetOTP(ctx, OTPVerify, "a@x.edu"); code != "" {
		t.Errorf("expired code returned: %q", code)
	}
}

func TestMemoryOTPStore_FailureCount(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	if n, _ := store.RecordOTPFailure(ctx, OTPReset, "a@x.edu", time.Minute); n != 0 {
		t.Errorf("no pending code counts nothing, got %d", n)
	}
	_ = store.SaveOTP(ctx, OTPReset, "a@x.edu", "1234", time.Minute)
	for want := 1; want <= 3; want++ {
		if n, _ := store.RecordOTPFailure(ctx, OTPReset, "a@x.edu", time.Minute); n != want {
			t.Errorf("failure %d counted as %d", want, n)
		}
	}
	_ = store.SaveOTP(ctx, OTPReset, "a@x.edu", "5678", time.Minute)
	if n, _ := store.RecordOTPFailure(ctx, OTPReset, "a@x.edu", time.Minute); n != 1 {
		t.Errorf("new code should reset the count, got %d", n)
	}
}
