package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"college-erp/internal/dto"
	"college-erp/internal/model"
)

// ── shared errors ──

var (
	ErrForbidden     = errors.New("permission denied")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Actor is the authenticated caller as read from the access token.
type Actor struct {
	UserID    string
	Role      string
	CollegeID string
}

// IsAdmin reports whether the actor is a college Admin.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// ── parsing ──

const dateLayout = "2006-01-02"

var profileDateLayouts = []string{dateLayout, "02-Jan-2006", "02-01-2006", "02/01/2006"}

// ParseDate accepts ISO dates only.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseFlexibleDate accepts the formats used on profile forms.
// Blank input yields nil.
func ParseFlexibleDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range profileDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseAmount parses money rounded to paise, ignoring thousands separators.
// Blank input yields an invalid NullDecimal.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return decimal.NewNullDecimal(d.Round(2)), nil
}

// ── formatting ──

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeDomain lower-cases and drops a leading "@".
func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
}

// emailMatchesDomain enforces that a member's email belongs to the college domain.
func emailMatchesDomain(email, domain string) bool {
	return domain != "" && strings.HasSuffix(normalizeEmail(email), "@"+normalizeDomain(domain))
}

// ── derived values ──

// Summarize computes attendance totals; percentage is rounded to two places.
func Summarize(rows []model.Attendance) dto.AttendanceSummary {
	s := dto.AttendanceSummary{Total: len(rows)}
	for _, r := range rows {
		if strings.EqualFold(r.Status, model.AttendancePresent) {
			s.Present++
		}
	}
	s.Absent = s.Total - s.Present
	if s.Total > 0 {
		s.Percentage = math.Round(float64(s.Present)/float64(s.Total)*10000) / 100
	}
	return s
}

// Dues is fee minus paid, floored at zero.
func Dues(fee, paid decimal.Decimal) decimal.Decimal {
	d := fee.Sub(paid)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FeeStatus derives a student's overall status from the config and paid total.
func FeeStatus(cfg *model.FeeConfig, paid decimal.Decimal) string {
	if cfg == nil || !paid.IsPositive() {
		return model.PaymentUnpaid
	}
	if paid.GreaterThanOrEqual(cfg.Amount) {
		return model.PaymentPaid
	}
	return model.PaymentPending
}

// ── one-time codes ──

// OTP purposes
const (
	OTPVerify = "verify"
	OTPReset  = "reset"
)

// MaxOTPAttempts wrong guesses burn the pending code.
const MaxOTPAttempts = 5

// OTPStore keeps one pending code per purpose and email.
// GetOTP returns "" with a nil error when nothing is stored. SaveOTP and
// DeleteOTP reset the failure count.
type OTPStore interface {
	SaveOTP(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	GetOTP(ctx context.Context, purpose, email string) (string, error)
	DeleteOTP(ctx context.Context, purpose, email string) error
	// RecordOTPFailure counts a wrong guess and returns the running total.
	RecordOTPFailure(ctx context.Context, purpose, email string, ttl time.Duration) (int, error)
}

// NewOTP returns a random 4-digit code.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

type memoryOTP struct {
	code     string
	failures int
	expires  time.Time
}

// MemoryOTPStore is the in-process fallback used when Redis is unavailable.
type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]memoryOTP
	now   func() time.Time
}

// NewMemoryOTPStore creates an empty store.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]memoryOTP), now: time.Now}
}

func (m *MemoryOTPStore) SaveOTP(_ context.Context, purpose, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[purpose+":"+email] = memoryOTP{code: code, expires: m.now().Add(ttl)}
	return nil
}

// live returns the unexpired entry for key; the caller holds mu.
func (m *MemoryOTPStore) live(key string) (memoryOTP, bool) {
	entry, ok := m.codes[key]
	if ok && m.now().After(entry.expires) {
		delete(m.codes, key)
		return memoryOTP{}, false
	}
	return entry, ok
}

func (m *MemoryOTPStore) GetOTP(_ context.Context, purpose, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, _ := m.live(purpose + ":" + email)
	return entry.code, nil
}

func (m *MemoryOTPStore) RecordOTPFailure(_ context.Context, purpose, email string, _ time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := purpose + ":" + email
	entry, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	entry.failures++
	m.codes[key] = entry
	return entry.failures, nil
}

func (m *MemoryOTPStore) DeleteOTP(_ context.Context, purpose, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, purpose+":"+email)
	return nil
}
