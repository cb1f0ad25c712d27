package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"college-erp/internal/model"
	pkgerrors "college-erp/pkg/errors"
)

// ── fee configs ──

// FeeConfigRepository fee configuration data access
type FeeConfigRepository interface {
	Create(ctx context.Context, cfg *model.FeeConfig) error
	ListByCollege(ctx context.Context, collegeID string) ([]model.FeeConfig, error)
	// Latest returns the most recently updated config for the class.
	Latest(ctx context.Context, collegeID, program, branch, year string) (*model.FeeConfig, error)
}

type feeConfigRepo struct {
	db *gorm.DB
}

// NewFeeConfigRepo creates a FeeConfigRepository.
func NewFeeConfigRepo(db *gorm.DB) FeeConfigRepository {
	return &feeConfigRepo{db: db}
}

func (r *feeConfigRepo) Create(ctx context.Context, cfg *model.FeeConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *feeConfigRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.FeeConfig, error) {
	var list []model.FeeConfig
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}

func (r *feeConfigRepo) Latest(ctx context.Context, collegeID, program, branch, year string) (*model.FeeConfig, error) {
	var cfg model.FeeConfig
	err := r.db.WithContext(ctx).
		Where("college_id = ? AND program = ? AND branch = ? AND year = ?", collegeID, program, branch, year).
		Order("updated_at DESC, created_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ── fee payments ──

// FeePaymentRepository fee payment data access
type FeePaymentRepository interface {
	Create(ctx context.Context, p *model.FeePayment) error
	GetByID(ctx context.Context, id string) (*model.FeePayment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.FeePayment, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.FeePayment, error)
	SumPaid(ctx context.Context, studentID string) (decimal.Decimal, error)
	SumPaidByStudents(ctx context.Context, studentIDs []string) (map[string]decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ConfirmPaid marks the payment Paid while holding row locks on the
	// student's payments; it fails with ErrDuesExceeded when the paid total
	// would exceed feeAmount.
	ConfirmPaid(ctx context.Context, id string, feeAmount decimal.Decimal, reference string) (*model.FeePayment, error)
}

type feePaymentRepo struct {
	db *gorm.DB
}

// NewFeePaymentRepo creates a FeePaymentRepository.
func NewFeePaymentRepo(db *gorm.DB) FeePaymentRepository {
	return &feePaymentRepo{db: db}
}

func (r *feePaymentRepo) Create(ctx context.Context, p *model.FeePayment) error {
	return r.db.WithContext(ctx).Omit("Student").Create(p).Error
}

func (r *feePaymentRepo) GetByID(ctx context.Context, id string) (*model.FeePayment, error) {
	var p model.FeePayment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *feePaymentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.FeePayment, error) {
	var list []model.FeePayment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *feePaymentRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.FeePayment, error) {
	var list []model.FeePayment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("college_id = ?", collegeID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *feePaymentRepo) SumPaid(ctx context.Context, studentID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("student_id = ? AND status = ?", studentID, model.PaymentPaid).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *feePaymentRepo) SumPaidByStudents(ctx context.Context, studentIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		StudentID string
		Total     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Select("student_id, SUM(amount) AS total").
		Where("student_id IN ? AND status = ?", studentIDs, model.PaymentPaid).
		Group("student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StudentID] = row.Total
	}
	return out, nil
}

func (r *feePaymentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *feePaymentRepo) ConfirmPaid(ctx context.Context, id string, feeAmount decimal.Decimal, reference string) (*model.FeePayment, error) {
	var confirmed model.FeePayment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target model.FeePayment
		if err := tx.Where("id = ?", id).First(&target).Error; err != nil {
			return err
		}

		// lock every payment of the student so concurrent confirmations serialize
		var rows []model.FeePayment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", target.StudentID).
			Find(&rows).Error; err != nil {
			return err
		}

		paid := decimal.Zero
		for _, p := range rows {
			if p.ID == id {
				target = p
				continue
			}
			if p.Status == model.PaymentPaid {
				paid = paid.Add(p.Amount)
			}
		}
		if target.Status == model.PaymentPaid {
			confirmed = target
			return nil
		}
		if paid.Add(target.Amount).GreaterThan(feeAmount) {
			return pkgerrors.ErrDuesExceeded
		}

		updates := map[string]interface{}{
			"status":     model.PaymentPaid,
			"updated_at": gorm.Expr("NOW()"),
		}
		if reference != "" {
			updates["payment_reference"] = reference
		}
		res := tx.Model(&model.FeePayment{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		target.Status = model.PaymentPaid
		if reference != "" {
			target.PaymentReference = reference
		}
		confirmed = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &confirmed, nil
}
