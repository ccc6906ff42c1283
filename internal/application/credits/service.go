package credits

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"origenmx-backend/internal/application/activities"
	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/contentaddr"
	"origenmx-backend/internal/pkg/latency"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCreditNotFound      = errors.New("Credit not found")
	ErrInstallmentNotFound = errors.New("Installment not found")
	ErrAlreadyPaid         = errors.New("Installment already paid")
	ErrLotNotFound         = errors.New("Lot not found")
	ErrLotHasCredit        = errors.New("Lot already has an outstanding credit")
	ErrInvalidAmount       = errors.New("Amount must be a positive number")
	ErrInvalidTerm         = errors.New("Term must be a positive number of months")
)

// AnnualRate is the flat APR applied to every credit.
const AnnualRate = 12.0

type Service struct {
	DB      *gorm.DB
	Latency *latency.Simulator
	Now     func() time.Time // injectable clock; nil uses time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListCredits returns all credits with their installment schedules.
func (s *Service) ListCredits(ctx context.Context) ([]domain.Credit, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}
	var credits []domain.Credit
	if err := s.DB.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Order("credit_id").
		Find(&credits).Error; err != nil {
		return nil, err
	}
	for i := range credits {
		finalize(&credits[i])
	}
	return credits, nil
}

// GetCredit returns one credit by id with its installment schedule.
func (s *Service) GetCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}
	var credit domain.Credit
	err := s.DB.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Where("credit_id = ?", creditID).
		First(&credit).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, err
	}
	finalize(&credit)
	return &credit, nil
}

// RequestCredit disburses a new credit against a lot: CR-NNN id from the row
// count, flat 12% APR, status Active, full Pending schedule due every 30 days.
// A lot can hold one outstanding credit at a time; a repaid one may be
// replaced.
func (s *Service) RequestCredit(ctx context.Context, lotID string, amount float64, termMonths int) (*domain.Credit, error) {
	if err := s.Latency.Write(ctx); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if termMonths <= 0 {
		return nil, ErrInvalidTerm
	}

	var credit *domain.Credit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.Where("lot_id = ?", lotID).First(&lot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLotNotFound
			}
			return err
		}
		if lot.CreditID != nil {
			var existing domain.Credit
			err := tx.Select("credit_id, status").Where("credit_id = ?", *lot.CreditID).First(&existing).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			if err == nil && existing.Status != domain.CreditRepaid {
				return ErrLotHasCredit
			}
		}

		var count int64
		if err := tx.Model(&domain.Credit{}).Count(&count).Error; err != nil {
			return err
		}
		disbursed := s.now()
		credit = &domain.Credit{
			CreditID:         fmt.Sprintf("CR-%03d", count+1),
			LotID:            lot.LotID,
			Amount:           amount,
			AnnualRate:       AnnualRate,
			TermMonths:       termMonths,
			Status:           domain.CreditActive,
			DisbursementDate: &disbursed,
			PaidAmount:       0,
			RemainingAmount:  amount,
		}
		if err := tx.Create(credit).Error; err != nil {
			return err
		}
		schedule := domain.BuildSchedule(credit.CreditID, amount, termMonths, disbursed)
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}
		credit.Installments = schedule

		if err := tx.Model(&domain.Lot{}).Where("lot_id = ?", lot.LotID).
			Update("credit_id", credit.CreditID).Error; err != nil {
			return err
		}
		return activities.Append(tx, activities.AppendInput{
			Type:        domain.ActivityCredit,
			Title:       "Crédito desembolsado",
			Description: fmt.Sprintf("%s por $%.2f a %d meses para %s", credit.CreditID, amount, termMonths, lot.LotID),
			LotID:       &lot.LotID,
			CreditID:    &credit.CreditID,
			Data:        map[string]interface{}{"amount": amount, "term_months": termMonths},
		})
	})
	if err != nil {
		return nil, err
	}
	finalize(credit)
	return credit, nil
}

// PayInstallment settles one installment: it gets a paid date and transaction
// hash, the credit's paid/remaining amounts move by exactly the installment
// amount (paid + remaining always equals amount), and the credit flips to
// Repaid when nothing remains. Paying a Paid installment fails rather than
// double-crediting.
func (s *Service) PayInstallment(ctx context.Context, creditID string, number int) (*domain.Credit, error) {
	if err := s.Latency.Write(ctx); err != nil {
		return nil, err
	}

	var credit *domain.Credit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Credit
		if err := tx.Where("credit_id = ?", creditID).First(&c).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCreditNotFound
			}
			return err
		}
		var inst domain.Installment
		if err := tx.Where("credit_id = ? AND number = ?", creditID, number).First(&inst).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInstallmentNotFound
			}
			return err
		}
		if inst.Status == domain.InstallmentPaid {
			return ErrAlreadyPaid
		}

		paidAt := s.now()
		hash := contentaddr.TxHash(creditID, number, paidAt, uuid.NewString())
		inst.Status = domain.InstallmentPaid
		inst.PaidDate = &paidAt
		inst.TransactionHash = &hash
		if err := tx.Save(&inst).Error; err != nil {
			return err
		}

		c.PaidAmount = round2(c.PaidAmount + inst.Amount)
		c.RemainingAmount = round2(c.Amount - c.PaidAmount)
		if c.RemainingAmount <= 0 {
			c.PaidAmount = c.Amount
			c.RemainingAmount = 0
			c.Status = domain.CreditRepaid
		} else if c.Status == domain.CreditDelinquent {
			// Clearing the last overdue installment restores the credit.
			var overdue int64
			if err := tx.Model(&domain.Installment{}).
				Where("credit_id = ? AND status = ?", creditID, domain.InstallmentOverdue).
				Count(&overdue).Error; err != nil {
				return err
			}
			if overdue == 0 {
				c.Status = domain.CreditActive
			}
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}

		if err := activities.Append(tx, activities.AppendInput{
			Type:        domain.ActivityPayment,
			Title:       "Pago recibido",
			Description: fmt.Sprintf("Cuota %d de %s pagada (%.2f)", number, creditID, inst.Amount),
			LotID:       &c.LotID,
			CreditID:    &c.CreditID,
			Data:        map[string]interface{}{"number": number, "amount": inst.Amount, "transaction_hash": hash},
		}); err != nil {
			return err
		}

		var full domain.Credit
		if err := tx.Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
			Where("credit_id = ?", creditID).First(&full).Error; err != nil {
			return err
		}
		credit = &full
		return nil
	})
	if err != nil {
		return nil, err
	}
	finalize(credit)
	return credit, nil
}

// MarkOverdue sweeps Pending installments whose due date has passed to
// Overdue and marks their credits Delinquent. Returns the number of
// installments swept. Run daily by the cron job.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	var swept int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Installment{}).
			Where("status = ? AND due_date < ?", domain.InstallmentPending, asOf).
			Update("status", domain.InstallmentOverdue)
		if res.Error != nil {
			return res.Error
		}
		swept = int(res.RowsAffected)
		if swept == 0 {
			return nil
		}
		var creditIDs []string
		if err := tx.Model(&domain.Installment{}).
			Distinct("credit_id").
			Where("status = ?", domain.InstallmentOverdue).
			Pluck("credit_id", &creditIDs).Error; err != nil {
			return err
		}
		if len(creditIDs) == 0 {
			return nil
		}
		return tx.Model(&domain.Credit{}).
			Where("credit_id IN ? AND status = ?", creditIDs, domain.CreditActive).
			Update("status", domain.CreditDelinquent).Error
	})
	return swept, err
}

func finalize(c *domain.Credit) {
	c.ProgressPct = c.Progress()
	if c.Installments == nil {
		c.Installments = []domain.Installment{}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
