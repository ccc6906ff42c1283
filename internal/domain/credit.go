package domain

import (
	"math"
	"time"
)

// Credit statuses (enum_Credits_status).
const (
	CreditEligible   = "Eligible"
	CreditActive     = "Active"
	CreditDelinquent = "Delinquent"
	CreditRepaid     = "Repaid"
)

// Installment statuses (enum_Installments_status).
const (
	InstallmentPending = "Pending"
	InstallmentPaid    = "Paid"
	InstallmentOverdue = "Overdue"
)

// InstallmentInterval is the spacing between scheduled repayments,
// starting this far after disbursement.
const InstallmentInterval = 30 * 24 * time.Hour

// Credit is a loan extended against a Lot. paid_amount + remaining_amount
// equals amount at all times; remaining reaches zero exactly when status
// becomes Repaid.
type Credit struct {
	CreditID         string        `gorm:"column:credit_id;primaryKey" json:"credit_id"`
	LotID            string        `gorm:"column:lot_id;not null;index" json:"lot_id"`
	Amount           float64       `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	AnnualRate       float64       `gorm:"column:annual_rate;type:decimal(5,2);not null" json:"annual_rate"`
	TermMonths       int           `gorm:"column:term_months;not null" json:"term_months"`
	Status           string        `gorm:"column:status;type:varchar(20);default:'Eligible'" json:"status"`
	DisbursementDate *time.Time    `gorm:"column:disbursement_date" json:"disbursement_date"`
	PaidAmount       float64       `gorm:"column:paid_amount;type:decimal(18,2);not null;default:0" json:"paid_amount"`
	RemainingAmount  float64       `gorm:"column:remaining_amount;type:decimal(18,2);not null;default:0" json:"remaining_amount"`
	Installments     []Installment `gorm:"foreignKey:CreditID;references:CreditID" json:"installments"`
	CreatedAt        time.Time     `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `gorm:"column:updatedAt" json:"updatedAt"`

	// Injected by the credits service (not a column).
	ProgressPct float64 `gorm:"-" json:"progress"`
}

func (Credit) TableName() string {
	return "Credits"
}

// Progress returns the repayment percentage, 0 when amount is 0.
func (c *Credit) Progress() float64 {
	if c.Amount == 0 {
		return 0
	}
	return math.Round(c.PaidAmount/c.Amount*10000) / 100
}

// Installment is one scheduled repayment unit of a Credit.
// Paid iff paid_date and transaction_hash are both set.
type Installment struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	CreditID        string     `gorm:"column:credit_id;not null;uniqueIndex:idx_credit_installment" json:"credit_id"`
	Number          int        `gorm:"column:number;not null;uniqueIndex:idx_credit_installment" json:"number"`
	DueDate         time.Time  `gorm:"column:due_date;not null" json:"due_date"`
	Amount          float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status          string     `gorm:"column:status;type:varchar(20);default:'Pending'" json:"status"`
	PaidDate        *time.Time `gorm:"column:paid_date" json:"paid_date"`
	TransactionHash *string    `gorm:"column:transaction_hash" json:"transaction_hash"`
	CreatedAt       time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Installment) TableName() string {
	return "Installments"
}

// BuildSchedule produces the full Pending installment schedule for a credit:
// equal split rounded to cents, rounding remainder on the last installment,
// due dates one interval apart starting one interval after disbursement.
func BuildSchedule(creditID string, amount float64, termMonths int, disbursed time.Time) []Installment {
	per := math.Round(amount/float64(termMonths)*100) / 100
	out := make([]Installment, termMonths)
	for i := 1; i <= termMonths; i++ {
		amt := per
		if i == termMonths {
			amt = math.Round((amount-per*float64(termMonths-1))*100) / 100
		}
		out[i-1] = Installment{
			CreditID: creditID,
			Number:   i,
			DueDate:  disbursed.Add(time.Duration(i) * InstallmentInterval),
			Amount:   amt,
			Status:   InstallmentPending,
		}
	}
	return out
}
