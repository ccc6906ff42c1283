package database

import (
	"testing"

	"origenmx-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seededDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedDemo(db))
	return db
}

func TestSeedDemo_Counts(t *testing.T) {
	db := seededDB(t)

	var lots, credits, evidence, activities int64
	require.NoError(t, db.Model(&domain.Lot{}).Count(&lots).Error)
	require.NoError(t, db.Model(&domain.Credit{}).Count(&credits).Error)
	require.NoError(t, db.Model(&domain.EvidenceFile{}).Count(&evidence).Error)
	require.NoError(t, db.Model(&domain.ActivityEvent{}).Count(&activities).Error)

	assert.EqualValues(t, 4, lots)
	assert.EqualValues(t, 3, credits)
	assert.EqualValues(t, 3, evidence)
	assert.EqualValues(t, 5, activities)
}

func TestSeedDemo_ActiveCreditBooks(t *testing.T) {
	db := seededDB(t)

	var credit domain.Credit
	require.NoError(t, db.Preload("Installments", func(q *gorm.DB) *gorm.DB {
		return q.Order("number")
	}).Where("credit_id = ?", "CR-001").First(&credit).Error)

	assert.Equal(t, domain.CreditActive, credit.Status)
	assert.Equal(t, 2500.0, credit.PaidAmount)
	assert.Equal(t, 2500.0, credit.RemainingAmount)
	assert.Equal(t, 50.0, credit.Progress())
	require.NotNil(t, credit.DisbursementDate)
	require.Len(t, credit.Installments, 12)

	paid := 0
	for i, inst := range credit.Installments {
		assert.Equal(t, i+1, inst.Number)
		if inst.Status == domain.InstallmentPaid {
			paid++
			assert.NotNil(t, inst.PaidDate)
			assert.NotNil(t, inst.TransactionHash)
		} else {
			assert.Equal(t, domain.InstallmentPending, inst.Status)
			assert.Nil(t, inst.PaidDate)
		}
	}
	assert.Equal(t, 6, paid)
}

func TestSeedDemo_RepaidAndEligibleCredits(t *testing.T) {
	db := seededDB(t)

	var repaid domain.Credit
	require.NoError(t, db.Preload("Installments").Where("credit_id = ?", "CR-003").First(&repaid).Error)
	assert.Equal(t, domain.CreditRepaid, repaid.Status)
	assert.Equal(t, 0.0, repaid.RemainingAmount)
	assert.Equal(t, 100.0, repaid.Progress())
	assert.Len(t, repaid.Installments, 6)

	var eligible domain.Credit
	require.NoError(t, db.Preload("Installments").Where("credit_id = ?", "CR-002").First(&eligible).Error)
	assert.Equal(t, domain.CreditEligible, eligible.Status)
	assert.Nil(t, eligible.DisbursementDate)
	assert.Empty(t, eligible.Installments)
}

func TestSeedDemo_ActivityFeed(t *testing.T) {
	db := seededDB(t)

	var payments []domain.ActivityEvent
	require.NoError(t, db.Where("type = ?", domain.ActivityPayment).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, "ACT-004", payments[0].ActivityID)

	var system []domain.ActivityEvent
	require.NoError(t, db.Where("type = ?", domain.ActivitySystem).Find(&system).Error)
	require.Len(t, system, 1)
	assert.Nil(t, system[0].LotID)
}

func TestSeedDemo_Idempotent(t *testing.T) {
	db := seededDB(t)
	require.NoError(t, SeedDemo(db))

	var lots int64
	require.NoError(t, db.Model(&domain.Lot{}).Count(&lots).Error)
	assert.EqualValues(t, 4, lots)
}
