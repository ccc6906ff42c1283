package database

import (
	"encoding/json"
	"time"

	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/constants"
	"origenmx-backend/internal/pkg/contentaddr"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDemo loads the demo dataset (4 lots, 3 credits, 5 activities) into an
// empty database. It is a no-op when lots already exist, so restarts against
// a persistent Postgres don't duplicate rows.
//
// The dataset is the one the dashboard UI ships with: LOT-001 carries credit
// CR-001 of 5000 over 12 months with the first 6 installments already paid
// (2500 paid / 2500 remaining, 50% progress).
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Lot{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		cr1 := "CR-001"
		cr2 := "CR-002"
		cr3 := "CR-003"

		lots := []domain.Lot{
			{
				LotID:        "LOT-001",
				CropType:     constants.CropCoffee,
				AreaHa:       3.5,
				WeightKg:     f64Ptr(2400),
				Location:     "Huatusco, Veracruz",
				Cooperative:  "Cafetaleros de Huatusco",
				PlantingDate: now.AddDate(0, -9, 0),
				HarvestDate:  now.AddDate(0, 2, 0),
				Status:       domain.LotStatusActive,
				AgroScore:    82,
				CreditID:     &cr1,
			},
			{
				LotID:        "LOT-002",
				CropType:     constants.CropCorn,
				AreaHa:       5.2,
				Location:     "Zamora, Michoacán",
				Cooperative:  "Productores Unidos del Bajío",
				PlantingDate: now.AddDate(0, -4, 0),
				HarvestDate:  now.AddDate(0, 3, 0),
				Status:       domain.LotStatusActive,
				AgroScore:    74,
				CreditID:     &cr2,
			},
			{
				LotID:        "LOT-003",
				CropType:     constants.CropWheat,
				AreaHa:       4.0,
				WeightKg:     f64Ptr(16800),
				Location:     "Cd. Obregón, Sonora",
				Cooperative:  "Agricultores del Yaqui",
				PlantingDate: now.AddDate(-1, -2, 0),
				HarvestDate:  now.AddDate(0, -7, 0),
				Status:       domain.LotStatusHarvested,
				AgroScore:    91,
				CreditID:     &cr3,
			},
			{
				LotID:        "LOT-004",
				CropType:     constants.CropAvocado,
				AreaHa:       2.8,
				Location:     "Uruapan, Michoacán",
				Cooperative:  "Aguacateros de Uruapan",
				PlantingDate: now.AddDate(-2, 0, 0),
				HarvestDate:  now.AddDate(0, -1, 0),
				Status:       domain.LotStatusCertified,
				AgroScore:    58,
			},
		}
		if err := tx.Create(&lots).Error; err != nil {
			return err
		}

		evidence := []domain.EvidenceFile{
			seedEvidence("LOT-001", "acta-de-siembra.pdf", "application/pdf", 482133, now.AddDate(0, -8, 0)),
			seedEvidence("LOT-001", "analisis-de-suelo.pdf", "application/pdf", 1240087, now.AddDate(0, -8, 12)),
			seedEvidence("LOT-002", "foto-parcela.jpg", "image/jpeg", 3155204, now.AddDate(0, -3, 0)),
		}
		if err := tx.Create(&evidence).Error; err != nil {
			return err
		}

		// CR-001: Active, 6 of 12 installments paid. The books carry 2500/2500.
		disbursed1 := now.Add(-6*domain.InstallmentInterval - 15*24*time.Hour)
		inst1 := domain.BuildSchedule(cr1, 5000, 12, disbursed1)
		for i := 0; i < 6; i++ {
			markSeedPaid(&inst1[i])
		}
		credit1 := domain.Credit{
			CreditID:         cr1,
			LotID:            "LOT-001",
			Amount:           5000,
			AnnualRate:       12.0,
			TermMonths:       12,
			Status:           domain.CreditActive,
			DisbursementDate: &disbursed1,
			PaidAmount:       2500,
			RemainingAmount:  2500,
		}

		// CR-002: pre-approved, no schedule until disbursement.
		credit2 := domain.Credit{
			CreditID:        cr2,
			LotID:           "LOT-002",
			Amount:          5200,
			AnnualRate:      12.0,
			TermMonths:      12,
			Status:          domain.CreditEligible,
			PaidAmount:      0,
			RemainingAmount: 5200,
		}

		// CR-003: fully repaid last season.
		disbursed3 := now.AddDate(0, -8, 0)
		inst3 := domain.BuildSchedule(cr3, 8000, 6, disbursed3)
		for i := range inst3 {
			markSeedPaid(&inst3[i])
		}
		credit3 := domain.Credit{
			CreditID:         cr3,
			LotID:            "LOT-003",
			Amount:           8000,
			AnnualRate:       12.0,
			TermMonths:       6,
			Status:           domain.CreditRepaid,
			DisbursementDate: &disbursed3,
			PaidAmount:       8000,
			RemainingAmount:  0,
		}

		seedCredits := []domain.Credit{credit1, credit2, credit3}
		if err := tx.Create(&seedCredits).Error; err != nil {
			return err
		}
		if err := tx.Create(&inst1).Error; err != nil {
			return err
		}
		if err := tx.Create(&inst3).Error; err != nil {
			return err
		}

		activities := []domain.ActivityEvent{
			seedActivity("ACT-001", domain.ActivityLot, "Lote registrado",
				"LOT-001 (Café, 3.5 ha) registrado por Cafetaleros de Huatusco",
				strPtr("LOT-001"), nil, now.AddDate(0, -9, 0),
				map[string]interface{}{"crop_type": constants.CropCoffee, "area_ha": 3.5}),
			seedActivity("ACT-002", domain.ActivityCredit, "Crédito desembolsado",
				"CR-001 por $5,000 a 12 meses para LOT-001",
				strPtr("LOT-001"), &cr1, disbursed1,
				map[string]interface{}{"amount": 5000, "term_months": 12}),
			seedActivity("ACT-003", domain.ActivityLot, "Evidencia cargada",
				"foto-parcela.jpg agregada a LOT-002",
				strPtr("LOT-002"), nil, now.AddDate(0, -3, 0),
				map[string]interface{}{"name": "foto-parcela.jpg"}),
			seedActivity("ACT-004", domain.ActivityPayment, "Pago recibido",
				"Cuota 6 de CR-001 pagada (416.67)",
				strPtr("LOT-001"), &cr1, inst1[5].DueDate,
				map[string]interface{}{"number": 6, "amount": inst1[5].Amount}),
			seedActivity("ACT-005", domain.ActivitySystem, "Modelo AgroScore actualizado",
				"Recalibración trimestral del modelo de puntaje",
				nil, nil, now.AddDate(0, -1, 0), nil),
		}
		return tx.Create(&activities).Error
	})
}

func seedEvidence(lotID, name, mime string, size int64, uploaded time.Time) domain.EvidenceFile {
	return domain.EvidenceFile{
		EvidenceID:     uuid.New(),
		LotID:          lotID,
		Name:           name,
		MimeType:       mime,
		SizeBytes:      size,
		ContentAddress: contentaddr.ForFile(name, mime, size, uuid.NewString()),
		UploadedAt:     uploaded,
	}
}

func markSeedPaid(inst *domain.Installment) {
	paid := inst.DueDate
	hash := contentaddr.TxHash(inst.CreditID, inst.Number, paid, uuid.NewString())
	inst.Status = domain.InstallmentPaid
	inst.PaidDate = &paid
	inst.TransactionHash = &hash
}

func seedActivity(id, typ, title, desc string, lotID, creditID *string, at time.Time, data map[string]interface{}) domain.ActivityEvent {
	var payload datatypes.JSON
	if data != nil {
		b, _ := json.Marshal(data)
		payload = datatypes.JSON(b)
	}
	return domain.ActivityEvent{
		ActivityID:  id,
		Type:        typ,
		Title:       title,
		Description: desc,
		LotID:       lotID,
		CreditID:    creditID,
		EventData:   payload,
		CreatedAt:   at,
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
