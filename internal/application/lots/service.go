package lots

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"origenmx-backend/internal/application/activities"
	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/constants"
	"origenmx-backend/internal/pkg/contentaddr"
	"origenmx-backend/internal/pkg/latency"
	"origenmx-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLotNotFound        = errors.New("Lot not found")
	ErrMissingFields      = errors.New("Missing required fields")
	ErrInvalidCropType    = errors.New("Invalid crop type")
	ErrInvalidArea        = errors.New("Area must be a positive number")
	ErrInvalidWeight      = errors.New("Weight must be a positive number")
	ErrHarvestBeforePlant = errors.New("Harvest date must not precede planting date")
	ErrInvalidMimeType    = errors.New("Unsupported evidence file type")
	ErrInvalidFileSize    = errors.New("File size must be a positive number")
)

// AgroScore refreshes draw uniformly from [60,100).
const (
	scoreFloor = 60
	scoreSpan  = 40
)

type Service struct {
	DB      *gorm.DB
	Latency *latency.Simulator
	Rand    *rand.Rand // optional seeded source; nil uses the global source
}

func (s *Service) randInt(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// ListLots returns all lots with evidence and derived credit status.
func (s *Service) ListLots(ctx context.Context) ([]domain.Lot, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}
	var lots []domain.Lot
	if err := s.DB.WithContext(ctx).
		Preload("Evidence", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at") }).
		Order("lot_id").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	if err := s.injectCreditStatus(ctx, lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// GetLot returns one lot by id with evidence and derived credit status.
func (s *Service) GetLot(ctx context.Context, lotID string) (*domain.Lot, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}
	var lot domain.Lot
	err := s.DB.WithContext(ctx).
		Preload("Evidence", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at") }).
		Where("lot_id = ?", lotID).
		First(&lot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}
	list := []domain.Lot{lot}
	if err := s.injectCreditStatus(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

type RegisterLotInput struct {
	CropType     string
	AreaHa       float64
	WeightKg     *float64
	Location     string
	Cooperative  string
	PlantingDate time.Time
	HarvestDate  time.Time
}

// RegisterLot creates a new lot: status Active, score 0, no credit.
// The LOT-NNN id is allocated from the row count inside the transaction.
func (s *Service) RegisterLot(ctx context.Context, in RegisterLotInput) (*domain.Lot, error) {
	if err := s.Latency.Write(ctx); err != nil {
		return nil, err
	}
	if in.CropType == "" || in.Location == "" || in.Cooperative == "" ||
		in.PlantingDate.IsZero() || in.HarvestDate.IsZero() {
		return nil, ErrMissingFields
	}
	if !constants.IsValidCropType(in.CropType) {
		return nil, ErrInvalidCropType
	}
	if in.AreaHa <= 0 {
		return nil, ErrInvalidArea
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	if in.HarvestDate.Before(in.PlantingDate) {
		return nil, ErrHarvestBeforePlant
	}

	var lot *domain.Lot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Lot{}).Count(&count).Error; err != nil {
			return err
		}
		lot = &domain.Lot{
			LotID:        fmt.Sprintf("LOT-%03d", count+1),
			CropType:     in.CropType,
			AreaHa:       in.AreaHa,
			WeightKg:     in.WeightKg,
			Location:     in.Location,
			Cooperative:  in.Cooperative,
			PlantingDate: in.PlantingDate,
			HarvestDate:  in.HarvestDate,
			Status:       domain.LotStatusActive,
			AgroScore:    0,
		}
		if err := tx.Create(lot).Error; err != nil {
			return err
		}
		return activities.Append(tx, activities.AppendInput{
			Type:        domain.ActivityLot,
			Title:       "Lote registrado",
			Description: fmt.Sprintf("%s (%s, %.1f ha) registrado por %s", lot.LotID, lot.CropType, lot.AreaHa, lot.Cooperative),
			LotID:       &lot.LotID,
			Data:        map[string]interface{}{"crop_type": lot.CropType, "area_ha": lot.AreaHa},
		})
	})
	if err != nil {
		return nil, err
	}
	lot.CreditStatus = domain.CreditStatusNone
	lot.Evidence = []domain.EvidenceFile{}
	return lot, nil
}

type EvidenceInput struct {
	Name      string
	MimeType  string
	SizeBytes int64
}

// UploadEvidence appends an evidence file to a lot. The content address is
// derived from the descriptor plus a random nonce; the evidence list is
// append-only.
func (s *Service) UploadEvidence(ctx context.Context, lotID string, in EvidenceInput) (*domain.EvidenceFile, error) {
	if err := s.Latency.Write(ctx); err != nil {
		return nil, err
	}
	if in.Name == "" || in.MimeType == "" {
		return nil, ErrMissingFields
	}
	if !validation.IsAllowedEvidenceMime(in.MimeType) {
		return nil, ErrInvalidMimeType
	}
	if in.SizeBytes <= 0 {
		return nil, ErrInvalidFileSize
	}

	var file *domain.EvidenceFile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.Where("lot_id = ?", lotID).First(&lot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLotNotFound
			}
			return err
		}
		file = &domain.EvidenceFile{
			EvidenceID:     uuid.New(),
			LotID:          lot.LotID,
			Name:           in.Name,
			MimeType:       in.MimeType,
			SizeBytes:      in.SizeBytes,
			ContentAddress: contentaddr.ForFile(in.Name, in.MimeType, in.SizeBytes, uuid.NewString()),
			UploadedAt:     time.Now(),
		}
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		return activities.Append(tx, activities.AppendInput{
			Type:        domain.ActivityLot,
			Title:       "Evidencia cargada",
			Description: fmt.Sprintf("%s agregada a %s", file.Name, lot.LotID),
			LotID:       &lot.LotID,
			Data:        map[string]interface{}{"name": file.Name, "size_bytes": file.SizeBytes},
		})
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// RefreshAgroScore recomputes a lot's score, overwriting the stored value.
func (s *Service) RefreshAgroScore(ctx context.Context, lotID string) (int, error) {
	if err := s.Latency.Write(ctx); err != nil {
		return 0, err
	}
	score := scoreFloor + s.randInt(scoreSpan)
	res := s.DB.WithContext(ctx).Model(&domain.Lot{}).
		Where("lot_id = ?", lotID).
		Update("agro_score", score)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrLotNotFound
	}
	return score, nil
}

// injectCreditStatus fills the derived credit_status field from each lot's
// referenced credit. A lot without a reference (or whose reference no longer
// resolves) reads as "No credit".
func (s *Service) injectCreditStatus(ctx context.Context, lots []domain.Lot) error {
	ids := make([]string, 0, len(lots))
	for i := range lots {
		if lots[i].CreditID != nil {
			ids = append(ids, *lots[i].CreditID)
		}
	}
	statuses := map[string]string{}
	if len(ids) > 0 {
		var credits []domain.Credit
		if err := s.DB.WithContext(ctx).
			Select("credit_id, status").
			Where("credit_id IN ?", ids).
			Find(&credits).Error; err != nil {
			return err
		}
		for _, c := range credits {
			statuses[c.CreditID] = c.Status
		}
	}
	for i := range lots {
		lots[i].CreditStatus = domain.CreditStatusNone
		if lots[i].CreditID != nil {
			if st, ok := statuses[*lots[i].CreditID]; ok {
				lots[i].CreditStatus = st
			}
		}
		if lots[i].Evidence == nil {
			lots[i].Evidence = []domain.EvidenceFile{}
		}
	}
	return nil
}
