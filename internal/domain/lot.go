package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lot statuses (enum_Lots_status).
const (
	LotStatusActive    = "Active"
	LotStatusHarvested = "Harvested"
	LotStatusCertified = "Certified"
)

// Derived credit statuses as rendered on a Lot. All but CreditStatusNone
// mirror the status of the referenced Credit.
const (
	CreditStatusNone       = "No credit"
	CreditStatusEligible   = "Eligible"
	CreditStatusActive     = "Active"
	CreditStatusDelinquent = "Delinquent"
	CreditStatusRepaid     = "Repaid"
)

// Lot is a registered batch of agricultural production with traceability
// evidence. credit_status is never stored: it is derived from the referenced
// Credit at read time, so the two can never disagree.
type Lot struct {
	LotID        string         `gorm:"column:lot_id;primaryKey" json:"lot_id"`
	CropType     string         `gorm:"column:crop_type;not null" json:"crop_type"`
	AreaHa       float64        `gorm:"column:area_ha;type:decimal(10,2);not null" json:"area_ha"`
	WeightKg     *float64       `gorm:"column:weight_kg;type:decimal(12,2)" json:"weight_kg"`
	Location     string         `gorm:"column:location;not null" json:"location"`
	Cooperative  string         `gorm:"column:cooperative;not null" json:"cooperative"`
	PlantingDate time.Time      `gorm:"column:planting_date;not null" json:"planting_date"`
	HarvestDate  time.Time      `gorm:"column:harvest_date;not null" json:"harvest_date"`
	Status       string         `gorm:"column:status;type:varchar(20);default:'Active'" json:"status"`
	AgroScore    int            `gorm:"column:agro_score;not null;default:0" json:"agro_score"`
	CreditID     *string        `gorm:"column:credit_id" json:"credit_id"`
	Evidence     []EvidenceFile `gorm:"foreignKey:LotID;references:LotID" json:"evidence"`
	CreatedAt    time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updatedAt" json:"updatedAt"`

	// Injected by the lots service from the referenced Credit (not a column).
	CreditStatus string `gorm:"-" json:"credit_status"`
}

func (Lot) TableName() string {
	return "Lots"
}

// EvidenceFile is an attached document proving lot claims. Append-only:
// created on upload, never mutated or removed.
type EvidenceFile struct {
	EvidenceID     uuid.UUID `gorm:"column:evidence_id;type:uuid;primaryKey" json:"evidence_id"`
	LotID          string    `gorm:"column:lot_id;not null;index" json:"lot_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	MimeType       string    `gorm:"column:mime_type;not null" json:"mime_type"`
	SizeBytes      int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	ContentAddress string    `gorm:"column:content_address;not null" json:"content_address"`
	UploadedAt     time.Time `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (EvidenceFile) TableName() string {
	return "EvidenceFiles"
}

// BeforeCreate sets evidence_id if not already set (DBs without default uuid).
func (e *EvidenceFile) BeforeCreate(tx *gorm.DB) error {
	if e.EvidenceID == uuid.Nil {
		e.EvidenceID = uuid.New()
	}
	return nil
}
