package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Activity event types (enum_Activities_type).
const (
	ActivityLot     = "lot"
	ActivityCredit  = "credit"
	ActivityPayment = "payment"
	ActivitySystem  = "system"
)

// ActivityEvent is an immutable, append-only log entry for the activity feed.
type ActivityEvent struct {
	ActivityID  string         `gorm:"column:activity_id;primaryKey" json:"activity_id"`
	Type        string         `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;not null" json:"description"`
	LotID       *string        `gorm:"column:lot_id" json:"lot_id"`
	CreditID    *string        `gorm:"column:credit_id" json:"credit_id"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (ActivityEvent) TableName() string {
	return "Activities"
}

// IsActivityType reports whether t is one of the allowed feed types.
func IsActivityType(t string) bool {
	switch t {
	case ActivityLot, ActivityCredit, ActivityPayment, ActivitySystem:
		return true
	}
	return false
}
