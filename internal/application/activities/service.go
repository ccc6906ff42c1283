package activities

import (
	"context"
	"encoding/json"
	"fmt"

	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/latency"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB      *gorm.DB
	Latency *latency.Simulator
}

// ListActivities returns the feed, newest first, optionally filtered by type.
func (s *Service) ListActivities(ctx context.Context, typeFilter string) ([]domain.ActivityEvent, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Order(`"createdAt" DESC`)
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}
	var events []domain.ActivityEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// AppendInput describes one new feed entry.
type AppendInput struct {
	Type        string
	Title       string
	Description string
	LotID       *string
	CreditID    *string
	Data        map[string]interface{}
}

// Append writes a feed entry inside the caller's transaction so the entry
// lands atomically with the mutation it describes. IDs are count-based
// (ACT-NNN), which is why this must run under the same isolation boundary
// as the mutation.
func Append(tx *gorm.DB, in AppendInput) error {
	var count int64
	if err := tx.Model(&domain.ActivityEvent{}).Count(&count).Error; err != nil {
		return err
	}
	var payload datatypes.JSON
	if in.Data != nil {
		b, err := json.Marshal(in.Data)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(b)
	}
	return tx.Create(&domain.ActivityEvent{
		ActivityID:  fmt.Sprintf("ACT-%03d", count+1),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		LotID:       in.LotID,
		CreditID:    in.CreditID,
		EventData:   payload,
	}).Error
}
