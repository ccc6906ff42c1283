package activities

import (
	"context"
	"testing"
	"time"

	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupActivitiesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func TestAppend_SequentialIDs(t *testing.T) {
	svc, db := setupActivitiesTest(t)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Append(tx, AppendInput{Type: domain.ActivityLot, Title: "Lote registrado"})
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Append(tx, AppendInput{
			Type:  domain.ActivityPayment,
			Title: "Pago recibido",
			Data:  map[string]interface{}{"number": 1, "amount": 416.67},
		})
	}))

	events, err := svc.ListActivities(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, events, 2)

	ids := []string{events[0].ActivityID, events[1].ActivityID}
	assert.ElementsMatch(t, []string{"ACT-001", "ACT-002"}, ids)
}

func TestListActivities_FilterAndOrder(t *testing.T) {
	svc, db := setupActivitiesTest(t)

	base := time.Now().Add(-time.Hour)
	rows := []domain.ActivityEvent{
		{ActivityID: "ACT-001", Type: domain.ActivityLot, Title: "Lote registrado", CreatedAt: base},
		{ActivityID: "ACT-002", Type: domain.ActivityPayment, Title: "Pago recibido", CreatedAt: base.Add(10 * time.Minute)},
		{ActivityID: "ACT-003", Type: domain.ActivityLot, Title: "Evidencia cargada", CreatedAt: base.Add(20 * time.Minute)},
	}
	require.NoError(t, db.Create(&rows).Error)

	all, err := svc.ListActivities(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "ACT-003", all[0].ActivityID)
	assert.Equal(t, "ACT-001", all[2].ActivityID)

	payments, err := svc.ListActivities(context.Background(), domain.ActivityPayment)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "ACT-002", payments[0].ActivityID)

	none, err := svc.ListActivities(context.Background(), domain.ActivitySystem)
	require.NoError(t, err)
	assert.Empty(t, none)
}
