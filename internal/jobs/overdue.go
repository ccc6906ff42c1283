package jobs

import (
	"context"
	"time"

	"origenmx-backend/internal/application/credits"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartOverdueSweep schedules the daily overdue-installment sweep. The
// returned cron runs until the process exits.
func StartOverdueSweep(spec string, svc *credits.Service) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		swept, err := svc.MarkOverdue(context.Background(), time.Now())
		if err != nil {
			log.Error().Err(err).Msg("overdue sweep failed")
			return
		}
		if swept > 0 {
			log.Info().Int("installments", swept).Msg("overdue sweep marked installments")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
