package scheduler

import (
	"context"
	"time"

	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// staleOrderAge is how long an unpaid order may sit before the sweep
// cancels it at the gateway and clears its reference.
const staleOrderAge = 24 * time.Hour

// OrderExpiryScheduler periodically cleans up abandoned payment orders.
type OrderExpiryScheduler struct {
	cron           *cron.Cron
	licenseService service.LicenseService
}

func NewOrderExpiryScheduler(licenseService service.LicenseService) *OrderExpiryScheduler {
	return &OrderExpiryScheduler{
		cron:           cron.New(),
		licenseService: licenseService,
	}
}

// Start schedules the sweep daily at 03:00 server time, when payment
// traffic is lowest.
func (s *OrderExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled stale order sweep", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		swept, err := s.licenseService.SweepStaleOrders(ctx, staleOrderAge)
		if err != nil {
			logger.Error("Stale order sweep failed", err)
			return
		}

		logger.Info("Stale order sweep completed", map[string]interface{}{
			"swept": swept,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for stale order sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order expiry scheduler started (daily at 3:00 AM)", nil)
	return nil
}

// Stop halts the scheduler.
func (s *OrderExpiryScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Order expiry scheduler stopped", nil)
}
