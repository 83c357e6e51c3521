package jobs

import (
	"context"
	"time"

	"github.com/hgky95/Idle2Earn/internal/logger"
)

// SendOverdueReminders emails renters whose active rentals are past their end
// time. It only reminds; settlement stays with the administrator's force-end
// path so the job can never move funds or custody.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		rentals, err := jr.rentalRepo.ListExpiredActive(ctx, now)
		if err != nil {
			logger.Error("Failed to list expired rentals", "error", err)
			return
		}
		if len(rentals) == 0 {
			logger.Info("No overdue rentals found")
			return
		}

		sent := 0
		for _, rt := range rentals {
			renter, err := jr.accountRepo.GetByID(ctx, rt.RenterID)
			if err != nil {
				logger.Warn("Could not load renter for overdue reminder", "renter_id", rt.RenterID, "error", err)
				continue
			}
			assetName := ""
			if asset, err := jr.assetRepo.GetByID(ctx, rt.AssetID); err == nil {
				assetName = asset.Name
			}
			daysLate := int64(now.Sub(rt.EndTime).Seconds()) / 86400
			if err := jr.emailSvc.SendOverdueReminder(ctx, renter.Email, assetName, daysLate); err != nil {
				logger.Warn("Failed to send overdue reminder", "asset_id", rt.AssetID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Overdue reminders sent", "overdue", len(rentals), "sent", sent)
	})
}
