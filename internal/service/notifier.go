package service

import (
	"context"
	"fmt"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

// notifier fans terminal-state events out to persisted notifications and
// email. Delivery failures are logged, never propagated: a notification must
// not be able to abort a settled transition.
type notifier struct {
	noteRepo    repository.NotificationRepository
	accountRepo repository.AccountRepository
	emailSvc    EmailService
}

func NewNotifier(noteRepo repository.NotificationRepository, accountRepo repository.AccountRepository, emailSvc EmailService) Notifier {
	return &notifier{noteRepo: noteRepo, accountRepo: accountRepo, emailSvc: emailSvc}
}

func (n *notifier) RentalStarted(ctx context.Context, ev domain.RentalStarted) {
	attrs := map[string]string{
		"type":     "RENTAL_STARTED",
		"asset_id": fmt.Sprintf("%d", ev.AssetID),
	}
	n.create(ctx, ev.LenderID, "Rental Started",
		fmt.Sprintf("Your asset %d was rented for %d days (fee %d, deposit %d)",
			ev.AssetID, ev.DurationDays, ev.RentalFeeCents, ev.DepositCents), attrs)
	n.create(ctx, ev.RenterID, "Rental Started",
		fmt.Sprintf("You rented asset %d for %d days; %d held in escrow",
			ev.AssetID, ev.DurationDays, ev.RentalFeeCents+ev.DepositCents), attrs)

	lender, err := n.accountRepo.GetByID(ctx, ev.LenderID)
	if err != nil {
		logger.Warn("Notifier could not load lender account", "lender_id", ev.LenderID, "error", err)
		return
	}
	renter, err := n.accountRepo.GetByID(ctx, ev.RenterID)
	if err != nil {
		logger.Warn("Notifier could not load renter account", "renter_id", ev.RenterID, "error", err)
		return
	}
	if err := n.emailSvc.SendRentalStartedNotification(ctx, lender.Email, renter.Name, fmt.Sprintf("asset %d", ev.AssetID)); err != nil {
		logger.Warn("Failed to send rental-started email", "asset_id", ev.AssetID, "error", err)
	}
}

func (n *notifier) RentalEnded(ctx context.Context, ev domain.RentalEnded) {
	kind := "RENTAL_RETURNED"
	if ev.ForceClosed {
		kind = "RENTAL_FORCE_CLOSED"
	}
	attrs := map[string]string{
		"type":     kind,
		"asset_id": fmt.Sprintf("%d", ev.AssetID),
	}
	n.create(ctx, ev.LenderID, "Rental Ended",
		fmt.Sprintf("Rental of asset %d settled; you received %d", ev.AssetID, ev.LenderAmountCents), attrs)
	n.create(ctx, ev.RenterID, "Rental Ended",
		fmt.Sprintf("Rental of asset %d settled", ev.AssetID), attrs)

	lender, lerr := n.accountRepo.GetByID(ctx, ev.LenderID)
	if lerr == nil {
		if err := n.emailSvc.SendRentalEndedNotification(ctx, lender.Email, "Lender", fmt.Sprintf("asset %d", ev.AssetID), ev.LenderAmountCents); err != nil {
			logger.Warn("Failed to send rental-ended email", "asset_id", ev.AssetID, "error", err)
		}
	}
	renter, rerr := n.accountRepo.GetByID(ctx, ev.RenterID)
	if rerr == nil {
		if err := n.emailSvc.SendRentalEndedNotification(ctx, renter.Email, "Renter", fmt.Sprintf("asset %d", ev.AssetID), 0); err != nil {
			logger.Warn("Failed to send rental-ended email", "asset_id", ev.AssetID, "error", err)
		}
	}
}

func (n *notifier) create(ctx context.Context, accountID int64, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		AccountID:  accountID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to persist notification", "account_id", accountID, "error", err)
	}
}
