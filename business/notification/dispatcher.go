package notification

import (
	"context"
	"fmt"

	"verifiedMarket/domain"
	"verifiedMarket/pkg/logger"

	"github.com/pkg/errors"
)

// EmailSender delivers one plain e-mail.
type EmailSender interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

// SellerRepository contract interface
type SellerRepository interface {
	FindUnnotified(ctx context.Context) ([]domain.SellerProfile, error)
	// MarkNotified sets notified only while is_verified still equals
	// isVerified, and reports whether a row was updated.
	MarkNotified(ctx context.Context, id uint, isVerified bool) (bool, error)
}

type Result struct {
	Sent    int
	Failed  int
	Skipped int
}

type dispatcher struct {
	sellerRepo SellerRepository
	sender     EmailSender
	appName    string
}

func NewDispatcher(sellerRepo SellerRepository, sender EmailSender, appName string) *dispatcher {
	return &dispatcher{
		sellerRepo: sellerRepo,
		sender:     sender,
		appName:    appName,
	}
}

// DispatchPending informs every not-yet-notified seller of their current
// verification state. A failed send leaves the seller for the next run.
func (d *dispatcher) DispatchPending(ctx context.Context) (Result, error) {
	var res Result

	sellers, err := d.sellerRepo.FindUnnotified(ctx)
	if err != nil {
		logger.Error("Failed to list unnotified sellers", "error", err)
		return res, errors.Wrap(err, "list unnotified sellers")
	}

	for _, seller := range sellers {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		subject, body := d.compose(seller)
		if err := d.sender.SendEmail(ctx, seller.OwnerName, seller.User.Email, subject, body); err != nil {
			res.Failed++
			NotificationsTotal.WithLabelValues("failed").Inc()
			logger.Warn("seller notification failed", "seller_id", seller.ID, "error", err)
			continue
		}

		updated, err := d.sellerRepo.MarkNotified(ctx, seller.ID, seller.IsVerified)
		if err != nil {
			logger.Error("Failed to mark seller notified", "seller_id", seller.ID, "error", err)
			return res, errors.Wrap(err, "mark notified")
		}
		if !updated {
			// state flipped while sending; the next run reports the new one
			res.Skipped++
			NotificationsTotal.WithLabelValues("stale").Inc()
			continue
		}

		res.Sent++
		NotificationsTotal.WithLabelValues("sent").Inc()
	}

	logger.Info("seller notifications dispatched", "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)

	return res, nil
}

func (d *dispatcher) compose(seller domain.SellerProfile) (string, string) {
	if seller.IsVerified {
		return fmt.Sprintf("%s: your seller account is verified", d.appName),
			fmt.Sprintf("Hello %s,\n\nYour business %q has been approved. You can now upload products.\n",
				seller.OwnerName, seller.BusinessName)
	}

	return fmt.Sprintf("%s: your seller account is pending verification", d.appName),
		fmt.Sprintf("Hello %s,\n\nYour business %q is not verified yet. An administrator will review it; you cannot upload products until it is approved.\n",
			seller.OwnerName, seller.BusinessName)
}
