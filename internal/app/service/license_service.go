package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"github.com/nobarid/nobar-backend/pkg/orderid"
	"github.com/nobarid/nobar-backend/pkg/payment/midtrans"
	"gorm.io/gorm"
)

var (
	ErrVenueNotFound       = errors.New("venue not found")
	ErrLicenseNotFound     = errors.New("license not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidOrder        = errors.New("invalid order id")
	ErrLicenseAlreadyPaid  = errors.New("license already paid")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrSignatureInvalid    = errors.New("invalid notification signature")
)

// PaymentNotConfirmedError reports that the gateway does not consider the
// order settled. Status carries the observed gateway transaction status, when
// the gateway reported one, so clients can display it.
type PaymentNotConfirmedError struct {
	Status string
}

func (e *PaymentNotConfirmedError) Error() string {
	if e.Status == "" {
		return ErrPaymentNotConfirmed.Error()
	}
	return fmt.Sprintf("%s: transaction %s", ErrPaymentNotConfirmed, e.Status)
}

func (e *PaymentNotConfirmedError) Unwrap() error { return ErrPaymentNotConfirmed }

// Caller is the authenticated identity an operation runs as. It is passed in
// explicitly by the HTTP layer rather than read from ambient state, so the
// webhook path can run without one.
type Caller struct {
	UserID uint
	Email  string
	Role   model.UserRole
}

// Trusted reports whether the caller may act on venues it does not own.
func (c Caller) Trusted() bool {
	return c.Role == model.RoleAdmin
}

// Gateway is the slice of the payment provider the reconciler needs. The
// production implementation is *midtrans.Client; tests inject a fake.
type Gateway interface {
	CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (*midtrans.SnapResponse, error)
	Status(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error)
	Cancel(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error)
}

// OrderResult is what a merchant needs to complete payment on the gateway.
type OrderResult struct {
	OrderID     string         `json:"order_id"`
	Token       string         `json:"token"`
	RedirectURL string         `json:"redirect_url"`
	Price       *Price         `json:"price"`
	License     *model.License `json:"license"`
}

type LicenseService interface {
	CreateOrder(ctx context.Context, caller Caller, venueID uint) (*OrderResult, error)
	ConfirmPayment(ctx context.Context, caller Caller, venueID uint, orderID string) (*model.License, error)
	CancelOrder(ctx context.Context, caller Caller, venueID uint, orderID string) error
	HandleNotification(ctx context.Context, payload *midtrans.NotificationPayload) error
	GetLicense(caller Caller, venueID uint) (*model.License, error)
	SweepStaleOrders(ctx context.Context, olderThan time.Duration) (int, error)
}

type licenseService struct {
	licenseRepo repository.LicenseRepository
	venueRepo   repository.VenueRepository
	gateway     Gateway
	activity    ActivityService
	serverKey   string
}

func NewLicenseService(
	licenseRepo repository.LicenseRepository,
	venueRepo repository.VenueRepository,
	gateway Gateway,
	activity ActivityService,
	serverKey string,
) LicenseService {
	return &licenseService{
		licenseRepo: licenseRepo,
		venueRepo:   venueRepo,
		gateway:     gateway,
		activity:    activity,
		serverKey:   serverKey,
	}
}

// CreateOrder prices the venue's tier, registers a Snap transaction with the
// gateway, and records the unpaid license row carrying the gateway reference.
func (s *licenseService) CreateOrder(ctx context.Context, caller Caller, venueID uint) (*OrderResult, error) {
	venue, err := s.loadVenue(venueID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, venue); err != nil {
		return nil, err
	}

	existing, err := s.licenseRepo.FindByVenueID(venueID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Paid() {
		return nil, ErrLicenseAlreadyPaid
	}

	price, err := ComputePrice(venue.Capacity)
	if err != nil {
		return nil, err
	}

	orderID, err := orderid.Encode(venue.Code, venue.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	snapResp, err := s.gateway.CreateTransaction(ctx, midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderID,
			GrossAmount: price.Total,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FirstName: venue.OwnerName,
			Email:     venue.Email,
			Phone:     venue.Phone,
		},
		ItemDetails: []midtrans.ItemDetail{
			{
				ID:       fmt.Sprintf("LICENSE-TIER-%d", venue.Capacity),
				Price:    price.Total,
				Quantity: 1,
				Name:     fmt.Sprintf("Nobar broadcast license tier %d - %s", venue.Capacity, venue.BusinessName),
			},
		},
	})
	if err != nil {
		if errors.Is(err, midtrans.ErrNetworkError) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	license := existing
	if license == nil {
		license = &model.License{VenueID: venue.ID}
	}
	license.Tier = venue.Capacity
	license.BasePrice = price.Base
	license.VAT = price.VAT
	license.Fee = price.Fee
	license.TotalPrice = price.Total
	license.Status = model.LicenseStatusUnpaid
	license.OrderID = orderID
	license.MidtransID = snapResp.Token

	if license.ID == 0 {
		err = s.licenseRepo.Create(license)
		if err != nil && apperrors.IsUniqueViolation(err) {
			// Lost the insert race; reconcile against the winner's row.
			winner, readErr := s.licenseRepo.FindByVenueID(venue.ID)
			if readErr != nil {
				return nil, readErr
			}
			if winner.Paid() {
				return nil, ErrLicenseAlreadyPaid
			}
			license.ID = winner.ID
			license.CreatedAt = winner.CreatedAt
			err = s.licenseRepo.Update(license)
		}
	} else {
		err = s.licenseRepo.Update(license)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Payment order created", map[string]interface{}{
		"venue_id": venue.ID,
		"order_id": orderID,
		"tier":     venue.Capacity,
		"total":    price.Total,
	})

	s.activity.Record(caller.Email, model.ActionOrderCreated,
		fmt.Sprintf("Created payment order for %s (tier %d)", venue.BusinessName, venue.Capacity),
		map[string]interface{}{
			"venue_id": venue.ID,
			"order_id": orderID,
			"total":    price.Total,
		})

	return &OrderResult{
		OrderID:     orderID,
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
		Price:       price,
		License:     license,
	}, nil
}

// ConfirmPayment reconciles the local license state with the gateway's view
// of the order. It is idempotent: confirming an already paid venue returns
// the existing license unchanged, and a lost insert race is recovered by
// re-reading the winner's row.
func (s *licenseService) ConfirmPayment(ctx context.Context, caller Caller, venueID uint, orderID string) (*model.License, error) {
	decoded, err := orderid.Decode(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	venue, err := s.loadVenue(venueID)
	if err != nil {
		return nil, err
	}
	if decoded.VenueCode != venue.Code {
		return nil, fmt.Errorf("%w: order does not belong to venue", ErrInvalidOrder)
	}
	if err := s.authorize(caller, venue); err != nil {
		return nil, err
	}

	existing, err := s.licenseRepo.FindByVenueID(venueID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Paid() {
		return existing, nil
	}

	status, err := s.gateway.Status(ctx, orderID)
	if err != nil {
		if errors.Is(err, midtrans.ErrNetworkError) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		if errors.Is(err, midtrans.ErrTransactionNotFound) {
			return nil, &PaymentNotConfirmedError{}
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if status.Failed() {
		return nil, &PaymentNotConfirmedError{Status: status.TransactionStatus}
	}
	// A pending status still proceeds: the merchant's finish-page callback
	// routinely races the gateway's own settlement webhook.
	if !status.Settled() && status.TransactionStatus != midtrans.StatusPending {
		return nil, &PaymentNotConfirmedError{Status: status.TransactionStatus}
	}

	license, issued, err := s.issueLicense(venue, existing, decoded.Tier, orderID, status)
	if err != nil {
		return nil, err
	}

	if issued {
		s.activity.Record(caller.Email, model.ActionPaymentConfirmed,
			fmt.Sprintf("Payment confirmed for %s (tier %d)", venue.BusinessName, license.Tier),
			map[string]interface{}{
				"venue_id": venue.ID,
				"order_id": orderID,
				"total":    license.TotalPrice,
			})
	}

	return license, nil
}

// issueLicense flips the venue's license to paid, pricing it from the tier
// embedded in the order id rather than the venue's current capacity, so a
// capacity edit between ordering and settlement cannot change what was bought.
// The unique index on venue_id arbitrates concurrent issuance: the loser of
// the insert race re-reads and returns the winner's row. The second return
// reports whether this call performed the issuance, so callers only record
// activity for the writer that won.
func (s *licenseService) issueLicense(venue *model.Venue, existing *model.License, tier int, orderID string, status *midtrans.TransactionStatus) (*model.License, bool, error) {
	price, err := ComputePrice(tier)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	now := time.Now()
	license := existing
	if license == nil {
		license = &model.License{VenueID: venue.ID}
	}
	license.Tier = tier
	license.BasePrice = price.Base
	license.VAT = price.VAT
	license.Fee = price.Fee
	license.TotalPrice = price.Total
	license.Status = model.LicenseStatusPaid
	license.OrderID = orderID
	license.PaidAt = &now
	applyGatewayMetadata(license, status)

	if license.ID == 0 {
		err = s.licenseRepo.Create(license)
		if err != nil && apperrors.IsUniqueViolation(err) {
			winner, readErr := s.licenseRepo.FindByVenueID(venue.ID)
			if readErr != nil {
				return nil, false, readErr
			}
			if winner.Paid() {
				logger.Debug("Concurrent confirmation already issued license", map[string]interface{}{
					"venue_id": venue.ID,
					"order_id": orderID,
				})
				return winner, false, nil
			}
			license.ID = winner.ID
			license.CreatedAt = winner.CreatedAt
			err = s.licenseRepo.Update(license)
		}
	} else {
		err = s.licenseRepo.Update(license)
	}
	if err != nil {
		return nil, false, err
	}

	logger.Info("License issued", map[string]interface{}{
		"venue_id": venue.ID,
		"order_id": orderID,
		"tier":     tier,
		"total":    price.Total,
	})
	return license, true, nil
}

func applyGatewayMetadata(license *model.License, status *midtrans.TransactionStatus) {
	license.TransactionID = status.TransactionID
	license.PaymentType = status.PaymentType
	license.TransactionStatus = status.TransactionStatus
	license.TransactionTime = status.TransactionTime
	license.Bank, license.VANumber = status.FirstVANumber()
	license.CardType = status.CardType
	license.MaskedCard = status.MaskedCard
}

// CancelOrder abandons a pending payment attempt. The supplied order id must
// match the attempt the row holds. The gateway cancel is advisory cleanup: an
// already expired or settled transaction at the gateway is not a failure here.
// A paid license is never cancelled.
func (s *licenseService) CancelOrder(ctx context.Context, caller Caller, venueID uint, orderID string) error {
	venue, err := s.loadVenue(venueID)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, venue); err != nil {
		return err
	}

	license, err := s.licenseRepo.FindByVenueID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to cancel
		}
		return err
	}
	if license.Paid() {
		return ErrLicenseAlreadyPaid
	}
	if license.OrderID != "" && orderID != license.OrderID {
		return fmt.Errorf("%w: order does not match the pending payment attempt", ErrInvalidOrder)
	}

	if license.OrderID != "" {
		if _, err := s.gateway.Cancel(ctx, license.OrderID); err != nil {
			logger.Warn("Advisory gateway cancel failed", map[string]interface{}{
				"venue_id": venueID,
				"order_id": license.OrderID,
				"error":    err.Error(),
			})
		}
	}

	orderID = license.OrderID
	clearGatewayReference(license)
	if err := s.licenseRepo.Update(license); err != nil {
		return err
	}

	s.activity.Record(caller.Email, model.ActionOrderCancelled,
		fmt.Sprintf("Cancelled payment order for %s", venue.BusinessName),
		map[string]interface{}{
			"venue_id": venue.ID,
			"order_id": orderID,
		})
	return nil
}

// clearGatewayReference resets the unpaid row so a fresh payment attempt can
// start with a new order id.
func clearGatewayReference(license *model.License) {
	license.OrderID = ""
	license.MidtransID = ""
	license.TransactionID = ""
	license.PaymentType = ""
	license.TransactionStatus = ""
	license.TransactionTime = ""
	license.Bank = ""
	license.VANumber = ""
	license.CardType = ""
	license.MaskedCard = ""
}

// HandleNotification processes a gateway webhook. Nothing in the payload is
// trusted before the signature verifies, and verification failure has no side
// effects. The HTTP layer acknowledges the gateway regardless of the outcome;
// errors returned here are for logging only.
func (s *licenseService) HandleNotification(ctx context.Context, payload *midtrans.NotificationPayload) error {
	if !payload.Verify(s.serverKey) {
		return fmt.Errorf("%w: order %s", ErrSignatureInvalid, payload.OrderID)
	}

	decoded, err := orderid.Decode(payload.OrderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	venue, err := s.venueRepo.FindByCode(decoded.VenueCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: code %s", ErrVenueNotFound, decoded.VenueCode)
		}
		return err
	}

	existing, err := s.licenseRepo.FindByVenueID(venue.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.Paid() {
		return nil // settled earlier, nothing to reconcile
	}

	status := payload.AsStatus()
	switch {
	case status.Settled():
		license, issued, err := s.issueLicense(venue, existing, decoded.Tier, payload.OrderID, status)
		if err != nil {
			return err
		}
		if issued {
			s.activity.Record(venue.Email, model.ActionPaymentConfirmed,
				fmt.Sprintf("Payment settled for %s (tier %d)", venue.BusinessName, license.Tier),
				map[string]interface{}{
					"venue_id": venue.ID,
					"order_id": payload.OrderID,
					"total":    license.TotalPrice,
				})
		}
		return nil

	case status.Failed():
		if existing != nil && existing.OrderID == payload.OrderID {
			clearGatewayReference(existing)
			if err := s.licenseRepo.Update(existing); err != nil {
				return err
			}
		}
		logger.Info("Payment notification reported terminal failure", map[string]interface{}{
			"order_id": payload.OrderID,
			"status":   payload.TransactionStatus,
		})
		return nil

	default:
		logger.Debug("Ignoring non-final payment notification", map[string]interface{}{
			"order_id": payload.OrderID,
			"status":   payload.TransactionStatus,
		})
		return nil
	}
}

func (s *licenseService) GetLicense(caller Caller, venueID uint) (*model.License, error) {
	venue, err := s.loadVenue(venueID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, venue); err != nil {
		return nil, err
	}

	license, err := s.licenseRepo.FindByVenueID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLicenseNotFound
		}
		return nil, err
	}
	return license, nil
}

// SweepStaleOrders cancels unpaid orders older than the given age. It backs
// the scheduled cleanup job; per-row failures are logged and skipped so one
// bad row cannot stall the sweep.
func (s *licenseService) SweepStaleOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	stale, err := s.licenseRepo.FindStaleUnpaid(cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		license := &stale[i]
		if license.OrderID == "" {
			continue
		}
		if _, err := s.gateway.Cancel(ctx, license.OrderID); err != nil {
			logger.Warn("Advisory gateway cancel failed during sweep", map[string]interface{}{
				"venue_id": license.VenueID,
				"order_id": license.OrderID,
				"error":    err.Error(),
			})
		}
		orderID := license.OrderID
		clearGatewayReference(license)
		if err := s.licenseRepo.Update(license); err != nil {
			logger.Error("Failed to clear stale order", err, map[string]interface{}{
				"venue_id": license.VenueID,
				"order_id": orderID,
			})
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.Info("Stale payment orders swept", map[string]interface{}{
			"count": swept,
		})
	}
	return swept, nil
}

func (s *licenseService) loadVenue(venueID uint) (*model.Venue, error) {
	venue, err := s.venueRepo.FindByID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (s *licenseService) authorize(caller Caller, venue *model.Venue) error {
	if caller.Trusted() {
		return nil
	}
	if venue.UserID != caller.UserID {
		return ErrAccessDenied
	}
	return nil
}
