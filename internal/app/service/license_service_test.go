package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/db"
	"github.com/nobarid/nobar-backend/pkg/orderid"
	"github.com/nobarid/nobar-backend/pkg/payment/midtrans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-test-key"

type fakeGateway struct {
	snapResp    *midtrans.SnapResponse
	snapErr     error
	statusResp  *midtrans.TransactionStatus
	statusErr   error
	cancelErr   error
	statusCalls int
	cancelled   []string
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (*midtrans.SnapResponse, error) {
	if g.snapErr != nil {
		return nil, g.snapErr
	}
	if g.snapResp != nil {
		return g.snapResp, nil
	}
	return &midtrans.SnapResponse{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token",
	}, nil
}

func (g *fakeGateway) Status(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error) {
	g.statusCalls++
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	resp := *g.statusResp
	resp.OrderID = orderID
	return &resp, nil
}

func (g *fakeGateway) Cancel(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error) {
	g.cancelled = append(g.cancelled, orderID)
	if g.cancelErr != nil {
		return nil, g.cancelErr
	}
	return &midtrans.TransactionStatus{OrderID: orderID, TransactionStatus: midtrans.StatusCancel}, nil
}

func settledStatus() *midtrans.TransactionStatus {
	return &midtrans.TransactionStatus{
		StatusCode:        "200",
		TransactionID:     "txn-001",
		GrossAmount:       "22405000.00",
		PaymentType:       "bank_transfer",
		TransactionTime:   "2026-06-14 20:01:02",
		TransactionStatus: midtrans.StatusSettlement,
		VANumbers:         []midtrans.VANumber{{Bank: "bca", VANumber: "990011223344"}},
	}
}

func setupLicenseServiceTest(t *testing.T) (LicenseService, *fakeGateway, *gorm.DB, *model.User, *model.Venue) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	licenseRepo := repository.NewLicenseRepository(testDB)
	venueRepo := repository.NewVenueRepository(testDB)
	activityRepo := repository.NewActivityRepository(testDB)
	activityService := NewActivityService(activityRepo)

	gateway := &fakeGateway{statusResp: settledStatus()}
	licenseService := NewLicenseService(licenseRepo, venueRepo, gateway, activityService, testServerKey)

	user := &model.User{
		Email:        "merchant@example.com",
		PasswordHash: "hash",
		Name:         "Merchant",
		Role:         model.RoleMerchant,
	}
	testDB.Create(user)

	venue := &model.Venue{
		Code:         "ABCD1234",
		UserID:       user.ID,
		BusinessName: "Warung Bola",
		OwnerName:    "Merchant",
		Email:        "merchant@example.com",
		Address:      "Jl. Nobar 1",
		Province:     "DKI Jakarta",
		City:         "Jakarta Selatan",
		Capacity:     3,
	}
	testDB.Create(venue)

	return licenseService, gateway, testDB, user, venue
}

func callerFor(user *model.User) Caller {
	return Caller{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func TestCreateOrder_Success(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)
	assert.Equal(t, "snap-token", result.Token)
	assert.Equal(t, int64(22_405_000), result.Price.Total)

	decoded, err := orderid.Decode(result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, venue.Code, decoded.VenueCode)
	assert.Equal(t, 3, decoded.Tier)

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
	assert.Equal(t, result.OrderID, license.OrderID)
	assert.Equal(t, int64(20_000_000), license.BasePrice)
	assert.Equal(t, int64(2_400_000), license.VAT)
	assert.Equal(t, int64(5_000), license.Fee)

	var count int64
	testDB.Model(&model.ActivityLog{}).Where("action = ?", model.ActionOrderCreated).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrder_AlreadyPaid(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	now := time.Now()
	testDB.Create(&model.License{
		VenueID:    venue.ID,
		Tier:       3,
		TotalPrice: 22_405_000,
		Status:     model.LicenseStatusPaid,
		PaidAt:     &now,
	})

	_, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	assert.ErrorIs(t, err, ErrLicenseAlreadyPaid)
}

func TestCreateOrder_AccessDenied(t *testing.T) {
	licenseService, _, testDB, _, venue := setupLicenseServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleMerchant}
	testDB.Create(other)

	_, err := licenseService.CreateOrder(context.Background(), callerFor(other), venue.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateOrder_GatewayDown(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)
	gateway.snapErr = fmt.Errorf("%w: connection refused", midtrans.ErrNetworkError)

	_, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestConfirmPayment_SettledIssuesLicense(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
	assert.Equal(t, 3, license.Tier)
	assert.Equal(t, int64(22_405_000), license.TotalPrice)
	assert.NotNil(t, license.PaidAt)
	assert.Equal(t, "txn-001", license.TransactionID)
	assert.Equal(t, "bank_transfer", license.PaymentType)
	assert.Equal(t, "bca", license.Bank)
	assert.Equal(t, "990011223344", license.VANumber)

	// Exactly one license row exists for the venue
	var count int64
	testDB.Model(&model.License{}).Where("venue_id = ?", venue.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConfirmPayment_IdempotentWhenAlreadyPaid(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	first, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)
	callsAfterFirst := gateway.statusCalls

	second, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalPrice, second.TotalPrice)
	// The second confirm short-circuits before reaching the gateway
	assert.Equal(t, callsAfterFirst, gateway.statusCalls)
}

func TestConfirmPayment_MalformedOrderID(t *testing.T) {
	licenseService, _, _, user, venue := setupLicenseServiceTest(t)

	for _, id := range []string{"garbage", "", "NOBAR-", "NOBAR-ABCD1234-x-123"} {
		_, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, id)
		assert.ErrorIs(t, err, ErrInvalidOrder, "order id %q", id)
	}
}

func TestConfirmPayment_OrderForDifferentVenue(t *testing.T) {
	licenseService, _, _, user, venue := setupLicenseServiceTest(t)

	foreign, err := orderid.Encode("ZZZZ9999", 3)
	require.NoError(t, err)

	_, err = licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, foreign)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestConfirmPayment_AccessDenied(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleMerchant}
	testDB.Create(other)

	_, err = licenseService.ConfirmPayment(context.Background(), callerFor(other), venue.ID, result.OrderID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestConfirmPayment_AdminBypassesOwnership(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	admin := &model.User{Email: "admin@example.com", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin}
	testDB.Create(admin)

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(admin), venue.ID, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
}

func TestConfirmPayment_PendingStillProceeds(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)
	gateway.statusResp = &midtrans.TransactionStatus{
		TransactionID:     "txn-002",
		TransactionStatus: midtrans.StatusPending,
		PaymentType:       "bank_transfer",
	}

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	// The finish-page callback can arrive before settlement; pending is
	// accepted rather than bouncing the customer.
	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
}

func TestConfirmPayment_TerminalFailureStatuses(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	for _, status := range []string{midtrans.StatusCancel, midtrans.StatusDeny, midtrans.StatusExpire} {
		gateway.statusResp = &midtrans.TransactionStatus{TransactionStatus: status}
		_, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
		assert.ErrorIs(t, err, ErrPaymentNotConfirmed, "status %s", status)

		// The gateway's verdict rides along for client display
		var notConfirmed *PaymentNotConfirmedError
		require.ErrorAs(t, err, &notConfirmed)
		assert.Equal(t, status, notConfirmed.Status)
	}
}

func TestConfirmPayment_FraudChallengeNotConfirmed(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)
	gateway.statusResp = &midtrans.TransactionStatus{
		TransactionStatus: midtrans.StatusCapture,
		FraudStatus:       "challenge",
	}

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	_, err = licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
}

func TestConfirmPayment_GatewayUnavailableIsRetryable(t *testing.T) {
	licenseService, gateway, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	gateway.statusErr = fmt.Errorf("%w: timeout", midtrans.ErrNetworkError)
	_, err = licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// A transport failure must not be recorded as a payment failure
	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
	assert.Equal(t, result.OrderID, license.OrderID)
}

func TestConfirmPayment_TierComesFromOrderID(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	// Capacity edited between ordering and settlement must not change
	// what was bought
	require.NoError(t, testDB.Model(&model.Venue{}).Where("id = ?", venue.ID).Update("capacity", 5).Error)

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 3, license.Tier)
	assert.Equal(t, int64(22_405_000), license.TotalPrice)
}

func TestConfirmPayment_CreatesPaidRowWhenNoneExists(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	// No prior order row locally: the gateway is still the source of truth
	id, err := orderid.Encode(venue.Code, 3)
	require.NoError(t, err)

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
	assert.Equal(t, int64(22_405_000), license.TotalPrice)

	var count int64
	testDB.Model(&model.License{}).Where("venue_id = ?", venue.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLicenseRepository_UniqueVenueConstraint(t *testing.T) {
	_, _, testDB, _, venue := setupLicenseServiceTest(t)

	licenseRepo := repository.NewLicenseRepository(testDB)
	require.NoError(t, licenseRepo.Create(&model.License{VenueID: venue.ID, Tier: 3, Status: model.LicenseStatusUnpaid}))

	err := licenseRepo.Create(&model.License{VenueID: venue.ID, Tier: 3, Status: model.LicenseStatusUnpaid})
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
}

// racingLicenseRepo runs a hook right before the first Create, so the caller
// under test reliably loses the insert race against a concurrent writer.
type racingLicenseRepo struct {
	repository.LicenseRepository
	beforeCreate func()
}

func (r *racingLicenseRepo) Create(license *model.License) error {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook()
	}
	return r.LicenseRepository.Create(license)
}

func setupRacingLicenseService(t *testing.T, testDB *gorm.DB, beforeCreate func()) LicenseService {
	racing := &racingLicenseRepo{
		LicenseRepository: repository.NewLicenseRepository(testDB),
		beforeCreate:      beforeCreate,
	}
	venueRepo := repository.NewVenueRepository(testDB)
	activityService := NewActivityService(repository.NewActivityRepository(testDB))
	gateway := &fakeGateway{statusResp: settledStatus()}
	return NewLicenseService(racing, venueRepo, gateway, activityService, testServerKey)
}

func TestConfirmPayment_LostInsertRaceReturnsPaidWinner(t *testing.T) {
	_, _, testDB, user, venue := setupLicenseServiceTest(t)

	id, err := orderid.Encode(venue.Code, 3)
	require.NoError(t, err)

	// A concurrent confirmation settles the venue between this call's
	// existence check and its insert
	now := time.Now()
	winner := &model.License{
		VenueID:    venue.ID,
		Tier:       3,
		TotalPrice: 22_405_000,
		Status:     model.LicenseStatusPaid,
		OrderID:    id,
		PaidAt:     &now,
	}
	licenseService := setupRacingLicenseService(t, testDB, func() {
		require.NoError(t, testDB.Create(winner).Error)
	})

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, id)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, license.ID)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)

	var count int64
	testDB.Model(&model.License{}).Where("venue_id = ?", venue.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// The winner already issued; the loser must not log a second confirmation
	var logged int64
	testDB.Model(&model.ActivityLog{}).Where("action = ?", model.ActionPaymentConfirmed).Count(&logged)
	assert.Equal(t, int64(0), logged)
}

func TestConfirmPayment_LostInsertRaceAdoptsUnpaidWinnerRow(t *testing.T) {
	_, _, testDB, user, venue := setupLicenseServiceTest(t)

	id, err := orderid.Encode(venue.Code, 3)
	require.NoError(t, err)

	// The competing writer only got as far as an unpaid order row
	winner := &model.License{
		VenueID: venue.ID,
		Tier:    3,
		Status:  model.LicenseStatusUnpaid,
		OrderID: id,
	}
	licenseService := setupRacingLicenseService(t, testDB, func() {
		require.NoError(t, testDB.Create(winner).Error)
	})

	license, err := licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, id)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, license.ID)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
	assert.Equal(t, int64(22_405_000), license.TotalPrice)

	var count int64
	testDB.Model(&model.License{}).Where("venue_id = ?", venue.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var logged int64
	testDB.Model(&model.ActivityLog{}).Where("action = ?", model.ActionPaymentConfirmed).Count(&logged)
	assert.Equal(t, int64(1), logged)
}

func TestCancelOrder_ClearsGatewayReference(t *testing.T) {
	licenseService, gateway, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	require.NoError(t, licenseService.CancelOrder(context.Background(), callerFor(user), venue.ID, result.OrderID))
	assert.Equal(t, []string{result.OrderID}, gateway.cancelled)

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
	assert.Empty(t, license.OrderID)
	assert.Empty(t, license.MidtransID)
}

func TestCancelOrder_GatewayErrorSwallowed(t *testing.T) {
	licenseService, gateway, testDB, user, venue := setupLicenseServiceTest(t)
	gateway.cancelErr = errors.New("transaction already expired")

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	// Advisory cleanup: a gateway rejection never surfaces as failure
	require.NoError(t, licenseService.CancelOrder(context.Background(), callerFor(user), venue.ID, result.OrderID))

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Empty(t, license.OrderID)
}

func TestCancelOrder_PaidLicenseRefused(t *testing.T) {
	licenseService, gateway, _, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)
	_, err = licenseService.ConfirmPayment(context.Background(), callerFor(user), venue.ID, result.OrderID)
	require.NoError(t, err)

	err = licenseService.CancelOrder(context.Background(), callerFor(user), venue.ID, result.OrderID)
	assert.ErrorIs(t, err, ErrLicenseAlreadyPaid)
	assert.Empty(t, gateway.cancelled)
}

func TestCancelOrder_OrderIDMismatch(t *testing.T) {
	licenseService, gateway, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	stale, err := orderid.Encode(venue.Code, 2)
	require.NoError(t, err)
	require.NotEqual(t, result.OrderID, stale)

	// Only the pending attempt itself may be cancelled
	err = licenseService.CancelOrder(context.Background(), callerFor(user), venue.ID, stale)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	assert.Empty(t, gateway.cancelled)

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, result.OrderID, license.OrderID)
}

func signedNotification(orderID, status, grossAmount string) *midtrans.NotificationPayload {
	payload := &midtrans.NotificationPayload{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       grossAmount,
		TransactionID:     "txn-hook",
		TransactionStatus: status,
		PaymentType:       "bank_transfer",
	}
	payload.SignatureKey = midtrans.Signature(payload.OrderID, payload.StatusCode, payload.GrossAmount, testServerKey)
	return payload
}

func TestHandleNotification_InvalidSignatureHasNoSideEffects(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	payload := signedNotification(result.OrderID, midtrans.StatusSettlement, "22405000.00")
	payload.SignatureKey = "forged"

	err = licenseService.HandleNotification(context.Background(), payload)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
}

func TestHandleNotification_SettlementIssuesLicense(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	payload := signedNotification(result.OrderID, midtrans.StatusSettlement, "22405000.00")
	require.NoError(t, licenseService.HandleNotification(context.Background(), payload))

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusPaid, license.Status)
	assert.Equal(t, "txn-hook", license.TransactionID)
	assert.NotNil(t, license.PaidAt)
}

func TestHandleNotification_MalformedOrderID(t *testing.T) {
	licenseService, _, _, _, _ := setupLicenseServiceTest(t)

	payload := signedNotification("not-an-order-id", midtrans.StatusSettlement, "22405000.00")
	err := licenseService.HandleNotification(context.Background(), payload)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestHandleNotification_UnknownVenue(t *testing.T) {
	licenseService, _, _, _, _ := setupLicenseServiceTest(t)

	id, err := orderid.Encode("NOSUCH99", 2)
	require.NoError(t, err)

	payload := signedNotification(id, midtrans.StatusSettlement, "11205000.00")
	err = licenseService.HandleNotification(context.Background(), payload)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestHandleNotification_PendingIsNoOp(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	payload := signedNotification(result.OrderID, midtrans.StatusPending, "22405000.00")
	require.NoError(t, licenseService.HandleNotification(context.Background(), payload))

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
	assert.Equal(t, result.OrderID, license.OrderID)
}

func TestHandleNotification_ExpiryClearsReference(t *testing.T) {
	licenseService, _, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	payload := signedNotification(result.OrderID, midtrans.StatusExpire, "22405000.00")
	require.NoError(t, licenseService.HandleNotification(context.Background(), payload))

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Equal(t, model.LicenseStatusUnpaid, license.Status)
	assert.Empty(t, license.OrderID)
}

func TestHandleNotification_AlreadyPaidIgnoresRetries(t *testing.T) {
	licenseService, _, _, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	payload := signedNotification(result.OrderID, midtrans.StatusSettlement, "22405000.00")
	require.NoError(t, licenseService.HandleNotification(context.Background(), payload))

	// Gateways redeliver; the second delivery must be a quiet no-op
	require.NoError(t, licenseService.HandleNotification(context.Background(), payload))
}

func TestSweepStaleOrders(t *testing.T) {
	licenseService, gateway, testDB, user, venue := setupLicenseServiceTest(t)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, testDB.Model(&model.License{}).
		Where("venue_id = ?", venue.ID).
		Update("created_at", old).Error)

	swept, err := licenseService.SweepStaleOrders(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, []string{result.OrderID}, gateway.cancelled)

	var license model.License
	require.NoError(t, testDB.Where("venue_id = ?", venue.ID).First(&license).Error)
	assert.Empty(t, license.OrderID)
}

func TestGetLicense(t *testing.T) {
	licenseService, _, _, user, venue := setupLicenseServiceTest(t)

	_, err := licenseService.GetLicense(callerFor(user), venue.ID)
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	result, err := licenseService.CreateOrder(context.Background(), callerFor(user), venue.ID)
	require.NoError(t, err)

	license, err := licenseService.GetLicense(callerFor(user), venue.ID)
	require.NoError(t, err)
	assert.Equal(t, result.OrderID, license.OrderID)
}
