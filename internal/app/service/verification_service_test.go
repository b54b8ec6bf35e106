package service

import (
	"testing"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVerificationServiceTest(t *testing.T) (VerificationService, *gorm.DB, *model.User, *model.User, *model.Venue) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	verificationRepo := repository.NewVerificationRepository(testDB)
	venueRepo := repository.NewVenueRepository(testDB)
	activityRepo := repository.NewActivityRepository(testDB)
	verificationService := NewVerificationService(verificationRepo, venueRepo, NewActivityService(activityRepo))

	surveyor := &model.User{Email: "surveyor@example.com", PasswordHash: "hash", Name: "Surveyor", Role: model.RoleSurveyor}
	testDB.Create(surveyor)
	admin := &model.User{Email: "admin@example.com", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin}
	testDB.Create(admin)

	merchant := &model.User{Email: "merchant@example.com", PasswordHash: "hash", Name: "Merchant", Role: model.RoleMerchant}
	testDB.Create(merchant)
	venue := &model.Venue{
		Code:         "ABCD1234",
		UserID:       merchant.ID,
		BusinessName: "Warung Bola",
		OwnerName:    "Merchant",
		Email:        "merchant@example.com",
		Capacity:     2,
	}
	testDB.Create(venue)

	return verificationService, testDB, surveyor, admin, venue
}

func TestRecordVisit_CreatesPendingVerification(t *testing.T) {
	verificationService, _, surveyor, _, venue := setupVerificationServiceTest(t)

	verification, err := verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{
		PhotoURL: "https://bucket.example/verifications/abc.jpg",
		Notes:    "Capacity matches tier",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, verification.Status)
	assert.Equal(t, surveyor.ID, verification.SurveyorID)
	assert.NotNil(t, verification.VisitedAt)
}

func TestRecordVisit_VenueNotFound(t *testing.T) {
	verificationService, _, surveyor, _, _ := setupVerificationServiceTest(t)

	_, err := verificationService.RecordVisit(callerFor(surveyor), 9999, VisitInput{PhotoURL: "x"})
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestReview_ApproveAndReject(t *testing.T) {
	verificationService, _, surveyor, admin, venue := setupVerificationServiceTest(t)

	_, err := verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "x"})
	require.NoError(t, err)

	verification, err := verificationService.Review(callerFor(admin), venue.ID, ReviewInput{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, verification.Status)
	assert.Equal(t, &admin.ID, verification.ReviewedBy)
	assert.NotNil(t, verification.ReviewedAt)

	// Reviews are final
	_, err = verificationService.Review(callerFor(admin), venue.ID, ReviewInput{Approve: false})
	assert.ErrorIs(t, err, ErrVerificationAlreadyReviewed)
}

func TestReview_RejectionReopensForVisit(t *testing.T) {
	verificationService, _, surveyor, admin, venue := setupVerificationServiceTest(t)

	_, err := verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "x"})
	require.NoError(t, err)

	verification, err := verificationService.Review(callerFor(admin), venue.ID, ReviewInput{
		Approve:         false,
		RejectionReason: "photo does not show the venue",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusRejected, verification.Status)
	assert.Equal(t, "photo does not show the venue", verification.RejectionReason)

	// A fresh visit replaces the rejected report and resets the review
	verification, err = verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "y"})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, verification.Status)
	assert.Nil(t, verification.ReviewedBy)
	assert.Empty(t, verification.RejectionReason)
}

func TestRecordVisit_ApprovedVenueRefused(t *testing.T) {
	verificationService, _, surveyor, admin, venue := setupVerificationServiceTest(t)

	_, err := verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "x"})
	require.NoError(t, err)
	_, err = verificationService.Review(callerFor(admin), venue.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	_, err = verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "z"})
	assert.ErrorIs(t, err, ErrVerificationExists)
}

func TestQueue_OmitsApprovedVenues(t *testing.T) {
	verificationService, testDB, surveyor, admin, venue := setupVerificationServiceTest(t)

	second := &model.Venue{
		Code:         "EFGH5678",
		UserID:       venue.UserID,
		BusinessName: "Kafe Tendangan",
		OwnerName:    "Merchant",
		Email:        "merchant@example.com",
		Capacity:     1,
	}
	testDB.Create(second)

	queue, err := verificationService.Queue()
	require.NoError(t, err)
	assert.Len(t, queue, 2)

	_, err = verificationService.RecordVisit(callerFor(surveyor), venue.ID, VisitInput{PhotoURL: "x"})
	require.NoError(t, err)
	_, err = verificationService.Review(callerFor(admin), venue.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	queue, err = verificationService.Queue()
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, second.ID, queue[0].ID)
}
