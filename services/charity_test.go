package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

func donationColumns() []string {
	return []string{"id", "campaign_id", "donor_id", "amount", "currency",
		"donation_policy", "is_recurring", "is_anonymous", "message", "tx_hash",
		"status", "created_at"}
}

func pendingDonation(key string) *models.Donation {
	return &models.Donation{
		ID:             "d-1",
		Amount:         decimal.NewFromInt(25),
		Currency:       "EUR",
		Policy:         models.PolicyAlwaysDonate,
		Status:         models.DonationStatusPending,
		IdempotencyKey: key,
		CreatedAt:      time.Now(),
	}
}

func TestCharityService_InsertDonation_UniqueViolationFallsBackToKeyLookup(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()
	svc := NewCharityService(db, nil)

	mock.ExpectQuery("FROM campaign_donations").
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows(donationColumns()))
	mock.ExpectExec("INSERT INTO campaign_donations").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery("FROM campaign_donations").
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows(donationColumns()).
			AddRow("d-0", nil, nil, "25", "EUR", models.PolicyAlwaysDonate,
				false, false, "", nil, models.DonationStatusConfirmed, time.Now()))

	stored, err := svc.InsertDonation(context.Background(), pendingDonation("key-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != "d-0" {
		t.Errorf("expected the earlier submission back, got %s", stored.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCharityService_InsertDonation_UniqueViolationWithoutKeySurfaces(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()
	svc := NewCharityService(db, nil)

	mock.ExpectExec("INSERT INTO campaign_donations").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = svc.InsertDonation(context.Background(), pendingDonation(""))
	if err == nil {
		t.Fatal("expected the constraint violation to surface")
	}
	if err == ErrNotFound {
		t.Fatal("id collision masked as ErrNotFound")
	}
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code.Name() != "unique_violation" {
		t.Errorf("expected the pq unique violation back, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
