package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockDonationStore struct {
	insertFunc          func(ctx context.Context, d *models.Donation) (*models.Donation, error)
	confirmFunc         func(ctx context.Context, donationID, txHash string) error
	markFailedFunc      func(ctx context.Context, donationID string) error
	listPendingFunc     func(ctx context.Context, olderThan time.Time, limit int) ([]models.Donation, error)
	createRecurringFunc func(ctx context.Context, r *models.RecurringDonation) error
}

func (m *mockDonationStore) InsertDonation(ctx context.Context, d *models.Donation) (*models.Donation, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, d)
	}
	return d, nil
}
func (m *mockDonationStore) ConfirmDonation(ctx context.Context, donationID, txHash string) error {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, donationID, txHash)
	}
	return nil
}
func (m *mockDonationStore) MarkDonationFailed(ctx context.Context, donationID string) error {
	if m.markFailedFunc != nil {
		return m.markFailedFunc(ctx, donationID)
	}
	return nil
}
func (m *mockDonationStore) ListPendingDonations(ctx context.Context, olderThan time.Time, limit int) ([]models.Donation, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx, olderThan, limit)
	}
	return nil, nil
}
func (m *mockDonationStore) CreateRecurringSchedule(ctx context.Context, r *models.RecurringDonation) error {
	if m.createRecurringFunc != nil {
		return m.createRecurringFunc(ctx, r)
	}
	return nil
}

type mockRecorder struct {
	recordFunc func(ctx context.Context, d ChainDonation) (*ChainReceipt, error)
}

func (m *mockRecorder) RecordDonation(ctx context.Context, d ChainDonation) (*ChainReceipt, error) {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, d)
	}
	return &ChainReceipt{DonationID: "chain-1", TxHash: "0xabc"}, nil
}

func paymentFlow(t *testing.T, amount string) *DonationFlow {
	t.Helper()
	flow := NewDonationFlow()
	flow.ConsentGiven = true
	if err := flow.SetAmount(amount); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return flow
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestDonationService_Submit_ConfirmsOnChainSuccess(t *testing.T) {
	var inserted *models.Donation
	var insertedStatus string
	var confirmedID, confirmedHash string

	store := &mockDonationStore{
		insertFunc: func(_ context.Context, d *models.Donation) (*models.Donation, error) {
			inserted = d
			// Submit flips the struct to confirmed after the gateway call,
			// so the status has to be captured at insert time.
			insertedStatus = d.Status
			return d, nil
		},
		confirmFunc: func(_ context.Context, donationID, txHash string) error {
			confirmedID = donationID
			confirmedHash = txHash
			return nil
		},
	}
	svc := NewDonationService(store, &mockRecorder{})

	flow := paymentFlow(t, "50")
	result, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil || insertedStatus != models.DonationStatusPending {
		t.Error("donation should be inserted as pending before recording")
	}
	if inserted.Status != models.DonationStatusConfirmed {
		t.Errorf("donation status after confirmation = %s", inserted.Status)
	}
	if confirmedID != inserted.ID || confirmedHash != "0xabc" {
		t.Errorf("confirmed (%s, %s), expected (%s, 0xabc)", confirmedID, confirmedHash, inserted.ID)
	}
	if result.TxHash != "0xabc" {
		t.Errorf("result tx hash = %q", result.TxHash)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("flow step = %s, expected confirmation", flow.Step())
	}
	if !result.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("result amount = %s", result.Amount)
	}
}

func TestDonationService_Submit_PolicyRoundTrip(t *testing.T) {
	var inserted *models.Donation
	store := &mockDonationStore{
		insertFunc: func(_ context.Context, d *models.Donation) (*models.Donation, error) {
			inserted = d
			return d, nil
		},
	}
	svc := NewDonationService(store, &mockRecorder{})

	flow := NewDonationFlow()
	flow.ConsentGiven = true
	flow.Policy = models.PolicyCampaignSpecific
	if err := flow.SetAmount("25"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted.Policy != models.PolicyCampaignSpecific {
		t.Errorf("persisted policy %q, expected the literal %q", inserted.Policy, models.PolicyCampaignSpecific)
	}
	if result.Policy != models.PolicyCampaignSpecific {
		t.Errorf("reported policy %q, expected %q", result.Policy, models.PolicyCampaignSpecific)
	}
}

func TestDonationService_Submit_GatewayFailureLeavesPending(t *testing.T) {
	confirmCalled := false
	store := &mockDonationStore{
		confirmFunc: func(_ context.Context, _, _ string) error {
			confirmCalled = true
			return nil
		},
	}
	recorder := &mockRecorder{
		recordFunc: func(_ context.Context, _ ChainDonation) (*ChainReceipt, error) {
			return nil, &RemoteError{Op: "blockchain record", Status: 503, Message: "unavailable"}
		},
	}
	svc := NewDonationService(store, recorder)

	flow := paymentFlow(t, "40")
	result, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", "")
	if err != nil {
		t.Fatalf("gateway failure must not fail the submission: %v", err)
	}

	if confirmCalled {
		t.Error("donation confirmed despite gateway failure")
	}
	if result.Donation.Status != models.DonationStatusPending {
		t.Errorf("status = %s, expected pending for reconciliation", result.Donation.Status)
	}
	if result.TxHash != PendingTxHash {
		t.Errorf("tx hash = %q, expected the pending sentinel", result.TxHash)
	}
}

func TestDonationService_Submit_IdempotentReplay(t *testing.T) {
	existing := &models.Donation{
		ID:     "original",
		Amount: decimal.NewFromInt(60),
		Policy: models.PolicyAlwaysDonate,
		Status: models.DonationStatusConfirmed,
	}
	recorded := 0
	store := &mockDonationStore{
		insertFunc: func(_ context.Context, _ *models.Donation) (*models.Donation, error) {
			return existing, nil
		},
	}
	recorder := &mockRecorder{
		recordFunc: func(_ context.Context, _ ChainDonation) (*ChainReceipt, error) {
			recorded++
			return &ChainReceipt{TxHash: "0xabc"}, nil
		},
	}
	svc := NewDonationService(store, recorder)

	flow := paymentFlow(t, "60")
	result, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorded != 0 {
		t.Error("replayed submission must not hit the gateway again")
	}
	if result.Donation.ID != "original" {
		t.Errorf("expected the original donation back, got %s", result.Donation.ID)
	}
}

func TestDonationService_Submit_AnonymousHidesDonor(t *testing.T) {
	var inserted *models.Donation
	var chainDonor string
	store := &mockDonationStore{
		insertFunc: func(_ context.Context, d *models.Donation) (*models.Donation, error) {
			inserted = d
			return d, nil
		},
	}
	recorder := &mockRecorder{
		recordFunc: func(_ context.Context, d ChainDonation) (*ChainReceipt, error) {
			chainDonor = d.DonorID
			return &ChainReceipt{TxHash: "0xabc"}, nil
		},
	}
	svc := NewDonationService(store, recorder)

	flow := paymentFlow(t, "30")
	flow.IsAnonymous = true
	if _, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted.DonorID != nil {
		t.Error("anonymous donation stored with a donor reference")
	}
	if chainDonor != "anonymous" {
		t.Errorf("gateway saw donor %q, expected anonymous", chainDonor)
	}
}

func TestDonationService_Submit_RecurringCreatesSchedule(t *testing.T) {
	var schedule *models.RecurringDonation
	store := &mockDonationStore{
		createRecurringFunc: func(_ context.Context, r *models.RecurringDonation) error {
			schedule = r
			return nil
		},
	}
	svc := NewDonationService(store, &mockRecorder{})

	flow := paymentFlow(t, "15")
	flow.IsRecurring = true
	if _, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if schedule == nil {
		t.Fatal("expected a recurring schedule")
	}
	if schedule.DonorID != "donor-1" || !schedule.Amount.Equal(decimal.NewFromInt(15)) {
		t.Errorf("schedule donor=%s amount=%s", schedule.DonorID, schedule.Amount)
	}
	if !schedule.Active {
		t.Error("schedule should start active")
	}
}

func TestDonationService_Submit_RequiresPaymentStep(t *testing.T) {
	svc := NewDonationService(&mockDonationStore{}, &mockRecorder{})
	flow := NewDonationFlow()

	_, err := svc.Submit(context.Background(), flow, "donor-1", "charity-1", "")
	if err == nil {
		t.Fatal("expected error submitting from the amount step")
	}
	if !IsValidation(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

// ---------------------------------------------------------------------------
// Reconciler
// ---------------------------------------------------------------------------

func TestReconciler_Sweep_ConfirmsPending(t *testing.T) {
	donorID := "donor-1"
	campaignID := "camp-1"
	pending := models.Donation{
		ID:         "d1",
		DonorID:    &donorID,
		CampaignID: &campaignID,
		Amount:     decimal.NewFromInt(20),
		Currency:   "EUR",
		Policy:     models.PolicyAlwaysDonate,
		Status:     models.DonationStatusPending,
		CreatedAt:  time.Now().Add(-time.Hour),
	}

	var confirmedHash string
	store := &mockDonationStore{
		listPendingFunc: func(_ context.Context, _ time.Time, _ int) ([]models.Donation, error) {
			return []models.Donation{pending}, nil
		},
		confirmFunc: func(_ context.Context, donationID, txHash string) error {
			if donationID != "d1" {
				t.Errorf("confirmed wrong donation %s", donationID)
			}
			confirmedHash = txHash
			return nil
		},
	}
	recorder := &mockRecorder{
		recordFunc: func(_ context.Context, d ChainDonation) (*ChainReceipt, error) {
			if d.RecipientID != campaignID {
				t.Errorf("recipient = %s, expected campaign id", d.RecipientID)
			}
			return &ChainReceipt{TxHash: "0xretry"}, nil
		},
	}

	NewReconciler(store, recorder).Sweep(context.Background())

	if confirmedHash != "0xretry" {
		t.Errorf("confirmed hash = %q", confirmedHash)
	}
}

func TestReconciler_Sweep_GivesUpOnOldDonations(t *testing.T) {
	old := models.Donation{
		ID:        "stale",
		Amount:    decimal.NewFromInt(20),
		Status:    models.DonationStatusPending,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}

	markedFailed := false
	store := &mockDonationStore{
		listPendingFunc: func(_ context.Context, _ time.Time, _ int) ([]models.Donation, error) {
			return []models.Donation{old}, nil
		},
		markFailedFunc: func(_ context.Context, donationID string) error {
			markedFailed = donationID == "stale"
			return nil
		},
	}
	recorder := &mockRecorder{
		recordFunc: func(_ context.Context, _ ChainDonation) (*ChainReceipt, error) {
			return nil, errors.New("still down")
		},
	}

	NewReconciler(store, recorder).Sweep(context.Background())

	if !markedFailed {
		t.Error("expected the stale donation marked failed")
	}
}
