package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

// DonationStore is the slice of the data facade the submission path needs.
type DonationStore interface {
	InsertDonation(ctx context.Context, d *models.Donation) (*models.Donation, error)
	ConfirmDonation(ctx context.Context, donationID, txHash string) error
	MarkDonationFailed(ctx context.Context, donationID string) error
	ListPendingDonations(ctx context.Context, olderThan time.Time, limit int) ([]models.Donation, error)
	CreateRecurringSchedule(ctx context.Context, r *models.RecurringDonation) error
}

// ChainRecorder is the gateway dependency, satisfied by BlockchainService.
type ChainRecorder interface {
	RecordDonation(ctx context.Context, d ChainDonation) (*ChainReceipt, error)
}

// SubmissionResult is reported back to the caller after a completed flow.
type SubmissionResult struct {
	Donation    *models.Donation `json:"donation"`
	Amount      decimal.Decimal  `json:"amount"`
	Policy      string           `json:"donation_policy"`
	IsAnonymous bool             `json:"is_anonymous"`
	IsRecurring bool             `json:"is_recurring"`
	TxHash      string           `json:"tx_hash"`
	ExplorerURL string           `json:"explorer_url"`
}

// DonationService runs the two-step write: donation row first, blockchain
// record second. The writes are not transactional across systems, so the
// row starts out "pending" and is only confirmed once the gateway answers;
// a gateway failure leaves it pending for the reconciler instead of
// rolling anything back silently.
type DonationService struct {
	store    DonationStore
	recorder ChainRecorder
	currency string
}

func NewDonationService(store DonationStore, recorder ChainRecorder) *DonationService {
	return &DonationService{store: store, recorder: recorder, currency: "EUR"}
}

// Submit drives a validated flow through persistence and recording, then
// moves it to the confirmation step.
func (s *DonationService) Submit(ctx context.Context, flow *DonationFlow, donorID, recipientID, idempotencyKey string) (*SubmissionResult, error) {
	if flow.Step() != StepPayment {
		return nil, &ValidationError{Message: "submission requires the payment step"}
	}

	donation := &models.Donation{
		ID:             uuid.New().String(),
		CampaignID:     flow.CampaignID,
		Amount:         flow.Amount,
		Currency:       s.currency,
		Policy:         flow.Policy,
		IsRecurring:    flow.IsRecurring,
		IsAnonymous:    flow.IsAnonymous,
		Message:        flow.Message,
		Status:         models.DonationStatusPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}
	if !flow.IsAnonymous && donorID != "" {
		donation.DonorID = &donorID
	}

	stored, err := s.store.InsertDonation(ctx, donation)
	if err != nil {
		return nil, err
	}
	if stored.ID != donation.ID {
		// Idempotency key matched an earlier submission; report that one
		// instead of double-charging.
		log.Printf("🔁 Donation replayed via idempotency key, returning %s", stored.ID)
		return s.resultFor(flow, stored), nil
	}

	txHash := PendingTxHash
	receipt, err := s.recorder.RecordDonation(ctx, ChainDonation{
		DonorID:      chainDonorID(donation),
		RecipientID:  recipientID,
		Amount:       donation.Amount,
		Currency:     donation.Currency,
		DonationType: donation.Policy,
		Metadata:     donation.Message,
	})
	if err != nil {
		// The donation stays pending; the reconciler picks it up.
		log.Printf("⚠️ Blockchain recording failed for donation %s: %v", donation.ID, err)
	} else {
		txHash = receipt.TxHash
		if err := s.store.ConfirmDonation(ctx, donation.ID, receipt.TxHash); err != nil {
			return nil, err
		}
		donation.Status = models.DonationStatusConfirmed
		donation.TxHash = &txHash
	}

	if flow.IsRecurring && donorID != "" {
		if err := s.createRecurring(ctx, donation, donorID); err != nil {
			log.Printf("⚠️ Failed to create recurring schedule for donation %s: %v", donation.ID, err)
		}
	}

	if err := flow.Complete(); err != nil {
		return nil, err
	}

	return s.resultFor(flow, donation), nil
}

func (s *DonationService) createRecurring(ctx context.Context, d *models.Donation, donorID string) error {
	return s.store.CreateRecurringSchedule(ctx, &models.RecurringDonation{
		ID:           uuid.New().String(),
		DonorID:      donorID,
		CampaignID:   d.CampaignID,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Policy:       d.Policy,
		NextChargeAt: d.CreatedAt.AddDate(0, 1, 0),
		Active:       true,
		CreatedAt:    d.CreatedAt,
	})
}

func (s *DonationService) resultFor(flow *DonationFlow, d *models.Donation) *SubmissionResult {
	txHash := PendingTxHash
	if d.TxHash != nil && *d.TxHash != "" {
		txHash = *d.TxHash
	}
	return &SubmissionResult{
		Donation:    d,
		Amount:      d.Amount,
		Policy:      d.Policy,
		IsAnonymous: d.IsAnonymous,
		IsRecurring: d.IsRecurring,
		TxHash:      txHash,
		ExplorerURL: ExplorerURL(txHash),
	}
}

// chainDonorID is what the gateway sees as the donor. Anonymous donations
// never leak a user id.
func chainDonorID(d *models.Donation) string {
	if d.IsAnonymous || d.DonorID == nil {
		return "anonymous"
	}
	return *d.DonorID
}
