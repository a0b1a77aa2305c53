package services

import (
	"context"
	"log"
	"time"

	retry "github.com/avast/retry-go/v4"

	"github.com/clearcause/charity-api/models"
)

const (
	reconcileInterval  = 5 * time.Minute
	reconcileBatchSize = 50
	// Donations still pending after this long are handed to the reconciler;
	// younger ones may just be in-flight.
	reconcileMinAge = 2 * time.Minute
	// After this long without a successful recording we stop retrying and
	// mark the donation failed for operator attention.
	reconcileGiveUp = 24 * time.Hour
)

var (
	rtyAttempts = retry.Attempts(4)
	rtyDelay    = retry.Delay(500 * time.Millisecond)
	rtyLastErr  = retry.LastErrorOnly(true)
)

// Reconciler sweeps donations stuck in "pending" — rows whose blockchain
// recording failed after the store write succeeded — and retries the
// gateway call with backoff. This closes the dual-write gap: nothing is
// rolled back, nothing is silently lost.
type Reconciler struct {
	store    DonationStore
	recorder ChainRecorder
}

func NewReconciler(store DonationStore, recorder ChainRecorder) *Reconciler {
	return &Reconciler{store: store, recorder: recorder}
}

// Run blocks, sweeping on a ticker until ctx is cancelled. Intended for a
// background goroutine started from main.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	r.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep retries one batch of pending donations.
func (r *Reconciler) Sweep(ctx context.Context) {
	pending, err := r.store.ListPendingDonations(ctx, time.Now().Add(-reconcileMinAge), reconcileBatchSize)
	if err != nil {
		log.Printf("❌ Reconciler: listing pending donations failed: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("🔄 Reconciler: retrying %d pending donation(s)", len(pending))
	for _, donation := range pending {
		if ctx.Err() != nil {
			return
		}
		r.reconcile(ctx, donation)
	}
}

func (r *Reconciler) reconcile(ctx context.Context, donation models.Donation) {
	var receipt *ChainReceipt
	err := retry.Do(func() error {
		var err error
		receipt, err = r.recorder.RecordDonation(ctx, ChainDonation{
			DonorID:      chainDonorID(&donation),
			RecipientID:  recipientFor(&donation),
			Amount:       donation.Amount,
			Currency:     donation.Currency,
			DonationType: donation.Policy,
			Metadata:     donation.Message,
		})
		return err
	}, retry.Context(ctx), rtyAttempts, rtyDelay, rtyLastErr,
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("⚠️ Reconciler: attempt %d for donation %s failed: %v", n+1, donation.ID, err)
		}))

	if err != nil {
		if time.Since(donation.CreatedAt) > reconcileGiveUp {
			log.Printf("❌ Reconciler: giving up on donation %s: %v", donation.ID, err)
			if markErr := r.store.MarkDonationFailed(ctx, donation.ID); markErr != nil {
				log.Printf("❌ Reconciler: marking donation %s failed: %v", donation.ID, markErr)
			}
		}
		return
	}

	if err := r.store.ConfirmDonation(ctx, donation.ID, receipt.TxHash); err != nil {
		log.Printf("❌ Reconciler: confirming donation %s failed: %v", donation.ID, err)
		return
	}
	log.Printf("✅ Reconciler: donation %s confirmed with tx %s", donation.ID, receipt.TxHash)
}

func recipientFor(d *models.Donation) string {
	if d.CampaignID != nil {
		return *d.CampaignID
	}
	return "general-fund"
}
