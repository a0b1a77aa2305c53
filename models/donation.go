package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// DONATION MODEL
// ============================================================================

// Donation policies. "campaign-specific" donations are conceptually
// refundable if the campaign misses its goal; "always-donate" funds stay
// with the charity either way. The literal is recorded verbatim, refund
// handling lives outside this service.
const (
	PolicyAlwaysDonate     = "always-donate"
	PolicyCampaignSpecific = "campaign-specific"
)

// Donation statuses. A donation is inserted as "pending" and confirmed once
// the blockchain gateway returns a transaction hash; "failed" means the
// reconciler gave up on it.
const (
	DonationStatusConfirmed = "confirmed"
	DonationStatusPending   = "pending"
	DonationStatusFailed    = "failed"
)

type Donation struct {
	ID             string          `json:"id"`
	CampaignID     *string         `json:"campaign_id,omitempty"` // nil → general fund
	DonorID        *string         `json:"donor_id,omitempty"`    // nil → anonymous
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Policy         string          `json:"donation_policy"`
	IsRecurring    bool            `json:"is_recurring"`
	IsAnonymous    bool            `json:"is_anonymous"`
	Message        string          `json:"message,omitempty"`
	TxHash         *string         `json:"tx_hash,omitempty"`
	Status         string          `json:"status"`
	IdempotencyKey string          `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`

	// Populated by the JOIN with users for display, never stored.
	DonorName string `json:"donor_name,omitempty"`
}

// RecurringDonation is the schedule row created when a donor opts into a
// monthly repeat of their donation.
type RecurringDonation struct {
	ID           string          `json:"id"`
	DonorID      string          `json:"donor_id"`
	CampaignID   *string         `json:"campaign_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Policy       string          `json:"donation_policy"`
	NextChargeAt time.Time       `json:"next_charge_at"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateDonationRequest struct {
	Amount         string  `json:"amount" binding:"required"`
	CampaignID     *string `json:"campaign_id"`
	Policy         string  `json:"donation_policy"`
	IsRecurring    bool    `json:"is_recurring"`
	IsAnonymous    bool    `json:"is_anonymous"`
	Message        string  `json:"message"`
	ConsentGiven   bool    `json:"consent_given"`
	IdempotencyKey string  `json:"idempotency_key"`
}

func ValidPolicy(p string) bool {
	return p == PolicyAlwaysDonate || p == PolicyCampaignSpecific
}
