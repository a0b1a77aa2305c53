package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// DERIVED VIEW MODELS (never persisted)
// ============================================================================

const (
	TimelineTypeMilestone = "milestone"
	TimelineTypeStatus    = "status"
	TimelineTypeActivity  = "activity"
)

// TimelineEntryStartID is the id of the synthetic "campaign started" entry.
// It is always sorted last, whatever its date.
const TimelineEntryStartID = "campaign-start"

type TimelineEntry struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	// RelatedTo nests an activity under the milestone it follows.
	RelatedTo string `json:"related_to,omitempty"`
}

type LeaderboardEntry struct {
	DonorID       string          `json:"donor_id"`
	DonorName     string          `json:"donor_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DonationCount int             `json:"donation_count"`
	FirstDonation time.Time       `json:"first_donation"`
	LastDonation  time.Time       `json:"last_donation"`
	Rank          int             `json:"rank"`
	Podium        bool            `json:"podium"`
}

// AllocationSplit carries the fund buckets for a campaign plus their share
// of the target as percentages in [0,100].
type AllocationSplit struct {
	Available decimal.Decimal `json:"available"`
	OnHold    decimal.Decimal `json:"on_hold"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining_to_goal"`

	AvailablePct decimal.Decimal `json:"available_pct"`
	OnHoldPct    decimal.Decimal `json:"on_hold_pct"`
	UsedPct      decimal.Decimal `json:"used_pct"`
	RemainingPct decimal.Decimal `json:"remaining_pct"`
}
