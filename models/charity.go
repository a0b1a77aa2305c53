package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CHARITY PROFILE
// ============================================================================

type CharityProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	// Decrypted on read; stored AES-GCM encrypted.
	WalletAddress string    `json:"wallet_address,omitempty"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Stats *CharityStats `json:"stats,omitempty"`
}

// CharityStats are derived aggregates, computed by query at read time and
// never stored denormalized.
type CharityStats struct {
	TotalRaised     decimal.Decimal `json:"total_raised"`
	ActiveCampaigns int             `json:"active_campaigns"`
	SupporterCount  int             `json:"supporter_count"`
}

type CreateCharityProfileRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Phone         string `json:"phone"`
	WalletAddress string `json:"wallet_address"`
}
