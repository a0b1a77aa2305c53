package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CAMPAIGN MODEL
// ============================================================================

// Campaign statuses. A campaign is created as "active" regardless of what
// the client sends; the other states are reached through lifecycle updates.
const (
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusExpired   = "expired"
	CampaignStatusDraft     = "draft"
)

type Campaign struct {
	ID            string          `json:"id"`
	CharityID     string          `json:"charity_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Status        string          `json:"status"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Category      string          `json:"category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Populated by the JOIN with charity_profiles, not stored on the row.
	CharityName     string `json:"charity_name,omitempty"`
	CharityVerified bool   `json:"charity_verified,omitempty"`
}

type CreateCampaignRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Deadline     *time.Time      `json:"deadline"`
	Category     string          `json:"category"`
	// Base64-encoded image payload; optional.
	Image     string `json:"image"`
	ImageName string `json:"image_name"`
}

type UpdateCampaignRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	Deadline     *time.Time       `json:"deadline"`
	Category     *string          `json:"category"`
	Status       *string          `json:"status"`
}

// ============================================================================
// EXPENSES
// ============================================================================

// Expense categories mirror the document types a charity attaches to spending.
const (
	ExpenseCategoryQuotation = "quotation"
	ExpenseCategoryPayment   = "payment"
	ExpenseCategoryReceipt   = "receipt"
	ExpenseCategoryDelivery  = "delivery"
	ExpenseCategoryPhoto     = "photo"
)

const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
)

type Expense struct {
	ID         string          `json:"id"`
	CampaignID string          `json:"campaign_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreateExpenseRequest struct {
	Title    string          `json:"title" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Category string          `json:"category" binding:"required"`
}

// ValidExpenseCategory reports whether c is one of the known categories.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseCategoryQuotation, ExpenseCategoryPayment, ExpenseCategoryReceipt,
		ExpenseCategoryDelivery, ExpenseCategoryPhoto:
		return true
	}
	return false
}
