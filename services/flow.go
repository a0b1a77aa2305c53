package services

import (
	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

// The donation flow is a linear three-step machine: amount → payment →
// confirmation. The only backwards edge is payment → amount. Closing the
// modal resets everything; no partial state survives a re-open.

type FlowStep string

const (
	StepAmount       FlowStep = "amount"
	StepPayment      FlowStep = "payment"
	StepConfirmation FlowStep = "confirmation"
)

// MinDonationAmount is the smallest accepted donation, in currency units.
var MinDonationAmount = decimal.NewFromInt(10)

// DonationFlow collects the donor's input across the steps and validates
// each transition.
type DonationFlow struct {
	step FlowStep

	Amount       decimal.Decimal
	Policy       string
	CampaignID   *string
	IsAnonymous  bool
	IsRecurring  bool
	Message      string
	ConsentGiven bool
}

func NewDonationFlow() *DonationFlow {
	f := &DonationFlow{}
	f.Reset()
	return f
}

func (f *DonationFlow) Step() FlowStep { return f.step }

// SetAmount parses and stores the amount. Only allowed on the amount step.
func (f *DonationFlow) SetAmount(raw string) error {
	if f.step != StepAmount {
		return &ValidationError{Field: "amount", Message: "amount can only be changed on the amount step"}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return &ValidationError{Field: "amount", Message: "amount must be a number"}
	}
	f.Amount = amount
	return nil
}

// Advance moves amount → payment. It refuses to move when the amount is
// under the minimum or the ethical-investment consent box is unchecked; the
// step stays put in that case.
func (f *DonationFlow) Advance() error {
	if f.step != StepAmount {
		return &ValidationError{Message: "flow already advanced past the amount step"}
	}
	if f.Amount.LessThan(MinDonationAmount) {
		return &ValidationError{
			Field:   "amount",
			Message: "minimum donation is " + MinDonationAmount.String() + " EUR",
		}
	}
	if !f.ConsentGiven {
		return &ValidationError{
			Field:   "consent",
			Message: "the ethical investment policy must be accepted",
		}
	}
	if f.Policy == "" {
		f.Policy = models.PolicyAlwaysDonate
	}
	if !models.ValidPolicy(f.Policy) {
		return &ValidationError{Field: "donation_policy", Message: "unknown donation policy"}
	}

	f.step = StepPayment
	return nil
}

// Back returns from payment to amount. No other backwards edge exists.
func (f *DonationFlow) Back() error {
	if f.step != StepPayment {
		return &ValidationError{Message: "can only go back from the payment step"}
	}
	f.step = StepAmount
	return nil
}

// Complete moves payment → confirmation. Called by the submission path once
// the donation has actually been persisted and recorded.
func (f *DonationFlow) Complete() error {
	if f.step != StepPayment {
		return &ValidationError{Message: "submission requires the payment step"}
	}
	f.step = StepConfirmation
	return nil
}

// Reset returns every field to its default, modal-close semantics.
func (f *DonationFlow) Reset() {
	f.step = StepAmount
	f.Amount = decimal.Zero
	f.Policy = ""
	f.CampaignID = nil
	f.IsAnonymous = false
	f.IsRecurring = false
	f.Message = ""
	f.ConsentGiven = false
}
