package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

func validFlow(t *testing.T, amount string) *DonationFlow {
	t.Helper()
	flow := NewDonationFlow()
	flow.ConsentGiven = true
	if err := flow.SetAmount(amount); err != nil {
		t.Fatalf("unexpected error setting amount: %v", err)
	}
	return flow
}

func TestDonationFlow_AdvanceBelowMinimum(t *testing.T) {
	for _, amount := range []string{"0", "5", "9.99"} {
		flow := validFlow(t, amount)
		err := flow.Advance()
		if err == nil {
			t.Fatalf("amount %s: expected validation error, got nil", amount)
		}
		if !IsValidation(err) {
			t.Errorf("amount %s: expected ValidationError, got %T", amount, err)
		}
		if flow.Step() != StepAmount {
			t.Errorf("amount %s: step advanced to %s despite invalid amount", amount, flow.Step())
		}
	}
}

func TestDonationFlow_AdvanceWithoutConsent(t *testing.T) {
	flow := NewDonationFlow()
	if err := flow.SetAmount("50"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := flow.Advance()
	if err == nil {
		t.Fatal("expected validation error without consent, got nil")
	}
	if flow.Step() != StepAmount {
		t.Errorf("step advanced to %s despite missing consent", flow.Step())
	}
}

func TestDonationFlow_AdvanceSuccess(t *testing.T) {
	flow := validFlow(t, "10")
	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Step() != StepPayment {
		t.Errorf("expected step %s, got %s", StepPayment, flow.Step())
	}
	if flow.Policy != models.PolicyAlwaysDonate {
		t.Errorf("expected default policy %q, got %q", models.PolicyAlwaysDonate, flow.Policy)
	}
}

func TestDonationFlow_RejectsNonNumericAmount(t *testing.T) {
	flow := NewDonationFlow()
	if err := flow.SetAmount("fifty"); err == nil {
		t.Fatal("expected error for non-numeric amount, got nil")
	}
	if !flow.Amount.Equal(decimal.Zero) {
		t.Errorf("amount mutated by invalid input: %s", flow.Amount)
	}
}

func TestDonationFlow_RejectsUnknownPolicy(t *testing.T) {
	flow := validFlow(t, "25")
	flow.Policy = "keep-half"

	if err := flow.Advance(); err == nil {
		t.Fatal("expected validation error for unknown policy, got nil")
	}
	if flow.Step() != StepAmount {
		t.Errorf("step advanced despite invalid policy")
	}
}

func TestDonationFlow_BackOnlyFromPayment(t *testing.T) {
	flow := NewDonationFlow()
	if err := flow.Back(); err == nil {
		t.Fatal("expected error going back from amount step")
	}

	flow = validFlow(t, "20")
	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := flow.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Step() != StepAmount {
		t.Errorf("expected step %s after back, got %s", StepAmount, flow.Step())
	}
}

func TestDonationFlow_CompleteRequiresPayment(t *testing.T) {
	flow := validFlow(t, "20")
	if err := flow.Complete(); err == nil {
		t.Fatal("expected error completing from amount step")
	}

	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := flow.Complete(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("expected step %s, got %s", StepConfirmation, flow.Step())
	}
}

func TestDonationFlow_ResetClearsEverything(t *testing.T) {
	campaignID := "c1"
	flow := validFlow(t, "100")
	flow.CampaignID = &campaignID
	flow.IsAnonymous = true
	flow.IsRecurring = true
	flow.Message = "good luck"
	flow.Policy = models.PolicyCampaignSpecific
	if err := flow.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flow.Reset()

	if flow.Step() != StepAmount {
		t.Errorf("expected step %s after reset, got %s", StepAmount, flow.Step())
	}
	if !flow.Amount.Equal(decimal.Zero) || flow.CampaignID != nil || flow.IsAnonymous ||
		flow.IsRecurring || flow.Message != "" || flow.Policy != "" || flow.ConsentGiven {
		t.Error("reset left partial state behind")
	}
}
