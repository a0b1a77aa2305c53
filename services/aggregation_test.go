package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

func donorDonation(donor string, amount int64, at time.Time) models.Donation {
	d := donor
	return models.Donation{
		ID:        donor + at.Format("150405"),
		DonorID:   &d,
		DonorName: "Donor " + donor,
		Amount:    decimal.NewFromInt(amount),
		Status:    models.DonationStatusConfirmed,
		CreatedAt: at,
	}
}

// ============================================================================
// Leaderboard
// ============================================================================

func TestBuildLeaderboard_GroupsAndSorts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	donations := []models.Donation{
		donorDonation("A", 50, base),
		donorDonation("B", 80, base.Add(time.Hour)),
		donorDonation("A", 40, base.Add(2*time.Hour)),
	}

	entries := BuildLeaderboard(donations)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].DonorID != "A" || !entries[0].TotalAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected A with 90 first, got %s with %s", entries[0].DonorID, entries[0].TotalAmount)
	}
	if entries[1].DonorID != "B" || !entries[1].TotalAmount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected B with 80 second, got %s with %s", entries[1].DonorID, entries[1].TotalAmount)
	}
	if entries[0].DonationCount != 2 {
		t.Errorf("expected A to have 2 donations, got %d", entries[0].DonationCount)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Error("ranks not assigned in order")
	}
}

func TestBuildLeaderboard_TieGoesToEarlierDonor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	donations := []models.Donation{
		donorDonation("late", 100, base.Add(time.Hour)),
		donorDonation("early", 100, base),
	}

	entries := BuildLeaderboard(donations)

	if entries[0].DonorID != "early" {
		t.Errorf("expected tie broken by earliest donation, got %s first", entries[0].DonorID)
	}
}

func TestBuildLeaderboard_SkipsAnonymous(t *testing.T) {
	base := time.Now()
	anon := donorDonation("X", 500, base)
	anon.IsAnonymous = true
	noRef := models.Donation{Amount: decimal.NewFromInt(300), CreatedAt: base}

	entries := BuildLeaderboard([]models.Donation{anon, noRef, donorDonation("A", 20, base)})

	if len(entries) != 1 || entries[0].DonorID != "A" {
		t.Fatalf("expected only donor A on the board, got %d entries", len(entries))
	}
}

func TestBuildLeaderboard_PodiumAndPagination(t *testing.T) {
	base := time.Now()
	var donations []models.Donation
	for i := 0; i < 15; i++ {
		donations = append(donations, donorDonation(string(rune('a'+i)), int64(100-i), base))
	}

	entries := BuildLeaderboard(donations)

	for i, e := range entries {
		if (i < 3) != e.Podium {
			t.Errorf("entry %d: podium=%v", i, e.Podium)
		}
	}

	page1 := PaginateLeaderboard(entries, 1)
	if len(page1) != LeaderboardPageSize {
		t.Errorf("expected page of %d, got %d", LeaderboardPageSize, len(page1))
	}
	page2 := PaginateLeaderboard(entries, 2)
	if len(page2) != 5 {
		t.Errorf("expected 5 on page 2, got %d", len(page2))
	}
	if got := PaginateLeaderboard(entries, 99); len(got) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(got))
	}
}

// ============================================================================
// Timeline
// ============================================================================

func testCampaign(target int64, created time.Time) *models.Campaign {
	return &models.Campaign{
		ID:           "camp-1",
		TargetAmount: decimal.NewFromInt(target),
		CreatedAt:    created,
	}
}

func TestBuildTimeline_CampaignStartAlwaysLast(t *testing.T) {
	// Campaign created AFTER the donations — a future-dated start entry
	// must still sort last.
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	campaign := testCampaign(1000, created)
	donations := []models.Donation{
		donorDonation("A", 100, created.Add(-48*time.Hour)),
		donorDonation("B", 200, created.Add(-24*time.Hour)),
	}

	entries := BuildTimeline(campaign, donations, nil)

	if len(entries) == 0 {
		t.Fatal("expected entries")
	}
	last := entries[len(entries)-1]
	if last.ID != models.TimelineEntryStartID {
		t.Errorf("expected %s pinned last, got %s", models.TimelineEntryStartID, last.ID)
	}
	for i, e := range entries[:len(entries)-1] {
		if e.ID == models.TimelineEntryStartID {
			t.Errorf("campaign-start found at position %d", i)
		}
	}
}

func TestSortTimeline_ReverseChronological(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.TimelineEntry{
		{ID: "old", Date: base},
		{ID: models.TimelineEntryStartID, Date: base.Add(100 * time.Hour)},
		{ID: "new", Date: base.Add(10 * time.Hour)},
	}

	SortTimeline(entries)

	if entries[0].ID != "new" || entries[1].ID != "old" || entries[2].ID != models.TimelineEntryStartID {
		t.Errorf("unexpected order: %s, %s, %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestBuildTimeline_MilestoneCrossings(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	campaign := testCampaign(1000, created)
	donations := []models.Donation{
		donorDonation("A", 200, created.Add(1*time.Hour)),  // 20%
		donorDonation("B", 400, created.Add(2*time.Hour)),  // 60% → crosses 25 and 50
		donorDonation("C", 150, created.Add(3*time.Hour)),  // 75%
		donorDonation("D", 300, created.Add(4*time.Hour)),  // 105% → crosses 100
	}

	entries := BuildTimeline(campaign, donations, nil)

	milestones := map[string]models.TimelineEntry{}
	for _, e := range entries {
		if e.Type == models.TimelineTypeMilestone {
			milestones[e.ID] = e
		}
	}

	for _, id := range []string{"milestone-25", "milestone-50", "milestone-75", "milestone-100"} {
		if _, ok := milestones[id]; !ok {
			t.Errorf("missing %s", id)
		}
	}
	// 25 and 50 were crossed by the same donation.
	if !milestones["milestone-25"].Date.Equal(created.Add(2 * time.Hour)) {
		t.Errorf("milestone-25 dated %s, expected the crossing donation's date", milestones["milestone-25"].Date)
	}
}

func TestBuildTimeline_NestsActivitiesUnderPrecedingMilestone(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	campaign := testCampaign(100, created)
	donations := []models.Donation{
		donorDonation("A", 30, created.Add(1*time.Hour)), // crosses 25%
		donorDonation("B", 5, created.Add(2*time.Hour)),
	}

	entries := BuildTimeline(campaign, donations, nil)

	var first, second models.TimelineEntry
	for _, e := range entries {
		switch {
		case e.Type == models.TimelineTypeActivity && e.Date.Equal(created.Add(1*time.Hour)):
			first = e
		case e.Type == models.TimelineTypeActivity && e.Date.Equal(created.Add(2*time.Hour)):
			second = e
		}
	}

	if first.RelatedTo != "milestone-25" {
		t.Errorf("crossing donation related to %q, expected milestone-25", first.RelatedTo)
	}
	if second.RelatedTo != "milestone-25" {
		t.Errorf("later donation related to %q, expected milestone-25", second.RelatedTo)
	}
}

func TestBuildTimeline_ZeroTargetNoMilestones(t *testing.T) {
	created := time.Now()
	campaign := testCampaign(0, created)
	entries := BuildTimeline(campaign, []models.Donation{donorDonation("A", 50, created)}, nil)

	for _, e := range entries {
		if e.Type == models.TimelineTypeMilestone {
			t.Errorf("milestone %s emitted for zero-target campaign", e.ID)
		}
	}
}

func TestBuildTimeline_ExpenseActivityCarriesCategory(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	campaign := testCampaign(1000, created)
	expenses := []models.Expense{{
		ID:        "e1",
		Title:     "Water pumps",
		Amount:    decimal.NewFromInt(120),
		Category:  models.ExpenseCategoryReceipt,
		Status:    models.ExpenseStatusApproved,
		CreatedAt: created.Add(time.Hour),
	}}

	entries := BuildTimeline(campaign, nil, expenses)

	found := false
	for _, e := range entries {
		if e.ID == "expense-e1" {
			found = true
			if e.Category != models.ExpenseCategoryReceipt {
				t.Errorf("expected category receipt, got %q", e.Category)
			}
		}
	}
	if !found {
		t.Error("expense activity missing from timeline")
	}
}

// ============================================================================
// Allocation
// ============================================================================

func TestBuildAllocation_ZeroTarget(t *testing.T) {
	campaign := &models.Campaign{
		TargetAmount:  decimal.Zero,
		CurrentAmount: decimal.NewFromInt(50),
	}

	split := BuildAllocation(campaign, nil)

	for name, pct := range map[string]decimal.Decimal{
		"available": split.AvailablePct,
		"on_hold":   split.OnHoldPct,
		"used":      split.UsedPct,
		"remaining": split.RemainingPct,
	} {
		if !pct.Equal(decimal.Zero) {
			t.Errorf("%s: expected 0%% with zero target, got %s", name, pct)
		}
	}
}

func TestBuildAllocation_Buckets(t *testing.T) {
	campaign := &models.Campaign{
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(600),
	}
	expenses := []models.Expense{
		{Amount: decimal.NewFromInt(100), Status: models.ExpenseStatusApproved},
		{Amount: decimal.NewFromInt(200), Status: models.ExpenseStatusPending},
	}

	split := BuildAllocation(campaign, expenses)

	if !split.Used.Equal(decimal.NewFromInt(100)) {
		t.Errorf("used = %s, expected 100", split.Used)
	}
	if !split.OnHold.Equal(decimal.NewFromInt(200)) {
		t.Errorf("on_hold = %s, expected 200", split.OnHold)
	}
	if !split.Available.Equal(decimal.NewFromInt(300)) {
		t.Errorf("available = %s, expected 300", split.Available)
	}
	if !split.Remaining.Equal(decimal.NewFromInt(400)) {
		t.Errorf("remaining = %s, expected 400", split.Remaining)
	}
	if !split.UsedPct.Equal(decimal.NewFromInt(10)) {
		t.Errorf("used_pct = %s, expected 10", split.UsedPct)
	}
}

func TestBuildAllocation_ClampsOverTarget(t *testing.T) {
	campaign := &models.Campaign{
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(500),
	}

	split := BuildAllocation(campaign, nil)

	if !split.AvailablePct.Equal(decimal.NewFromInt(100)) {
		t.Errorf("available_pct = %s, expected clamp to 100", split.AvailablePct)
	}
	if !split.Remaining.Equal(decimal.Zero) {
		t.Errorf("remaining = %s, expected 0 when over target", split.Remaining)
	}
}
