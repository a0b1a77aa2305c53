package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
)

// Pure derivations from fetched rows to view models. No state, re-run on
// every fetch.

// LeaderboardPageSize is the fixed client page size below the podium.
const LeaderboardPageSize = 10

// milestoneThresholds are the percentage-of-goal crossings that get their
// own timeline entry.
var milestoneThresholds = []int{25, 50, 75, 100}

var oneHundred = decimal.NewFromInt(100)

// ============================================================================
// LEADERBOARD
// ============================================================================

// BuildLeaderboard groups donations by donor, sums amounts and sorts by
// total descending. Ties go to whoever donated first. Anonymous donations
// (no donor reference) never appear. The top 3 are flagged as the podium.
func BuildLeaderboard(donations []models.Donation) []models.LeaderboardEntry {
	byDonor := make(map[string]*models.LeaderboardEntry)

	for _, d := range donations {
		if d.DonorID == nil || d.IsAnonymous {
			continue
		}
		entry, ok := byDonor[*d.DonorID]
		if !ok {
			entry = &models.LeaderboardEntry{
				DonorID:       *d.DonorID,
				DonorName:     d.DonorName,
				TotalAmount:   decimal.Zero,
				FirstDonation: d.CreatedAt,
				LastDonation:  d.CreatedAt,
			}
			byDonor[*d.DonorID] = entry
		}
		entry.TotalAmount = entry.TotalAmount.Add(d.Amount)
		entry.DonationCount++
		if d.CreatedAt.Before(entry.FirstDonation) {
			entry.FirstDonation = d.CreatedAt
		}
		if d.CreatedAt.After(entry.LastDonation) {
			entry.LastDonation = d.CreatedAt
		}
		if entry.DonorName == "" {
			entry.DonorName = d.DonorName
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(byDonor))
	for _, e := range byDonor {
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		cmp := entries[i].TotalAmount.Cmp(entries[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		// Equal totals: earliest first donation wins.
		return entries[i].FirstDonation.Before(entries[j].FirstDonation)
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Podium = i < 3
	}

	return entries
}

// PaginateLeaderboard slices one fixed-size page out of the ranked entries.
// Pages start at 1.
func PaginateLeaderboard(entries []models.LeaderboardEntry, page int) []models.LeaderboardEntry {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * LeaderboardPageSize
	if start >= len(entries) {
		return []models.LeaderboardEntry{}
	}
	end := start + LeaderboardPageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// ============================================================================
// TIMELINE
// ============================================================================

// BuildTimeline partitions a campaign's history into milestone entries
// (goal-percentage crossings computed from running donation totals), status
// entries (campaign start and deadline) and activity entries (donations and
// expenses), nests activities under the nearest preceding milestone, and
// sorts everything reverse-chronologically. The campaign-start entry is
// always pinned last, whatever its date.
func BuildTimeline(campaign *models.Campaign, donations []models.Donation, expenses []models.Expense) []models.TimelineEntry {
	var entries []models.TimelineEntry

	milestones := milestoneEntries(campaign, donations)
	entries = append(entries, milestones...)

	entries = append(entries, models.TimelineEntry{
		ID:    models.TimelineEntryStartID,
		Type:  models.TimelineTypeStatus,
		Title: "Campaign started",
		Date:  campaign.CreatedAt,
	})
	if campaign.Deadline != nil {
		entries = append(entries, models.TimelineEntry{
			ID:    "campaign-deadline",
			Type:  models.TimelineTypeStatus,
			Title: "Campaign deadline",
			Date:  *campaign.Deadline,
		})
	}

	for _, d := range donations {
		title := "Donation received"
		if d.DonorName != "" {
			title = "Donation from " + d.DonorName
		}
		entries = append(entries, models.TimelineEntry{
			ID:          "donation-" + d.ID,
			Type:        models.TimelineTypeActivity,
			Title:       title,
			Description: d.Message,
			Amount:      d.Amount,
			Date:        d.CreatedAt,
			RelatedTo:   nearestMilestone(milestones, d.CreatedAt),
		})
	}

	for _, e := range expenses {
		entries = append(entries, models.TimelineEntry{
			ID:        "expense-" + e.ID,
			Type:      models.TimelineTypeActivity,
			Category:  e.Category,
			Title:     e.Title,
			Amount:    e.Amount,
			Date:      e.CreatedAt,
			RelatedTo: nearestMilestone(milestones, e.CreatedAt),
		})
	}

	SortTimeline(entries)
	return entries
}

// milestoneEntries walks donations in date order and emits one entry per
// threshold the running total crosses. The entry is dated at the donation
// that crossed the line.
func milestoneEntries(campaign *models.Campaign, donations []models.Donation) []models.TimelineEntry {
	if campaign.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	ordered := make([]models.Donation, len(donations))
	copy(ordered, donations)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var entries []models.TimelineEntry
	running := decimal.Zero
	next := 0

	for _, d := range ordered {
		running = running.Add(d.Amount)
		pct := running.Div(campaign.TargetAmount).Mul(oneHundred)

		for next < len(milestoneThresholds) && pct.GreaterThanOrEqual(decimal.NewFromInt(int64(milestoneThresholds[next]))) {
			threshold := milestoneThresholds[next]
			entries = append(entries, models.TimelineEntry{
				ID:     fmt.Sprintf("milestone-%d", threshold),
				Type:   models.TimelineTypeMilestone,
				Title:  fmt.Sprintf("%d%% of goal reached", threshold),
				Amount: running,
				Date:   d.CreatedAt,
			})
			next++
		}
		if next >= len(milestoneThresholds) {
			break
		}
	}

	return entries
}

// nearestMilestone returns the id of the latest milestone dated at or before
// t, or "" when no milestone precedes it.
func nearestMilestone(milestones []models.TimelineEntry, t time.Time) string {
	related := ""
	for _, m := range milestones {
		if !m.Date.After(t) {
			related = m.ID
		}
	}
	return related
}

// SortTimeline orders entries reverse-chronologically with one hard rule:
// the campaign-start entry is always last, regardless of its date.
func SortTimeline(entries []models.TimelineEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ID == models.TimelineEntryStartID {
			return false
		}
		if entries[j].ID == models.TimelineEntryStartID {
			return true
		}
		return entries[i].Date.After(entries[j].Date)
	})
}

// ============================================================================
// ALLOCATION
// ============================================================================

// BuildAllocation derives the fund buckets for a campaign from its expenses
// and computes each bucket's share of the target. A zero target yields zero
// percentages across the board, never NaN or Inf.
func BuildAllocation(campaign *models.Campaign, expenses []models.Expense) models.AllocationSplit {
	used := decimal.Zero
	onHold := decimal.Zero
	for _, e := range expenses {
		switch e.Status {
		case models.ExpenseStatusApproved:
			used = used.Add(e.Amount)
		case models.ExpenseStatusPending:
			onHold = onHold.Add(e.Amount)
		}
	}

	available := campaign.CurrentAmount.Sub(used).Sub(onHold)
	if available.IsNegative() {
		available = decimal.Zero
	}
	remaining := campaign.TargetAmount.Sub(campaign.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	split := models.AllocationSplit{
		Available: available,
		OnHold:    onHold,
		Used:      used,
		Remaining: remaining,
	}
	split.AvailablePct = percentOf(available, campaign.TargetAmount)
	split.OnHoldPct = percentOf(onHold, campaign.TargetAmount)
	split.UsedPct = percentOf(used, campaign.TargetAmount)
	split.RemainingPct = percentOf(remaining, campaign.TargetAmount)
	return split
}

// percentOf computes part/total*100 clamped to [0,100]; zero or negative
// totals yield 0.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := part.Div(total).Mul(oneHundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct
}
