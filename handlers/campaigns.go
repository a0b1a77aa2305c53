package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clearcause/charity-api/middleware"
	"github.com/clearcause/charity-api/models"
	"github.com/clearcause/charity-api/services"
)

type CampaignHandler struct {
	Charity *services.CharityService
	WS      *WSHandler
}

func NewCampaignHandler(charity *services.CharityService, ws *WSHandler) *CampaignHandler {
	return &CampaignHandler{Charity: charity, WS: ws}
}

// ListCampaigns returns all campaigns with charity info joined in.
// Optional ?status= and ?category= filters.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.Charity.ListCampaigns(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.Charity.GetCampaignByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.Charity.CreateCampaign(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastRefresh(campaign.ID, "campaign-created")
	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	userID := middleware.GetUserID(c)
	campaignID := c.Param("id")

	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Charity.UpdateCampaign(c.Request.Context(), userID, campaignID, req); err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastRefresh(campaignID, "campaign-updated")
	c.JSON(http.StatusOK, gin.H{"message": "Campaign updated"})
}

func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	userID := middleware.GetUserID(c)
	campaignID := c.Param("id")

	if err := h.Charity.DeleteCampaign(c.Request.Context(), userID, campaignID); err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastRefresh(campaignID, "campaign-deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// ============================================================================
// DERIVED VIEWS
// ============================================================================

// GetLeaderboard returns the ranked donors for a campaign. ?page= selects a
// fixed-size page; the full podium always rides along.
func (h *CampaignHandler) GetLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID := c.Param("id")

	if _, err := h.Charity.GetCampaignByID(ctx, campaignID); err != nil {
		respondError(c, err)
		return
	}

	donations, err := h.Charity.ListCampaignDonations(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := services.BuildLeaderboard(donations)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	podium := entries
	if len(podium) > 3 {
		podium = entries[:3]
	}

	c.JSON(http.StatusOK, gin.H{
		"podium":    podium,
		"entries":   services.PaginateLeaderboard(entries, page),
		"page":      page,
		"page_size": services.LeaderboardPageSize,
		"total":     len(entries),
	})
}

// GetTimeline returns the milestone/status/activity view for a campaign.
func (h *CampaignHandler) GetTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID := c.Param("id")

	campaign, err := h.Charity.GetCampaignByID(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	donations, err := h.Charity.ListCampaignDonations(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	expenses, err := h.Charity.ListCampaignExpenses(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timeline": services.BuildTimeline(campaign, donations, expenses),
	})
}

// GetAllocation returns the fund split buckets and their percentages.
func (h *CampaignHandler) GetAllocation(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID := c.Param("id")

	campaign, err := h.Charity.GetCampaignByID(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	expenses, err := h.Charity.ListCampaignExpenses(ctx, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BuildAllocation(campaign, expenses))
}

// ============================================================================
// EXPENSES
// ============================================================================

func (h *CampaignHandler) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	campaignID := c.Param("id")

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.Charity.CreateExpense(c.Request.Context(), userID, campaignID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastRefresh(campaignID, "expense-created")
	c.JSON(http.StatusCreated, expense)
}

func (h *CampaignHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.Charity.ListCampaignExpenses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}
