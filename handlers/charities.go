package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearcause/charity-api/middleware"
	"github.com/clearcause/charity-api/models"
	"github.com/clearcause/charity-api/services"
)

type CharityHandler struct {
	Charity *services.CharityService
}

func NewCharityHandler(charity *services.CharityService) *CharityHandler {
	return &CharityHandler{Charity: charity}
}

// ListCharities returns every charity organization with derived stats.
func (h *CharityHandler) ListCharities(c *gin.Context) {
	charities, err := h.Charity.ListCharities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if charities == nil {
		charities = []models.CharityProfile{}
	}

	// Wallet addresses are for the owning charity only.
	for i := range charities {
		charities[i].WalletAddress = ""
		charities[i].Phone = ""
	}

	c.JSON(http.StatusOK, gin.H{"charities": charities})
}

func (h *CharityHandler) GetCharity(c *gin.Context) {
	charity, err := h.Charity.GetCharityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	charity.WalletAddress = ""
	charity.Phone = ""
	c.JSON(http.StatusOK, charity)
}

// CreateProfile registers the authenticated user as a charity.
func (h *CharityHandler) CreateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCharityProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Charity.CreateCharityProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetDashboard returns the session charity's own profile, campaigns and
// stats. Requires a charity profile.
func (h *CharityHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	profile, err := h.Charity.GetProfileByUserID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	campaigns, err := h.Charity.GetCharityCampaigns(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}

	full, err := h.Charity.GetCharityByID(ctx, profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"campaigns": campaigns,
		"stats":     full.Stats,
	})
}
