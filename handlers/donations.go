package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clearcause/charity-api/middleware"
	"github.com/clearcause/charity-api/models"
	"github.com/clearcause/charity-api/services"
)

type DonationHandler struct {
	Charity    *services.CharityService
	Donations  *services.DonationService
	Blockchain *services.BlockchainService
	WS         *WSHandler
}

func NewDonationHandler(charity *services.CharityService, donations *services.DonationService,
	blockchain *services.BlockchainService, ws *WSHandler) *DonationHandler {
	return &DonationHandler{Charity: charity, Donations: donations, Blockchain: blockchain, WS: ws}
}

// CreateDonation runs the whole submission flow for one request: validate
// the amount step, advance to payment, persist and record. The flow rejects
// sub-minimum amounts and missing consent before anything is written.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req models.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID := "general-fund"
	if req.CampaignID != nil {
		campaign, err := h.Charity.GetCampaignByID(ctx, *req.CampaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		if campaign.Status != models.CampaignStatusActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "campaign is not accepting donations"})
			return
		}
		recipientID = campaign.CharityID
	}

	flow := services.NewDonationFlow()
	flow.CampaignID = req.CampaignID
	flow.Policy = req.Policy
	flow.IsAnonymous = req.IsAnonymous
	flow.IsRecurring = req.IsRecurring
	flow.Message = req.Message
	flow.ConsentGiven = req.ConsentGiven

	if err := flow.SetAmount(req.Amount); err != nil {
		respondError(c, err)
		return
	}
	if err := flow.Advance(); err != nil {
		respondError(c, err)
		return
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = c.GetHeader("Idempotency-Key")
	}

	result, err := h.Donations.Submit(ctx, flow, userID, recipientID, idempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.CampaignID != nil {
		h.WS.BroadcastRefresh(*req.CampaignID, "donation-recorded")
	}

	c.JSON(http.StatusCreated, result)
}

// ListMyDonations returns the authenticated donor's history with explorer
// links attached.
func (h *DonationHandler) ListMyDonations(c *gin.Context) {
	userID := middleware.GetUserID(c)

	donations, err := h.Charity.ListDonorDonations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	type donationView struct {
		models.Donation
		ExplorerURL string `json:"explorer_url,omitempty"`
	}

	views := make([]donationView, 0, len(donations))
	for _, d := range donations {
		v := donationView{Donation: d}
		if d.TxHash != nil {
			v.ExplorerURL = services.ExplorerURL(*d.TxHash)
		}
		views = append(views, v)
	}

	c.JSON(http.StatusOK, gin.H{"donations": views})
}

// ListCampaignDonations returns the confirmed donations for one campaign.
func (h *DonationHandler) ListCampaignDonations(c *gin.Context) {
	donations, err := h.Charity.ListCampaignDonations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

// ============================================================================
// BLOCKCHAIN LOOKUPS
// ============================================================================

func (h *DonationHandler) GetChainDonation(c *gin.Context) {
	raw, err := h.Blockchain.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *DonationHandler) GetRecentChainDonations(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count < 1 || count > 100 {
		count = 10
	}

	raw, err := h.Blockchain.GetRecentDonations(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
