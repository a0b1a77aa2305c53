package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/clearcause/charity-api/handlers"
	"github.com/clearcause/charity-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupPublicRoutes sets up the read-only campaign and charity surface.
func SetupPublicRoutes(rg *gin.RouterGroup, charity *services.CharityService,
	blockchain *services.BlockchainService, ws *handlers.WSHandler) {
	campaignHandler := handlers.NewCampaignHandler(charity, ws)
	charityHandler := handlers.NewCharityHandler(charity)
	donationHandler := handlers.NewDonationHandler(charity, nil, blockchain, ws)

	rg.GET("/campaigns", campaignHandler.ListCampaigns)
	rg.GET("/campaigns/:id", campaignHandler.GetCampaign)
	rg.GET("/campaigns/:id/donations", donationHandler.ListCampaignDonations)
	rg.GET("/campaigns/:id/leaderboard", campaignHandler.GetLeaderboard)
	rg.GET("/campaigns/:id/timeline", campaignHandler.GetTimeline)
	rg.GET("/campaigns/:id/allocation", campaignHandler.GetAllocation)
	rg.GET("/campaigns/:id/expenses", campaignHandler.ListExpenses)

	rg.GET("/charities", charityHandler.ListCharities)
	rg.GET("/charities/:id", charityHandler.GetCharity)

	rg.GET("/blockchain/donations", donationHandler.GetRecentChainDonations)
	rg.GET("/blockchain/donations/:id", donationHandler.GetChainDonation)
}

// SetupProtectedRoutes sets up everything behind the auth middleware.
func SetupProtectedRoutes(rg *gin.RouterGroup, db *sql.DB, charity *services.CharityService,
	donations *services.DonationService, blockchain *services.BlockchainService, ws *handlers.WSHandler) {
	campaignHandler := handlers.NewCampaignHandler(charity, ws)
	charityHandler := handlers.NewCharityHandler(charity)
	donationHandler := handlers.NewDonationHandler(charity, donations, blockchain, ws)
	userHandler := &handlers.UserHandler{DB: db}

	// Donor surface
	rg.POST("/donations", donationHandler.CreateDonation)
	rg.GET("/donations", donationHandler.ListMyDonations)

	// Charity management
	rg.POST("/charity/profile", charityHandler.CreateProfile)
	rg.GET("/charity/dashboard", charityHandler.GetDashboard)
	rg.POST("/campaigns", campaignHandler.CreateCampaign)
	rg.PUT("/campaigns/:id", campaignHandler.UpdateCampaign)
	rg.DELETE("/campaigns/:id", campaignHandler.DeleteCampaign)
	rg.POST("/campaigns/:id/expenses", campaignHandler.CreateExpense)

	// Account
	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}
