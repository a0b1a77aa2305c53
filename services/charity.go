package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/models"
	"github.com/clearcause/charity-api/utils"
)

// CharityService is the data facade: it translates API-level requests into
// queries and assembles denormalized results. Joins that the old client did
// by hand across round trips are single queries here.
type CharityService struct {
	db      *sql.DB
	storage *ImageStorage
}

func NewCharityService(db *sql.DB, storage *ImageStorage) *CharityService {
	return &CharityService{db: db, storage: storage}
}

// ============================================================================
// CAMPAIGNS
// ============================================================================

// GetCampaignByID returns a campaign merged with its owning charity's
// profile in one query.
func (s *CharityService) GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `
		SELECT c.id, c.charity_id, c.title, c.description, c.target_amount,
		       c.current_amount, c.status, c.deadline, COALESCE(c.image_url, ''),
		       COALESCE(c.category, ''), c.created_at, c.updated_at,
		       cp.name, cp.verified
		FROM campaigns c
		JOIN charity_profiles cp ON c.charity_id = cp.id
		WHERE c.id = $1
	`

	var campaign models.Campaign
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID, &campaign.CharityID, &campaign.Title, &campaign.Description,
		&campaign.TargetAmount, &campaign.CurrentAmount, &campaign.Status,
		&campaign.Deadline, &campaign.ImageURL, &campaign.Category,
		&campaign.CreatedAt, &campaign.UpdatedAt,
		&campaign.CharityName, &campaign.CharityVerified,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &campaign, nil
}

// ListCampaigns returns all campaigns with charity info joined in. Optional
// status/category filters; empty string means no filter.
func (s *CharityService) ListCampaigns(ctx context.Context, status, category string) ([]models.Campaign, error) {
	query := `
		SELECT c.id, c.charity_id, c.title, c.description, c.target_amount,
		       c.current_amount, c.status, c.deadline, COALESCE(c.image_url, ''),
		       COALESCE(c.category, ''), c.created_at, c.updated_at,
		       cp.name, cp.verified
		FROM campaigns c
		JOIN charity_profiles cp ON c.charity_id = cp.id
		WHERE ($1 = '' OR c.status = $1)
		  AND ($2 = '' OR c.category = $2)
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, status, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(
			&c.ID, &c.CharityID, &c.Title, &c.Description, &c.TargetAmount,
			&c.CurrentAmount, &c.Status, &c.Deadline, &c.ImageURL,
			&c.Category, &c.CreatedAt, &c.UpdatedAt,
			&c.CharityName, &c.CharityVerified,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// GetCharityCampaigns returns the campaigns belonging to the session user's
// charity. ErrProfileNotFound if the user has no charity profile.
func (s *CharityService) GetCharityCampaigns(ctx context.Context, userID string) ([]models.Campaign, error) {
	profile, err := s.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.campaignsByCharity(ctx, profile.ID)
}

func (s *CharityService) campaignsByCharity(ctx context.Context, charityID string) ([]models.Campaign, error) {
	query := `
		SELECT c.id, c.charity_id, c.title, c.description, c.target_amount,
		       c.current_amount, c.status, c.deadline, COALESCE(c.image_url, ''),
		       COALESCE(c.category, ''), c.created_at, c.updated_at
		FROM campaigns c
		WHERE c.charity_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, charityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(
			&c.ID, &c.CharityID, &c.Title, &c.Description, &c.TargetAmount,
			&c.CurrentAmount, &c.Status, &c.Deadline, &c.ImageURL,
			&c.Category, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// CreateCampaign uploads the image (if any) and inserts the row. The status
// is forced to "active" and current_amount starts at 0 no matter what the
// request says. If the insert fails after a successful upload, the stored
// image is deleted again so no orphan is left behind.
func (s *CharityService) CreateCampaign(ctx context.Context, userID string, req models.CreateCampaignRequest) (*models.Campaign, error) {
	profile, err := s.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var imageKey, imageURL string
	if req.Image != "" {
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, &ValidationError{Field: "image", Message: "invalid base64 image payload"}
		}
		imageKey, imageURL, err = s.storage.Save(data, req.ImageName)
		if err != nil {
			return nil, err
		}
	}

	campaign := models.Campaign{
		ID:            uuid.New().String(),
		CharityID:     profile.ID,
		Title:         req.Title,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Status:        models.CampaignStatusActive,
		Deadline:      req.Deadline,
		ImageURL:      imageURL,
		Category:      req.Category,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, charity_id, title, description, target_amount,
		                       current_amount, status, deadline, image_url, category,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, campaign.ID, campaign.CharityID, campaign.Title, campaign.Description,
		campaign.TargetAmount, campaign.CurrentAmount, campaign.Status,
		campaign.Deadline, nullString(campaign.ImageURL), nullString(campaign.Category),
		campaign.CreatedAt, campaign.UpdatedAt)

	if err != nil {
		if imageKey != "" {
			if delErr := s.storage.Delete(imageKey); delErr != nil {
				log.Printf("⚠️ Failed to clean up uploaded image %s: %v", imageKey, delErr)
			}
		}
		return nil, err
	}

	campaign.CharityName = profile.Name
	campaign.CharityVerified = profile.Verified
	return &campaign, nil
}

// UpdateCampaign applies a partial update. A charity may only mutate its own
// campaigns.
func (s *CharityService) UpdateCampaign(ctx context.Context, userID, campaignID string, req models.UpdateCampaignRequest) error {
	if err := s.requireOwnership(ctx, userID, campaignID); err != nil {
		return err
	}

	query := `
		UPDATE campaigns
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    target_amount = COALESCE($3, target_amount),
		    deadline = COALESCE($4, deadline),
		    category = COALESCE($5, category),
		    status = COALESCE($6, status),
		    updated_at = NOW()
		WHERE id = $7
	`
	_, err := s.db.ExecContext(ctx, query,
		req.Title, req.Description, req.TargetAmount, req.Deadline,
		req.Category, req.Status, campaignID)
	return err
}

// DeleteCampaign removes a campaign. Donation rows survive with a NULL
// campaign reference; expenses cascade.
func (s *CharityService) DeleteCampaign(ctx context.Context, userID, campaignID string) error {
	if err := s.requireOwnership(ctx, userID, campaignID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, campaignID)
	return err
}

func (s *CharityService) requireOwnership(ctx context.Context, userID, campaignID string) error {
	var ownerUserID string
	err := s.db.QueryRowContext(ctx, `
		SELECT cp.user_id
		FROM campaigns c
		JOIN charity_profiles cp ON c.charity_id = cp.id
		WHERE c.id = $1
	`, campaignID).Scan(&ownerUserID)

	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerUserID != userID {
		return ErrPermissionDenied
	}
	return nil
}

// ============================================================================
// CHARITY PROFILES
// ============================================================================

// CreateCharityProfile registers the session user as a charity. The wallet
// address is encrypted before it touches the database.
func (s *CharityService) CreateCharityProfile(ctx context.Context, userID string, req models.CreateCharityProfileRequest) (*models.CharityProfile, error) {
	var walletEnc sql.NullString
	if req.WalletAddress != "" {
		enc, err := utils.EncryptString(req.WalletAddress)
		if err != nil {
			return nil, err
		}
		walletEnc = sql.NullString{String: enc, Valid: true}
	}

	profile := models.CharityProfile{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		Phone:         req.Phone,
		WalletAddress: req.WalletAddress,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO charity_profiles (id, user_id, name, description, location,
		                              phone, wallet_address_enc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, profile.ID, profile.UserID, profile.Name, nullString(profile.Description),
		nullString(profile.Location), nullString(profile.Phone), walletEnc,
		profile.CreatedAt, profile.UpdatedAt)

	if err != nil {
		return nil, err
	}

	log.Printf("🏥 Charity profile created: %s (%s)", profile.Name, utils.MaskWallet(req.WalletAddress))
	return &profile, nil
}

// GetProfileByUserID returns the charity profile owned by a user, or
// ErrProfileNotFound.
func (s *CharityService) GetProfileByUserID(ctx context.Context, userID string) (*models.CharityProfile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, COALESCE(description, ''), COALESCE(location, ''),
		       COALESCE(phone, ''), COALESCE(wallet_address_enc, ''), verified,
		       created_at, updated_at
		FROM charity_profiles
		WHERE user_id = $1
	`, userID))
}

// GetCharityByID returns a charity profile with derived stats.
func (s *CharityService) GetCharityByID(ctx context.Context, charityID string) (*models.CharityProfile, error) {
	profile, err := s.scanProfile(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, COALESCE(description, ''), COALESCE(location, ''),
		       COALESCE(phone, ''), COALESCE(wallet_address_enc, ''), verified,
		       created_at, updated_at
		FROM charity_profiles
		WHERE id = $1
	`, charityID))
	if err != nil {
		return nil, err
	}

	stats, err := s.charityStats(ctx, charityID)
	if err != nil {
		return nil, err
	}
	profile.Stats = stats
	return profile, nil
}

func (s *CharityService) scanProfile(row *sql.Row) (*models.CharityProfile, error) {
	var p models.CharityProfile
	var walletEnc string
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Location,
		&p.Phone, &walletEnc, &p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if walletEnc != "" {
		wallet, err := utils.DecryptString(walletEnc)
		if err != nil {
			log.Printf("⚠️ Failed to decrypt wallet address for charity %s: %v", p.ID, err)
		} else {
			p.WalletAddress = wallet
		}
	}
	return &p, nil
}

// ListCharities returns all charity profiles with their derived stats in a
// single query. Stats are aggregate subqueries, never stored columns.
func (s *CharityService) ListCharities(ctx context.Context) ([]models.CharityProfile, error) {
	query := `
		SELECT cp.id, cp.user_id, cp.name, COALESCE(cp.description, ''),
		       COALESCE(cp.location, ''), cp.verified, cp.created_at, cp.updated_at,
		       COALESCE((SELECT SUM(d.amount) FROM campaign_donations d
		                 JOIN campaigns c ON d.campaign_id = c.id
		                 WHERE c.charity_id = cp.id AND d.status = 'confirmed'), 0) AS total_raised,
		       (SELECT COUNT(*) FROM campaigns c
		        WHERE c.charity_id = cp.id AND c.status = 'active') AS active_campaigns,
		       (SELECT COUNT(DISTINCT d.donor_id) FROM campaign_donations d
		        JOIN campaigns c ON d.campaign_id = c.id
		        WHERE c.charity_id = cp.id AND d.status = 'confirmed'
		          AND d.donor_id IS NOT NULL) AS supporter_count
		FROM charity_profiles cp
		ORDER BY cp.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charities []models.CharityProfile
	for rows.Next() {
		var p models.CharityProfile
		var stats models.CharityStats
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Location,
			&p.Verified, &p.CreatedAt, &p.UpdatedAt,
			&stats.TotalRaised, &stats.ActiveCampaigns, &stats.SupporterCount); err != nil {
			return nil, err
		}
		p.Stats = &stats
		charities = append(charities, p)
	}

	return charities, rows.Err()
}

func (s *CharityService) charityStats(ctx context.Context, charityID string) (*models.CharityStats, error) {
	var stats models.CharityStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT SUM(d.amount) FROM campaign_donations d
		                 JOIN campaigns c ON d.campaign_id = c.id
		                 WHERE c.charity_id = $1 AND d.status = 'confirmed'), 0),
		       (SELECT COUNT(*) FROM campaigns c
		        WHERE c.charity_id = $1 AND c.status = 'active'),
		       (SELECT COUNT(DISTINCT d.donor_id) FROM campaign_donations d
		        JOIN campaigns c ON d.campaign_id = c.id
		        WHERE c.charity_id = $1 AND d.status = 'confirmed'
		          AND d.donor_id IS NOT NULL)
	`, charityID).Scan(&stats.TotalRaised, &stats.ActiveCampaigns, &stats.SupporterCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ============================================================================
// DONATIONS
// ============================================================================

// InsertDonation writes a donation row in "pending" state. When the request
// carries an idempotency key and a row with that key already exists, the
// existing donation is returned instead of inserting a duplicate.
func (s *CharityService) InsertDonation(ctx context.Context, d *models.Donation) (*models.Donation, error) {
	if d.IdempotencyKey != "" {
		existing, err := s.findByIdempotencyKey(ctx, d.IdempotencyKey)
		if err != nil && err != ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaign_donations (id, campaign_id, donor_id, amount, currency,
		                                donation_policy, is_recurring, is_anonymous,
		                                message, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, d.ID, d.CampaignID, d.DonorID, d.Amount, d.Currency, d.Policy,
		d.IsRecurring, d.IsAnonymous, nullString(d.Message), d.Status,
		nullString(d.IdempotencyKey), d.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" && d.IdempotencyKey != "" {
		// Lost a race with a concurrent retry carrying the same key. Without
		// a key the violation is something else (an id collision) and the
		// pq error must surface as-is.
		return s.findByIdempotencyKey(ctx, d.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CharityService) findByIdempotencyKey(ctx context.Context, key string) (*models.Donation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, campaign_id, donor_id, amount, currency, donation_policy,
		       is_recurring, is_anonymous, COALESCE(message, ''), tx_hash, status, created_at
		FROM campaign_donations
		WHERE idempotency_key = $1
	`, key)
	return scanDonation(row)
}

// GetDonationByID returns a single donation row.
func (s *CharityService) GetDonationByID(ctx context.Context, id string) (*models.Donation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, campaign_id, donor_id, amount, currency, donation_policy,
		       is_recurring, is_anonymous, COALESCE(message, ''), tx_hash, status, created_at
		FROM campaign_donations
		WHERE id = $1
	`, id)
	return scanDonation(row)
}

func scanDonation(row *sql.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Currency,
		&d.Policy, &d.IsRecurring, &d.IsAnonymous, &d.Message, &d.TxHash,
		&d.Status, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ConfirmDonation marks a donation confirmed with its transaction hash and
// bumps the campaign's running total in the same transaction. The total only
// ever goes up.
func (s *CharityService) ConfirmDonation(ctx context.Context, donationID, txHash string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var campaignID sql.NullString
		var amount decimal.Decimal
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT campaign_id, amount, status
			FROM campaign_donations
			WHERE id = $1
			FOR UPDATE
		`, donationID).Scan(&campaignID, &amount, &status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status == models.DonationStatusConfirmed {
			return nil // already applied, keep the increment exactly-once
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE campaign_donations
			SET status = $1, tx_hash = $2
			WHERE id = $3
		`, models.DonationStatusConfirmed, txHash, donationID); err != nil {
			return err
		}

		if campaignID.Valid {
			if _, err := tx.ExecContext(ctx, `
				UPDATE campaigns
				SET current_amount = current_amount + $1, updated_at = NOW()
				WHERE id = $2
			`, amount, campaignID.String); err != nil {
				return err
			}
		}

		return nil
	})
}

// MarkDonationFailed gives up on a donation after reconciliation retries.
func (s *CharityService) MarkDonationFailed(ctx context.Context, donationID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE campaign_donations SET status = $1 WHERE id = $2
	`, models.DonationStatusFailed, donationID)
	return err
}

// ListPendingDonations returns pending donations older than the cutoff, for
// the reconciler to retry.
func (s *CharityService) ListPendingDonations(ctx context.Context, olderThan time.Time, limit int) ([]models.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, campaign_id, donor_id, amount, currency, donation_policy,
		       is_recurring, is_anonymous, COALESCE(message, ''), tx_hash, status, created_at
		FROM campaign_donations
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Currency,
			&d.Policy, &d.IsRecurring, &d.IsAnonymous, &d.Message, &d.TxHash,
			&d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// CreateRecurringSchedule stores the monthly repeat created by a recurring
// donation submission.
func (s *CharityService) CreateRecurringSchedule(ctx context.Context, r *models.RecurringDonation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_donations (id, donor_id, campaign_id, amount, currency,
		                                 donation_policy, next_charge_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ID, r.DonorID, r.CampaignID, r.Amount, r.Currency, r.Policy,
		r.NextChargeAt, r.Active, r.CreatedAt)
	return err
}

// ListCampaignDonations returns the confirmed donations for a campaign with
// donor names joined in. Anonymous donations carry no donor reference.
func (s *CharityService) ListCampaignDonations(ctx context.Context, campaignID string) ([]models.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.campaign_id, d.donor_id, d.amount, d.currency,
		       d.donation_policy, d.is_recurring, d.is_anonymous,
		       COALESCE(d.message, ''), d.tx_hash, d.status, d.created_at,
		       COALESCE(u.name, '')
		FROM campaign_donations d
		LEFT JOIN users u ON d.donor_id = u.id
		WHERE d.campaign_id = $1 AND d.status = 'confirmed'
		ORDER BY d.created_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Currency,
			&d.Policy, &d.IsRecurring, &d.IsAnonymous, &d.Message, &d.TxHash,
			&d.Status, &d.CreatedAt, &d.DonorName); err != nil {
			return nil, err
		}
		if d.IsAnonymous {
			d.DonorID = nil
			d.DonorName = ""
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// ListDonorDonations returns a donor's own donation history.
func (s *CharityService) ListDonorDonations(ctx context.Context, donorID string) ([]models.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, campaign_id, donor_id, amount, currency, donation_policy,
		       is_recurring, is_anonymous, COALESCE(message, ''), tx_hash, status, created_at
		FROM campaign_donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
	`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Currency,
			&d.Policy, &d.IsRecurring, &d.IsAnonymous, &d.Message, &d.TxHash,
			&d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// ============================================================================
// EXPENSES
// ============================================================================

// CreateExpense records spending against a campaign. Only the owning
// charity may do this.
func (s *CharityService) CreateExpense(ctx context.Context, userID, campaignID string, req models.CreateExpenseRequest) (*models.Expense, error) {
	if err := s.requireOwnership(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	if !models.ValidExpenseCategory(req.Category) {
		return nil, &ValidationError{Field: "category", Message: "unknown expense category"}
	}

	expense := models.Expense{
		ID:         uuid.New().String(),
		CampaignID: campaignID,
		Title:      req.Title,
		Amount:     req.Amount,
		Category:   req.Category,
		Status:     models.ExpenseStatusPending,
		CreatedAt:  time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaign_expenses (id, campaign_id, title, amount, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, expense.ID, expense.CampaignID, expense.Title, expense.Amount,
		expense.Category, expense.Status, expense.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// ListCampaignExpenses returns a campaign's expenses, newest first.
func (s *CharityService) ListCampaignExpenses(ctx context.Context, campaignID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, campaign_id, title, amount, category, status, created_at
		FROM campaign_expenses
		WHERE campaign_id = $1
		ORDER BY created_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.Title, &e.Amount,
			&e.Category, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
