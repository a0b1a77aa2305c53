package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS charity_profiles (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			location VARCHAR(255),
			phone VARCHAR(50),
			wallet_address_enc TEXT,
			verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			charity_id UUID REFERENCES charity_profiles(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			target_amount NUMERIC(14,2) NOT NULL CHECK (target_amount >= 0),
			current_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (current_amount >= 0),
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			deadline TIMESTAMP,
			image_url TEXT,
			category VARCHAR(100),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS campaign_donations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			campaign_id UUID REFERENCES campaigns(id) ON DELETE SET NULL,
			donor_id UUID REFERENCES users(id) ON DELETE SET NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			currency VARCHAR(10) NOT NULL DEFAULT 'EUR',
			donation_policy VARCHAR(30) NOT NULL DEFAULT 'always-donate',
			is_recurring BOOLEAN DEFAULT FALSE,
			is_anonymous BOOLEAN DEFAULT FALSE,
			message TEXT,
			tx_hash VARCHAR(130),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			idempotency_key VARCHAR(255) UNIQUE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS recurring_donations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			donor_id UUID REFERENCES users(id) ON DELETE CASCADE,
			campaign_id UUID REFERENCES campaigns(id) ON DELETE SET NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			currency VARCHAR(10) NOT NULL DEFAULT 'EUR',
			donation_policy VARCHAR(30) NOT NULL DEFAULT 'always-donate',
			next_charge_at TIMESTAMP NOT NULL,
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS campaign_expenses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			campaign_id UUID REFERENCES campaigns(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
			category VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_campaigns_charity_id ON campaigns(charity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_campaign_id ON campaign_donations(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_donor_id ON campaign_donations(donor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_status ON campaign_donations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_campaign_id ON campaign_expenses(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_donor_id ON recurring_donations(donor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
