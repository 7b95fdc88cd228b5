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
			last_report_sent TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`ALTER TABLE users ADD COLUMN IF NOT EXISTS last_report_sent TIMESTAMP`,

		// Amounts are stored in cents (BIGINT), never floating point.
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(20) NOT NULL CHECK (type IN ('CURRENT', 'SAVINGS', 'LOAN', 'INVESTMENT')),
			balance BIGINT NOT NULL DEFAULT 0,
			is_default BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			account_id UUID REFERENCES accounts(id) ON DELETE CASCADE,
			type VARCHAR(10) NOT NULL CHECK (type IN ('EXPENSE', 'INCOME')),
			amount BIGINT NOT NULL CHECK (amount >= 0),
			category VARCHAR(50) NOT NULL,
			description TEXT DEFAULT '',
			date TIMESTAMP NOT NULL,
			is_recurring BOOLEAN DEFAULT FALSE,
			recurring_interval VARCHAR(10) CHECK (recurring_interval IN ('DAILY', 'WEEKLY', 'MONTHLY', 'YEARLY')),
			next_recurring_date TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			amount BIGINT NOT NULL DEFAULT 0,
			last_alert_sent TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_recurring ON transactions(next_recurring_date) WHERE is_recurring`,

		// One default account per user, enforced at the storage layer on
		// top of the transactional clear-then-set in the account service.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_one_default ON accounts(user_id) WHERE is_default`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
