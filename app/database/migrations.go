package database

import (
	"database/sql"

	"github.com/Miian1/FamilyFinance/app/config"
)

// RunMigrations ensures the schema exists and applies incremental updates.
func RunMigrations(db *sql.DB) error {
	log := config.GetLog()
	log.Info("Running database migrations...")

	// 1. Create tables if they don't exist
	tables := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role VARCHAR(10) NOT NULL DEFAULT 'member',
			avatar TEXT DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			color VARCHAR(50) DEFAULT '',
			is_suspended BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS group_accounts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			color VARCHAR(50) DEFAULT '',
			is_suspended BOOLEAN NOT NULL DEFAULT false,
			members UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			type VARCHAR(10) NOT NULL,
			color VARCHAR(20) NOT NULL DEFAULT '#8b5cf6',
			icon VARCHAR(50) DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			type VARCHAR(10) NOT NULL,
			category_id UUID,
			date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			note TEXT DEFAULT '',
			created_by UUID NOT NULL,
			transfer_id UUID,
			leg VARCHAR(6)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'info',
			status VARCHAR(10),
			is_read BOOLEAN NOT NULL DEFAULT false,
			data JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			requester_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			sender_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
	}

	for _, q := range tables {
		if _, err := db.Exec(q); err != nil {
			log.WithError(err).Error("Failed to create table")
			return err
		}
	}

	// 2. Indexes and columns for existing installs
	patches := []string{
		`ALTER TABLE accounts ADD COLUMN IF NOT EXISTS opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0`,
		`ALTER TABLE group_accounts ADD COLUMN IF NOT EXISTS opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0`,
		`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS transfer_id UUID`,
		`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS leg VARCHAR(6)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_transfer_id ON transactions(transfer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_requester ON friendships(requester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_receiver ON friendships(receiver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id)`,
	}

	for _, p := range patches {
		if _, err := db.Exec(p); err != nil {
			// Continue as some might be duplicate index errors depending on PG version
			log.WithError(err).Warn("Migration patch failed")
		}
	}

	// 3. Seed default categories
	seeds := []string{
		`INSERT INTO categories (name, type, color, icon, is_default)
		 SELECT 'Groceries', 'expense', '#10b981', 'ShoppingBag', true
		 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Groceries')`,
		`INSERT INTO categories (name, type, color, icon, is_default)
		 SELECT 'Bills', 'expense', '#ef4444', 'FileText', true
		 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Bills')`,
		`INSERT INTO categories (name, type, color, icon, is_default)
		 SELECT 'Salary', 'income', '#3b82f6', 'Briefcase', true
		 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Salary')`,
		`INSERT INTO categories (name, type, color, icon, is_default)
		 SELECT 'General', 'expense', '#8b5cf6', 'Tag', true
		 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'General')`,
	}

	for _, s := range seeds {
		if _, err := db.Exec(s); err != nil {
			log.WithError(err).Warn("Failed to seed category")
		}
	}

	log.Info("Database migrations completed successfully")
	return nil
}
