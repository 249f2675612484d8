package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a small category tree with one draft article. It is a
// no-op if any users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA is not enabled for the seed admin — it can be set up after login.
	_, err = db.Exec(`
		INSERT INTO users (username, password_hash, totp_enabled)
		VALUES ($1, $2, $3)
	`, "admin", string(hash), false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A small starter tree: News with a nested Releases child.
	newsID := uuid.New()
	releasesID := uuid.New()

	_, err = db.Exec(`
		INSERT INTO categories (id, name, description, parent_id, level, path, sort_order)
		VALUES
			($1, 'News', 'Site news and announcements', NULL, 0, $2, 0),
			($3, 'Releases', 'Product release notes', $1, 1, $4, 0)
	`, newsID, newsID.String(), releasesID, newsID.String()+"/"+releasesID.String())
	if err != nil {
		return fmt.Errorf("seed insert categories: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO contents (title, markdown_content, html_content, category_id, status)
		VALUES ($1, $2, $3, $4, 'draft')
	`, "Welcome", "# Welcome\n\nThis is your first draft.",
		"<h1>Welcome</h1>\n<p>This is your first draft.</p>\n", newsID)
	if err != nil {
		return fmt.Errorf("seed insert content: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
