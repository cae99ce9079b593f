package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"tour-guide-service/internal/domain"
)

const (
	createRolesQuery = `
	CREATE TABLE IF NOT EXISTS roles (
		name TEXT PRIMARY KEY
	);
	`

	// Email uniqueness is enforced case-insensitively by idx_users_email_lower.
	createUsersQuery = `
	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY,
		user_name VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(256) NOT NULL,
		full_name VARCHAR(150) NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	createUserRolesQuery = `
	CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
		role_name TEXT NOT NULL REFERENCES roles(name)
	);
	`

	createToursQuery = `
	CREATE TABLE IF NOT EXISTS tours (
		tour_id UUID PRIMARY KEY,
		creator_user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE RESTRICT,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		theme VARCHAR(100),
		cover_image_url VARCHAR(2048),
		status TEXT NOT NULL,
		estimated_duration_minutes INTEGER,
		estimated_distance_meters INTEGER,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		version INTEGER NOT NULL DEFAULT 1
	);
	`

	createTourPointsQuery = `
	CREATE TABLE IF NOT EXISTS tour_points (
		tour_point_id UUID PRIMARY KEY,
		tour_id UUID NOT NULL REFERENCES tours(tour_id) ON DELETE CASCADE,
		name VARCHAR(255),
		text_description TEXT,
		point_order INTEGER NOT NULL,
		latitude NUMERIC(9,6) NOT NULL,
		longitude NUMERIC(9,6) NOT NULL,
		UNIQUE (tour_id, point_order)
	);
	`

	createPointMediaQuery = `
	CREATE TABLE IF NOT EXISTS point_media (
		media_id UUID PRIMARY KEY,
		tour_point_id UUID NOT NULL REFERENCES tour_points(tour_point_id) ON DELETE CASCADE,
		url VARCHAR(2048) NOT NULL,
		title VARCHAR(255),
		media_order INTEGER NOT NULL DEFAULT 0
	);
	`

	createCommentsQuery = `
	CREATE TABLE IF NOT EXISTS tour_comments (
		comment_id UUID PRIMARY KEY,
		tour_id UUID NOT NULL REFERENCES tours(tour_id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		text VARCHAR(1000) NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexesQuery = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(lower(email));
	CREATE INDEX IF NOT EXISTS idx_tours_status_title ON tours(status, title);
	CREATE INDEX IF NOT EXISTS idx_tours_creator ON tours(creator_user_id);
	CREATE INDEX IF NOT EXISTS idx_point_media_point ON point_media(tour_point_id);
	CREATE INDEX IF NOT EXISTS idx_tour_comments_tour_created ON tour_comments(tour_id, created_at DESC);
	`
)

// schemaStatements run in order inside one transaction.
var schemaStatements = []string{
	createRolesQuery,
	createUsersQuery,
	createUserRolesQuery,
	createToursQuery,
	createTourPointsQuery,
	createPointMediaQuery,
	createCommentsQuery,
	createIndexesQuery,
}

// Initialize the Postgres schema and seed the role rows. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer rollback(ctx, tx, "init schema")

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	for _, role := range domain.AllRoles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`, string(role)); err != nil {
			return fmt.Errorf("init schema: seed role %q: %w", role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
