package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

// PostgresUserRepository keeps accounts in users and their single role in user_roles.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userSelect = `
	SELECT u.user_id, u.user_name, u.email, u.full_name, u.password_hash, COALESCE(ur.role_name, ''), u.created_at
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.user_id
	`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.UserID, &u.UserName, &u.Email, &u.FullName, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *PostgresUserRepository) findOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}
	return u, nil
}

func (r *PostgresUserRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.findOne(ctx, "find user by name", `WHERE u.user_name = $1;`, userName)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find user by email", `WHERE lower(u.email) = lower($1);`, email)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "find user by id", `WHERE u.user_id = $1;`, userID)
}

// CreateWithRole inserts the user, checks the role exists and assigns it, all or nothing.
func (r *PostgresUserRepository) CreateWithRole(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("create user: user is nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create user: begin tx: %w", err)
	}
	defer rollback(ctx, tx, "create user")

	insertUserQuery := `
	INSERT INTO users (user_id, user_name, email, full_name, password_hash, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.ExecContext(ctx, insertUserQuery, u.UserID, u.UserName, u.Email, u.FullName, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return fmt.Errorf("create user %q: %w", u.UserName, ports.ErrConflict)
		}
		return fmt.Errorf("create user: insert user: %w", err)
	}

	var roleExists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1);`, string(u.Role)).Scan(&roleExists); err != nil {
		return fmt.Errorf("create user: check role: %w", err)
	}
	if !roleExists {
		return fmt.Errorf("create user: role %q: %w", u.Role, ports.ErrRoleMissing)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2);`, u.UserID, string(u.Role)); err != nil {
		return fmt.Errorf("create user: assign role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create user: commit tx: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+`ORDER BY u.user_name;`)
	if err != nil {
		return nil, fmt.Errorf("list users: query: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: rows: %w", err)
	}
	return users, nil
}

// DeleteUser fails with ErrHasDependents while the user still owns tours.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("delete user %s: %w", userID, ports.ErrHasDependents)
		}
		return fmt.Errorf("delete user: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
