package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (id, family_id, role, email, display_name, password_hash, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.FamilyID,
		user.Role,
		nullIfEmpty(user.Email),
		user.DisplayName,
		user.PasswordHash,
		user.PinHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23505" {
				return domain.ErrEmailAlreadyExists
			}
		}
		return fmt.Errorf("repository: create user failed: %w", err)
	}

	return nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		SELECT id, family_id, role, email, display_name, password_hash, pin_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: get user by email failed: %w", err)
	}

	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		SELECT id, family_id, role, email, display_name, password_hash, pin_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: get user by id failed: %w", err)
	}

	return user, nil
}

func (r *PostgresUserRepository) ListChildren(ctx context.Context, familyID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		SELECT id, family_id, role, email, display_name, password_hash, pin_hash, created_at, updated_at
		FROM users
		WHERE family_id = $1 AND role = $2
		ORDER BY display_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, familyID, domain.RoleChild)
	if err != nil {
		return nil, fmt.Errorf("repository: list children failed: %w", err)
	}
	defer rows.Close()

	var children []*domain.User

	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: list children scan failed: %w", err)
		}
		children = append(children, user)
	}

	return children, nil
}

func (r *PostgresUserRepository) scanUser(row scannable) (*domain.User, error) {
	var user domain.User
	var email sql.NullString

	err := row.Scan(
		&user.ID,
		&user.FamilyID,
		&user.Role,
		&email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.PinHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	return &user, nil
}

// nullIfEmpty keeps the partial unique index on users.email clean:
// children have no email and must not collide on ''.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
