package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines bank account registry data access
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByUserAndNumber(ctx context.Context, userID uuid.UUID, accountNumber string) (*Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Account, error)
	Delete(ctx context.Context, userID uuid.UUID, accountNumber string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts a linked account. The first account a user links becomes
// the default. The NOT EXISTS subquery runs under READ COMMITTED and two
// concurrent first links can both compute true; the partial unique index
// bank_accounts_user_default_key admits only one default per user, and the
// loser retries as non-default.
func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO bank_accounts (id, user_id, account_number, bank_code, account_name, is_default, linked_at)
		VALUES ($1, $2, $3, $4, $5,
			NOT EXISTS (SELECT 1 FROM bank_accounts WHERE user_id = $2),
			$6)
		RETURNING is_default
	`
	err := r.insert(ctx, account, query)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if pqErr.Constraint == "bank_accounts_user_default_key" {
			return r.insertNonDefault(ctx, account)
		}
		return ErrAlreadyLinked
	}
	if err != nil {
		return fmt.Errorf("bank repository create: %w", err)
	}
	return nil
}

// insertNonDefault links the account with is_default = false after losing
// the race for the default slot.
func (r *repository) insertNonDefault(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO bank_accounts (id, user_id, account_number, bank_code, account_name, is_default, linked_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
		RETURNING is_default
	`
	err := r.insert(ctx, account, query)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyLinked
	}
	if err != nil {
		return fmt.Errorf("bank repository create: %w", err)
	}
	return nil
}

func (r *repository) insert(ctx context.Context, account *Account, query string) error {
	return r.db.QueryRowxContext(ctx, query,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.BankCode,
		account.AccountName,
		account.LinkedAt,
	).Scan(&account.IsDefault)
}

func (r *repository) GetByUserAndNumber(ctx context.Context, userID uuid.UUID, accountNumber string) (*Account, error) {
	query := `
		SELECT id, user_id, account_number, bank_code, account_name, is_default, linked_at
		FROM bank_accounts
		WHERE user_id = $1 AND account_number = $2
	`
	var account Account
	err := r.db.GetContext(ctx, &account, query, userID, accountNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotLinked
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	query := `
		SELECT id, user_id, account_number, bank_code, account_name, is_default, linked_at
		FROM bank_accounts
		WHERE user_id = $1
		ORDER BY linked_at ASC
	`
	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repository) Delete(ctx context.Context, userID uuid.UUID, accountNumber string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bank_accounts WHERE user_id = $1 AND account_number = $2`, userID, accountNumber)
	if err != nil {
		return fmt.Errorf("bank repository delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotLinked
	}
	return nil
}
