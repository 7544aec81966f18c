package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists wallets and their append-only transaction ledger.
// Every mutating call locks the user's wallet row, so concurrent
// credits/debits on one user serialize; cross-user operations do not
// contend.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureWallet(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (r *Repository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := r.EnsureWallet(ctx, userID); err != nil {
		return 0, err
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM user_wallets WHERE user_id = $1`, userID)
	return balance, err
}

// ListTransactions returns the user's ledger in insertion order.
func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, type, amount, reference, metadata, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// HasTransactionWithReference reports whether a ledger entry with the given
// reference already exists for the user.
func (r *Repository) HasTransactionWithReference(ctx context.Context, userID uuid.UUID, reference string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM wallet_transactions
			WHERE user_id = $1 AND reference = $2
		)
	`, userID, reference)
	return exists, err
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (r *Repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return 0, err
	}

	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT balance FROM user_wallets WHERE user_id = $1 FOR UPDATE`, userID)
	return balance, err
}

func (r *Repository) getTransactionAmountByRef(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, referenceID string) (int64, bool, error) {
	if referenceID == "" {
		return 0, false, nil
	}

	var amount int64
	err := tx.GetContext(ctx, &amount, `
		SELECT amount
		FROM wallet_transactions
		WHERE user_id = $1 AND reference = $2
		LIMIT 1
	`, userID, referenceID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

func (r *Repository) updateBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE user_wallets SET balance = $1, updated_at = now() WHERE user_id = $2`, balance, userID)
	return err
}

func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	var ref interface{}
	if referenceID == "" {
		ref = nil
	} else {
		ref = referenceID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, user_id, type, amount, reference, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), userID, string(txType), amount, ref, metadata)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// apply performs one ledger mutation: lock wallet row, replay-check the
// reference, move the balance when the entry affects it, append the
// transaction, commit. The check-then-mutate sequence is indivisible per
// user; two concurrent debits can never both pass the sufficiency check.
func (r *Repository) apply(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata, affectsBalance bool) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return err
	}

	existingAmount, exists, err := r.getTransactionAmountByRef(ctx, tx, userID, referenceID)
	if err != nil {
		return err
	}
	if exists {
		if existingAmount != amount {
			return ErrReferenceConflict
		}
		// Replay of an already-applied mutation: keep exactly one entry.
		return nil
	}

	if affectsBalance {
		nextBalance := balance + amount
		if nextBalance < 0 {
			return ErrInsufficientFunds
		}
		if err := r.updateBalance(ctx, tx, userID, nextBalance); err != nil {
			return err
		}
	}

	if err := r.insertTransaction(ctx, tx, userID, amount, txType, referenceID, metadata); err != nil {
		if errors.Is(err, ErrDuplicateReference) {
			existingAmount, exists, checkErr := r.getTransactionAmountByRef(ctx, tx, userID, referenceID)
			if checkErr != nil {
				return checkErr
			}
			if !exists || existingAmount != amount {
				return ErrReferenceConflict
			}
			return nil
		}
		return err
	}

	return tx.Commit()
}

// Credit increases the balance and appends a transaction of txType.
// Idempotent by reference: replaying the same reference with the same
// amount applies exactly once.
func (r *Repository) Credit(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	return r.apply(ctx, userID, amount, txType, referenceID, metadata, true)
}

// Debit decreases the balance and appends a transaction of txType with a
// negative amount. Fails with ErrInsufficientFunds when the balance cannot
// cover the amount.
func (r *Repository) Debit(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	return r.apply(ctx, userID, -amount, txType, referenceID, metadata, true)
}

// AppendExternal records a ledger event that did not move wallet funds
// (bank-funded purchases). The amount is informational; the wallet balance
// stays untouched.
func (r *Repository) AppendExternal(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	return r.apply(ctx, userID, amount, txType, referenceID, metadata, false)
}

// ---- pending deposits ----

func (r *Repository) CreatePendingDeposit(ctx context.Context, dep *PendingDeposit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_deposits (reference, user_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, dep.Reference, dep.UserID, dep.Amount, string(dep.Status), dep.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *Repository) GetPendingDeposit(ctx context.Context, reference string) (*PendingDeposit, error) {
	var dep PendingDeposit
	err := r.db.GetContext(ctx, &dep, `
		SELECT reference, user_id, amount, status, created_at, confirmed_at
		FROM pending_deposits
		WHERE reference = $1
	`, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownReference
	}
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (r *Repository) MarkDepositConfirmed(ctx context.Context, reference string, confirmedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pending_deposits
		SET status = $1, confirmed_at = $2
		WHERE reference = $3 AND status = $4
	`, string(DepositStatusConfirmed), confirmedAt, reference, string(DepositStatusInitiated))
	return err
}
