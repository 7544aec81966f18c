package wallet

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType labels a ledger event. Values match the transaction
// labels the billsHOME frontend renders.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeAirtime  TransactionType = "Airtime Purchase"
	TransactionTypeData     TransactionType = "Data Purchase"
	TransactionTypeBet      TransactionType = "Bet"
	TransactionTypeTv       TransactionType = "TV Subscription"
	TransactionTypeBankXfer TransactionType = "Bank Transfer"
	TransactionTypeRefund   TransactionType = "Refund"
)

// Wallet is a user's balance row. Balance is kobo (minor units); it never
// goes negative.
type Wallet struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Metadata carries type-specific purchase fields (phone, network, plan,
// provider). Opaque to the ledger; stored as jsonb.
type Metadata map[string]string

// Value implements driver.Valuer
func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("metadata scan: unexpected type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Transaction is an immutable record of one ledger event. Amount is signed
// kobo: positive credits, negative debits. Created exactly once at the
// moment a ledger mutation commits; never edited or deleted.
type Transaction struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Type      TransactionType `db:"type"`
	Amount    int64           `db:"amount"`
	Reference sql.NullString  `db:"reference"`
	Metadata  Metadata        `db:"metadata"`
	CreatedAt time.Time       `db:"created_at"`
}

// DepositStatus tracks the deposit confirmation state machine.
type DepositStatus string

const (
	// DepositStatusInitiated means a reference exists, no funds moved
	DepositStatusInitiated DepositStatus = "initiated"
	// DepositStatusConfirmed is terminal: the provider confirmed the charge
	// and exactly one credit was applied
	DepositStatusConfirmed DepositStatus = "confirmed"
)

// PendingDeposit ties a payment-link reference to the user who initiated
// it, so webhook confirmations resolve the right account.
type PendingDeposit struct {
	Reference   string        `db:"reference"`
	UserID      uuid.UUID     `db:"user_id"`
	Amount      int64         `db:"amount"`
	Status      DepositStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	ConfirmedAt sql.NullTime  `db:"confirmed_at"`
}
