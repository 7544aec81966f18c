package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents a wallet account holder. Email is the external identity
// and is immutable after registration; all API operations route by it.
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	PINHash      string    `db:"pin_hash"`

	// ProfileImage holds an inline data URL when set
	ProfileImage sql.NullString `db:"profile_image"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
