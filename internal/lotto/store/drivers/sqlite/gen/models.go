// Row types for the tables in migrations/.

package gen

import (
	"database/sql"
	"time"
)

type Draw struct {
	ID         string
	UserID     string
	Ciphertext []byte
	Played     bool
	Win        bool
	Round      int64
	CreatedAt  time.Time
}

type Session struct {
	ID             string
	TokenHash      string
	FailedAttempts int64
	UserID         sql.NullString
	Role           sql.NullString
	CreatedAt      time.Time
	ExpiresAt      time.Time
	Revoked        bool
}

type User struct {
	ID              string
	Email           string
	Firstname       string
	Lastname        string
	Phone           string
	PasswordHash    string
	TotpSecret      string
	DrawKey         []byte
	Role            string
	LastLoggedIn    sql.NullTime
	CurrentLoggedIn sql.NullTime
	CreatedAt       time.Time
}
