package domain

import "time"

type User struct {
	ID           string
	Email        string // stored lower-cased
	Firstname    string
	Lastname     string
	Phone        string
	PasswordHash string `json:"-"` // argon2id PHC string
	TOTPSecret   string `json:"-"` // base32 pin key, immutable after registration
	DrawKey      []byte `json:"-"` // wrapped under the master key
	Role         Role

	LastLoggedIn    *time.Time
	CurrentLoggedIn *time.Time
	CreatedAt       time.Time
}

// Account returns the read model for u. Secrets never leave the domain type.
func (u User) Account() Account {
	return Account{
		ID:              u.ID,
		Email:           u.Email,
		Firstname:       u.Firstname,
		Lastname:        u.Lastname,
		Phone:           u.Phone,
		Role:            u.Role,
		LastLoggedIn:    u.LastLoggedIn,
		CurrentLoggedIn: u.CurrentLoggedIn,
		CreatedAt:       u.CreatedAt,
	}
}

func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
