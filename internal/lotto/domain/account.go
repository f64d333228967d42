package domain

import "time"

// Account is what the view layer may see of a user.
type Account struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Firstname       string     `json:"firstname"`
	Lastname        string     `json:"lastname"`
	Phone           string     `json:"phone"`
	Role            Role       `json:"role"`
	LastLoggedIn    *time.Time `json:"last_logged_in,omitempty"`
	CurrentLoggedIn *time.Time `json:"current_logged_in,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
