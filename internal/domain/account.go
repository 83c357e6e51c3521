package domain

import "time"

type AccountRole string

const (
	AccountRoleMember AccountRole = "MEMBER"
	AccountRoleAdmin  AccountRole = "ADMIN"
)

type Account struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         AccountRole `json:"role"`
	BalanceCents int64       `json:"balance_cents"`
	CreatedOn    time.Time   `json:"created_on"`
}

// IsAdmin reports whether the account holds the platform-administrator
// capability required for force-close and fee configuration.
func (a *Account) IsAdmin() bool {
	return a.Role == AccountRoleAdmin
}
