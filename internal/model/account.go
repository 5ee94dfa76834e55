package model

// Account is an identity record. The credential hash never leaves the
// server; DefaultRole is only a hint used before any membership exists
// (it routes a fresh login to the right onboarding flow).
type Account struct {
	Base
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	DefaultRole  Role   `db:"default_role" json:"default_role"`
}

// PublicAccount is the outward shape of an account.
type PublicAccount struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:    a.ID.String(),
		Email: a.Email,
		Name:  a.Name,
	}
}
