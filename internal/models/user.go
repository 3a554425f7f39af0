package models

import "time"

// Role est une énumération fermée, toute valeur hors de ces trois-là est rejetée
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// Valid vérifie que le rôle fait partie de l'énumération
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SellerProfile porte les informations de boutique d'un vendeur.
// Un vendeur n'est autorisé à vendre qu'une fois vérifié par un admin.
type SellerProfile struct {
	UserID      int64      `json:"user_id"`
	StoreName   string     `json:"store_name"`
	GSTNumber   string     `json:"gst_number"`
	PANNumber   string     `json:"pan_number"`
	BankAccount string     `json:"bank_account"`
	IsVerified  bool       `json:"is_verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
