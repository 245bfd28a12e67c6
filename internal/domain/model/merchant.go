package model

import "time"

// Role describes merchant privileges.
type Role string

const (
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// Merchant represents a registered shop operator.
type Merchant struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Caller identifies the authenticated principal of a request.
type Caller struct {
	MerchantID int64
	Role       Role
}

// IsAdmin reports whether the caller holds the administrative role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
