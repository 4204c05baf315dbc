// Package models defines the persistent entities for Moneta.
package models

import "time"

// Default role names ensured at startup.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User is an application account. Registration leaves EmailConfirmed false
// until the confirmation token is consumed via the verify-email flow.
type User struct {
	ID             string `gorm:"primaryKey;size:64" json:"id"`
	UserName       string `gorm:"size:128" json:"userName"`
	Email          string `gorm:"uniqueIndex;size:256" json:"email"`
	PasswordHash   string `json:"-"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	ConfirmToken   string `gorm:"size:64" json:"-"`
	ResetToken     string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Owned rows removed with the user via FK cascade.
	FinanceAccounts []FinanceAccount `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Goals           []Goal           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Investments     []Investment     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Roles           []Role           `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"-"`
}

// Role is a named permission group, many-to-many with users.
type Role struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"uniqueIndex;size:64" json:"name"`
}
