// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the authorization role carried by a user account.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "USER"
	// RoleAdmin grants elevated access to moderation and other users' posts.
	RoleAdmin Role = "ADMIN"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	// UserStatusActive indicates a usable account.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusSuspended indicates an account disabled by moderation.
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User represents a registered account in the Inkwell application.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:64;unique;not null" json:"username"`
	Email     string     `gorm:"size:255;unique;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      Role       `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	Status    UserStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Posts     []Post     `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}
