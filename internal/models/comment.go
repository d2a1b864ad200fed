// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// CommentStatus is the moderation state gating a comment's visibility.
type CommentStatus string

const (
	// CommentStatusPending indicates a comment awaiting moderation.
	CommentStatusPending CommentStatus = "PENDING"
	// CommentStatusApproved indicates a comment visible in public trees.
	CommentStatusApproved CommentStatus = "APPROVED"
	// CommentStatusRejected indicates a comment hidden by moderation.
	CommentStatusRejected CommentStatus = "REJECTED"
)

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

// Comment represents a threaded reply on a post. ParentID links a reply
// to another comment on the same post; replies nest arbitrarily deep in
// storage, retrieval surfaces at most three levels.
// Comments are deleted physically; there is no soft-delete column.
type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	AuthorID  uint          `gorm:"not null;index" json:"author_id"`
	Author    User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PostID    uint          `gorm:"not null;index" json:"post_id"`
	ParentID  *uint         `gorm:"index" json:"parent_id,omitempty"`
	Status    CommentStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	Replies   []*Comment    `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
