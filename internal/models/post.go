// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft indicates a post only visible to its author.
	PostStatusDraft PostStatus = "DRAFT"
	// PostStatusPublished indicates a publicly listed post.
	PostStatusPublished PostStatus = "PUBLISHED"
	// PostStatusArchived indicates a post withdrawn from regular listings.
	PostStatusArchived PostStatus = "ARCHIVED"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents an article in the Inkwell application.
// Posts are deleted physically; there is no soft-delete column.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:300;not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsFeatured bool       `gorm:"not null;default:false" json:"is_featured"`
	Status     PostStatus `gorm:"type:varchar(16);not null;default:'DRAFT';index" json:"status"`
	AuthorID   uint       `gorm:"not null;index" json:"author_id"`
	Author     User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Views      int64      `gorm:"not null;default:0" json:"views"`
	// Tags is loaded from the post_tags join table by the repository.
	Tags []string `gorm:"-" json:"tags"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int        `gorm:"->" json:"comments_count"`
	Comments      []*Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PostTag is one tag attached to a post. A post's tag set is the set of
// rows sharing its PostID; (post_id, tag) is the primary key.
type PostTag struct {
	PostID uint   `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Tag    string `gorm:"primaryKey;size:64" json:"tag"`
}

// TableName specifies the table name for GORM.
func (PostTag) TableName() string {
	return "post_tags"
}
