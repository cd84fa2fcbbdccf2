package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post owned by exactly one user.
type Post struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string    `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	Content    string    `json:"content" gorm:"type:text" validate:"required"`
	DatePosted time.Time `json:"date_posted"`
	UserID     string    `json:"user_id" gorm:"index;type:varchar(36);not null"`
	Author     User      `json:"-" gorm:"foreignKey:UserID"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
