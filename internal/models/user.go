package models

import "gorm.io/gorm"

// User represents a registered author of the blog.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=20"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	ImageFile  string `json:"image_file" gorm:"type:varchar(64);default:default.jpg"`
	Posts      []Post `json:"-" gorm:"foreignKey:UserID"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
