package repositories

import (
	"blogo/internal/models"
)

// PostRepository defines the interface for post data access.
// Posts are never deleted; only created, read and updated.
type PostRepository interface {
	GetAll() ([]models.Post, error)
	GetByID(id string) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
}
