package repositories

import (
	"fmt"

	"blogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// GetAll returns all posts with their authors, newest first.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Preload("Author").Order("date_posted DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a post and its author by the post ID.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an existing post. DatePosted and the
// author reference are immutable and never written here.
func (r *GORMPostRepository) Update(post *models.Post) error {
	result := r.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
		"title":   post.Title,
		"content": post.Content,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update post %s: %w", post.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s: %w", post.ID, ErrNotFound)
	}
	return nil
}
