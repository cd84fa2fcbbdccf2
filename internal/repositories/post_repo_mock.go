package repositories

import (
	"fmt"
	"sort"
	"sync"

	"blogo/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
	}
}

// GetAll returns all posts, newest first.
func (r *MockPostRepository) GetAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		postList = append(postList, p)
	}
	sort.Slice(postList, func(i, j int) bool {
		return postList[i].DatePosted.After(postList[j].DatePosted)
	})
	return postList, nil
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	return &post, nil
}

// Create adds a new post.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	r.posts[post.ID] = *post
	return nil
}

// Update overwrites the title and content of an existing post.
func (r *MockPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post with ID %s: %w", post.ID, ErrNotFound)
	}
	stored.Title = post.Title
	stored.Content = post.Content
	r.posts[post.ID] = stored
	return nil
}
