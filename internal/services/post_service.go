package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"blogo/internal/models"
	"blogo/internal/repositories"
	"blogo/pkg/rabbitmq"

	"github.com/google/uuid"
)

// ErrNotPostAuthor is returned when a user tries to modify a post they do not
// own. Handlers map it to a 403.
var ErrNotPostAuthor = errors.New("post does not belong to the requesting user")

// PostService handles business logic for creating, reading and updating
// posts, and enforces single-owner write access.
type PostService struct {
	postRepo repositories.PostRepository
	mqClient *rabbitmq.Client // optional; nil disables event publication
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		mqClient: mqClient,
	}
}

// GetAllPosts retrieves all posts, newest first.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	return s.postRepo.GetAll()
}

// GetPostByID retrieves a single post. Reading needs no authorization.
func (s *PostService) GetPostByID(id string) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

// CreatePost constructs and persists a new post owned by the author. Any
// authenticated user may create posts.
func (s *PostService) CreatePost(author *models.User, form models.PostForm) (*models.Post, error) {
	post := &models.Post{
		ID:         uuid.New().String(),
		Title:      form.Title,
		Content:    form.Content,
		DatePosted: time.Now(),
		UserID:     author.ID,
		Author:     *author,
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publishEvent("post.created", post)
	return post, nil
}

// UpdatePost overwrites the title and content of an existing post. The
// ownership check runs before any mutation: a requester who is not the author
// gets ErrNotPostAuthor and the stored post stays untouched. DatePosted and
// the author reference are never changed.
func (s *PostService) UpdatePost(requester *models.User, postID string, form models.PostForm) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != requester.ID {
		return nil, ErrNotPostAuthor
	}

	post.Title = form.Title
	post.Content = form.Content
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.publishEvent("post.updated", post)
	return post, nil
}

// publishEvent sends a post activity event to RabbitMQ when a client is
// configured. Publication failures are logged, never surfaced to the user.
func (s *PostService) publishEvent(kind string, post *models.Post) {
	if s.mqClient == nil {
		return
	}

	message := map[string]interface{}{
		"postID": post.ID,
		"userID": post.UserID,
		"title":  post.Title,
	}
	messageBody, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", kind, err)
		return
	}
	if err := s.mqClient.Publish(kind, messageBody); err != nil {
		log.Printf("Warning: Failed to publish %s event for post %s: %v", kind, post.ID, err)
	}
}
