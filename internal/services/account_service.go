package services

import (
	"fmt"
	"io"

	"blogo/internal/models"
	"blogo/internal/repositories"
)

// PictureSaver ingests one uploaded image and returns its stored name.
// Implemented by pictures.Store.
type PictureSaver interface {
	Save(filename string, content io.Reader) (string, error)
}

// AccountService applies a user's self-service profile edits.
type AccountService struct {
	userRepo repositories.UserRepository
	pictures PictureSaver
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, pictures PictureSaver) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		pictures: pictures,
	}
}

// UpdateAccount applies a profile edit for the authenticated user. When a
// picture is supplied it is ingested first: a decode failure aborts the whole
// update before any field is touched, so a bad upload never commits partial
// state. All changed fields go to the store in a single write.
func (s *AccountService) UpdateAccount(user *models.User, form models.AccountForm, pictureName string, picture io.Reader) (*models.User, error) {
	updated := *user

	if picture != nil {
		storedName, err := s.pictures.Save(pictureName, picture)
		if err != nil {
			return nil, err
		}
		updated.ImageFile = storedName
	}

	updated.Username = form.Username
	updated.Email = form.Email

	if err := s.userRepo.Update(&updated); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &updated, nil
}

// PrefillForm returns the form defaults for the initial account view.
func (s *AccountService) PrefillForm(user *models.User) models.AccountForm {
	return models.AccountForm{
		Username: user.Username,
		Email:    user.Email,
	}
}

// ProfileImageURL computes the display URL for a user's current avatar.
func (s *AccountService) ProfileImageURL(user *models.User) string {
	imageFile := user.ImageFile
	if imageFile == "" {
		imageFile = "default.jpg"
	}
	return "/static/profile_pics/" + imageFile
}
