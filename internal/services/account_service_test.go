package services_test

import (
	"io"
	"strings"
	"testing"

	"blogo/internal/models"
	"blogo/internal/services"
	"blogo/pkg/pictures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubPictureSaver is a canned services.PictureSaver for account tests.
type stubPictureSaver struct {
	storedName string
	err        error
	calls      int
}

func (s *stubPictureSaver) Save(filename string, content io.Reader) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.storedName, nil
}

func TestAccountService_UpdateAccountWithoutPicture(t *testing.T) {
	mockRepo := new(MockUserRepository)
	saver := &stubPictureSaver{}
	accountService := services.NewAccountService(mockRepo, saver)

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", ImageFile: "default.jpg"}
	form := models.AccountForm{Username: "alice2", Email: "alice2@example.com"}

	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "user-1" && u.Username == "alice2" &&
			u.Email == "alice2@example.com" && u.ImageFile == "default.jpg"
	})).Return(nil).Once()

	updated, err := accountService.UpdateAccount(user, form, "", nil)
	assert.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, 0, saver.calls)
	// The caller's value stays untouched until the commit succeeds.
	assert.Equal(t, "alice", user.Username)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_UpdateAccountWithPicture(t *testing.T) {
	mockRepo := new(MockUserRepository)
	saver := &stubPictureSaver{storedName: "a1b2c3d4e5f60718.png"}
	accountService := services.NewAccountService(mockRepo, saver)

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", ImageFile: "default.jpg"}
	form := models.AccountForm{Username: "alice", Email: "alice@example.com"}

	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.ImageFile == "a1b2c3d4e5f60718.png"
	})).Return(nil).Once()

	updated, err := accountService.UpdateAccount(user, form, "me.png", strings.NewReader("png bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f60718.png", updated.ImageFile)
	assert.Equal(t, 1, saver.calls)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_BadPictureAbortsWholeUpdate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	saver := &stubPictureSaver{err: pictures.ErrUnsupportedImage}
	accountService := services.NewAccountService(mockRepo, saver)

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", ImageFile: "default.jpg"}
	form := models.AccountForm{Username: "renamed", Email: "renamed@example.com"}

	_, err := accountService.UpdateAccount(user, form, "broken.png", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, pictures.ErrUnsupportedImage)

	// No partial state: neither the picture nor the field edits commit.
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "default.jpg", user.ImageFile)
}

func TestAccountService_PrefillForm(t *testing.T) {
	accountService := services.NewAccountService(new(MockUserRepository), &stubPictureSaver{})

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	form := accountService.PrefillForm(user)
	assert.Equal(t, "alice", form.Username)
	assert.Equal(t, "alice@example.com", form.Email)
}

func TestAccountService_ProfileImageURL(t *testing.T) {
	accountService := services.NewAccountService(new(MockUserRepository), &stubPictureSaver{})

	user := &models.User{ImageFile: "a1b2c3d4e5f60718.png"}
	assert.Equal(t, "/static/profile_pics/a1b2c3d4e5f60718.png", accountService.ProfileImageURL(user))

	blank := &models.User{}
	assert.Equal(t, "/static/profile_pics/default.jpg", accountService.ProfileImageURL(blank))
}
