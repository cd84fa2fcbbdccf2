package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blogo/internal/middleware"
	"blogo/internal/models"
	"blogo/internal/repositories"
	"blogo/pkg/pictures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestNewAppBootsAndServesPublicPages wires the whole app against an
// in-memory database and checks the public surface responds.
func TestNewAppBootsAndServesPublicPages(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:mainapp?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	pictureStore, err := pictures.NewStore(t.TempDir())
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	app := NewApp(userRepo, postRepo, pictureStore, nil, "test_jwt_secret")

	for path, wantStatus := range map[string]int{
		"/":         http.StatusOK,
		"/home":     http.StatusOK,
		"/about":    http.StatusOK,
		"/register": http.StatusOK,
		"/login":    http.StatusOK,
		"/account":  http.StatusSeeOther, // auth required
		"/post/new": http.StatusSeeOther, // auth required
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err, "GET %s", path)
		assert.Equal(t, wantStatus, resp.StatusCode, "GET %s", path)
	}
}

// TestMemoryDriverRunsWithoutDatabase drives a full register/login/post flow
// through the in-memory repositories the memory driver selects.
func TestMemoryDriverRunsWithoutDatabase(t *testing.T) {
	userRepo, postRepo, err := openRepositories("memory", "")
	require.NoError(t, err)
	require.IsType(t, &repositories.MockUserRepository{}, userRepo)
	require.IsType(t, &repositories.MockPostRepository{}, postRepo)

	pictureStore, err := pictures.NewStore(t.TempDir())
	require.NoError(t, err)
	app := NewApp(userRepo, postRepo, pictureStore, nil, "test_jwt_secret")

	form := func(path string, values url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	resp, err := app.Test(form("/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	user, err := userRepo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)

	resp, err = app.Test(form("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
			session = cookie
		}
	}
	require.NotNil(t, session, "login must issue a session cookie")

	req := form("/post/new", url.Values{
		"title":   {"Hello"},
		"content": {"World"},
	})
	req.AddCookie(session)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	posts, err := postRepo.GetAll()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, user.ID, posts[0].UserID)
}

func TestOpenDatabaseDefaultsToSQLite(t *testing.T) {
	db, err := openDatabase("sqlite", "file:opendb?mode=memory&cache=shared")
	require.NoError(t, err)
	assert.NotNil(t, db)
}
