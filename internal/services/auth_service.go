package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"blogo/internal/models"
	"blogo/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the single failure returned for both an unknown
// email and a wrong password, so login responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles business logic for registration, login and session
// tokens. The session cookie carries a signed JWT produced here.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDurat    time.Duration // session lifetime
	rememberDurat time.Duration // session lifetime with "remember me"
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDurat:    24 * time.Hour,
		rememberDurat: 30 * 24 * time.Hour,
	}
}

// RegisterUser registers a new user: checks uniqueness, hashes the password
// and saves the record. The plaintext password is never stored.
func (s *AuthService) RegisterUser(form models.RegisterForm) (*models.User, error) {
	if existingUser, err := s.userRepo.GetByUsername(form.Username); err == nil && existingUser != nil {
		return nil, fmt.Errorf("username '%s' already taken", form.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(form.Email); err == nil && existingUser != nil {
		return nil, fmt.Errorf("email '%s' already registered", form.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		Password:  string(hashedPassword),
		ImageFile: "default.jpg",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser authenticates by email and returns a signed session token. With
// remember set the token lives 30 days instead of one.
func (s *AuthService) LoginUser(email, password string, remember bool) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	duration := s.tokenDurat
	if remember {
		duration = s.rememberDurat
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// SessionDuration returns how long a session cookie should live.
func (s *AuthService) SessionDuration(remember bool) time.Duration {
	if remember {
		return s.rememberDurat
	}
	return s.tokenDurat
}

// ValidateToken parses and validates a session token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UserFromToken resolves a session token to the current user record.
func (s *AuthService) UserFromToken(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token: missing user_id claim")
	}
	return s.userRepo.GetByID(userID)
}
