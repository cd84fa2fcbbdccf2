package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"blogo/internal/middleware"
	"blogo/internal/models"
	"blogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and logout pages.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/register", h.HandleRegisterPage)
	router.Post("/register", h.HandleRegister)
	router.Get("/login", h.HandleLoginPage)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
}

// HandleRegisterPage shows the registration form. A logged-in user is sent home.
func (h *AuthHandler) HandleRegisterPage(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return render(c, "register", fiber.Map{
		"Title": "Register",
		"Form":  models.RegisterForm{},
	})
}

// HandleRegister creates a new account and sends the user to the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form models.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing register form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}

	if err := h.validate.Struct(form); err != nil {
		return render(c, "register", fiber.Map{
			"Title":  "Register",
			"Form":   form,
			"Errors": formErrors(err),
		})
	}

	if _, err := h.authService.RegisterUser(form); err != nil {
		log.Printf("Error registering user: %v", err)
		if strings.Contains(err.Error(), "already taken") || strings.Contains(err.Error(), "already registered") {
			return render(c, "register", fiber.Map{
				"Title": "Register",
				"Form":  form,
				"Flash": &Flash{Category: "danger", Message: err.Error()},
			})
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Could not register account")
	}

	setFlash(c, "success", "Your account has been created, you can now log in")
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// HandleLoginPage shows the login form. A logged-in user is sent home.
func (h *AuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return render(c, "login", fiber.Map{
		"Title": "Login",
		"Form":  models.LoginForm{},
		"Next":  c.Query("next"),
	})
}

// HandleLogin establishes a session and redirects home or to the next target.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form models.LoginForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}

	if err := h.validate.Struct(form); err != nil {
		return render(c, "login", fiber.Map{
			"Title":  "Login",
			"Form":   form,
			"Next":   c.Query("next"),
			"Errors": formErrors(err),
		})
	}

	token, err := h.authService.LoginUser(form.Email, form.Password, form.Remember)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Error during login for %s: %v", form.Email, err)
		}
		// One generic message for unknown email and wrong password alike.
		return render(c, "login", fiber.Map{
			"Title": "Login",
			"Form":  form,
			"Next":  c.Query("next"),
			"Flash": &Flash{Category: "danger", Message: "Login unsuccessful, incorrect Email or password"},
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.SessionDuration(form.Remember)),
		HTTPOnly: true,
	})

	setFlash(c, "success", "You have been logged in!")
	next := c.Query("next")
	// Only follow relative targets so the next parameter cannot redirect
	// off-site.
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleLogout clears the session cookie and redirects home.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/", fiber.StatusSeeOther)
}
