package handlers

import (
	"errors"
	"io"
	"log"

	"blogo/internal/middleware"
	"blogo/internal/models"
	"blogo/internal/services"
	"blogo/pkg/pictures"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles the profile view/update page.
type AccountHandler struct {
	accountService *services.AccountService
	validate       *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the account routes. Both require authentication.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/account", authRequired, h.HandleAccountPage)
	router.Post("/account", authRequired, h.HandleAccountUpdate)
}

// HandleAccountPage shows the profile form pre-filled with the current
// username and email, plus the current avatar.
func (h *AccountHandler) HandleAccountPage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return render(c, "account", fiber.Map{
		"Title":     "Account",
		"Form":      h.accountService.PrefillForm(user),
		"ImageFile": h.accountService.ProfileImageURL(user),
	})
}

// HandleAccountUpdate applies a profile edit, optionally ingesting a new
// profile picture from the multipart upload.
func (h *AccountHandler) HandleAccountUpdate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var form models.AccountForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing account form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}

	if err := h.validate.Struct(form); err != nil {
		return render(c, "account", fiber.Map{
			"Title":     "Account",
			"Form":      form,
			"ImageFile": h.accountService.ProfileImageURL(user),
			"Errors":    formErrors(err),
		})
	}

	var pictureName string
	var picture io.Reader
	if fileHeader, err := c.FormFile("picture"); err == nil && fileHeader != nil && fileHeader.Size > 0 {
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening uploaded picture: %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not read uploaded picture")
		}
		defer file.Close()
		pictureName = fileHeader.Filename
		picture = file
	}

	if _, err := h.accountService.UpdateAccount(user, form, pictureName, picture); err != nil {
		if errors.Is(err, pictures.ErrUnsupportedImage) {
			return render(c, "account", fiber.Map{
				"Title":     "Account",
				"Form":      form,
				"ImageFile": h.accountService.ProfileImageURL(user),
				"Flash":     &Flash{Category: "danger", Message: "The uploaded file is not a supported image"},
			})
		}
		log.Printf("Error updating account for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update account")
	}

	setFlash(c, "success", "Your account has been updated!")
	return c.Redirect("/account", fiber.StatusSeeOther)
}
