package handlers

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"blogo/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash is a one-shot notification shown on the next rendered page.
// Category is a bootstrap alert class: "success" or "danger".
type Flash struct {
	Category string
	Message  string
}

// setFlash stores a flash message in a cookie that popFlash consumes on the
// next render.
func setFlash(c *fiber.Ctx, category, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(category + "|" + message))
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(c *fiber.Ctx) *Flash {
	value := c.Cookies(flashCookie)
	if value == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil
	}
	return &Flash{Category: category, Message: message}
}

// render wraps c.Render with the shared layout and injects the current user
// and any pending flash message for the navbar and alert blocks.
func render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["User"] = middleware.CurrentUser(c)
	if _, ok := bind["Errors"]; !ok {
		bind["Errors"] = map[string]string{}
	}
	// A flash bound by the handler (e.g. a login failure) wins over a stale
	// cookie flash; the cookie is consumed either way.
	if flash := popFlash(c); flash != nil {
		if _, ok := bind["Flash"]; !ok {
			bind["Flash"] = flash
		}
	}
	return c.Render(name, bind, "layouts/main")
}

// formErrors flattens validator errors into a field -> message map for
// inline display next to the offending inputs.
func formErrors(err error) map[string]string {
	errorMessages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorMessages["form"] = err.Error()
		return errorMessages
	}
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
