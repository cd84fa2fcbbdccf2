package handlers

import (
	"log"

	"blogo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PagesHandler handles the public pages: the post feed and the about page.
type PagesHandler struct {
	postService *services.PostService
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(postService *services.PostService) *PagesHandler {
	return &PagesHandler{
		postService: postService,
	}
}

// RegisterRoutes registers the public page routes with the Fiber app.
func (h *PagesHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/home", h.HandleHome)
	router.Get("/about", h.HandleAbout)
}

// HandleHome lists all posts, newest first.
func (h *PagesHandler) HandleHome(c *fiber.Ctx) error {
	posts, err := h.postService.GetAllPosts()
	if err != nil {
		log.Printf("Error getting posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load posts")
	}
	return render(c, "home", fiber.Map{
		"Posts": posts,
	})
}

// HandleAbout shows the static about page.
func (h *PagesHandler) HandleAbout(c *fiber.Ctx) error {
	return render(c, "about", fiber.Map{
		"Title": "About",
	})
}
