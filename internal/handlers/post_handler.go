package handlers

import (
	"errors"
	"log"

	"blogo/internal/middleware"
	"blogo/internal/models"
	"blogo/internal/repositories"
	"blogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles post pages: create, view and update.
type PostHandler struct {
	postService *services.PostService
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the post routes. Viewing a post is public;
// creating and updating require authentication.
func (h *PostHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/post/new", authRequired, h.HandleNewPostPage)
	router.Post("/post/new", authRequired, h.HandleCreatePost)
	router.Get("/post/:id", h.HandlePostPage)
	router.Get("/post/:id/update", authRequired, h.HandleUpdatePostPage)
	router.Post("/post/:id/update", authRequired, h.HandleUpdatePost)
}

// HandleNewPostPage shows the empty post form.
func (h *PostHandler) HandleNewPostPage(c *fiber.Ctx) error {
	return render(c, "create_post", fiber.Map{
		"Title":  "New Post",
		"Legend": "New Post",
		"Form":   models.PostForm{},
	})
}

// HandleCreatePost creates a post owned by the current user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var form models.PostForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing post form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}

	if err := h.validate.Struct(form); err != nil {
		return render(c, "create_post", fiber.Map{
			"Title":  "New Post",
			"Legend": "New Post",
			"Form":   form,
			"Errors": formErrors(err),
		})
	}

	if _, err := h.postService.CreatePost(user, form); err != nil {
		log.Printf("Error creating post for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not create post")
	}

	setFlash(c, "success", "Your post has been created!")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandlePostPage shows a single post. No authorization is needed for reading.
func (h *PostHandler) HandlePostPage(c *fiber.Ctx) error {
	post, err := h.postService.GetPostByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fiber.ErrNotFound
		}
		log.Printf("Error getting post %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load post")
	}
	return render(c, "post", fiber.Map{
		"Title": post.Title,
		"Post":  post,
	})
}

// HandleUpdatePostPage shows the post form pre-filled with the post's current
// title and content. Only the author may see it; everyone else gets a 403.
func (h *PostHandler) HandleUpdatePostPage(c *fiber.Ctx) error {
	post, err := h.loadOwnPost(c)
	if err != nil {
		return err
	}
	return render(c, "create_post", fiber.Map{
		"Title":  "Update Post",
		"Legend": "Update Post",
		"Form":   models.PostForm{Title: post.Title, Content: post.Content},
	})
}

// HandleUpdatePost overwrites the post's title and content. The ownership
// check runs before form validation, so a non-author is rejected no matter
// what they submitted.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	post, err := h.loadOwnPost(c)
	if err != nil {
		return err
	}

	var form models.PostForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing post form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}

	if err := h.validate.Struct(form); err != nil {
		return render(c, "create_post", fiber.Map{
			"Title":  "Update Post",
			"Legend": "Update Post",
			"Form":   form,
			"Errors": formErrors(err),
		})
	}

	user := middleware.CurrentUser(c)
	updated, err := h.postService.UpdatePost(user, post.ID, form)
	if err != nil {
		if errors.Is(err, services.ErrNotPostAuthor) {
			return fiber.ErrForbidden
		}
		log.Printf("Error updating post %s: %v", post.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update post")
	}

	setFlash(c, "success", "Your post has been updated!")
	return c.Redirect("/post/"+updated.ID, fiber.StatusSeeOther)
}

// loadOwnPost fetches the post from the URL and verifies the current user is
// its author. Returns fiber.ErrNotFound / fiber.ErrForbidden for the caller
// to bubble up unchanged.
func (h *PostHandler) loadOwnPost(c *fiber.Ctx) (*models.Post, error) {
	post, err := h.postService.GetPostByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.ErrNotFound
		}
		log.Printf("Error getting post %s: %v", c.Params("id"), err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load post")
	}
	if user := middleware.CurrentUser(c); post.UserID != user.ID {
		return nil, fiber.ErrForbidden
	}
	return post, nil
}
