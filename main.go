package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"blogo/internal/handlers"
	"blogo/internal/middleware"
	"blogo/internal/models"
	"blogo/internal/repositories"
	"blogo/internal/services"
	"blogo/pkg/pictures"
	"blogo/pkg/rabbitmq"
	"blogo/templates"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite") // sqlite | postgres | memory
	viper.SetDefault("DB_DSN", "blogo.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("PICTURES_DIR", "static/profile_pics")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publication
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Repositories ---
	userRepo, postRepo, err := openRepositories(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// --- Picture store ---
	pictureStore, err := pictures.NewStore(viper.GetString("PICTURES_DIR"))
	if err != nil {
		log.Fatalf("Failed to initialize picture store: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		// --- Start RabbitMQ Consumer in a Goroutine ---
		go func() {
			log.Println("Starting RabbitMQ consumer for post events...")
			if consumerErr := mqClient.ConsumePostEvents(func(msg amqp.Delivery) error {
				log.Printf("Post event %s (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set, post events disabled")
	}

	app := NewApp(userRepo, postRepo, pictureStore, mqClient, viper.GetString("JWT_SECRET"))

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a Fiber app. The
// RabbitMQ client may be nil; post events are then skipped.
func NewApp(userRepo repositories.UserRepository, postRepo repositories.PostRepository, pictureStore *pictures.Store, mqClient *rabbitmq.Client, jwtSecret string) *fiber.App {
	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	accountService := services.NewAccountService(userRepo, pictureStore)
	postService := services.NewPostService(postRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	postHandler := handlers.NewPostHandler(postService)
	pagesHandler := handlers.NewPagesHandler(postService)

	// --- Fiber App ---
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(middleware.LoadUser(authService))

	// Stored avatar names resolve under /static/profile_pics/<name>.
	app.Static("/static/profile_pics", pictureStore.Dir())

	// --- Routes ---
	authRequired := middleware.AuthRequired()
	pagesHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app)
	accountHandler.RegisterRoutes(app, authRequired)
	postHandler.RegisterRoutes(app, authRequired)

	return app
}

// openRepositories builds the user and post repositories for the configured
// driver. The memory driver runs without a database at all and loses its data
// on restart; it exists for demos and local hacking.
func openRepositories(driver, dsn string) (repositories.UserRepository, repositories.PostRepository, error) {
	if driver == "memory" {
		log.Println("DB_DRIVER=memory, using in-memory repositories (data is lost on restart)")
		return repositories.NewMockUserRepository(), repositories.NewMockPostRepository(), nil
	}

	db, err := openDatabase(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return nil, nil, err
	}
	return repositories.NewGORMUserRepository(db), repositories.NewGORMPostRepository(db), nil
}

// openDatabase opens the configured database. SQLite keeps single-binary
// deployments simple; Postgres serves multi-instance setups.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}
