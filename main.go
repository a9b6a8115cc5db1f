package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hearth/config"
	"hearth/database"
	"hearth/handlers"
	"hearth/middleware"
	"hearth/services"
	"hearth/wizard"
)

func main() {
	// Load configuration
	cfg := config.GetConfig()

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Wizard drafts live in memory with database write-through
	handlers.WizardStore = wizard.NewStore()

	// AI features are optional; without a key the suggestion and
	// import endpoints report themselves unavailable
	if cfg.GeminiAPIKey != "" {
		textGen, err := services.NewGeminiGenerator(context.Background(), cfg)
		if err != nil {
			log.Printf("AI features disabled: %v", err)
		} else {
			handlers.MealSuggester = services.NewSuggester(textGen)
			handlers.RecipeClipper = services.NewClipper(textGen)
		}
	} else {
		log.Println("AI features disabled: no Gemini API key configured")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hearth",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173,http://localhost:3000,http://localhost:8080",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// WebSocket route for live grocery lists (must be before other
	// routes to avoid middleware conflicts)
	app.Use("/api/lists/:id/ws", handlers.ListWebSocketUpgrade)
	app.Get("/api/lists/:id/ws", websocket.New(handlers.ListWebSocket))

	// API routes
	api := app.Group("/api")

	// Rate limiter for auth endpoints (5 requests per minute per IP)
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts. Please try again later.",
			})
		},
	})

	// Public routes (with rate limiting on auth)
	api.Get("/setup/status", handlers.CheckSetup)
	api.Post("/setup", authLimiter, handlers.Setup)
	api.Post("/login", authLimiter, handlers.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired())
	protected.Get("/user", handlers.GetCurrentUser)

	// Parent-only routes
	parent := protected.Group("", middleware.ParentRequired())

	// Household member routes
	members := protected.Group("/members")
	members.Get("/", handlers.ListMembers)
	members.Post("/", middleware.ParentRequired(), handlers.CreateMember)
	members.Put("/:id", middleware.ParentRequired(), handlers.UpdateMember)
	members.Delete("/:id", middleware.ParentRequired(), handlers.DeleteMember)

	// Recipe routes
	recipes := protected.Group("/recipes")
	recipes.Get("/", handlers.ListRecipes)
	recipes.Post("/", handlers.CreateRecipe)
	recipes.Post("/import", handlers.ImportRecipe)
	recipes.Get("/:id", handlers.GetRecipe)
	recipes.Put("/:id", handlers.UpdateRecipe)
	recipes.Delete("/:id", handlers.DeleteRecipe)

	// Ingredient routes
	ingredients := protected.Group("/ingredients")
	ingredients.Get("/", handlers.ListIngredients)
	ingredients.Post("/", handlers.CreateIngredient)
	ingredients.Put("/:id", handlers.UpdateIngredient)
	ingredients.Delete("/:id", handlers.DeleteIngredient)
	ingredients.Post("/:id/merge/:dupID", handlers.MergeIngredient)

	// Department and store routes
	departments := protected.Group("/departments")
	departments.Get("/", handlers.ListDepartments)
	departments.Post("/", handlers.CreateDepartment)
	departments.Put("/:id", handlers.UpdateDepartment)
	departments.Delete("/:id", handlers.DeleteDepartment)

	stores := protected.Group("/stores")
	stores.Get("/", handlers.ListStores)
	stores.Post("/", handlers.CreateStore)
	stores.Put("/:id", handlers.UpdateStore)
	stores.Delete("/:id", handlers.DeleteStore)

	// Staple routes
	staples := protected.Group("/staples")
	staples.Get("/", handlers.ListStaples)
	staples.Post("/", handlers.CreateStaple)
	staples.Put("/:id", handlers.UpdateStaple)
	staples.Delete("/:id", handlers.DeleteStaple)

	// Plan routes
	plans := protected.Group("/plans")
	plans.Get("/", handlers.ListPlans)
	plans.Post("/", handlers.FinalizePlan)
	plans.Get("/week-options", handlers.WeekOptions)
	plans.Get("/:id", handlers.GetPlan)
	plans.Delete("/:id", middleware.ParentRequired(), handlers.DeletePlan)

	// Wizard routes (the draft is per-user, so no parent gate)
	wiz := protected.Group("/wizard")
	wiz.Get("/", handlers.GetWizardDraft)
	wiz.Post("/resume", handlers.ResumeWizardDraft)
	wiz.Delete("/", handlers.DiscardWizardDraft)
	wiz.Get("/status", handlers.WizardStatus)
	wiz.Post("/week", handlers.SetWizardWeek)
	wiz.Post("/preferences", handlers.SetWizardPreferences)
	wiz.Post("/recipes/toggle", handlers.ToggleWizardRecipe)
	wiz.Post("/suggest", handlers.SuggestWizardMeals)
	wiz.Post("/meals", handlers.AddWizardMeal)
	wiz.Post("/meals/swap", handlers.SwapWizardMeals)
	wiz.Patch("/meals/:id", handlers.UpdateWizardMeal)
	wiz.Delete("/meals/:id", handlers.RemoveWizardMeal)
	wiz.Post("/meals/:id/move", handlers.MoveWizardMeal)
	wiz.Post("/meals/:id/replace", handlers.ReplaceWizardMeal)
	wiz.Post("/staples/load", handlers.LoadWizardStaples)
	wiz.Post("/staples", handlers.AddWizardStaple)
	wiz.Patch("/staples/:id", handlers.UpdateWizardStaple)
	wiz.Delete("/staples/:id", handlers.RemoveWizardStaple)
	wiz.Post("/events/toggle", handlers.ToggleWizardAssignment)
	wiz.Post("/groceries/generate", handlers.GenerateWizardGroceries)
	wiz.Post("/groceries", handlers.AddWizardGroceryItem)
	wiz.Patch("/groceries/:id", handlers.UpdateWizardGroceryItem)
	wiz.Delete("/groceries/:id", handlers.RemoveWizardGroceryItem)
	wiz.Get("/groceries/grouped", handlers.GroupedWizardGroceries)
	wiz.Post("/finalize", handlers.FinalizePlan)

	// Grocery list routes
	lists := protected.Group("/lists")
	lists.Get("/", handlers.ListGroceryLists)
	lists.Get("/:id", handlers.GetGroceryList)
	lists.Get("/:id/grouped", handlers.GroupedGroceryList)
	lists.Post("/:id/items", handlers.AddGroceryListItem)
	lists.Patch("/:id/items/:itemID", handlers.UpdateGroceryListItem)
	lists.Delete("/:id/items/:itemID", handlers.DeleteGroceryListItem)

	// Calendar routes
	cal := protected.Group("/calendar")
	cal.Get("/events", handlers.ListCalendarEvents)
	cal.Post("/sync", handlers.SyncCalendar)
	cal.Post("/events", middleware.ParentRequired(), handlers.CreateCalendarEvent)
	cal.Put("/events/:id", middleware.ParentRequired(), handlers.UpdateCalendarEvent)
	cal.Delete("/events/:id", middleware.ParentRequired(), handlers.DeleteCalendarEvent)

	// Allowance routes (mutations are parent-only)
	allowance := protected.Group("/allowance")
	allowance.Get("/:userID", handlers.GetAllowance)
	allowance.Get("/:userID/transactions", handlers.ListAllowanceTransactions)
	allowance.Post("/:userID/deposit", middleware.ParentRequired(), handlers.DepositAllowance)
	allowance.Post("/:userID/withdraw", middleware.ParentRequired(), handlers.WithdrawAllowance)

	// Settings routes (parent only)
	parent.Get("/settings", handlers.GetSettings)
	parent.Put("/settings", handlers.UpdateSettings)

	// Activity log routes (parent only)
	activity := parent.Group("/activity")
	activity.Get("/logs", handlers.ListActivity)
	activity.Get("/actions", handlers.GetActivityActions)

	// Serve static files (frontend) in production
	if cfg.Production {
		app.Static("/", "./static")
		app.Get("/*", func(c *fiber.Ctx) error {
			return c.SendFile("./static/index.html")
		})
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting Hearth on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
