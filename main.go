package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"store/internal/handlers"
	"store/internal/middleware"
	"store/internal/models"
	"store/internal/repositories"
	"store/internal/services"
	"store/pkg/mailer"
	"store/pkg/payments"
	"store/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "store.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-key-change-in-production")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_CURRENCY", "usd")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("FROM_EMAIL", "store@justinecommerce.com")
	viper.SetDefault("STORE_NAME", "JUSTIN E-COMMERCE")
	viper.SetDefault("ORDER_PREFIX", "JE")
	viper.SetDefault("TAX_RATE", 0.0825)
	viper.SetDefault("SHIPPING_COST", 999)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	pricing := services.PricingConfig{
		TaxRate:     viper.GetFloat64("TAX_RATE"),
		ShippingFee: viper.GetInt64("SHIPPING_COST"),
		Currency:    viper.GetString("STRIPE_CURRENCY"),
	}

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	seedProducts(productRepo)

	// --- External clients ---
	var gateway services.PaymentGateway
	if key := viper.GetString("STRIPE_SECRET_KEY"); key != "" {
		gateway = payments.NewStripeClient(key)
	} else {
		log.Println("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	var mailClient *mailer.SendGridClient
	if key := viper.GetString("SENDGRID_API_KEY"); key != "" {
		mailClient = mailer.NewSendGridClient(key, viper.GetString("FROM_EMAIL"), viper.GetString("STORE_NAME"))
	} else {
		log.Println("SENDGRID_API_KEY not set, confirmation emails disabled")
	}

	var mqClient *rabbitmq.Client
	var notifier services.OrderNotifier
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Printf("Warning: failed to connect to RabbitMQ, order events disabled: %v", err)
		} else {
			defer mqClient.Close()
			notifier = mqClient
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo, pricing)
	checkoutService := services.NewCheckoutService(
		cartRepo, orderRepo, gateway, notifier, pricing, viper.GetString("ORDER_PREFIX"))
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))

	// --- Handlers ---
	storeHandler := handlers.NewStoreHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1", middleware.CartSession())

	storeHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	adminRoutes := apiV1.Group("", middleware.AuthRequired(authService), middleware.AdminRequired())
	storeHandler.RegisterAdminRoutes(adminRoutes)
	checkoutHandler.RegisterAdminRoutes(adminRoutes)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Notification consumer ---
	// Order created events come back off the queue and turn into
	// confirmation emails; failures nack for redelivery.
	if mqClient != nil {
		startNotificationConsumer(mqClient, orderRepo, mailClient)
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", appPort)

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

// openDatabase opens PostgreSQL for postgres:// URLs and SQLite
// otherwise. TranslateError maps driver unique violations onto
// gorm.ErrDuplicatedKey, which the order repository relies on to
// surface order number collisions.
func openDatabase(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return gorm.Open(postgres.Open(databaseURL), cfg)
	}
	return gorm.Open(sqlite.Open(databaseURL), cfg)
}

// startNotificationConsumer consumes order created events and sends
// confirmation emails. Email failure is logged, acked, and never
// retried into the order itself; only transient event decoding or
// lookup errors nack for redelivery.
func startNotificationConsumer(mqClient *rabbitmq.Client, orderRepo repositories.OrderRepository, mailClient *mailer.SendGridClient) {
	log.Println("Starting order notification consumer...")
	handler := func(msg amqp.Delivery) error {
		var event rabbitmq.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("Discarding malformed order event: %v", err)
			return nil
		}

		if mailClient == nil {
			log.Printf("Email not configured, skipping confirmation for %s", event.OrderNumber)
			return nil
		}

		order, err := orderRepo.GetByOrderNumber(event.OrderNumber)
		if err != nil {
			return err
		}

		conf := mailer.Confirmation{
			OrderNumber:    order.OrderNumber,
			CustomerName:   order.CustomerName,
			CustomerEmail:  order.CustomerEmail,
			OrderDate:      order.CreatedAt.Format("January 2, 2006"),
			TotalFormatted: models.FormatCents(order.Total),
			FullAddress:    order.FullAddress(),
		}
		for _, item := range order.Items {
			conf.Items = append(conf.Items, mailer.ConfirmationItem{
				ProductName:       item.ProductName,
				Quantity:          item.Quantity,
				SubtotalFormatted: models.FormatCents(item.Subtotal),
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mailClient.SendOrderConfirmation(ctx, conf); err != nil {
			log.Printf("Error sending confirmation email for %s: %v", order.OrderNumber, err)
			return nil
		}
		log.Printf("Confirmation email sent for %s", order.OrderNumber)
		return nil
	}

	if err := mqClient.ConsumeOrderEvents(handler); err != nil {
		log.Printf("Failed to start order notification consumer: %v", err)
	}
}

// seedProducts loads a starter catalog when the store is empty.
func seedProducts(repo repositories.ProductRepository) {
	existing, err := repo.List(repositories.ProductFilter{})
	if err != nil || len(existing) > 0 {
		return
	}

	products := []models.Product{
		{Name: "Premium Wireless Headphones", Description: "Active noise cancellation, 30-hour battery, premium sound quality.", Price: 29999, Category: "Electronics", Stock: 50, Featured: true, Active: true},
		{Name: "Smart Watch Pro", Description: "Fitness tracking, heart rate monitor, GPS, water resistant.", Price: 39999, Category: "Electronics", Stock: 30, Featured: true, Active: true},
		{Name: "Mechanical Gaming Keyboard", Description: "RGB backlit, blue switches, anti-ghosting, programmable macros.", Price: 14999, Category: "Electronics", Stock: 25, Featured: true, Active: true},
		{Name: "Wireless Gaming Mouse", Description: "Precision optical sensor, adjustable DPI, ergonomic design.", Price: 7999, Category: "Electronics", Stock: 75, Active: true},
		{Name: "4K Webcam", Description: "Ultra HD video, auto-focus, built-in microphone.", Price: 12999, Category: "Electronics", Stock: 40, Active: true},
		{Name: "USB-C Hub 7-in-1", Description: "HDMI, USB 3.0, SD card reader, power delivery.", Price: 5999, Category: "Electronics", Stock: 60, Active: true},
		{Name: "Portable SSD 1TB", Description: "Ultra-fast storage, compact design, USB-C compatible.", Price: 11999, Category: "Electronics", Stock: 35, Active: true},
		{Name: "Bluetooth Speaker", Description: "Waterproof, 20-hour battery, 360-degree sound.", Price: 8999, Category: "Electronics", Stock: 45, Active: true},
	}

	log.Println("Loading sample products...")
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
}
