// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"jewelry-commerce/cache"
	"jewelry-commerce/controllers"
	"jewelry-commerce/events"
	"jewelry-commerce/routes"
	"jewelry-commerce/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key for admin sessions
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize collaborator clients
	emailService := utils.NewEmailService()
	adminMail := utils.NewAdminMailService()
	paymentService := utils.NewPaymentService()
	blobService := utils.NewBlobService()

	// Catalog cache: in-process by default, Redis when REDIS_ADDR is set
	var store cache.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		store = cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
		log.Printf("Using Redis catalog cache at %s", addr)
	} else {
		store = cache.NewMemoryStore()
	}

	source := controllers.NewCatalogSource(client, blobService)
	prefetcher := cache.NewPrefetcher(store, source)

	// Warm the cache once per process so storefront reads are hits
	go func() {
		if err := prefetcher.WarmUp(context.Background()); err != nil {
			log.Printf("catalog warm-up failed: %v", err)
		}
	}()

	sink := events.LogSink{}

	// Initialize controllers
	adminController := controllers.NewAdminController(prefetcher)
	productController := controllers.NewProductController(client, source, prefetcher)
	variantController := controllers.NewVariantController(client, prefetcher)
	heroController := controllers.NewHeroController(client, prefetcher)
	reviewController := controllers.NewReviewController(client, prefetcher)
	cartController := controllers.NewCartController(client, prefetcher, sink)
	checkoutController := controllers.NewCheckoutController(client, source, paymentService, emailService, adminMail, sink)
	orderController := controllers.NewOrderController(client, emailService)
	blobController := controllers.NewBlobController(blobService, prefetcher)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router,
		adminController,
		productController,
		variantController,
		heroController,
		reviewController,
		cartController,
		checkoutController,
		orderController,
		blobController,
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
