// main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/models"
	"go-shop/routes"
	"go-shop/storage"
	"go-shop/storage/memory"
	"go-shop/storage/mongodb"
	"go-shop/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found. Proceeding with environment variables.")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Checkout policy for cart entries whose item has been deleted
	policy := models.ParseStalePolicy(os.Getenv("CHECKOUT_STALE_POLICY"))

	// Choose the item and cart stores
	var itemStore storage.ItemStore
	var cartStore storage.CartStore
	if os.Getenv("ITEM_STORE") == "memory" {
		itemStore = memory.NewItemStore()
		cartStore = memory.NewCartStore()
	} else {
		// Connect to MongoDB
		client := utils.ConnectDB()
		defer func() {
			if err := client.Disconnect(context.TODO()); err != nil {
				logger.WithError(err).Error("Error disconnecting from MongoDB")
			}
		}()
		itemStore = mongodb.NewItemStore(client, "shop")
		cartStore = mongodb.NewCartStore(client, "shop")
	}

	// Initialize controllers
	apiController := controllers.NewAPIController(itemStore, logger)
	storefrontController := controllers.NewStorefrontController(itemStore, cartStore, emailService, policy, logger)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, apiController, storefrontController)

	// Every route runs behind the session cookie middleware
	router.Use(middleware.SessionMiddleware)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logger.Infof("Server is running on port %s", port)
	logger.Fatal(http.ListenAndServe(":"+port, router))
}
