// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-shop/controllers"
)

// RegisterRoutes sets up all the routes for the application. Numeric-only id
// patterns send non-numeric ids to the not-found page.
func RegisterRoutes(router *mux.Router, apiController *controllers.APIController, storefrontController *controllers.StorefrontController) {
	// Catalog API
	router.HandleFunc("/api/items", apiController.GetItems).Methods("GET")
	router.HandleFunc("/api/item/{id:[0-9]+}", apiController.GetItem).Methods("GET")
	router.HandleFunc("/api/add_item", apiController.AddItem).Methods("POST")
	router.HandleFunc("/api/update_item/{id:[0-9]+}", apiController.UpdateItem).Methods("POST")
	router.HandleFunc("/api/delete_item/{id:[0-9]+}", apiController.DeleteItem).Methods("POST", "GET")

	// Storefront pages
	router.HandleFunc("/", storefrontController.Index).Methods("GET")
	router.HandleFunc("/about", storefrontController.About).Methods("GET")
	router.HandleFunc("/create", storefrontController.CreateItem).Methods("GET", "POST")
	router.HandleFunc("/edit_items", storefrontController.EditItems).Methods("GET")
	router.HandleFunc("/edit_item/{id:[0-9]+}", storefrontController.EditItem).Methods("GET", "POST")
	router.HandleFunc("/delete_item/{id:[0-9]+}", storefrontController.DeleteItem).Methods("GET", "POST")

	// Cart routes
	router.HandleFunc("/cart", storefrontController.CartPage).Methods("GET")
	router.HandleFunc("/checkout", storefrontController.Checkout).Methods("GET", "POST")
	router.HandleFunc("/add_to_cart/{id:[0-9]+}", storefrontController.AddToCart).Methods("GET", "POST")
	router.HandleFunc("/update_cart/{id:[0-9]+}", storefrontController.UpdateCart).Methods("POST")
	router.HandleFunc("/remove_from_cart/{id:[0-9]+}", storefrontController.RemoveFromCart).Methods("GET")

	// Unmapped routes get the custom not-found page
	router.NotFoundHandler = http.HandlerFunc(storefrontController.NotFound)
}
