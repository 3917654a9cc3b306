// routes/routes.go
package routes

import (
	"jewelry-commerce/controllers"
	"jewelry-commerce/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	adminController *controllers.AdminController,
	productController *controllers.ProductController,
	variantController *controllers.VariantController,
	heroController *controllers.HeroController,
	reviewController *controllers.ReviewController,
	cartController *controllers.CartController,
	checkoutController *controllers.CheckoutController,
	orderController *controllers.OrderController,
	blobController *controllers.BlobController,
) {
	// Storefront routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{slug}", productController.GetProductBySlug).Methods("GET")
	router.HandleFunc("/products/{id}/variants", productController.GetVariants).Methods("GET")
	router.HandleFunc("/products/{id}/reviews", reviewController.GetReviews).Methods("GET")
	router.HandleFunc("/products/{id}/reviews", reviewController.CreateReview).Methods("POST")
	router.HandleFunc("/hero", heroController.GetSlides).Methods("GET")
	router.HandleFunc("/blob/resolve", blobController.ResolveURLs).Methods("POST")

	// Cart routes
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/cart/items/{key}", cartController.UpdateQuantity).Methods("PUT")
	router.HandleFunc("/cart/items/{key}", cartController.RemoveFromCart).Methods("DELETE")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")

	// Checkout routes
	router.HandleFunc("/checkout/intent", checkoutController.CreateIntent).Methods("POST")
	router.HandleFunc("/checkout/capture", checkoutController.Capture).Methods("POST")

	// Order tracking routes
	router.HandleFunc("/orders", orderController.GetOrdersByEmail).Methods("GET")
	router.HandleFunc("/orders/{id}", orderController.GetOrder).Methods("GET")
	router.HandleFunc("/orders/provider/{id}", orderController.GetOrderByProviderID).Methods("GET")

	// Admin session routes
	router.HandleFunc("/admin/login", adminController.Login).Methods("POST")
	router.HandleFunc("/admin/logout", adminController.Logout).Methods("POST")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth)
	admin.HandleFunc("/products", productController.ListAllProducts).Methods("GET")
	admin.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/reorder", productController.Reorder).Methods("PUT")
	admin.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/flags", productController.ToggleFlag).Methods("PATCH")
	admin.HandleFunc("/variants", variantController.CreateVariant).Methods("POST")
	admin.HandleFunc("/variants/{id}", variantController.UpdateVariant).Methods("PUT")
	admin.HandleFunc("/variants/{id}", variantController.DeleteVariant).Methods("DELETE")
	admin.HandleFunc("/hero", heroController.ListAllSlides).Methods("GET")
	admin.HandleFunc("/hero", heroController.CreateSlide).Methods("POST")
	admin.HandleFunc("/hero/reorder", heroController.Reorder).Methods("PUT")
	admin.HandleFunc("/hero/{id}", heroController.UpdateSlide).Methods("PUT")
	admin.HandleFunc("/hero/{id}", heroController.DeleteSlide).Methods("DELETE")
	admin.HandleFunc("/orders", orderController.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", orderController.UpdateStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/shipping-status", orderController.UpdateShippingStatus).Methods("PUT")
	admin.HandleFunc("/blob/upload-url", blobController.GenerateUploadURL).Methods("POST")
}
