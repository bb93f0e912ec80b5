package router

import (
	"net/http"

	"catalog-api/handlers"
	"catalog-api/middleware"
	"catalog-api/models"

	"github.com/gorilla/mux"
)

func SetupRoutes(h *handlers.Handler, jwtSecret string) *mux.Router {
	router := mux.NewRouter()

	// Auth routes
	router.HandleFunc("/signup", h.SignUp).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")

	// Catalog routes
	router.HandleFunc("/uploadImages", h.UploadImages).Methods("POST")
	router.HandleFunc("/create-product", h.CreateProduct).Methods("POST")
	router.HandleFunc("/related/{id}", h.GetRelatedProducts).Methods("GET")
	router.HandleFunc("/product/{id}", h.GetProductDetails).Methods("GET")

	// Only the update route verifies identity and the product-management
	// permission; the other mutating routes keep the storefront's original
	// contract.
	router.Handle("/update-product/{id}",
		middleware.AuthMiddleware(jwtSecret)(
			middleware.RequirePermission(models.PermissionUpdateProduct)(
				http.HandlerFunc(h.UpdateProduct)))).Methods("PATCH")

	router.HandleFunc("/", h.GetProducts).Methods("GET")
	router.HandleFunc("/{id}", h.GetProductDetails).Methods("GET")
	router.HandleFunc("/{id}", h.DeleteProduct).Methods("DELETE")

	return router
}
