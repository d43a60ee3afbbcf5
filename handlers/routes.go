package handlers

import (
	"github.com/gorilla/mux"
)

func NewRouter(ha *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(ha.ErrorHandleMiddleware)
	router.Use(ha.LoggingMiddleware)

	router.HandleFunc("/products", ha.ListProducts).Methods("GET")
	router.HandleFunc("/products/{id}", ha.GetProduct).Methods("GET")
	router.HandleFunc("/filters/metadata", ha.GetFilterMetadata).Methods("GET")

	router.HandleFunc("/listing", ha.GetListing).Methods("GET")
	router.HandleFunc("/listing/filters", ha.UpdateFilters).Methods("PATCH")
	router.HandleFunc("/listing/filters", ha.ClearFilters).Methods("DELETE")
	router.HandleFunc("/listing/categories/{name}", ha.ToggleCategory).Methods("POST")
	router.HandleFunc("/listing/subcategories/{name}", ha.ToggleSubcategory).Methods("POST")
	router.HandleFunc("/listing/colors/{id}", ha.ToggleColor).Methods("POST")
	router.HandleFunc("/listing/preview-color", ha.SelectColor).Methods("POST")
	router.HandleFunc("/listing/sort", ha.UpdateSort).Methods("PUT")
	router.HandleFunc("/listing/page/next", ha.NextPage).Methods("POST")
	router.HandleFunc("/listing/page/prev", ha.PreviousPage).Methods("POST")
	router.HandleFunc("/listing/page/{n:-?[0-9]+}", ha.GoToPage).Methods("PUT")

	router.HandleFunc("/cart", ha.GetCart).Methods("GET")
	router.HandleFunc("/cart", ha.AddToCart).Methods("POST")
	router.HandleFunc("/cart", ha.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/{id}", ha.UpdateCartItem).Methods("PUT")
	router.HandleFunc("/cart/{id}", ha.DeleteFromCart).Methods("DELETE")

	router.HandleFunc("/favorites", ha.GetFavorites).Methods("GET")
	router.HandleFunc("/favorites", ha.ClearFavorites).Methods("DELETE")
	router.HandleFunc("/favorites/{productId}", ha.ToggleFavorite).Methods("POST")
	router.HandleFunc("/favorites/{productId}", ha.AddFavorite).Methods("PUT")
	router.HandleFunc("/favorites/{productId}", ha.RemoveFavorite).Methods("DELETE")

	router.HandleFunc("/checkout", ha.GetCheckoutSummary).Methods("GET")
	router.HandleFunc("/checkout", ha.PlaceOrder).Methods("POST")
	return router
}
