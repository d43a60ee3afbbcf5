package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"storefront/entities"
	"storefront/models"
	"storefront/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	listingCookie = "listingSessionId"
	cartCookie    = "cartSessionId"
	cookieTTL     = 30 * 24 * time.Hour
)

type Handler struct {
	ps       services.ProductService
	cos      services.CheckoutService
	sessions *Sessions
	log      *zap.Logger
}

type HandlerParams struct {
	PrdService services.ProductService
	ChkService services.CheckoutService
	Sessions   *Sessions
	Logger     *zap.Logger
}

func NewHandler(params HandlerParams) *Handler {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ps:       params.PrdService,
		cos:      params.ChkService,
		sessions: params.Sessions,
		log:      logger,
	}
}

// products

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := entities.DefaultFilterState()
	filters.Categories = nonEmpty(q["category"])
	filters.Subcategories = nonEmpty(q["subcategory"])
	filters.Colors = nonEmpty(q["color"])
	filters.PriceRange = services.SanitizePriceRange(entities.PriceRange{
		Min: parseFloat(q.Get("minPrice"), entities.PriceFloor),
		Max: parseFloat(q.Get("maxPrice"), entities.PriceCeiling),
	})
	filters.Rating = parseFloat(q.Get("rating"), 0)
	filters.InStock, _ = strconv.ParseBool(q.Get("inStock"))
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}

	view := services.BuildListing(h.ps.Catalog(), filters, entities.ParseSortOption(q.Get("sort")), page, q.Get("previewColor"))
	h.writeJSON(w, view)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	prod, err := h.ps.GetProductById(mux.Vars(r)["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, prod)
}

func (h *Handler) GetFilterMetadata(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.ps.FilterMetadata())
}

// listing session

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := sessionId(w, r, listingCookie)
	h.writeJSON(w, h.sessions.ListingView(id))
}

func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var patch entities.FilterPatch
	if !h.decode(w, r, &patch) {
		return
	}
	fs := h.listing(w, r)
	fs.UpdateFilters(patch)
	h.writeJSON(w, fs.View())
}

func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.ClearFilters()
	h.writeJSON(w, fs.View())
}

func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.ToggleCategory(mux.Vars(r)["name"])
	h.writeJSON(w, fs.View())
}

func (h *Handler) ToggleSubcategory(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.ToggleSubcategory(mux.Vars(r)["name"])
	h.writeJSON(w, fs.View())
}

func (h *Handler) ToggleColor(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.ToggleColor(mux.Vars(r)["id"])
	h.writeJSON(w, fs.View())
}

func (h *Handler) SelectColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ColorId string `json:"colorId"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	fs := h.listing(w, r)
	fs.SelectColor(req.ColorId)
	h.writeJSON(w, fs.View())
}

func (h *Handler) UpdateSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sort string `json:"sort"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	fs := h.listing(w, r)
	fs.UpdateSort(req.Sort)
	h.writeJSON(w, fs.View())
}

func (h *Handler) GoToPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	fs := h.listing(w, r)
	fs.GoToPage(n)
	h.writeJSON(w, fs.View())
}

func (h *Handler) NextPage(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.GoToNextPage()
	h.writeJSON(w, fs.View())
}

func (h *Handler) PreviousPage(w http.ResponseWriter, r *http.Request) {
	fs := h.listing(w, r)
	fs.GoToPreviousPage()
	h.writeJSON(w, fs.View())
}

// cart

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.Snapshot())
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req entities.CartRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	prod, err := h.ps.GetProductById(req.ProductId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	store, _ := h.cart(w, r, true)
	h.writeJSON(w, store.AddToCart(prod, req.Quantity, req.ColorId, req.SizeId))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req entities.QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	store, ok := h.cart(w, r, false)
	if !ok {
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	id := mux.Vars(r)["id"]
	if _, exists := store.Item(id); !exists {
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	h.writeJSON(w, store.UpdateQuantity(id, req.Quantity))
}

func (h *Handler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.RemoveFromCart(mux.Vars(r)["id"]))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.ClearCart())
}

// favorites

func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.Snapshot())
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	prod, err := h.ps.GetProductById(mux.Vars(r)["productId"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	store, _ := h.cart(w, r, true)
	h.writeJSON(w, store.ToggleFavorite(prod))
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	prod, err := h.ps.GetProductById(mux.Vars(r)["productId"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	store, _ := h.cart(w, r, true)
	h.writeJSON(w, store.AddToFavorites(prod))
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.RemoveFromFavorites(mux.Vars(r)["productId"]))
}

func (h *Handler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		h.writeJSON(w, services.EmptyStoreState())
		return
	}
	h.writeJSON(w, store.ClearFavorites())
}

// checkout

func (h *Handler) GetCheckoutSummary(w http.ResponseWriter, r *http.Request) {
	state := services.EmptyStoreState()
	if store, ok := h.cart(w, r, false); ok {
		state = store.Snapshot()
	}
	h.writeJSON(w, h.cos.Summarize(state))
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cart(w, r, false)
	if !ok {
		WriteErrorResponse(w, models.ErrNotAllowed)
		return
	}
	order, err := h.cos.PlaceOrder(store)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	h.writeBody(w, order)
}

// sessions

func (h *Handler) listing(w http.ResponseWriter, r *http.Request) *services.FilterService {
	id := sessionId(w, r, listingCookie)
	return h.sessions.Listing(id)
}

// cart returns the cart of the request's session. Without a session cookie it
// starts a new session when create is set and reports false otherwise.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request, create bool) (*services.StoreService, bool) {
	c, err := r.Cookie(cartCookie)
	if err != nil || c.Value == "" {
		if !create {
			return nil, false
		}
		return h.sessions.Cart(sessionId(w, r, cartCookie)), true
	}
	return h.sessions.Cart(c.Value), true
}

// sessionId returns the value of cookie name, issuing a fresh id when the
// request has none.
func sessionId(w http.ResponseWriter, r *http.Request, name string) string {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   id,
		Path:    "/",
		Expires: time.Now().Add(cookieTTL),
	})
	return id
}

// helpers

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return def
	}
	return v
}

// nonEmpty drops blank query values.
func nonEmpty(values []string) []string {
	res := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Debug("unmarshal failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	h.writeBody(w, v)
}

func (h *Handler) writeBody(w http.ResponseWriter, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.log.Error("marshal failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Write(jsonData)
}

// middleware

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("panic occurred",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("stacktrace", string(debug.Stack())))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	default:
		http.Error(w, models.ErrServerError.Error(), http.StatusInternalServerError)
	}
}
