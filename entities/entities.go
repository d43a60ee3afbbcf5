package entities

import (
	"strings"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

const (
	PriceFloor   float64 = 0
	PriceCeiling float64 = 10000
	PageSize             = 12

	MinQuantity = 1
	MaxQuantity = 10
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func FullPriceRange() PriceRange {
	return PriceRange{Min: PriceFloor, Max: PriceCeiling}
}

func (pr PriceRange) IsFull() bool {
	return pr.Min == PriceFloor && pr.Max == PriceCeiling
}

// FilterState is the listing filter. Every set is OR-combined within itself,
// the dimensions are AND-combined with each other.
type FilterState struct {
	Categories    []string   `json:"categories"`
	Subcategories []string   `json:"subcategories"`
	Colors        []string   `json:"colors"`
	PriceRange    PriceRange `json:"priceRange"`
	Rating        float64    `json:"rating"`
	InStock       bool       `json:"inStock"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		Categories:    []string{},
		Subcategories: []string{},
		Colors:        []string{},
		PriceRange:    FullPriceRange(),
	}
}

// FilterPatch is a partial FilterState. Nil fields are left untouched when
// the patch is merged; an empty non-nil slice clears that set.
type FilterPatch struct {
	Categories    []string    `json:"categories,omitempty"`
	Subcategories []string    `json:"subcategories,omitempty"`
	Colors        []string    `json:"colors,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
	Rating        *float64    `json:"rating,omitempty"`
	InStock       *bool       `json:"inStock,omitempty"`
}

type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortRating    SortOption = "rating"
	SortNewest    SortOption = "newest"
	SortName      SortOption = "name"
)

var SortOptions = []SortOption{SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortNewest, SortName}

// ParseSortOption maps an identifier to a SortOption; unknown identifiers
// select SortFeatured.
func ParseSortOption(id string) SortOption {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range SortOptions {
		if string(s) == id {
			return s
		}
	}
	return SortFeatured
}

// ProductCard is a listed product together with the price and images shown
// for the currently previewed color.
type ProductCard struct {
	Product      models.Product  `json:"product"`
	DisplayPrice decimal.Decimal `json:"displayPrice"`
	Images       []string        `json:"images"`
}

type ListingView struct {
	Products          []ProductCard `json:"products"`
	TotalItems        int           `json:"totalItems"`
	TotalPages        int           `json:"totalPages"`
	CurrentPage       int           `json:"currentPage"`
	PageSize          int           `json:"pageSize"`
	ActiveFilterCount int           `json:"activeFilterCount"`
	Filters           FilterState   `json:"filters"`
	Sort              SortOption    `json:"sort"`
	SelectedColor     string        `json:"selectedColor,omitempty"`
	// PriceRangeBounds is the effective price span of the whole catalog,
	// for the price slider.
	PriceRangeBounds PriceRangeData `json:"priceRangeBounds"`
}

type AvailabilityData struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

type CategoryData struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories,omitempty"`
}

type PriceRangeData struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// FilterMetadata describes the values the filter sidebar can offer for a catalog.
type FilterMetadata struct {
	Availability AvailabilityData `json:"availability"`
	Categories   []CategoryData   `json:"categories"`
	Colors       []models.Color   `json:"colors"`
	PriceRange   PriceRangeData   `json:"priceRange"`
}

// CartKey identifies a cart line: the same product in another color or size
// is another line.
type CartKey struct {
	ProductId string
	ColorId   string
	SizeId    string
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// ID joins the key parts with "|". Backslashes and pipes inside a part are
// escaped, so distinct keys never share an id.
func (k CartKey) ID() string {
	return keyEscaper.Replace(k.ProductId) + "|" + keyEscaper.Replace(k.ColorId) + "|" + keyEscaper.Replace(k.SizeId)
}

type CartItem struct {
	Id            string         `json:"id"`
	Product       models.Product `json:"product"`
	Quantity      int            `json:"quantity"`
	SelectedColor string         `json:"selectedColor,omitempty"`
	SelectedSize  string         `json:"selectedSize,omitempty"`
}

func (ci CartItem) Key() CartKey {
	return CartKey{ProductId: ci.Product.Id, ColorId: ci.SelectedColor, SizeId: ci.SelectedSize}
}

func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// StoreState is the cart and favorites state. Total, ItemCount and
// FavoritesCount are always recomputed from Items and Favorites.
type StoreState struct {
	Items          []CartItem       `json:"items"`
	Favorites      []models.Product `json:"favorites"`
	Total          decimal.Decimal  `json:"total"`
	ItemCount      int              `json:"itemCount"`
	FavoritesCount int              `json:"favoritesCount"`
}

type CartRequest struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
	ColorId   string `json:"colorId,omitempty"`
	SizeId    string `json:"sizeId,omitempty"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type OrderSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type Order struct {
	OrderId  string       `json:"orderId"`
	PlacedAt time.Time    `json:"placedAt"`
	Items    []CartItem   `json:"items"`
	Summary  OrderSummary `json:"summary"`
}
