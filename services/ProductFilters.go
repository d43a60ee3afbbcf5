package services

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"storefront/entities"
	"storefront/models"

	"github.com/shopspring/decimal"
)

const maxRating = 5

// SanitizePriceRange clamps both bounds into [PriceFloor, PriceCeiling]. A NaN
// bound becomes the default for its side and inverted bounds are swapped.
func SanitizePriceRange(pr entities.PriceRange) entities.PriceRange {
	lo := sanitizeBound(pr.Min, entities.PriceFloor)
	hi := sanitizeBound(pr.Max, entities.PriceCeiling)
	if lo > hi {
		lo, hi = hi, lo
	}
	return entities.PriceRange{Min: lo, Max: hi}
}

func sanitizeBound(v, def float64) float64 {
	switch {
	case math.IsNaN(v):
		return def
	case v < entities.PriceFloor:
		return entities.PriceFloor
	case v > entities.PriceCeiling:
		return entities.PriceCeiling
	}
	return v
}

func sanitizeRating(r float64) float64 {
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > maxRating:
		return maxRating
	}
	return r
}

// MergeFilters returns a new FilterState with the non-nil fields of patch
// applied on top of state. Neither argument is modified.
func MergeFilters(state entities.FilterState, patch entities.FilterPatch) entities.FilterState {
	next := copyFilters(state)
	if patch.Categories != nil {
		next.Categories = uniqueSet(patch.Categories)
	}
	if patch.Subcategories != nil {
		next.Subcategories = uniqueSet(patch.Subcategories)
	}
	if patch.Colors != nil {
		next.Colors = uniqueSet(patch.Colors)
	}
	if patch.PriceRange != nil {
		next.PriceRange = SanitizePriceRange(*patch.PriceRange)
	}
	if patch.Rating != nil {
		next.Rating = sanitizeRating(*patch.Rating)
	}
	if patch.InStock != nil {
		next.InStock = *patch.InStock
	}
	return next
}

func copyFilters(f entities.FilterState) entities.FilterState {
	f.Categories = cloneSet(f.Categories)
	f.Subcategories = cloneSet(f.Subcategories)
	f.Colors = cloneSet(f.Colors)
	return f
}

func cloneSet(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// uniqueSet copies s without repeated members, keeping first occurrences.
func uniqueSet(s []string) []string {
	res := make([]string, 0, len(s))
	for _, v := range s {
		if !slices.Contains(res, v) {
			res = append(res, v)
		}
	}
	return res
}

// toggle adds v to set when absent and removes it when present.
func toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

type priceBounds struct {
	min, max decimal.Decimal
}

func boundsOf(pr entities.PriceRange) priceBounds {
	pr = SanitizePriceRange(pr)
	return priceBounds{min: decimal.NewFromFloat(pr.Min), max: decimal.NewFromFloat(pr.Max)}
}

// MatchesFilters reports whether p satisfies every dimension of f.
func MatchesFilters(p models.Product, f entities.FilterState) bool {
	return matches(p, f, boundsOf(f.PriceRange), sanitizeRating(f.Rating))
}

func matches(p models.Product, f entities.FilterState, b priceBounds, rating float64) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Subcategories) > 0 && !slices.Contains(f.Subcategories, p.Subcategory) {
		return false
	}
	if len(f.Colors) > 0 && !p.HasAnyColor(f.Colors) {
		return false
	}
	price := p.EffectivePrice()
	if price.LessThan(b.min) || price.GreaterThan(b.max) {
		return false
	}
	if rating > 0 && p.RatingValue < rating {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	return true
}

// FilterProducts keeps the products matching f, in catalog order.
func FilterProducts(catalog []models.Product, f entities.FilterState) []models.Product {
	b := boundsOf(f.PriceRange)
	rating := sanitizeRating(f.Rating)
	res := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, f, b, rating) {
			res = append(res, p)
		}
	}
	return res
}

// SortProducts returns a stably sorted copy of products. Ties keep their
// input order.
func SortProducts(products []models.Product, s entities.SortOption) []models.Product {
	res := slices.Clone(products)
	var less func(a, b models.Product) int
	switch s {
	case entities.SortPriceAsc:
		less = func(a, b models.Product) int { return a.EffectivePrice().Cmp(b.EffectivePrice()) }
	case entities.SortPriceDesc:
		less = func(a, b models.Product) int { return b.EffectivePrice().Cmp(a.EffectivePrice()) }
	case entities.SortRating:
		less = func(a, b models.Product) int { return cmp.Compare(b.RatingValue, a.RatingValue) }
	case entities.SortNewest:
		less = func(a, b models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case entities.SortName:
		less = func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	default:
		return res
	}
	slices.SortStableFunc(res, less)
	return res
}

// TotalPages is ceil(totalItems / PageSize), never less than 1.
func TotalPages(totalItems int) int {
	if totalItems <= 0 {
		return 1
	}
	return (totalItems + entities.PageSize - 1) / entities.PageSize
}

func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageOf returns the products shown on page (1-based, already clamped).
func PageOf(products []models.Product, page int) []models.Product {
	start := (page - 1) * entities.PageSize
	if start < 0 || start >= len(products) {
		return []models.Product{}
	}
	end := min(start+entities.PageSize, len(products))
	return products[start:end]
}

// ActiveFilterCount counts the filter dimensions that differ from their default.
func ActiveFilterCount(f entities.FilterState) (count int) {
	if len(f.Categories) > 0 {
		count++
	}
	if len(f.Subcategories) > 0 {
		count++
	}
	if len(f.Colors) > 0 {
		count++
	}
	if !SanitizePriceRange(f.PriceRange).IsFull() {
		count++
	}
	if sanitizeRating(f.Rating) > 0 {
		count++
	}
	if f.InStock {
		count++
	}
	return
}

func productCard(p models.Product, selectedColor string) entities.ProductCard {
	card := entities.ProductCard{Product: p, DisplayPrice: p.EffectivePrice(), Images: p.Images}
	if selectedColor != "" && p.HasColor(selectedColor) {
		card.DisplayPrice = p.VariantPrice(selectedColor, "")
		card.Images = p.VariantImages(selectedColor)
	}
	return card
}

// BuildListing derives the visible page for the given filters, sort and page.
// The page is clamped into [1, totalPages].
func BuildListing(catalog []models.Product, f entities.FilterState, s entities.SortOption, page int, selectedColor string) entities.ListingView {
	filtered := SortProducts(FilterProducts(catalog, f), s)
	totalPages := TotalPages(len(filtered))
	page = ClampPage(page, totalPages)

	visible := PageOf(filtered, page)
	cards := make([]entities.ProductCard, 0, len(visible))
	for _, p := range visible {
		cards = append(cards, productCard(p, selectedColor))
	}
	return entities.ListingView{
		Products:          cards,
		TotalItems:        len(filtered),
		TotalPages:        totalPages,
		CurrentPage:       page,
		PageSize:          entities.PageSize,
		ActiveFilterCount: ActiveFilterCount(f),
		Filters:           copyFilters(f),
		Sort:              s,
		SelectedColor:     selectedColor,
		PriceRangeBounds:  PriceSpan(catalog),
	}
}

// PriceSpan is the lowest and highest effective price in catalog, both zero
// for an empty catalog.
func PriceSpan(catalog []models.Product) (span entities.PriceRangeData) {
	for i, p := range catalog {
		price := p.EffectivePrice()
		if i == 0 || price.LessThan(span.Min) {
			span.Min = price
		}
		if i == 0 || price.GreaterThan(span.Max) {
			span.Max = price
		}
	}
	return
}

// BuildFilterMetadata collects the categories, colors, price span and
// availability counts present in catalog.
func BuildFilterMetadata(catalog []models.Product) (meta entities.FilterMetadata) {
	meta.Categories = []entities.CategoryData{}
	meta.Colors = []models.Color{}
	catIdx := map[string]int{}
	seenColor := map[string]bool{}
	for _, p := range catalog {
		if p.InStock {
			meta.Availability.InStock++
		} else {
			meta.Availability.OutOfStock++
		}

		idx, ok := catIdx[p.Category]
		if !ok {
			idx = len(meta.Categories)
			catIdx[p.Category] = idx
			meta.Categories = append(meta.Categories, entities.CategoryData{Name: p.Category})
		}
		if p.Subcategory != "" && !slices.Contains(meta.Categories[idx].Subcategories, p.Subcategory) {
			meta.Categories[idx].Subcategories = append(meta.Categories[idx].Subcategories, p.Subcategory)
		}

		for _, c := range p.Colors {
			if !seenColor[c.Id] {
				seenColor[c.Id] = true
				meta.Colors = append(meta.Colors, c)
			}
		}
	}
	meta.PriceRange = PriceSpan(catalog)
	return
}
