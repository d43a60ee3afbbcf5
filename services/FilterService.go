package services

import (
	"sync"

	"storefront/entities"
	"storefront/models"

	"go.uber.org/zap"
)

// FilterService holds the listing state of one browsing session: the
// filters, the sort order, the current page and the previewed color. The
// catalog is shared and never modified.
type FilterService struct {
	mu            sync.Mutex
	catalog       []models.Product
	filters       entities.FilterState
	sort          entities.SortOption
	page          int
	selectedColor string
	log           *zap.Logger
}

func NewFilterService(catalog []models.Product, logger *zap.Logger) *FilterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterService{
		catalog: catalog,
		filters: entities.DefaultFilterState(),
		sort:    entities.SortFeatured,
		page:    1,
		log:     logger,
	}
}

// UpdateFilters merges patch into the filters and goes back to page 1.
func (fs *FilterService) UpdateFilters(patch entities.FilterPatch) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.setFilters(MergeFilters(fs.filters, patch))
}

func (fs *FilterService) ToggleCategory(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := copyFilters(fs.filters)
	next.Categories = toggle(fs.filters.Categories, name)
	fs.setFilters(next)
}

func (fs *FilterService) ToggleSubcategory(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := copyFilters(fs.filters)
	next.Subcategories = toggle(fs.filters.Subcategories, name)
	fs.setFilters(next)
}

func (fs *FilterService) ToggleColor(colorId string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := copyFilters(fs.filters)
	next.Colors = toggle(fs.filters.Colors, colorId)
	fs.setFilters(next)
}

// ClearFilters restores the default filters and goes back to page 1.
func (fs *FilterService) ClearFilters() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.setFilters(entities.DefaultFilterState())
}

func (fs *FilterService) setFilters(next entities.FilterState) {
	fs.filters = next
	fs.page = 1
	fs.log.Debug("filters updated",
		zap.Strings("categories", next.Categories),
		zap.Strings("subcategories", next.Subcategories),
		zap.Strings("colors", next.Colors),
		zap.Float64("min_price", next.PriceRange.Min),
		zap.Float64("max_price", next.PriceRange.Max),
		zap.Float64("rating", next.Rating),
		zap.Bool("in_stock", next.InStock))
}

// SelectColor sets the color whose price and images the cards preview. It
// has no effect on which products are listed.
func (fs *FilterService) SelectColor(colorId string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.selectedColor = colorId
}

// UpdateSort changes the ordering. The current page is kept.
func (fs *FilterService) UpdateSort(sortId string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.sort = entities.ParseSortOption(sortId)
	fs.log.Debug("sort updated", zap.String("sort", string(fs.sort)))
}

func (fs *FilterService) GoToPage(n int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.page = ClampPage(n, fs.totalPages())
}

func (fs *FilterService) GoToNextPage() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	total := fs.totalPages()
	if cur := ClampPage(fs.page, total); cur < total {
		fs.page = cur + 1
	}
}

func (fs *FilterService) GoToPreviousPage() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if cur := ClampPage(fs.page, fs.totalPages()); cur > 1 {
		fs.page = cur - 1
	}
}

func (fs *FilterService) totalPages() int {
	return TotalPages(len(FilterProducts(fs.catalog, fs.filters)))
}

// Filters returns a copy of the current filters.
func (fs *FilterService) Filters() entities.FilterState {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return copyFilters(fs.filters)
}

// View derives the visible page. The stored page is clamped against the
// current number of pages on every call.
func (fs *FilterService) View() entities.ListingView {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return BuildListing(fs.catalog, fs.filters, fs.sort, fs.page, fs.selectedColor)
}
