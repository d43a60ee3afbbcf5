package services

import (
	"math"
	"testing"

	"storefront/entities"
	"storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedCatalog() []models.Product {
	return []models.Product{
		newProduct("a", "10", withCategory("Clothing", "Shirts"), withColors("black", "white"), withRating(4.5)),
		newProduct("b", "50", withCategory("Clothing", "Jackets"), withColors("navy"), withRating(3.2)),
		newProduct("c", "120", withDiscount("90"), withCategory("Shoes", "Boots"), withColors("black"), withRating(4.8)),
		newProduct("d", "35", withCategory("Shoes", "Sneakers"), withColors("red", "white"), withRating(2.1), outOfStock()),
		newProduct("e", "60", withCategory("Accessories", "Bags"), withColors("olive"), withRating(5)),
		newProduct("f", "8000", withCategory("Accessories", "Hats"), withColors("black"), withRating(0)),
	}
}

func TestFilterProducts_PriceRangeScenario(t *testing.T) {
	catalog := []models.Product{
		newProduct("ten", "10"),
		newProduct("fifty", "50"),
		newProduct("onetwenty", "120"),
	}
	f := entities.DefaultFilterState()
	f.PriceRange = entities.PriceRange{Min: 0, Max: 60}

	got := FilterProducts(catalog, f)
	assert.Equal(t, []string{"ten", "fifty"}, ids(got))
}

func TestFilterProducts_OnlyMatchingProducts(t *testing.T) {
	catalog := mixedCatalog()
	cases := []struct {
		name string
		f    func(f *entities.FilterState)
		want []string
	}{
		{"defaults", func(f *entities.FilterState) {}, []string{"a", "b", "c", "d", "e", "f"}},
		{"categories are OR-combined", func(f *entities.FilterState) { f.Categories = []string{"Shoes", "Accessories"} }, []string{"c", "d", "e", "f"}},
		{"subcategory", func(f *entities.FilterState) { f.Subcategories = []string{"Jackets", "Bags"} }, []string{"b", "e"}},
		{"any matching color", func(f *entities.FilterState) { f.Colors = []string{"white", "olive"} }, []string{"a", "d", "e"}},
		{"discount price is used", func(f *entities.FilterState) { f.PriceRange = entities.PriceRange{Min: 80, Max: 100} }, []string{"c"}},
		{"bounds are inclusive", func(f *entities.FilterState) { f.PriceRange = entities.PriceRange{Min: 10, Max: 50} }, []string{"a", "b", "d"}},
		{"rating threshold", func(f *entities.FilterState) { f.Rating = 4.5 }, []string{"a", "c", "e"}},
		{"in stock only", func(f *entities.FilterState) { f.InStock = true }, []string{"a", "b", "c", "e", "f"}},
		{"dimensions are AND-combined", func(f *entities.FilterState) {
			f.Categories = []string{"Clothing", "Shoes"}
			f.Colors = []string{"black"}
			f.Rating = 4
		}, []string{"a", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := entities.DefaultFilterState()
			tc.f(&f)
			got := FilterProducts(catalog, f)
			assert.Equal(t, tc.want, ids(got))

			visible := map[string]bool{}
			for _, p := range got {
				assert.True(t, MatchesFilters(p, f), "returned %s does not match", p.Id)
				visible[p.Id] = true
			}
			for _, p := range catalog {
				if !visible[p.Id] {
					assert.False(t, MatchesFilters(p, f), "matching %s was dropped", p.Id)
				}
			}
		})
	}
}

func TestSanitizePriceRange(t *testing.T) {
	cases := []struct {
		name string
		in   entities.PriceRange
		want entities.PriceRange
	}{
		{"valid", entities.PriceRange{Min: 5, Max: 50}, entities.PriceRange{Min: 5, Max: 50}},
		{"NaN min", entities.PriceRange{Min: math.NaN(), Max: 50}, entities.PriceRange{Min: 0, Max: 50}},
		{"NaN max", entities.PriceRange{Min: 5, Max: math.NaN()}, entities.PriceRange{Min: 5, Max: 10000}},
		{"out of bounds", entities.PriceRange{Min: -20, Max: 20000}, entities.PriceRange{Min: 0, Max: 10000}},
		{"infinite", entities.PriceRange{Min: math.Inf(-1), Max: math.Inf(1)}, entities.PriceRange{Min: 0, Max: 10000}},
		{"inverted", entities.PriceRange{Min: 70, Max: 30}, entities.PriceRange{Min: 30, Max: 70}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizePriceRange(tc.in))
		})
	}
}

func TestMatchesFilters_NaNPriceDoesNotPanic(t *testing.T) {
	f := entities.DefaultFilterState()
	f.PriceRange = entities.PriceRange{Min: math.NaN(), Max: math.NaN()}
	f.Rating = math.NaN()
	require.NotPanics(t, func() {
		assert.True(t, MatchesFilters(newProduct("x", "42"), f))
	})
	assert.Equal(t, 0, ActiveFilterCount(f))
}

func TestSortProducts(t *testing.T) {
	catalog := []models.Product{
		newProduct("a", "30", withRating(4), createdOn(3)),
		newProduct("b", "10", withRating(5), createdOn(1)),
		newProduct("c", "30", withRating(4), createdOn(2)),
		newProduct("d", "20", withDiscount("5"), withRating(3), createdOn(4)),
	}
	catalog[0].Name = "zebra"
	catalog[1].Name = "Apple"
	catalog[2].Name = "mango"
	catalog[3].Name = "banana"

	cases := []struct {
		sort entities.SortOption
		want []string
	}{
		{entities.SortFeatured, []string{"a", "b", "c", "d"}},
		{entities.SortPriceAsc, []string{"d", "b", "a", "c"}},
		{entities.SortPriceDesc, []string{"a", "c", "b", "d"}},
		{entities.SortRating, []string{"b", "a", "c", "d"}},
		{entities.SortNewest, []string{"d", "a", "c", "b"}},
		{entities.SortName, []string{"b", "d", "c", "a"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.sort), func(t *testing.T) {
			assert.Equal(t, tc.want, ids(SortProducts(catalog, tc.sort)))
		})
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(catalog), "input must not be reordered")
}

func TestSortProducts_StableOnTies(t *testing.T) {
	catalog := make([]models.Product, 0, 20)
	for _, id := range []string{"k", "c", "x", "a", "m", "b"} {
		catalog = append(catalog, newProduct(id, "25"))
	}
	assert.Equal(t, []string{"k", "c", "x", "a", "m", "b"}, ids(SortProducts(catalog, entities.SortPriceAsc)))
	assert.Equal(t, []string{"k", "c", "x", "a", "m", "b"}, ids(SortProducts(catalog, entities.SortRating)))
}

func TestParseSortOption(t *testing.T) {
	assert.Equal(t, entities.SortPriceDesc, entities.ParseSortOption(" Price-Desc "))
	assert.Equal(t, entities.SortFeatured, entities.ParseSortOption("cheapest"))
	assert.Equal(t, entities.SortFeatured, entities.ParseSortOption(""))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0))
	assert.Equal(t, 1, TotalPages(12))
	assert.Equal(t, 2, TotalPages(13))
	assert.Equal(t, 3, TotalPages(25))

	assert.Equal(t, 3, ClampPage(5, 3))
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-4, 3))
	assert.Equal(t, 2, ClampPage(2, 3))

	catalog := catalogOf(25)
	assert.Len(t, PageOf(catalog, 1), 12)
	assert.Len(t, PageOf(catalog, 2), 12)
	assert.Equal(t, []string{"p25"}, ids(PageOf(catalog, 3)))
	assert.Empty(t, PageOf(catalog, 4))
}

func TestBuildListing_ClampsPage(t *testing.T) {
	view := BuildListing(catalogOf(25), entities.DefaultFilterState(), entities.SortFeatured, 5, "")
	assert.Equal(t, 25, view.TotalItems)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.CurrentPage)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "p25", view.Products[0].Product.Id)
	assert.Equal(t, entities.PageSize, view.PageSize)
}

func TestBuildListing_EmptyResultHasOnePage(t *testing.T) {
	f := entities.DefaultFilterState()
	f.Categories = []string{"Nothing"}
	view := BuildListing(catalogOf(5), f, entities.SortFeatured, 2, "")
	assert.Equal(t, 0, view.TotalItems)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.CurrentPage)
	assert.Empty(t, view.Products)
	assert.Equal(t, 1, view.ActiveFilterCount)
}

func TestBuildListing_PreviewColor(t *testing.T) {
	p := newProduct("shirt", "40", withColors("black", "red"))
	p.PriceModifiers = &models.PriceModifiers{Colors: map[string]decimal.Decimal{"red": decimal.RequireFromString("4.50")}}
	p.ColorVariants = map[string][]string{"red": {"/img/shirt-red.jpg"}}
	plain := newProduct("plain", "15")

	view := BuildListing([]models.Product{p, plain}, entities.DefaultFilterState(), entities.SortFeatured, 1, "red")
	require.Len(t, view.Products, 2)
	assert.Equal(t, "44.50", view.Products[0].DisplayPrice.StringFixed(2))
	assert.Equal(t, []string{"/img/shirt-red.jpg"}, view.Products[0].Images)
	assert.Equal(t, "15.00", view.Products[1].DisplayPrice.StringFixed(2))
	assert.Equal(t, []string{"/img/plain.jpg"}, view.Products[1].Images)
	assert.Equal(t, "red", view.SelectedColor)
	assert.Equal(t, 2, view.TotalItems, "preview color does not filter")
}

func TestActiveFilterCount(t *testing.T) {
	f := entities.DefaultFilterState()
	assert.Equal(t, 0, ActiveFilterCount(f))

	f.Categories = []string{"Shoes", "Clothing"}
	assert.Equal(t, 1, ActiveFilterCount(f))
	f.Subcategories = []string{"Boots"}
	f.Colors = []string{"red", "black", "white"}
	assert.Equal(t, 3, ActiveFilterCount(f))
	f.PriceRange = entities.PriceRange{Min: 0, Max: 500}
	assert.Equal(t, 4, ActiveFilterCount(f))
	f.Rating = 3
	assert.Equal(t, 5, ActiveFilterCount(f))
	f.InStock = true
	assert.Equal(t, 6, ActiveFilterCount(f))
}

func TestMergeFilters_DoesNotModifyInput(t *testing.T) {
	base := entities.DefaultFilterState()
	base.Categories = []string{"Shoes"}
	rating := 4.0
	inStock := true

	next := MergeFilters(base, entities.FilterPatch{
		Colors:  []string{"red"},
		Rating:  &rating,
		InStock: &inStock,
	})

	assert.Equal(t, []string{"Shoes"}, next.Categories)
	assert.Equal(t, []string{"red"}, next.Colors)
	assert.Equal(t, 4.0, next.Rating)
	assert.True(t, next.InStock)

	assert.Empty(t, base.Colors)
	assert.Zero(t, base.Rating)
	assert.False(t, base.InStock)

	next.Categories[0] = "changed"
	assert.Equal(t, "Shoes", base.Categories[0])

	cleared := MergeFilters(next, entities.FilterPatch{Categories: []string{}})
	assert.Empty(t, cleared.Categories)
	assert.Equal(t, []string{"red"}, cleared.Colors)
}

func TestMergeFilters_DropsRepeatedMembers(t *testing.T) {
	next := MergeFilters(entities.DefaultFilterState(), entities.FilterPatch{
		Categories:    []string{"Shoes", "Shoes", "Clothing", "Shoes"},
		Subcategories: []string{"Boots", "Boots"},
		Colors:        []string{"red", "red"},
	})
	assert.Equal(t, []string{"Shoes", "Clothing"}, next.Categories)
	assert.Equal(t, []string{"Boots"}, next.Subcategories)
	assert.Equal(t, []string{"red"}, next.Colors)

	assert.Empty(t, toggle(next.Colors, "red"))
}

func TestBuildListing_PriceRangeBounds(t *testing.T) {
	f := entities.DefaultFilterState()
	f.Categories = []string{"Nothing"}
	view := BuildListing(mixedCatalog(), f, entities.SortFeatured, 1, "")

	assert.Empty(t, view.Products)
	assert.Equal(t, "10.00", view.PriceRangeBounds.Min.StringFixed(2), "bounds span the whole catalog")
	assert.Equal(t, "8000.00", view.PriceRangeBounds.Max.StringFixed(2))

	empty := BuildListing(nil, entities.DefaultFilterState(), entities.SortFeatured, 1, "")
	assert.True(t, empty.PriceRangeBounds.Min.IsZero())
	assert.True(t, empty.PriceRangeBounds.Max.IsZero())
}

func TestPriceSpan_UsesEffectivePrice(t *testing.T) {
	span := PriceSpan([]models.Product{
		newProduct("a", "120", withDiscount("45")),
		newProduct("b", "60"),
		newProduct("c", "99"),
	})
	assert.Equal(t, "45.00", span.Min.StringFixed(2))
	assert.Equal(t, "99.00", span.Max.StringFixed(2))
}

func TestBuildFilterMetadata(t *testing.T) {
	meta := BuildFilterMetadata(mixedCatalog())

	assert.Equal(t, entities.AvailabilityData{InStock: 5, OutOfStock: 1}, meta.Availability)
	require.Len(t, meta.Categories, 3)
	assert.Equal(t, "Clothing", meta.Categories[0].Name)
	assert.Equal(t, []string{"Shirts", "Jackets"}, meta.Categories[0].Subcategories)
	assert.Equal(t, "Accessories", meta.Categories[2].Name)

	colorIds := make([]string, 0, len(meta.Colors))
	for _, c := range meta.Colors {
		colorIds = append(colorIds, c.Id)
	}
	assert.Equal(t, []string{"black", "white", "navy", "red", "olive"}, colorIds)

	assert.Equal(t, "10.00", meta.PriceRange.Min.StringFixed(2))
	assert.Equal(t, "8000.00", meta.PriceRange.Max.StringFixed(2))
}

func TestBuildFilterMetadata_EmptyCatalog(t *testing.T) {
	meta := BuildFilterMetadata(nil)
	assert.Empty(t, meta.Categories)
	assert.Empty(t, meta.Colors)
	assert.True(t, meta.PriceRange.Min.IsZero())
}
