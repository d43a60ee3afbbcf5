package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

type Color struct {
	Id   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

type Size struct {
	Id    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// PriceModifiers holds signed price deltas per color id and per size id.
type PriceModifiers struct {
	Colors map[string]decimal.Decimal `json:"colors,omitempty"`
	Sizes  map[string]decimal.Decimal `json:"sizes,omitempty"`
}

// Product is a read-only catalog entry. Nothing in the storefront mutates a
// Product after the catalog has been loaded.
type Product struct {
	Id              string              `json:"id"`
	Name            string              `json:"name"`
	Brand           string              `json:"brand"`
	Category        string              `json:"category"`
	Subcategory     string              `json:"subcategory"`
	Price           decimal.Decimal     `json:"price"`
	DiscountPrice   *decimal.Decimal    `json:"discountPrice,omitempty"`
	DiscountPercent *int                `json:"discountPercent,omitempty"`
	RatingValue     float64             `json:"ratingValue"`
	RatingCount     int                 `json:"ratingCount"`
	Colors          []Color             `json:"colors"`
	Sizes           []Size              `json:"sizes,omitempty"`
	ColorVariants   map[string][]string `json:"colorVariants,omitempty"`
	PriceModifiers  *PriceModifiers     `json:"priceModifiers,omitempty"`
	Images          []string            `json:"images"`
	InStock         bool                `json:"inStock"`
	IsHot           bool                `json:"isHot"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// EffectivePrice is the discount price when one is set, the list price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

func (p Product) HasColor(colorId string) bool {
	for _, c := range p.Colors {
		if c.Id == colorId {
			return true
		}
	}
	return false
}

func (p Product) HasAnyColor(colorIds []string) bool {
	for _, id := range colorIds {
		if p.HasColor(id) {
			return true
		}
	}
	return false
}

// ColorDelta returns the price modifier for colorId, or zero when the product
// has no modifier for it.
func (p Product) ColorDelta(colorId string) decimal.Decimal {
	if p.PriceModifiers == nil || colorId == "" {
		return decimal.Zero
	}
	if d, ok := p.PriceModifiers.Colors[colorId]; ok {
		return d
	}
	return decimal.Zero
}

// SizeDelta returns the price modifier for sizeId, or zero when the product
// has no modifier for it.
func (p Product) SizeDelta(sizeId string) decimal.Decimal {
	if p.PriceModifiers == nil || sizeId == "" {
		return decimal.Zero
	}
	if d, ok := p.PriceModifiers.Sizes[sizeId]; ok {
		return d
	}
	return decimal.Zero
}

// VariantPrice is the effective price adjusted by the color and size
// modifiers. It never goes below zero.
func (p Product) VariantPrice(colorId, sizeId string) decimal.Decimal {
	price := p.EffectivePrice().Add(p.ColorDelta(colorId)).Add(p.SizeDelta(sizeId))
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// VariantImages returns the images for colorId, falling back to the base images.
func (p Product) VariantImages(colorId string) []string {
	if imgs, ok := p.ColorVariants[colorId]; ok && len(imgs) > 0 {
		return imgs
	}
	return p.Images
}

type Product_db struct {
	Id              string              `db:"Id"`
	Name            string              `db:"Name"`
	Brand           string              `db:"Brand"`
	Category        string              `db:"Category"`
	Subcategory     string              `db:"Subcategory"`
	Price           decimal.Decimal     `db:"Price"`
	DiscountPrice   decimal.NullDecimal `db:"DiscountPrice"`
	DiscountPercent *int64              `db:"DiscountPercent"`
	RatingValue     float64             `db:"RatingValue"`
	RatingCount     int                 `db:"RatingCount"`
	Colors          []byte              `db:"Colors"`
	Sizes           []byte              `db:"Sizes"`
	ColorVariants   []byte              `db:"ColorVariants"`
	PriceModifiers  []byte              `db:"PriceModifiers"`
	Images          []byte              `db:"Images"`
	InStock         bool                `db:"InStock"`
	IsHot           bool                `db:"IsHot"`
	CreatedAt       time.Time           `db:"CreatedAt"`
}

// ToProduct decodes the JSON columns of a catalog row.
func (row Product_db) ToProduct() (p Product, err error) {
	p = Product{
		Id:          row.Id,
		Name:        row.Name,
		Brand:       row.Brand,
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Price:       row.Price,
		RatingValue: row.RatingValue,
		RatingCount: row.RatingCount,
		InStock:     row.InStock,
		IsHot:       row.IsHot,
		CreatedAt:   row.CreatedAt,
	}
	if row.DiscountPrice.Valid {
		d := row.DiscountPrice.Decimal
		p.DiscountPrice = &d
	}
	if row.DiscountPercent != nil {
		pct := int(*row.DiscountPercent)
		p.DiscountPercent = &pct
	}
	if err = unmarshalColumn(row.Colors, &p.Colors); err != nil {
		return
	}
	if err = unmarshalColumn(row.Sizes, &p.Sizes); err != nil {
		return
	}
	if err = unmarshalColumn(row.ColorVariants, &p.ColorVariants); err != nil {
		return
	}
	if err = unmarshalColumn(row.PriceModifiers, &p.PriceModifiers); err != nil {
		return
	}
	err = unmarshalColumn(row.Images, &p.Images)
	return
}

func unmarshalColumn(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
