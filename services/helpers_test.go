package services

import (
	"fmt"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

type productOpt func(*models.Product)

func withDiscount(price string) productOpt {
	return func(p *models.Product) {
		d := decimal.RequireFromString(price)
		p.DiscountPrice = &d
	}
}

func withCategory(cat, sub string) productOpt {
	return func(p *models.Product) {
		p.Category = cat
		p.Subcategory = sub
	}
}

func withColors(ids ...string) productOpt {
	return func(p *models.Product) {
		p.Colors = nil
		for _, id := range ids {
			p.Colors = append(p.Colors, models.Color{Id: id, Name: id})
		}
	}
}

func withRating(r float64) productOpt {
	return func(p *models.Product) { p.RatingValue = r }
}

func outOfStock() productOpt {
	return func(p *models.Product) { p.InStock = false }
}

func createdOn(day int) productOpt {
	return func(p *models.Product) {
		p.CreatedAt = time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
	}
}

func newProduct(id, price string, opts ...productOpt) models.Product {
	p := models.Product{
		Id:          id,
		Name:        "Product " + id,
		Category:    "Clothing",
		Subcategory: "Shirts",
		Price:       decimal.RequireFromString(price),
		RatingValue: 4,
		Colors:      []models.Color{{Id: "black", Name: "Black", Hex: "#000000"}},
		Images:      []string{"/img/" + id + ".jpg"},
		InStock:     true,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// catalogOf builds n in-stock products priced 1, 2, ... n.
func catalogOf(n int) []models.Product {
	res := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, newProduct(fmt.Sprintf("p%02d", i), fmt.Sprintf("%d", i)))
	}
	return res
}

func ids(prods []models.Product) []string {
	res := make([]string, 0, len(prods))
	for _, p := range prods {
		res = append(res, p.Id)
	}
	return res
}
