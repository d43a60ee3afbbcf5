package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront/models"
)

// ProductRepository loads the catalog. The storefront reads it once at
// startup and never refreshes it.
type ProductRepository interface {
	ListProducts() (prods []models.Product, err error)
}

// ProductRepo reads the catalog from a Products table. The query uses no
// placeholders, so it runs unchanged on Postgres (lib/pq) and SQLite
// (go-sqlite3). JSON documents are stored in the Colors, Sizes,
// ColorVariants, PriceModifiers and Images columns.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepository(conn *sql.DB) (ProductRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &ProductRepo{
		db: conn,
	}, nil
}

const listProductsQuery = `SELECT Id, Name, Brand, Category, Subcategory, Price, DiscountPrice, DiscountPercent,
	RatingValue, RatingCount, Colors, Sizes, ColorVariants, PriceModifiers, Images, InStock, IsHot, CreatedAt
	FROM Products ORDER BY Position, Id`

func (p *ProductRepo) ListProducts() (prods []models.Product, err error) {
	rows, e := p.db.Query(listProductsQuery)
	if e != nil {
		err = fmt.Errorf("ListProducts[1]: %w", e)
		return
	}
	defer rows.Close()

	prods = []models.Product{}
	for rows.Next() {
		var row models.Product_db
		err = rows.Scan(&row.Id, &row.Name, &row.Brand, &row.Category, &row.Subcategory,
			&row.Price, &row.DiscountPrice, &row.DiscountPercent, &row.RatingValue, &row.RatingCount,
			&row.Colors, &row.Sizes, &row.ColorVariants, &row.PriceModifiers, &row.Images,
			&row.InStock, &row.IsHot, &row.CreatedAt)
		if err != nil {
			err = fmt.Errorf("ListProducts[2]: %w", err)
			return
		}
		prod, e := row.ToProduct()
		if e != nil {
			err = fmt.Errorf("ListProducts: product %s: %w: %v", row.Id, models.ErrBadRequest, e)
			return
		}
		prods = append(prods, prod)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("ListProducts[3]: %w", err)
		return
	}
	err = ValidateCatalog(prods)
	return
}

// ValidateCatalog rejects duplicate ids, negative prices and discount prices
// that are not below the list price.
func ValidateCatalog(prods []models.Product) error {
	seen := make(map[string]bool, len(prods))
	for _, p := range prods {
		if p.Id == "" {
			return fmt.Errorf("product %q has no id: %w", p.Name, models.ErrBadRequest)
		}
		if seen[p.Id] {
			return fmt.Errorf("duplicate product id %s: %w", p.Id, models.ErrBadRequest)
		}
		seen[p.Id] = true
		if p.Price.IsNegative() {
			return fmt.Errorf("product %s has a negative price: %w", p.Id, models.ErrBadRequest)
		}
		if p.DiscountPrice != nil && (p.DiscountPrice.IsNegative() || !p.DiscountPrice.LessThan(p.Price)) {
			return fmt.Errorf("product %s discount price must be below its price: %w", p.Id, models.ErrBadRequest)
		}
		if p.RatingValue < 0 || p.RatingValue > 5 || p.RatingCount < 0 {
			return fmt.Errorf("product %s has an invalid rating: %w", p.Id, models.ErrBadRequest)
		}
	}
	return nil
}
