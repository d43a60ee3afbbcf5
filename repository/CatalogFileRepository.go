package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []productRecord `yaml:"products"`
}

type productRecord struct {
	Id              string              `yaml:"id"`
	Name            string              `yaml:"name"`
	Brand           string              `yaml:"brand"`
	Category        string              `yaml:"category"`
	Subcategory     string              `yaml:"subcategory"`
	Price           float64             `yaml:"price"`
	DiscountPrice   *float64            `yaml:"discountPrice"`
	DiscountPercent *int                `yaml:"discountPercent"`
	RatingValue     float64             `yaml:"ratingValue"`
	RatingCount     int                 `yaml:"ratingCount"`
	Colors          []models.Color      `yaml:"colors"`
	Sizes           []models.Size       `yaml:"sizes"`
	ColorVariants   map[string][]string `yaml:"colorVariants"`
	PriceModifiers  *struct {
		Colors map[string]float64 `yaml:"colors"`
		Sizes  map[string]float64 `yaml:"sizes"`
	} `yaml:"priceModifiers"`
	Images    []string  `yaml:"images"`
	InStock   bool      `yaml:"inStock"`
	IsHot     bool      `yaml:"isHot"`
	CreatedAt time.Time `yaml:"createdAt"`
}

func (r productRecord) toProduct() models.Product {
	p := models.Product{
		Id:              r.Id,
		Name:            r.Name,
		Brand:           r.Brand,
		Category:        r.Category,
		Subcategory:     r.Subcategory,
		Price:           decimal.NewFromFloat(r.Price),
		DiscountPercent: r.DiscountPercent,
		RatingValue:     r.RatingValue,
		RatingCount:     r.RatingCount,
		Colors:          r.Colors,
		Sizes:           r.Sizes,
		ColorVariants:   r.ColorVariants,
		Images:          r.Images,
		InStock:         r.InStock,
		IsHot:           r.IsHot,
		CreatedAt:       r.CreatedAt,
	}
	if p.Colors == nil {
		p.Colors = []models.Color{}
	}
	if r.DiscountPrice != nil {
		d := decimal.NewFromFloat(*r.DiscountPrice)
		p.DiscountPrice = &d
	}
	if r.PriceModifiers != nil {
		p.PriceModifiers = &models.PriceModifiers{
			Colors: toDecimals(r.PriceModifiers.Colors),
			Sizes:  toDecimals(r.PriceModifiers.Sizes),
		}
	}
	return p
}

func toDecimals(m map[string]float64) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	res := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		res[k] = decimal.NewFromFloat(v)
	}
	return res
}

// CatalogFileRepo reads the catalog from a YAML document with a top-level
// "products" list.
type CatalogFileRepo struct {
	path string
}

func NewCatalogFileRepository(path string) (ProductRepository, error) {
	if path == "" {
		return nil, errors.New("catalog path must be non-empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &CatalogFileRepo{path: path}, nil
}

func (c *CatalogFileRepo) ListProducts() (prods []models.Product, err error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(r io.Reader) (prods []models.Product, err error) {
	var doc catalogFile
	if err = yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w: %v", models.ErrBadRequest, err)
	}
	prods = make([]models.Product, 0, len(doc.Products))
	for _, rec := range doc.Products {
		prods = append(prods, rec.toProduct())
	}
	if err = ValidateCatalog(prods); err != nil {
		return nil, err
	}
	return prods, nil
}
