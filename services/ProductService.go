package services

import (
	"slices"

	"storefront/entities"
	"storefront/models"
	"storefront/repository"
)

// ProductService serves the catalog loaded once at startup.
type ProductService struct {
	catalog []models.Product
	byId    map[string]int
}

func NewProductService(pRepo repository.ProductRepository) (ps ProductService, err error) {
	prods, err := pRepo.ListProducts()
	if err != nil {
		return
	}
	ps = NewProductServiceFromCatalog(prods)
	return
}

func NewProductServiceFromCatalog(prods []models.Product) ProductService {
	ps := ProductService{
		catalog: slices.Clone(prods),
		byId:    make(map[string]int, len(prods)),
	}
	for i, p := range ps.catalog {
		ps.byId[p.Id] = i
	}
	return ps
}

// Catalog returns the products in catalog order. Callers must not modify it.
func (ps *ProductService) Catalog() []models.Product {
	return ps.catalog
}

func (ps *ProductService) GetProductById(prodId string) (p models.Product, err error) {
	i, ok := ps.byId[prodId]
	if !ok {
		err = models.ErrNotFoundError
		return
	}
	p = ps.catalog[i]
	return
}

func (ps *ProductService) FilterMetadata() entities.FilterMetadata {
	return BuildFilterMetadata(ps.catalog)
}
