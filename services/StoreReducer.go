package services

import (
	"slices"

	"storefront/entities"
	"storefront/models"

	"github.com/shopspring/decimal"
)

// Action is a cart or favorites transition understood by Reduce.
type Action interface {
	storeAction()
}

// AddToCart adds Quantity units of Product in the given color and size. When
// a line with the same product, color and size exists the quantities are
// summed.
type AddToCart struct {
	Product  models.Product
	Quantity int
	ColorId  string
	SizeId   string
}

// UpdateQuantity replaces the quantity of line Id. A quantity of zero or
// less removes the line.
type UpdateQuantity struct {
	Id       string
	Quantity int
}

type RemoveFromCart struct {
	Id string
}

type ClearCart struct{}

// LoadCart replaces the cart lines wholesale.
type LoadCart struct {
	Items []entities.CartItem
}

type AddToFavorites struct {
	Product models.Product
}

type RemoveFromFavorites struct {
	ProductId string
}

type ToggleFavorite struct {
	Product models.Product
}

type ClearFavorites struct{}

// LoadFavorites replaces the favorites wholesale.
type LoadFavorites struct {
	Products []models.Product
}

func (AddToCart) storeAction()           {}
func (UpdateQuantity) storeAction()      {}
func (RemoveFromCart) storeAction()      {}
func (ClearCart) storeAction()           {}
func (LoadCart) storeAction()            {}
func (AddToFavorites) storeAction()      {}
func (RemoveFromFavorites) storeAction() {}
func (ToggleFavorite) storeAction()      {}
func (ClearFavorites) storeAction()      {}
func (LoadFavorites) storeAction()       {}

func EmptyStoreState() entities.StoreState {
	return entities.StoreState{
		Items:     []entities.CartItem{},
		Favorites: []models.Product{},
		Total:     decimal.Zero,
	}
}

// ClampQuantity bounds a line quantity to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	return max(entities.MinQuantity, min(q, entities.MaxQuantity))
}

// Reduce applies action to state and returns the next state with its totals
// recomputed. state is never modified.
func Reduce(state entities.StoreState, action Action) entities.StoreState {
	next := entities.StoreState{
		Items:     slices.Clone(state.Items),
		Favorites: slices.Clone(state.Favorites),
	}
	if next.Items == nil {
		next.Items = []entities.CartItem{}
	}
	if next.Favorites == nil {
		next.Favorites = []models.Product{}
	}

	switch a := action.(type) {
	case AddToCart:
		if a.Quantity <= 0 {
			break
		}
		key := entities.CartKey{ProductId: a.Product.Id, ColorId: a.ColorId, SizeId: a.SizeId}
		if i := indexOfKey(next.Items, key); i >= 0 {
			next.Items[i].Quantity = ClampQuantity(next.Items[i].Quantity + a.Quantity)
			break
		}
		next.Items = append(next.Items, entities.CartItem{
			Id:            key.ID(),
			Product:       a.Product,
			Quantity:      ClampQuantity(a.Quantity),
			SelectedColor: a.ColorId,
			SelectedSize:  a.SizeId,
		})

	case UpdateQuantity:
		i := indexOfItem(next.Items, a.Id)
		if i < 0 {
			break
		}
		if a.Quantity <= 0 {
			next.Items = slices.Delete(next.Items, i, i+1)
			break
		}
		next.Items[i].Quantity = ClampQuantity(a.Quantity)

	case RemoveFromCart:
		if i := indexOfItem(next.Items, a.Id); i >= 0 {
			next.Items = slices.Delete(next.Items, i, i+1)
		}

	case ClearCart:
		next.Items = []entities.CartItem{}

	case LoadCart:
		next.Items = make([]entities.CartItem, 0, len(a.Items))
		for _, it := range a.Items {
			if it.Id == "" {
				it.Id = it.Key().ID()
			}
			next.Items = append(next.Items, it)
		}

	case AddToFavorites:
		if indexOfProduct(next.Favorites, a.Product.Id) < 0 {
			next.Favorites = append(next.Favorites, a.Product)
		}

	case RemoveFromFavorites:
		if i := indexOfProduct(next.Favorites, a.ProductId); i >= 0 {
			next.Favorites = slices.Delete(next.Favorites, i, i+1)
		}

	case ToggleFavorite:
		if i := indexOfProduct(next.Favorites, a.Product.Id); i >= 0 {
			next.Favorites = slices.Delete(next.Favorites, i, i+1)
		} else {
			next.Favorites = append(next.Favorites, a.Product)
		}

	case ClearFavorites:
		next.Favorites = []models.Product{}

	case LoadFavorites:
		next.Favorites = slices.Clone(a.Products)
		if next.Favorites == nil {
			next.Favorites = []models.Product{}
		}
	}

	return withTotals(next)
}

func withTotals(s entities.StoreState) entities.StoreState {
	s.Total = decimal.Zero
	s.ItemCount = 0
	for _, it := range s.Items {
		s.Total = s.Total.Add(it.LineTotal())
		s.ItemCount += it.Quantity
	}
	s.FavoritesCount = len(s.Favorites)
	return s
}

func indexOfItem(items []entities.CartItem, id string) int {
	return slices.IndexFunc(items, func(it entities.CartItem) bool { return it.Id == id })
}

func indexOfKey(items []entities.CartItem, key entities.CartKey) int {
	return slices.IndexFunc(items, func(it entities.CartItem) bool { return it.Key() == key })
}

func indexOfProduct(products []models.Product, id string) int {
	return slices.IndexFunc(products, func(p models.Product) bool { return p.Id == id })
}
