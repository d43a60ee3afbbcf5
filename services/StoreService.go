package services

import (
	"encoding/json"
	"slices"
	"sync"

	"storefront/entities"
	"storefront/models"
	"storefront/repository"

	"go.uber.org/zap"
)

const (
	CartStorageKey      = "cart"
	FavoritesStorageKey = "favorites"
)

// StoreService owns the cart and favorites of one session. Construct it with
// NewStoreService, call Hydrate once, then Dispatch actions. Every dispatch
// writes the new state back to the KeyValueStore; storage failures are logged
// and never undo the in-memory change.
type StoreService struct {
	mu    sync.Mutex
	kv    repository.KeyValueStore
	state entities.StoreState
	log   *zap.Logger
}

func NewStoreService(kv repository.KeyValueStore, logger *zap.Logger) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		kv:    kv,
		state: EmptyStoreState(),
		log:   logger,
	}
}

// Hydrate loads the persisted cart and favorites. Missing or unreadable
// data leaves the corresponding part empty.
func (s *StoreService) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := EmptyStoreState()
	var items []entities.CartItem
	if s.load(CartStorageKey, &items) {
		state = Reduce(state, LoadCart{Items: normalizeItems(items)})
	}
	var favs []models.Product
	if s.load(FavoritesStorageKey, &favs) {
		state = Reduce(state, LoadFavorites{Products: dedupeProducts(favs)})
	}
	s.state = state
	s.log.Debug("store hydrated",
		zap.Int("items", len(state.Items)),
		zap.Int("favorites", state.FavoritesCount))
}

func (s *StoreService) load(key string, v any) bool {
	if s.kv == nil {
		return false
	}
	raw, found, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn("load failed, starting empty", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err = json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warn("malformed stored data, starting empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// normalizeItems drops lines without a product or quantity, clamps
// quantities and merges lines that share a key.
func normalizeItems(items []entities.CartItem) []entities.CartItem {
	res := make([]entities.CartItem, 0, len(items))
	for _, it := range items {
		if it.Product.Id == "" || it.Quantity <= 0 {
			continue
		}
		it.Id = it.Key().ID()
		if i := indexOfItem(res, it.Id); i >= 0 {
			res[i].Quantity = ClampQuantity(res[i].Quantity + it.Quantity)
			continue
		}
		it.Quantity = ClampQuantity(it.Quantity)
		res = append(res, it)
	}
	return res
}

func dedupeProducts(prods []models.Product) []models.Product {
	res := make([]models.Product, 0, len(prods))
	for _, p := range prods {
		if p.Id != "" && indexOfProduct(res, p.Id) < 0 {
			res = append(res, p)
		}
	}
	return res
}

// Dispatch applies action, persists the result and returns the new snapshot.
func (s *StoreService) Dispatch(action Action) entities.StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	s.persist()
	return snapshotOf(s.state)
}

func (s *StoreService) persist() {
	if s.kv == nil {
		return
	}
	s.save(CartStorageKey, s.state.Items)
	s.save(FavoritesStorageKey, s.state.Favorites)
}

func (s *StoreService) save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err = s.kv.Set(key, string(data)); err != nil {
		s.log.Error("persist failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *StoreService) AddToCart(p models.Product, quantity int, colorId, sizeId string) entities.StoreState {
	return s.Dispatch(AddToCart{Product: p, Quantity: quantity, ColorId: colorId, SizeId: sizeId})
}

func (s *StoreService) UpdateQuantity(id string, quantity int) entities.StoreState {
	return s.Dispatch(UpdateQuantity{Id: id, Quantity: quantity})
}

func (s *StoreService) RemoveFromCart(id string) entities.StoreState {
	return s.Dispatch(RemoveFromCart{Id: id})
}

func (s *StoreService) ClearCart() entities.StoreState {
	return s.Dispatch(ClearCart{})
}

func (s *StoreService) AddToFavorites(p models.Product) entities.StoreState {
	return s.Dispatch(AddToFavorites{Product: p})
}

func (s *StoreService) RemoveFromFavorites(productId string) entities.StoreState {
	return s.Dispatch(RemoveFromFavorites{ProductId: productId})
}

func (s *StoreService) ToggleFavorite(p models.Product) entities.StoreState {
	return s.Dispatch(ToggleFavorite{Product: p})
}

func (s *StoreService) ClearFavorites() entities.StoreState {
	return s.Dispatch(ClearFavorites{})
}

// Snapshot returns a copy of the current state.
func (s *StoreService) Snapshot() entities.StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.state)
}

func (s *StoreService) IsFavorite(productId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfProduct(s.state.Favorites, productId) >= 0
}

func (s *StoreService) Item(id string) (item entities.CartItem, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOfItem(s.state.Items, id); i >= 0 {
		return s.state.Items[i], true
	}
	return
}

func snapshotOf(st entities.StoreState) entities.StoreState {
	st.Items = slices.Clone(st.Items)
	st.Favorites = slices.Clone(st.Favorites)
	return st
}
