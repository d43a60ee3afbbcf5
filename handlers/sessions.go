package handlers

import (
	"errors"
	"sync"
	"time"

	"storefront/entities"
	"storefront/models"
	"storefront/repository"
	"storefront/services"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const DefaultMaxSessions = 10000

type SessionOptions struct {
	// MaxSessions bounds each registry; the least recently used session is
	// dropped first. Zero selects DefaultMaxSessions.
	MaxSessions int
	// IdleTTL drops sessions unused for longer than this. Zero keeps them
	// until they are pushed out by MaxSessions.
	IdleTTL time.Duration
}

type session struct {
	lastUsed time.Time
	listing  *services.FilterService
	once     sync.Once
	cart     *services.StoreService
}

// Sessions keeps one listing state and one cart store per browser session.
// Cart stores are hydrated from the shared KeyValueStore under a per-session
// key prefix the first time they are used, so dropping one from memory loses
// nothing. Listing state lives only here.
type Sessions struct {
	mu       sync.Mutex
	kv       repository.KeyValueStore
	catalog  []models.Product
	idleTTL  time.Duration
	now      func() time.Time
	listings *lru.Cache
	carts    *lru.Cache
	log      *zap.Logger
}

func NewSessions(kv repository.KeyValueStore, catalog []models.Product, opts SessionOptions, logger *zap.Logger) (*Sessions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxSessions < 0 || opts.IdleTTL < 0 {
		return nil, errors.New("session limits must not be negative")
	}
	if opts.MaxSessions == 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	listings, err := lru.New(opts.MaxSessions)
	if err != nil {
		return nil, err
	}
	carts, err := lru.New(opts.MaxSessions)
	if err != nil {
		return nil, err
	}
	return &Sessions{
		kv:       kv,
		catalog:  catalog,
		idleTTL:  opts.IdleTTL,
		now:      time.Now,
		listings: listings,
		carts:    carts,
		log:      logger,
	}, nil
}

// expire drops idle sessions. Every access moves a session to the front of
// the cache and stamps it, so the oldest entries are the idle ones.
func (s *Sessions) expire(c *lru.Cache, now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for {
		key, v, ok := c.GetOldest()
		if !ok || now.Sub(v.(*session).lastUsed) < s.idleTTL {
			return
		}
		c.Remove(key)
		s.log.Debug("session expired", zap.Any("session", key))
	}
}

func (s *Sessions) lookup(c *lru.Cache, id string, now time.Time) (*session, bool) {
	s.expire(c, now)
	v, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*session)
	sess.lastUsed = now
	return sess, true
}

func (s *Sessions) Listing(sessionId string) *services.FilterService {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if sess, ok := s.lookup(s.listings, sessionId, now); ok {
		return sess.listing
	}
	sess := &session{
		lastUsed: now,
		listing:  services.NewFilterService(s.catalog, s.log.With(zap.String("listing_session", sessionId))),
	}
	s.listings.Add(sessionId, sess)
	return sess.listing
}

// ListingView renders the listing of sessionId. Unknown sessions get the
// default listing and nothing is retained for them.
func (s *Sessions) ListingView(sessionId string) entities.ListingView {
	s.mu.Lock()
	sess, ok := s.lookup(s.listings, sessionId, s.now())
	s.mu.Unlock()
	if ok {
		return sess.listing.View()
	}
	return services.BuildListing(s.catalog, entities.DefaultFilterState(), entities.SortFeatured, 1, "")
}

// Cart returns the store of cartSessionId, hydrating it on first use.
// Hydration runs outside the registry lock.
func (s *Sessions) Cart(cartSessionId string) *services.StoreService {
	s.mu.Lock()
	now := s.now()
	sess, ok := s.lookup(s.carts, cartSessionId, now)
	if !ok {
		kv := repository.Namespaced(s.kv, "cart:"+cartSessionId+":")
		sess = &session{
			lastUsed: now,
			cart:     services.NewStoreService(kv, s.log.With(zap.String("cart_session", cartSessionId))),
		}
		s.carts.Add(cartSessionId, sess)
	}
	s.mu.Unlock()

	sess.once.Do(sess.cart.Hydrate)
	return sess.cart
}

// Len reports how many listing and cart sessions are held in memory.
func (s *Sessions) Len() (listings, carts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expire(s.listings, now)
	s.expire(s.carts, now)
	return s.listings.Len(), s.carts.Len()
}
