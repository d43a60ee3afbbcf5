package services

import (
	"time"

	"storefront/entities"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pricing holds the simulated shipping and tax rules applied at checkout.
type Pricing struct {
	TaxRate               decimal.Decimal
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

type CheckoutService struct {
	pricing Pricing
	now     func() time.Time
	log     *zap.Logger
}

func NewCheckoutService(pricing Pricing, logger *zap.Logger) CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return CheckoutService{pricing: pricing, now: time.Now, log: logger}
}

// Summarize prices a cart snapshot. Shipping is free for an empty cart and
// for subtotals at or above the free shipping threshold; tax is rounded to
// cents.
func (cs *CheckoutService) Summarize(state entities.StoreState) entities.OrderSummary {
	subtotal := state.Total
	shipping := cs.pricing.FlatShipping
	if len(state.Items) == 0 || subtotal.GreaterThanOrEqual(cs.pricing.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(cs.pricing.TaxRate).Round(2)
	return entities.OrderSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// PlaceOrder turns the current cart into an order and empties the cart.
// Nothing is charged or shipped.
func (cs *CheckoutService) PlaceOrder(store *StoreService) (order entities.Order, err error) {
	state := store.Snapshot()
	if len(state.Items) == 0 {
		err = models.ErrNotAllowed
		return
	}
	order = entities.Order{
		OrderId:  uuid.NewString(),
		PlacedAt: cs.now(),
		Items:    state.Items,
		Summary:  cs.Summarize(state),
	}
	store.ClearCart()
	cs.log.Info("order placed",
		zap.String("order_id", order.OrderId),
		zap.Int("items", state.ItemCount),
		zap.String("total", order.Summary.Total.StringFixed(2)))
	return
}
