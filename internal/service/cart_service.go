package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/repository"
)

type SessionStore interface {
	Get(ctx context.Context, owner string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, owner string) error
	PurgeStale(ctx context.Context, before time.Time) (int64, error)
}

type CartService struct {
	catalog *CatalogService
	store   SessionStore
	log     zerolog.Logger
	now     func() time.Time

	locks sync.Map
}

// PricedItems is a priced list of lines, either the cart or the current
// selections of the browse view.
type PricedItems struct {
	Owner string
	Lines []Quote
	Total decimal.Decimal
}

func NewCartService(catalog *CatalogService, store SessionStore, log zerolog.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

func (s *CartService) Cart(ctx context.Context, owner string) (*PricedItems, error) {
	session, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.priceCart(session), nil
}

func (s *CartService) Selections(ctx context.Context, owner string) (*PricedItems, error) {
	session, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(session.Selections))
	for id := range session.Selections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]model.CartItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.CartItem{ServiceID: id, Quantity: session.Selections[id]})
	}
	return s.priceItems(owner, items), nil
}

func (s *CartService) SetSelection(ctx context.Context, owner string, serviceID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	if _, err := s.catalog.GetService(serviceID); err != nil {
		return err
	}
	return s.update(ctx, owner, func(session *model.Session) error {
		session.SetSelection(serviceID, quantity)
		return nil
	})
}

func (s *CartService) ResetSelections(ctx context.Context, owner string) error {
	return s.update(ctx, owner, func(session *model.Session) error {
		session.ResetSelections()
		return nil
	})
}

// AddSelectionsToCart moves every non-zero selection into the cart.
func (s *CartService) AddSelectionsToCart(ctx context.Context, owner string) (*PricedItems, error) {
	var cart *PricedItems
	err := s.update(ctx, owner, func(session *model.Session) error {
		ids := make([]int64, 0, len(session.Selections))
		for id, quantity := range session.Selections {
			if quantity > 0 {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			if err := checkMerge(session, id, session.Selections[id]); err != nil {
				return err
			}
		}
		for _, id := range ids {
			session.AddToCart(id, session.Selections[id])
		}
		session.ResetSelections()
		cart = s.priceCart(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) AddToCart(ctx context.Context, owner string, serviceID int64, quantity int) (*PricedItems, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if _, err := s.catalog.GetService(serviceID); err != nil {
		return nil, err
	}

	var cart *PricedItems
	err := s.update(ctx, owner, func(session *model.Session) error {
		if err := checkMerge(session, serviceID, quantity); err != nil {
			return err
		}
		session.AddToCart(serviceID, quantity)
		cart = s.priceCart(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// checkMerge rejects additions that would overflow the merged quantity.
func checkMerge(session *model.Session, serviceID int64, quantity int) error {
	if existing := session.CartQuantity(serviceID); existing > math.MaxInt-quantity {
		return fmt.Errorf("%w: quantity for service %d is too large", ErrInvalidInput, serviceID)
	}
	return nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, owner string, serviceID int64) (*PricedItems, error) {
	var cart *PricedItems
	err := s.update(ctx, owner, func(session *model.Session) error {
		session.RemoveFromCart(serviceID)
		cart = s.priceCart(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity leaves the cart unchanged when the service is not in it.
func (s *CartService) UpdateQuantity(ctx context.Context, owner string, serviceID int64, quantity int) (*PricedItems, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	var cart *PricedItems
	err := s.update(ctx, owner, func(session *model.Session) error {
		if !session.UpdateCartQuantity(serviceID, quantity) {
			s.log.Debug().Str("owner", owner).Int64("service_id", serviceID).Msg("quantity update for item not in cart ignored")
		}
		cart = s.priceCart(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, owner string) error {
	return s.update(ctx, owner, func(session *model.Session) error {
		session.ClearCart()
		return nil
	})
}

// Checkout returns the priced cart and empties it.
func (s *CartService) Checkout(ctx context.Context, owner string) (*PricedItems, error) {
	var cart *PricedItems
	err := s.update(ctx, owner, func(session *model.Session) error {
		if len(session.Cart) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrInvalidInput)
		}
		cart = s.priceCart(session)
		session.ClearCart()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("owner", owner).
		Int("lines", len(cart.Lines)).
		Str("total", cart.Total.String()).
		Msg("cart checked out")
	return cart, nil
}

func (s *CartService) load(ctx context.Context, owner string) (*model.Session, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	session, err := s.store.Get(ctx, owner)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.NewSession(owner), nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// update runs a load-modify-save cycle, serialised per owner.
func (s *CartService) update(ctx context.Context, owner string, mutate func(session *model.Session) error) error {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	if err := mutate(session); err != nil {
		return err
	}
	session.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, session)
}

func (s *CartService) ownerLock(owner string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(owner, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *CartService) priceCart(session *model.Session) *PricedItems {
	return s.priceItems(session.Owner, session.Cart)
}

// priceItems skips services that are no longer in the catalog.
func (s *CartService) priceItems(owner string, items []model.CartItem) *PricedItems {
	result := &PricedItems{
		Owner: owner,
		Lines: make([]Quote, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		service, err := s.catalog.GetService(item.ServiceID)
		if err != nil {
			s.log.Warn().Str("owner", owner).Int64("service_id", item.ServiceID).Msg("cart item without catalog service skipped")
			continue
		}
		quote := s.catalog.price(service, item.Quantity)
		result.Lines = append(result.Lines, quote)
		result.Total = result.Total.Add(quote.FinalPrice)
	}
	return result
}
