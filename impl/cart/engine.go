package cart

import (
	"VoiceCart/entity"
	"VoiceCart/internal/lib/sl"
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	DefaultTTL        = 2 * time.Hour
	DefaultMaxRetries = 3
)

// Store persists whole carts by session id. SaveCart must reject a write whose
// cart.Version no longer matches the stored one with entity.ErrVersionConflict.
type Store interface {
	GetCart(ctx context.Context, sessionID string) (*entity.Cart, error)
	SaveCart(ctx context.Context, cart *entity.Cart, ttl time.Duration) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type MenuProvider interface {
	GetMenu(ctx context.Context, restaurantKey string) (entity.Menu, error)
}

// Engine owns every cart mutation. Each mutation is computed on a copy of the
// stored cart and persisted with a single conditional write.
type Engine struct {
	store      Store
	menus      MenuProvider
	ttl        time.Duration
	maxRetries int
	log        *slog.Logger
}

func New(store Store, menus MenuProvider, log *slog.Logger) *Engine {
	return &Engine{
		store:      store,
		menus:      menus,
		ttl:        DefaultTTL,
		maxRetries: DefaultMaxRetries,
		log:        log.With(sl.Module("cart.engine")),
	}
}

func (e *Engine) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		e.ttl = ttl
	}
}

func (e *Engine) SetMaxRetries(n int) {
	if n > 0 {
		e.maxRetries = n
	}
}

// mutate runs a read-modify-write cycle, repeating it when another writer got there first.
// fn must not keep state between attempts other than what it derives from the cart.
func (e *Engine) mutate(ctx context.Context, sessionID string, fn func(cart *entity.Cart) error) (*entity.Cart, error) {
	for attempt := 1; ; attempt++ {
		stored, err := e.loadCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		cart := stored.Clone()
		if err = fn(cart); err != nil {
			return nil, err
		}

		err = e.store.SaveCart(ctx, cart, e.ttl)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, entity.ErrVersionConflict) {
			return nil, entity.InternalError("saving cart", err)
		}
		if attempt >= e.maxRetries {
			return nil, entity.ConflictError("cart was changed by another request", err)
		}
		e.log.With(
			slog.String("session", sessionID),
			slog.Int("attempt", attempt),
		).Warn("cart version conflict, retrying")
	}
}

func (e *Engine) loadCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	cart, err := e.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, entity.InternalError("loading cart", err)
	}
	if cart == nil {
		cart = entity.NewCart(sessionID)
	}
	return cart, nil
}

func (e *Engine) loadMenu(ctx context.Context, restaurantKey string) (entity.Menu, error) {
	if restaurantKey == "" {
		return nil, entity.ValidationError("restaurant key is required")
	}
	menu, err := e.menus.GetMenu(ctx, restaurantKey)
	if err != nil {
		var coreErr *entity.Error
		if errors.As(err, &coreErr) {
			return nil, err
		}
		return nil, entity.InternalError("loading menu", err)
	}
	return menu, nil
}

// Cart returns the current cart for the session, empty when none is stored.
func (e *Engine) Cart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	if sessionID == "" {
		return nil, entity.ValidationError("session id is required")
	}
	return e.loadCart(ctx, sessionID)
}

// Clear ends the session's cart.
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return entity.ValidationError("session id is required")
	}
	if err := e.store.DeleteCart(ctx, sessionID); err != nil {
		return entity.InternalError("deleting cart", err)
	}
	return nil
}
