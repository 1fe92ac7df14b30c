package core

import (
	"VoiceCart/entity"
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/sl"
	"context"
	"log/slog"
)

type CartEngine interface {
	AddItem(ctx context.Context, req cart.AddItemRequest) (*entity.AddItemResult, error)
	RemoveItem(ctx context.Context, req cart.RemoveItemRequest) (*entity.RemovedItem, error)
	AddModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error)
	RemoveModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error)
	Summarize(ctx context.Context, sessionID string) (*entity.CartSummary, error)
	UpsellSuggestions(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

// EventPublisher notifies live cart viewers.
type EventPublisher interface {
	BroadcastCartUpdate(summary *entity.CartSummary)
	BroadcastCartCleared(sessionID string)
}

type Core struct {
	cart    CartEngine
	events  EventPublisher
	authKey string
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetCartEngine(engine CartEngine) {
	c.cart = engine
}

func (c *Core) SetEventPublisher(events EventPublisher) {
	c.events = events
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}
