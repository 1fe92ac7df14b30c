package cart

import (
	"VoiceCart/entity"
	"VoiceCart/impl/cart"
	"context"
)

type Core interface {
	AddItem(ctx context.Context, req cart.AddItemRequest) (*entity.AddItemResult, error)
	RemoveItem(ctx context.Context, req cart.RemoveItemRequest) (*entity.RemovedItem, error)
	AddModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error)
	RemoveModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error)
	Summarize(ctx context.Context, sessionID string) (*entity.CartSummary, error)
	UpsellSuggestions(ctx context.Context, sessionID string) (string, error)
	ClearCart(ctx context.Context, sessionID string) error
}
