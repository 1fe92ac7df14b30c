package core

import (
	"VoiceCart/entity"
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
)

func (c *Core) engine() (CartEngine, error) {
	if c.cart == nil {
		return nil, entity.InternalError("cart engine not initialized", fmt.Errorf("missing dependency"))
	}
	return c.cart, nil
}

func (c *Core) AddItem(ctx context.Context, req cart.AddItemRequest) (*entity.AddItemResult, error) {
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	res, err := engine.AddItem(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, req.SessionID)
	return res, nil
}

func (c *Core) RemoveItem(ctx context.Context, req cart.RemoveItemRequest) (*entity.RemovedItem, error) {
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	res, err := engine.RemoveItem(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, req.SessionID)
	return res, nil
}

func (c *Core) AddModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error) {
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	res, err := engine.AddModifiers(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, req.SessionID)
	return res, nil
}

func (c *Core) RemoveModifiers(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error) {
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	res, err := engine.RemoveModifiers(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, req.SessionID)
	return res, nil
}

func (c *Core) Summarize(ctx context.Context, sessionID string) (*entity.CartSummary, error) {
	engine, err := c.engine()
	if err != nil {
		return nil, err
	}
	return engine.Summarize(ctx, sessionID)
}

func (c *Core) UpsellSuggestions(ctx context.Context, sessionID string) (string, error) {
	engine, err := c.engine()
	if err != nil {
		return "", err
	}
	return engine.UpsellSuggestions(ctx, sessionID)
}

func (c *Core) ClearCart(ctx context.Context, sessionID string) error {
	engine, err := c.engine()
	if err != nil {
		return err
	}
	if err = engine.Clear(ctx, sessionID); err != nil {
		return err
	}
	if c.events != nil {
		c.events.BroadcastCartCleared(sessionID)
	}
	return nil
}

// publish sends the fresh cart state to live viewers; failures only get logged.
func (c *Core) publish(ctx context.Context, sessionID string) {
	if c.events == nil {
		return
	}
	summary, err := c.cart.Summarize(ctx, sessionID)
	if err != nil {
		c.log.With(
			slog.String("session", sessionID),
			sl.Err(err),
		).Warn("summarize for live feed")
		return
	}
	c.events.BroadcastCartUpdate(summary)
}
