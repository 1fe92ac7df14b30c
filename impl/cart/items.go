package cart

import (
	"VoiceCart/entity"
	"context"
	"log/slog"
	"strings"
)

const (
	reasonNotFound      = "option not found"
	reasonNotApplicable = "second piece applies only to two-piece items"
	reasonApplied       = "already applied"
)

type AddItemRequest struct {
	SessionID           string
	RestaurantKey       string
	ItemName            string
	Quantity            int
	SpecialInstructions string
	FirstPieceSpice     string
	SecondPieceSpice    string
}

type RemoveItemRequest struct {
	SessionID string
	ItemName  string
	// Quantity is optional; nil removes the whole line.
	Quantity *int
}

// AddItem adds a menu item to the session cart, merging it into an equivalent
// entry when one exists. Spice levels that cannot be resolved are reported as skipped.
func (e *Engine) AddItem(ctx context.Context, req AddItemRequest) (*entity.AddItemResult, error) {
	name := strings.TrimSpace(req.ItemName)
	if req.SessionID == "" {
		return nil, entity.ValidationError("session id is required")
	}
	if name == "" {
		return nil, entity.ValidationError("item name is required")
	}
	if req.Quantity <= 0 {
		return nil, entity.ValidationError("quantity must be a positive integer, got %d", req.Quantity)
	}
	if req.Quantity > entity.MaxQuantity {
		return nil, entity.ValidationError("quantity must be at most %d, got %d", entity.MaxQuantity, req.Quantity)
	}

	menu, err := e.loadMenu(ctx, req.RestaurantKey)
	if err != nil {
		return nil, err
	}
	item, ok := menu.Find(name)
	if !ok {
		return nil, entity.NotFoundError("menu item %q not found", name)
	}

	candidate := entity.NewLineItem(item, req.Quantity, strings.TrimSpace(req.SpecialInstructions))
	var skipped []entity.SkippedModifier

	if spice := strings.TrimSpace(req.FirstPieceSpice); spice != "" {
		scope := WholeItem
		if item.IsBundled() {
			scope = FirstPiece
		}
		if mod, found := FindSpiceLevel(item, spice, scope); found {
			candidate.Modifiers = append(candidate.Modifiers, mod)
		} else {
			skipped = append(skipped, entity.SkippedModifier{Name: spice, Reason: reasonNotFound})
		}
	}

	if spice := strings.TrimSpace(req.SecondPieceSpice); spice != "" {
		if !item.IsBundled() {
			skipped = append(skipped, entity.SkippedModifier{Name: spice, Reason: reasonNotApplicable})
		} else if mod, found := FindSpiceLevel(item, spice, SecondPiece); !found {
			skipped = append(skipped, entity.SkippedModifier{Name: spice, Reason: reasonNotFound})
		} else if candidate.HasOption(mod.OptionID) {
			skipped = append(skipped, entity.SkippedModifier{Name: spice, Reason: reasonApplied})
		} else {
			candidate.Modifiers = append(candidate.Modifiers, mod)
		}
	}
	candidate.Recalculate()

	if len(skipped) > 0 {
		e.log.With(
			slog.String("session", req.SessionID),
			slog.String("item", item.Name),
			slog.Any("skipped", skipped),
		).Warn("spice levels skipped")
	}

	result := &entity.AddItemResult{Skipped: skipped}
	_, err = e.mutate(ctx, req.SessionID, func(cart *entity.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].MergeableWith(candidate) {
				if total := cart.Items[i].Quantity + candidate.Quantity; total > entity.MaxQuantity {
					return entity.ValidationError("%s would reach quantity %d, at most %d allowed",
						cart.Items[i].ItemName, total, entity.MaxQuantity)
				}
				cart.Items[i].Quantity += candidate.Quantity
				cart.Items[i].Recalculate()
				result.Item = cart.Items[i].Clone()
				result.Merged = true
				return nil
			}
		}
		cart.Items = append(cart.Items, candidate.Clone())
		result.Item = candidate.Clone()
		result.Merged = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.With(
		slog.String("session", req.SessionID),
		slog.String("item", result.Item.ItemName),
		slog.Int("quantity", result.Item.Quantity),
		slog.Bool("merged", result.Merged),
	).Debug("item added")

	return result, nil
}

// RemoveItem removes a quantity of the first entry whose name loosely matches,
// or the whole entry when no quantity is given or it covers the entry.
func (e *Engine) RemoveItem(ctx context.Context, req RemoveItemRequest) (*entity.RemovedItem, error) {
	name := strings.TrimSpace(req.ItemName)
	if req.SessionID == "" {
		return nil, entity.ValidationError("session id is required")
	}
	if name == "" {
		return nil, entity.ValidationError("item name is required")
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, entity.ValidationError("quantity to remove must be a positive integer, got %d", *req.Quantity)
	}

	var removed entity.RemovedItem
	_, err := e.mutate(ctx, req.SessionID, func(cart *entity.Cart) error {
		if cart.IsEmpty() {
			return entity.ValidationError("cart is empty")
		}
		idx := fuzzyMatch(cart.Items, name)
		if idx < 0 {
			return entity.NotFoundError("item %q is not in the cart", name)
		}

		li := &cart.Items[idx]
		if req.Quantity == nil || *req.Quantity >= li.Quantity {
			removed = entity.RemovedItem{
				ItemName:        li.ItemName,
				QuantityRemoved: li.Quantity,
				LineRemoved:     true,
			}
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return nil
		}

		li.Quantity -= *req.Quantity
		li.Recalculate()
		removed = entity.RemovedItem{
			ItemName:          li.ItemName,
			QuantityRemoved:   *req.Quantity,
			RemainingQuantity: li.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.With(
		slog.String("session", req.SessionID),
		slog.String("item", removed.ItemName),
		slog.Int("removed", removed.QuantityRemoved),
	).Debug("item removed")

	return &removed, nil
}

// fuzzyMatch returns the first entry whose name contains the query or is contained by it.
func fuzzyMatch(items []entity.CartLineItem, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, li := range items {
		name := strings.ToLower(strings.TrimSpace(li.ItemName))
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return i
		}
	}
	return -1
}

// lastMatch returns the most recently added entry with the given name.
func lastMatch(items []entity.CartLineItem, name string) int {
	want := strings.TrimSpace(name)
	for i := len(items) - 1; i >= 0; i-- {
		if strings.EqualFold(strings.TrimSpace(items[i].ItemName), want) {
			return i
		}
	}
	return -1
}
