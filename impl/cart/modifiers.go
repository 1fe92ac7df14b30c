package cart

import (
	"VoiceCart/entity"
	"context"
	"log/slog"
	"strings"
)

type ModifiersRequest struct {
	SessionID     string
	RestaurantKey string
	ItemName      string
	FirstPiece    []string
	SecondPiece   []string
}

func (r ModifiersRequest) validate() error {
	if r.SessionID == "" {
		return entity.ValidationError("session id is required")
	}
	if strings.TrimSpace(r.ItemName) == "" {
		return entity.ValidationError("item name is required")
	}
	if len(r.FirstPiece) == 0 && len(r.SecondPiece) == 0 {
		return entity.ValidationError("no modifiers requested")
	}
	return nil
}

// AddModifiers applies modifiers to the most recently added entry with the given name.
// Options already on the entry are skipped, unknown ones are reported as failed.
func (e *Engine) AddModifiers(ctx context.Context, req ModifiersRequest) (*entity.ModifierChangeResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	menu, err := e.loadMenu(ctx, req.RestaurantKey)
	if err != nil {
		return nil, err
	}

	var result *entity.ModifierChangeResult
	_, err = e.mutate(ctx, req.SessionID, func(cart *entity.Cart) error {
		result = &entity.ModifierChangeResult{}

		idx := lastMatch(cart.Items, req.ItemName)
		if idx < 0 {
			return entity.NotFoundError("item %q must be added to the cart before it can be modified", req.ItemName)
		}
		li := &cart.Items[idx]
		item, ok := menu.Find(li.ItemName)
		if !ok {
			return entity.NotFoundError("menu item %q not found", li.ItemName)
		}

		apply := func(names []string, scope Scope) {
			for _, name := range names {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				mod, found := FindModifier(item, name, scope)
				switch {
				case !found:
					result.Failed = append(result.Failed, name)
				case li.HasOption(mod.OptionID):
					result.Skipped = append(result.Skipped, name)
				default:
					li.Modifiers = append(li.Modifiers, mod)
					result.Added = append(result.Added, mod)
				}
			}
		}

		if li.IsBundled() {
			apply(req.FirstPiece, FirstPiece)
			apply(req.SecondPiece, SecondPiece)
		} else {
			apply(req.FirstPiece, WholeItem)
			result.Failed = append(result.Failed, trimmed(req.SecondPiece)...)
		}

		li.Recalculate()
		result.Item = li.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logChange(req, result, "modifiers added")
	return result, nil
}

// RemoveModifiers strips modifiers by option name from the most recently added entry
// with the given name. For two-piece items each list only touches its own piece.
func (e *Engine) RemoveModifiers(ctx context.Context, req ModifiersRequest) (*entity.ModifierChangeResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var result *entity.ModifierChangeResult
	_, err := e.mutate(ctx, req.SessionID, func(cart *entity.Cart) error {
		result = &entity.ModifierChangeResult{}

		idx := lastMatch(cart.Items, req.ItemName)
		if idx < 0 {
			return entity.NotFoundError("item %q is not in the cart", req.ItemName)
		}
		li := &cart.Items[idx]

		remove := func(names []string, scope Scope) {
			for _, name := range names {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				kept := make([]entity.AppliedModifier, 0, len(li.Modifiers))
				found := false
				for _, mod := range li.Modifiers {
					if appliedMatches(mod, name, scope) {
						result.Removed = append(result.Removed, mod)
						found = true
						continue
					}
					kept = append(kept, mod)
				}
				li.Modifiers = kept
				if !found {
					result.Failed = append(result.Failed, name)
				}
			}
		}

		if li.IsBundled() {
			remove(req.FirstPiece, FirstPiece)
			remove(req.SecondPiece, SecondPiece)
		} else {
			remove(req.FirstPiece, WholeItem)
			result.Failed = append(result.Failed, trimmed(req.SecondPiece)...)
		}

		li.Recalculate()
		result.Item = li.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logChange(req, result, "modifiers removed")
	return result, nil
}

func (e *Engine) logChange(req ModifiersRequest, result *entity.ModifierChangeResult, msg string) {
	logger := e.log.With(
		slog.String("session", req.SessionID),
		slog.String("item", result.Item.ItemName),
		slog.Int("added", len(result.Added)),
		slog.Int("removed", len(result.Removed)),
	)
	if len(result.Failed) > 0 || len(result.Skipped) > 0 {
		logger.With(
			slog.Any("failed", result.Failed),
			slog.Any("skipped", result.Skipped),
		).Warn(msg)
		return
	}
	logger.Debug(msg)
}

func trimmed(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
