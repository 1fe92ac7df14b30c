package cart

import (
	"VoiceCart/entity"
	"strings"
)

// Scope selects which piece of a two-piece item a modifier applies to.
type Scope int

const (
	WholeItem Scope = iota
	FirstPiece
	SecondPiece
)

func (s Scope) String() string {
	switch s {
	case FirstPiece:
		return "first piece"
	case SecondPiece:
		return "second piece"
	default:
		return "whole item"
	}
}

func (s Scope) category() string {
	switch s {
	case FirstPiece:
		return entity.FirstPieceCategory
	case SecondPiece:
		return entity.SecondPieceCategory
	default:
		return ""
	}
}

// suffix is the piece marker options may carry in the piece categories ("Mild 1").
func (s Scope) suffix() string {
	switch s {
	case FirstPiece:
		return " 1"
	case SecondPiece:
		return " 2"
	default:
		return ""
	}
}

// FindModifier resolves a general modifier by exact trimmed option name.
// For two-piece items a piece scope restricts the search to that piece's category;
// otherwise every category is searched in menu order.
func FindModifier(item entity.MenuItem, optionName string, scope Scope) (entity.AppliedModifier, bool) {
	return find(item, optionName, scope, false)
}

// FindSpiceLevel resolves a spice level ignoring case. Single items only look at
// categories whose name mentions the spice level.
func FindSpiceLevel(item entity.MenuItem, optionName string, scope Scope) (entity.AppliedModifier, bool) {
	return find(item, optionName, scope, true)
}

func find(item entity.MenuItem, optionName string, scope Scope, spice bool) (entity.AppliedModifier, bool) {
	want := strings.TrimSpace(optionName)
	if want == "" {
		return entity.AppliedModifier{}, false
	}

	if item.IsBundled() && scope != WholeItem {
		category, ok := item.Category(scope.category())
		if !ok {
			return entity.AppliedModifier{}, false
		}
		return matchOption(category, want, scope.suffix(), spice)
	}

	for _, category := range item.ModifierCategories {
		if spice && !category.IsSpiceLevel() {
			continue
		}
		if mod, ok := matchOption(category, want, "", spice); ok {
			return mod, true
		}
	}
	return entity.AppliedModifier{}, false
}

// matchOption prefers an exact name match and falls back to a suffixed one.
func matchOption(category entity.ModifierCategory, want, suffix string, foldCase bool) (entity.AppliedModifier, bool) {
	for _, option := range category.Options {
		if sameName(option.Name, want, foldCase) {
			return applied(category, option), true
		}
	}
	if suffix == "" {
		return entity.AppliedModifier{}, false
	}
	for _, option := range category.Options {
		if sameName(option.Name, want+suffix, foldCase) {
			return applied(category, option), true
		}
	}
	return entity.AppliedModifier{}, false
}

func sameName(stored, want string, foldCase bool) bool {
	stored = strings.TrimSpace(stored)
	if foldCase {
		return strings.EqualFold(stored, want)
	}
	return stored == want
}

func applied(category entity.ModifierCategory, option entity.ModifierOption) entity.AppliedModifier {
	return entity.AppliedModifier{
		Category:   category.CategoryName,
		OptionID:   option.OptionID,
		OptionName: option.Name,
		PriceCents: option.PriceCents,
		Price:      entity.Dollars(option.PriceCents),
		Currency:   option.Currency,
	}
}

// appliedMatches reports whether an applied modifier answers to the requested name
// within the given scope. An empty category matches any category.
func appliedMatches(mod entity.AppliedModifier, want string, scope Scope) bool {
	if category := scope.category(); category != "" && mod.Category != category {
		return false
	}
	if sameName(mod.OptionName, want, true) {
		return true
	}
	return scope.suffix() != "" && sameName(mod.OptionName, want+scope.suffix(), true)
}
