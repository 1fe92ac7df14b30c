package entity

import "strings"

const (
	// BundleMarker identifies two-piece items by name.
	BundleMarker = "(2pc)"

	FirstPieceCategory  = "Choose Your First Sandwich Mods"
	SecondPieceCategory = "Choose Your Second Sandwich Mods"

	spiceLevelCategory = "spice level"
)

type ModifierOption struct {
	OptionID   string `json:"option_id" bson:"option_id"`
	Name       string `json:"name" bson:"name"`
	PriceCents int64  `json:"price_cents" bson:"price_cents"`
	Currency   string `json:"currency" bson:"currency"`
}

type ModifierCategory struct {
	CategoryName string           `json:"category_name" bson:"category_name"`
	Options      []ModifierOption `json:"options" bson:"options"`
}

// IsSpiceLevel reports whether the category holds spice choices for a single item.
func (c ModifierCategory) IsSpiceLevel() bool {
	return strings.Contains(strings.ToLower(c.CategoryName), spiceLevelCategory)
}

type MenuItem struct {
	VariationID        string             `json:"variation_id" bson:"variation_id"`
	Name               string             `json:"name" bson:"name"`
	PriceCents         int64              `json:"price_cents" bson:"price_cents"`
	Currency           string             `json:"currency" bson:"currency"`
	Description        string             `json:"description" bson:"description"`
	ModifierCategories []ModifierCategory `json:"modifier_categories" bson:"modifier_categories"`
}

func (m MenuItem) IsBundled() bool {
	return IsBundledName(m.Name)
}

// Category returns the modifier category with exactly the given name.
func (m MenuItem) Category(name string) (ModifierCategory, bool) {
	for _, c := range m.ModifierCategories {
		if c.CategoryName == name {
			return c, true
		}
	}
	return ModifierCategory{}, false
}

func IsBundledName(name string) bool {
	return strings.Contains(name, BundleMarker)
}

// Menu maps item names to their definitions for one restaurant location.
type Menu map[string]MenuItem

// Find looks the item up by exact name, then by trimmed case-insensitive name.
func (m Menu) Find(name string) (MenuItem, bool) {
	if item, ok := m[name]; ok {
		return item, true
	}
	want := strings.TrimSpace(name)
	for key, item := range m {
		if strings.EqualFold(strings.TrimSpace(key), want) {
			return item, true
		}
	}
	return MenuItem{}, false
}

// MenuDocument is the persisted form of a restaurant menu.
type MenuDocument struct {
	RestaurantKey string     `json:"restaurant_key" bson:"restaurant_key"`
	Items         []MenuItem `json:"items" bson:"items"`
}

func (d MenuDocument) Menu() Menu {
	menu := make(Menu, len(d.Items))
	for _, item := range d.Items {
		menu[item.Name] = item
	}
	return menu
}
