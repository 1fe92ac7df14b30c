package entity

import (
	"sort"
	"time"
)

// MaxQuantity caps the quantity of a single cart entry.
const MaxQuantity = 100

type AppliedModifier struct {
	Category   string  `json:"category" bson:"category"`
	OptionID   string  `json:"option_id" bson:"option_id"`
	OptionName string  `json:"option_name" bson:"option_name"`
	PriceCents int64   `json:"price_cents" bson:"price_cents"`
	Price      float64 `json:"price" bson:"price"`
	Currency   string  `json:"currency" bson:"currency"`
}

type CartLineItem struct {
	VariationID         string            `json:"variation_id" bson:"variation_id"`
	ItemName            string            `json:"item_name" bson:"item_name"`
	UnitPriceCents      int64             `json:"unit_price_cents" bson:"unit_price_cents"`
	UnitPrice           float64           `json:"unit_price" bson:"unit_price"`
	Currency            string            `json:"currency" bson:"currency"`
	Quantity            int               `json:"quantity" bson:"quantity"`
	SpecialInstructions string            `json:"special_instructions" bson:"special_instructions"`
	Modifiers           []AppliedModifier `json:"modifiers" bson:"modifiers"`
	LineTotalCents      int64             `json:"line_total_cents" bson:"line_total_cents"`
	LineTotal           float64           `json:"line_total" bson:"line_total"`
}

func NewLineItem(item MenuItem, quantity int, instructions string) CartLineItem {
	li := CartLineItem{
		VariationID:         item.VariationID,
		ItemName:            item.Name,
		UnitPriceCents:      item.PriceCents,
		UnitPrice:           Dollars(item.PriceCents),
		Currency:            item.Currency,
		Quantity:            quantity,
		SpecialInstructions: instructions,
		Modifiers:           []AppliedModifier{},
	}
	li.Recalculate()
	return li
}

func (li *CartLineItem) IsBundled() bool {
	return IsBundledName(li.ItemName)
}

// Recalculate keeps LineTotal equal to (unit price + modifier prices) * quantity.
func (li *CartLineItem) Recalculate() {
	each := li.UnitPriceCents
	for _, m := range li.Modifiers {
		each += m.PriceCents
	}
	li.UnitPrice = Dollars(li.UnitPriceCents)
	li.LineTotalCents = each * int64(li.Quantity)
	li.LineTotal = Dollars(li.LineTotalCents)
}

func (li *CartLineItem) HasOption(optionID string) bool {
	for _, m := range li.Modifiers {
		if m.OptionID == optionID {
			return true
		}
	}
	return false
}

// MergeableWith reports whether two entries may be combined into one by summing quantities.
func (li *CartLineItem) MergeableWith(other CartLineItem) bool {
	if li.VariationID != other.VariationID || li.SpecialInstructions != other.SpecialInstructions {
		return false
	}
	a, b := li.optionIDs(), other.optionIDs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (li *CartLineItem) optionIDs() []string {
	ids := make([]string, 0, len(li.Modifiers))
	for _, m := range li.Modifiers {
		ids = append(ids, m.OptionID)
	}
	sort.Strings(ids)
	return ids
}

func (li CartLineItem) Clone() CartLineItem {
	mods := make([]AppliedModifier, len(li.Modifiers))
	copy(mods, li.Modifiers)
	li.Modifiers = mods
	return li
}

type Cart struct {
	SessionID string         `json:"session_id" bson:"session_id"`
	Items     []CartLineItem `json:"items" bson:"items"`
	Version   string         `json:"version" bson:"version"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
	ExpireAt  time.Time      `json:"expire_at" bson:"expire_at"`
}

func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartLineItem{},
	}
}

// Clone returns a deep copy so mutations can be computed without touching the loaded state.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]CartLineItem, len(c.Items))
	for i, li := range c.Items {
		cp.Items[i] = li.Clone()
	}
	return &cp
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, li := range c.Items {
		total += li.LineTotalCents
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, li := range c.Items {
		count += li.Quantity
	}
	return count
}
