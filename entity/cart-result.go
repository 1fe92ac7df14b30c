package entity

type SkippedModifier struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type AddItemResult struct {
	Item    CartLineItem      `json:"item"`
	Merged  bool              `json:"merged"`
	Skipped []SkippedModifier `json:"skipped,omitempty"`
}

type ModifierChangeResult struct {
	Item    CartLineItem      `json:"item"`
	Added   []AppliedModifier `json:"added,omitempty"`
	Removed []AppliedModifier `json:"removed,omitempty"`
	Skipped []string          `json:"skipped,omitempty"`
	Failed  []string          `json:"failed,omitempty"`
}

type RemovedItem struct {
	ItemName          string `json:"item_name"`
	QuantityRemoved   int    `json:"quantity_removed"`
	RemainingQuantity int    `json:"remaining_quantity"`
	LineRemoved       bool   `json:"line_removed"`
}

type CartSummary struct {
	SessionID     string         `json:"session_id"`
	SubtotalCents int64          `json:"subtotal_cents"`
	Subtotal      float64        `json:"subtotal"`
	ItemCount     int            `json:"item_count"`
	SpeechSummary string         `json:"speech_summary"`
	Items         []CartLineItem `json:"items"`
}
