package cart

import (
	"VoiceCart/entity"
	"VoiceCart/impl/speech"
	"context"
	"strings"
)

type upsellOffer struct {
	phrase  string
	matches []string
}

var upsellOffers = []upsellOffer{
	{phrase: "fries", matches: []string{"fries"}},
	{phrase: "mac and cheese", matches: []string{"mac & cheese", "mac and cheese", "mac n cheese"}},
	{phrase: "cole slaw", matches: []string{"slaw"}},
	{phrase: "banana pudding", matches: []string{"banana pudding"}},
}

// Summarize totals the cart and renders it for speech.
func (e *Engine) Summarize(ctx context.Context, sessionID string) (*entity.CartSummary, error) {
	cart, err := e.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &entity.CartSummary{
		SessionID: sessionID,
		Items:     cart.Items,
	}
	if cart.IsEmpty() {
		summary.Items = []entity.CartLineItem{}
		summary.SpeechSummary = speech.EmptyCart
		return summary, nil
	}

	summary.SubtotalCents = cart.SubtotalCents()
	summary.Subtotal = entity.Dollars(summary.SubtotalCents)
	summary.ItemCount = cart.ItemCount()
	summary.SpeechSummary = speech.Render(cart.Items, summary.Subtotal)
	return summary, nil
}

// UpsellSuggestions offers the tracked sides that are not in the cart yet.
func (e *Engine) UpsellSuggestions(ctx context.Context, sessionID string) (string, error) {
	cart, err := e.Cart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return speech.Upsell(missingOffers(cart.Items)), nil
}

func missingOffers(items []entity.CartLineItem) []string {
	var offers []string
	for _, offer := range upsellOffers {
		if !offer.present(items) {
			offers = append(offers, offer.phrase)
		}
	}
	return offers
}

func (o upsellOffer) present(items []entity.CartLineItem) bool {
	for _, li := range items {
		name := strings.ToLower(li.ItemName)
		for _, m := range o.matches {
			if strings.Contains(name, m) {
				return true
			}
		}
	}
	return false
}
