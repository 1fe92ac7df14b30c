// Package speech renders carts and offers as text a voice assistant can read aloud.
package speech

import (
	"VoiceCart/entity"
	"fmt"
	"strings"
	"unicode"
)

const EmptyCart = "Your cart is empty."

var nameReplacements = []struct {
	old string
	new string
}{
	{"(2pc)", "2 piece"},
	{"2pc", "2 piece"},
	{"(3pc)", "3 piece"},
	{"3pc", "3 piece"},
	{" & ", " and "},
	{"w/ ", "with "},
	{"Mac N Cheese", "Mac and Cheese"},
}

// modifierPhrases is keyed by the lower-cased option name without its piece suffix.
var modifierPhrases = map[string]string{
	"country":       "no heat",
	"no heat":       "no heat",
	"plain":         "no heat",
	"lite mild":     "lite mild",
	"mild":          "mild",
	"medium":        "medium",
	"hot":           "hot",
	"extra hot":     "extra hot",
	"cluckin hot":   "cluckin' hot",
	"add cheese":    "with cheese",
	"add bacon":     "with bacon",
	"add pickles":   "with pickles",
	"add slaw":      "with slaw",
	"extra pickles": "extra pickles",
	"extra sauce":   "extra sauce",
	"extra slaw":    "extra slaw",
	"no pickles":    "no pickles",
	"no sauce":      "no sauce",
	"no slaw":       "no slaw",
	"no bun":        "no bun",
	"sauce on side": "sauce on the side",
}

// Render describes every line item and closes with the subtotal.
func Render(items []entity.CartLineItem, subtotal float64) string {
	if len(items) == 0 {
		return EmptyCart
	}
	descriptions := make([]string, 0, len(items))
	for _, li := range items {
		descriptions = append(descriptions, DescribeItem(li))
	}
	return fmt.Sprintf("You have %s. Your total is $%.2f plus tax.", strings.Join(descriptions, ", "), subtotal)
}

func DescribeItem(li entity.CartLineItem) string {
	text := fmt.Sprintf("%d %s", li.Quantity, ItemName(li.ItemName))
	if clause := modifierClause(li.Modifiers); clause != "" {
		text += " (" + clause + ")"
	}
	return text
}

func ItemName(name string) string {
	for _, r := range nameReplacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}
	return strings.Join(strings.Fields(name), " ")
}

func modifierClause(mods []entity.AppliedModifier) string {
	var first, second, whole []string
	for _, m := range mods {
		phrase := ModifierPhrase(m.OptionName)
		switch piece(m) {
		case 1:
			first = append(first, phrase)
		case 2:
			second = append(second, phrase)
		default:
			whole = append(whole, phrase)
		}
	}

	var parts []string
	if len(first) > 0 {
		parts = append(parts, "first sandwich "+strings.Join(first, " and "))
	}
	if len(second) > 0 {
		parts = append(parts, "second sandwich "+strings.Join(second, " and "))
	}
	parts = append(parts, whole...)
	return strings.Join(parts, ", ")
}

// piece returns 1 or 2 for modifiers assigned to a sandwich of a two-piece item, 0 otherwise.
// The stored option name suffix decides; the category label is the fallback.
func piece(m entity.AppliedModifier) int {
	name := strings.TrimSpace(m.OptionName)
	switch {
	case strings.HasSuffix(name, " 1"):
		return 1
	case strings.HasSuffix(name, " 2"):
		return 2
	case m.Category == entity.FirstPieceCategory:
		return 1
	case m.Category == entity.SecondPieceCategory:
		return 2
	}
	return 0
}

// ModifierPhrase maps a technical option name to something natural to say.
func ModifierPhrase(optionName string) string {
	key := strings.ToLower(stripTrailingDigits(optionName))
	if phrase, ok := modifierPhrases[key]; ok {
		return phrase
	}
	return key
}

func stripTrailingDigits(s string) string {
	return strings.TrimSpace(strings.TrimRightFunc(strings.TrimSpace(s), unicode.IsDigit))
}

// Upsell offers the given side names, or returns an empty string when there is nothing to offer.
func Upsell(offers []string) string {
	if len(offers) == 0 {
		return ""
	}
	return fmt.Sprintf("Would you like to add %s to your order?", JoinOr(offers))
}

// JoinOr joins words as "a", "a or b", "a, b, or c".
func JoinOr(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " or " + words[1]
	}
	return strings.Join(words[:len(words)-1], ", ") + ", or " + words[len(words)-1]
}
