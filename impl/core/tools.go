package core

import (
	"VoiceCart/entity"
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/api/validate"
	"VoiceCart/internal/lib/sl"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	ToolAddItem         = "add_item"
	ToolRemoveItem      = "remove_item"
	ToolAddModifiers    = "add_modifiers"
	ToolRemoveModifiers = "remove_modifiers"
	ToolSummarizeCart   = "summarize_cart"
	ToolSuggestSides    = "suggest_sides"
)

type addItemArgs struct {
	ItemName            string `json:"item_name" validate:"required"`
	Quantity            *int   `json:"quantity" validate:"omitnil,gt=0,max=100"`
	SpecialInstructions string `json:"special_instructions"`
	FirstPieceSpice     string `json:"first_piece_spice"`
	SecondPieceSpice    string `json:"second_piece_spice"`
}

type removeItemArgs struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitnil,gt=0"`
}

type modifiersArgs struct {
	ItemName             string   `json:"item_name" validate:"required"`
	FirstPieceModifiers  []string `json:"first_piece_modifiers"`
	SecondPieceModifiers []string `json:"second_piece_modifiers"`
}

// ToolSession identifies the call a batch of tool calls belongs to.
type ToolSession struct {
	SessionID     string
	RestaurantKey string
}

// HandleToolCall runs one function call issued by the voice assistant.
func (c *Core) HandleToolCall(ctx context.Context, session ToolSession, call openai.ToolCall) (interface{}, error) {
	name := call.Function.Name
	args := call.Function.Arguments
	if args == "" {
		args = "{}"
	}

	c.log.With(
		slog.String("session", session.SessionID),
		slog.String("command", name),
		slog.String("args", args),
	).Debug("handling tool call")

	switch name {
	case ToolAddItem:
		var a addItemArgs
		if err := c.decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		quantity := 1
		if a.Quantity != nil {
			quantity = *a.Quantity
		}
		return c.AddItem(ctx, cart.AddItemRequest{
			SessionID:           session.SessionID,
			RestaurantKey:       session.RestaurantKey,
			ItemName:            a.ItemName,
			Quantity:            quantity,
			SpecialInstructions: a.SpecialInstructions,
			FirstPieceSpice:     a.FirstPieceSpice,
			SecondPieceSpice:    a.SecondPieceSpice,
		})
	case ToolRemoveItem:
		var a removeItemArgs
		if err := c.decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		return c.RemoveItem(ctx, cart.RemoveItemRequest{
			SessionID: session.SessionID,
			ItemName:  a.ItemName,
			Quantity:  a.Quantity,
		})
	case ToolAddModifiers, ToolRemoveModifiers:
		var a modifiersArgs
		if err := c.decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		req := cart.ModifiersRequest{
			SessionID:     session.SessionID,
			RestaurantKey: session.RestaurantKey,
			ItemName:      a.ItemName,
			FirstPiece:    a.FirstPieceModifiers,
			SecondPiece:   a.SecondPieceModifiers,
		}
		if name == ToolAddModifiers {
			return c.AddModifiers(ctx, req)
		}
		return c.RemoveModifiers(ctx, req)
	case ToolSummarizeCart:
		return c.Summarize(ctx, session.SessionID)
	case ToolSuggestSides:
		offer, err := c.UpsellSuggestions(ctx, session.SessionID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"offer": offer}, nil
	default:
		return nil, entity.NotFoundError("unknown tool %q", name)
	}
}

func (c *Core) decodeArgs(name, args string, v interface{}) error {
	if err := json.Unmarshal([]byte(args), v); err != nil {
		c.log.With(
			slog.String("command", name),
			slog.String("args", args),
			sl.Err(err),
		).Error("unmarshalling tool arguments")
		return entity.ValidationError("invalid arguments for %s: %v", name, err)
	}
	if err := validate.Struct(v); err != nil {
		return entity.ValidationError("invalid arguments for %s: %v", name, err)
	}
	return nil
}

// Tools describes the cart operations as functions the voice assistant can call.
func (c *Core) Tools() []openai.Tool {
	itemName := jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Menu item name exactly as on the menu, e.g. \"Spicy Sandwich (2pc)\"",
	}
	modifierList := func(description string) jsonschema.Definition {
		return jsonschema.Definition{
			Type:        jsonschema.Array,
			Description: description,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
		}
	}
	noParams := jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}}

	functions := []openai.FunctionDefinition{
		{
			Name:        ToolAddItem,
			Description: "Add a menu item to the caller's cart. Identical items are combined.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"item_name": itemName,
					"quantity":  {Type: jsonschema.Integer, Description: "How many, 1 to 100, defaults to 1"},
					"special_instructions": {
						Type:        jsonschema.String,
						Description: "Free text instructions for the kitchen",
					},
					"first_piece_spice": {
						Type:        jsonschema.String,
						Description: "Spice level for the item, or for the first sandwich of a two-piece item",
					},
					"second_piece_spice": {
						Type:        jsonschema.String,
						Description: "Spice level for the second sandwich of a two-piece item",
					},
				},
				Required: []string{"item_name"},
			},
		},
		{
			Name:        ToolRemoveItem,
			Description: "Remove an item from the cart, entirely or by quantity.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"item_name": itemName,
					"quantity":  {Type: jsonschema.Integer, Description: "How many to remove; omit to remove the item entirely"},
				},
				Required: []string{"item_name"},
			},
		},
		{
			Name:        ToolAddModifiers,
			Description: "Add modifiers to the item most recently added under this name.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"item_name":              itemName,
					"first_piece_modifiers":  modifierList("Modifiers for the item, or for the first sandwich of a two-piece item"),
					"second_piece_modifiers": modifierList("Modifiers for the second sandwich of a two-piece item"),
				},
				Required: []string{"item_name"},
			},
		},
		{
			Name:        ToolRemoveModifiers,
			Description: "Remove modifiers from the item most recently added under this name.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"item_name":              itemName,
					"first_piece_modifiers":  modifierList("Modifiers to remove from the item or its first sandwich"),
					"second_piece_modifiers": modifierList("Modifiers to remove from the second sandwich"),
				},
				Required: []string{"item_name"},
			},
		},
		{
			Name:        ToolSummarizeCart,
			Description: "Read back the cart and its total.",
			Parameters:  noParams,
		},
		{
			Name:        ToolSuggestSides,
			Description: "Get an offer for popular sides that are not in the cart yet.",
			Parameters:  noParams,
		},
	}

	tools := make([]openai.Tool, 0, len(functions))
	for i := range functions {
		tools = append(tools, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: &functions[i],
		})
	}
	return tools
}
