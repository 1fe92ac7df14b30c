package cart

import (
	"VoiceCart/entity"
	repository "VoiceCart/internal/database"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	session    = "call-1"
	restaurant = "store-1"
)

type menuMock map[string]entity.Menu

func (m menuMock) GetMenu(_ context.Context, restaurantKey string) (entity.Menu, error) {
	menu, ok := m[restaurantKey]
	if !ok {
		return nil, entity.NotFoundError("no menu for restaurant %q", restaurantKey)
	}
	return menu, nil
}

func option(id, name string, cents int64) entity.ModifierOption {
	return entity.ModifierOption{OptionID: id, Name: name, PriceCents: cents, Currency: "USD"}
}

func testMenu() entity.Menu {
	return entity.Menu{
		"Spicy Sandwich (2pc)": {
			VariationID: "v-sandwich-2pc",
			Name:        "Spicy Sandwich (2pc)",
			PriceCents:  899,
			Currency:    "USD",
			ModifierCategories: []entity.ModifierCategory{
				{CategoryName: entity.FirstPieceCategory, Options: []entity.ModifierOption{
					option("m1-mild", "Mild", 0),
					option("m1-hot", "Hot", 0),
					option("m1-cheese", "Add Cheese", 100),
				}},
				{CategoryName: entity.SecondPieceCategory, Options: []entity.ModifierOption{
					option("m2-mild", "Mild", 0),
					option("m2-hot", "Hot", 0),
					option("m2-cheese", "Add Cheese", 100),
				}},
			},
		},
		"Chicken Tenders": {
			VariationID: "v-tenders",
			Name:        "Chicken Tenders",
			PriceCents:  1099,
			Currency:    "USD",
			ModifierCategories: []entity.ModifierCategory{
				{CategoryName: "Choose Your Spice Level", Options: []entity.ModifierOption{
					option("t-mild", "Mild", 0),
					option("t-hot", "Hot", 0),
				}},
				{CategoryName: "Extras", Options: []entity.ModifierOption{
					option("t-cheese", "Add Cheese", 150),
					option("t-sauce", "Extra Sauce", 50),
					option("t-hot-honey", "Hot", 75),
				}},
			},
		},
		"Fries":          {VariationID: "v-fries", Name: "Fries", PriceCents: 299, Currency: "USD"},
		"Seasoned Fries": {VariationID: "v-seasoned-fries", Name: "Seasoned Fries", PriceCents: 349, Currency: "USD"},
		"Cole Slaw":      {VariationID: "v-slaw", Name: "Cole Slaw", PriceCents: 249, Currency: "USD"},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) (*Engine, *repository.MemoryCartStore) {
	t.Helper()
	store := repository.NewMemoryCartStore()
	return New(store, menuMock{restaurant: testMenu()}, testLogger()), store
}

func addItem(t *testing.T, e *Engine, name string, qty int) *entity.AddItemResult {
	t.Helper()
	res, err := e.AddItem(context.Background(), AddItemRequest{
		SessionID:     session,
		RestaurantKey: restaurant,
		ItemName:      name,
		Quantity:      qty,
	})
	require.NoError(t, err)
	return res
}

func storedCart(t *testing.T, store *repository.MemoryCartStore) *entity.Cart {
	t.Helper()
	cart, err := store.GetCart(context.Background(), session)
	require.NoError(t, err)
	return cart
}

func TestAddItemTwoPieceWithSpiceLevels(t *testing.T) {
	e, store := newTestEngine(t)

	res, err := e.AddItem(context.Background(), AddItemRequest{
		SessionID:        session,
		RestaurantKey:    restaurant,
		ItemName:         "Spicy Sandwich (2pc)",
		Quantity:         1,
		FirstPieceSpice:  "Mild",
		SecondPieceSpice: "Hot",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 8.99, res.Item.LineTotal)
	require.Len(t, res.Item.Modifiers, 2)
	assert.Equal(t, "m1-mild", res.Item.Modifiers[0].OptionID)
	assert.Equal(t, "m2-hot", res.Item.Modifiers[1].OptionID)

	cart := storedCart(t, store)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(899), cart.Items[0].LineTotalCents)
}

func TestAddItemMergesEquivalentEntries(t *testing.T) {
	e, store := newTestEngine(t)

	first := addItem(t, e, "Fries", 1)
	assert.False(t, first.Merged)
	second := addItem(t, e, "Fries", 2)
	assert.True(t, second.Merged)

	cart := storedCart(t, store)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 8.97, cart.Items[0].LineTotal)
}

func TestAddItemMergeRules(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		first   AddItemRequest
		second  AddItemRequest
		entries int
	}{
		"same spice merges": {
			first:   AddItemRequest{ItemName: "Chicken Tenders", Quantity: 1, FirstPieceSpice: "Hot"},
			second:  AddItemRequest{ItemName: "Chicken Tenders", Quantity: 2, FirstPieceSpice: "hot"},
			entries: 1,
		},
		"different spice stays separate": {
			first:   AddItemRequest{ItemName: "Chicken Tenders", Quantity: 1, FirstPieceSpice: "Hot"},
			second:  AddItemRequest{ItemName: "Chicken Tenders", Quantity: 1, FirstPieceSpice: "Mild"},
			entries: 2,
		},
		"different instructions stay separate": {
			first:   AddItemRequest{ItemName: "Fries", Quantity: 1},
			second:  AddItemRequest{ItemName: "Fries", Quantity: 1, SpecialInstructions: "extra crispy"},
			entries: 2,
		},
		"instructions are trimmed before comparing": {
			first:   AddItemRequest{ItemName: "Fries", Quantity: 1, SpecialInstructions: "extra crispy"},
			second:  AddItemRequest{ItemName: "Fries", Quantity: 1, SpecialInstructions: " extra crispy "},
			entries: 1,
		},
		"same two piece spices merge": {
			first:   AddItemRequest{ItemName: "Spicy Sandwich (2pc)", Quantity: 1, FirstPieceSpice: "Mild", SecondPieceSpice: "Hot"},
			second:  AddItemRequest{ItemName: "Spicy Sandwich (2pc)", Quantity: 1, FirstPieceSpice: "Mild", SecondPieceSpice: "Hot"},
			entries: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, store := newTestEngine(t)
			for _, req := range []AddItemRequest{tc.first, tc.second} {
				req.SessionID = session
				req.RestaurantKey = restaurant
				_, err := e.AddItem(ctx, req)
				require.NoError(t, err)
			}
			cart := storedCart(t, store)
			assert.Len(t, cart.Items, tc.entries)
			assert.Equal(t, tc.first.Quantity+tc.second.Quantity, cart.ItemCount())
		})
	}
}

func TestAddItemMergeIgnoresModifierOrder(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	_, err := e.AddItem(ctx, AddItemRequest{
		SessionID:        session,
		RestaurantKey:    restaurant,
		ItemName:         "Spicy Sandwich (2pc)",
		Quantity:         1,
		SecondPieceSpice: "Hot",
	})
	require.NoError(t, err)
	_, err = e.AddModifiers(ctx, ModifiersRequest{
		SessionID:     session,
		RestaurantKey: restaurant,
		ItemName:      "Spicy Sandwich (2pc)",
		FirstPiece:    []string{"Mild"},
	})
	require.NoError(t, err)

	stored := storedCart(t, store)
	require.Len(t, stored.Items, 1)
	require.Len(t, stored.Items[0].Modifiers, 2)
	assert.Equal(t, "m2-hot", stored.Items[0].Modifiers[0].OptionID)
	assert.Equal(t, "m1-mild", stored.Items[0].Modifiers[1].OptionID)

	res, err := e.AddItem(ctx, AddItemRequest{
		SessionID:        session,
		RestaurantKey:    restaurant,
		ItemName:         "Spicy Sandwich (2pc)",
		Quantity:         2,
		FirstPieceSpice:  "Mild",
		SecondPieceSpice: "Hot",
	})
	require.NoError(t, err)
	assert.True(t, res.Merged)

	stored = storedCart(t, store)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)
	assert.Equal(t, int64(2697), stored.Items[0].LineTotalCents)
}

func TestAddItemQuantityLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("single request above the limit", func(t *testing.T) {
		e, store := newTestEngine(t)
		_, err := e.AddItem(ctx, AddItemRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "Fries",
			Quantity:      entity.MaxQuantity + 1,
		})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
		assert.True(t, storedCart(t, store).IsEmpty())
	})

	t.Run("merge above the limit leaves the cart untouched", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Fries", entity.MaxQuantity-1)
		before := storedCart(t, store)

		_, err := e.AddItem(ctx, AddItemRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "Fries",
			Quantity:      2,
		})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))

		after := storedCart(t, store)
		assert.Equal(t, before.Version, after.Version)
		require.Len(t, after.Items, 1)
		assert.Equal(t, entity.MaxQuantity-1, after.Items[0].Quantity)
	})

	t.Run("merge up to the limit is allowed", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Fries", entity.MaxQuantity-1)
		res := addItem(t, e, "Fries", 1)
		assert.True(t, res.Merged)
		assert.Equal(t, entity.MaxQuantity, storedCart(t, store).Items[0].Quantity)
	})
}

func TestAddItemSpiceHandling(t *testing.T) {
	ctx := context.Background()

	t.Run("second piece spice on single item is skipped", func(t *testing.T) {
		e, _ := newTestEngine(t)
		res, err := e.AddItem(ctx, AddItemRequest{
			SessionID:        session,
			RestaurantKey:    restaurant,
			ItemName:         "Chicken Tenders",
			Quantity:         1,
			FirstPieceSpice:  "Mild",
			SecondPieceSpice: "Hot",
		})
		require.NoError(t, err)
		require.Len(t, res.Item.Modifiers, 1)
		assert.Equal(t, "t-mild", res.Item.Modifiers[0].OptionID)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, "Hot", res.Skipped[0].Name)
		assert.Equal(t, reasonNotApplicable, res.Skipped[0].Reason)
	})

	t.Run("single item spice only looks at the spice category", func(t *testing.T) {
		e, _ := newTestEngine(t)
		res, err := e.AddItem(ctx, AddItemRequest{
			SessionID:       session,
			RestaurantKey:   restaurant,
			ItemName:        "Chicken Tenders",
			Quantity:        1,
			FirstPieceSpice: " HOT ",
		})
		require.NoError(t, err)
		require.Len(t, res.Item.Modifiers, 1)
		assert.Equal(t, "t-hot", res.Item.Modifiers[0].OptionID)
		assert.Equal(t, 10.99, res.Item.LineTotal)
	})

	t.Run("second piece spice resolving to an applied option", func(t *testing.T) {
		menu := testMenu()
		sandwich := menu["Spicy Sandwich (2pc)"]
		sandwich.ModifierCategories[1].Options = []entity.ModifierOption{option("m1-hot", "Hot", 0)}
		menu["Spicy Sandwich (2pc)"] = sandwich
		e := New(repository.NewMemoryCartStore(), menuMock{restaurant: menu}, testLogger())

		res, err := e.AddItem(ctx, AddItemRequest{
			SessionID:        session,
			RestaurantKey:    restaurant,
			ItemName:         "Spicy Sandwich (2pc)",
			Quantity:         1,
			FirstPieceSpice:  "Hot",
			SecondPieceSpice: "Hot",
		})
		require.NoError(t, err)
		require.Len(t, res.Item.Modifiers, 1)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, reasonApplied, res.Skipped[0].Reason)
	})

	t.Run("unknown spice is skipped, item still added", func(t *testing.T) {
		e, store := newTestEngine(t)
		res, err := e.AddItem(ctx, AddItemRequest{
			SessionID:       session,
			RestaurantKey:   restaurant,
			ItemName:        "Spicy Sandwich (2pc)",
			Quantity:        1,
			FirstPieceSpice: "Volcano",
		})
		require.NoError(t, err)
		assert.Empty(t, res.Item.Modifiers)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, reasonNotFound, res.Skipped[0].Reason)
		assert.Len(t, storedCart(t, store).Items, 1)
	})
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		req  AddItemRequest
		kind entity.ErrorKind
	}{
		"zero quantity": {
			req:  AddItemRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Fries", Quantity: 0},
			kind: entity.KindValidation,
		},
		"negative quantity": {
			req:  AddItemRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Fries", Quantity: -2},
			kind: entity.KindValidation,
		},
		"missing item name": {
			req:  AddItemRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "  ", Quantity: 1},
			kind: entity.KindValidation,
		},
		"unknown item": {
			req:  AddItemRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Lobster", Quantity: 1},
			kind: entity.KindNotFound,
		},
		"unknown restaurant": {
			req:  AddItemRequest{SessionID: session, RestaurantKey: "store-9", ItemName: "Fries", Quantity: 1},
			kind: entity.KindNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, store := newTestEngine(t)
			addItem(t, e, "Fries", 1)
			before := storedCart(t, store)

			_, err := e.AddItem(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, entity.KindOf(err))

			after := storedCart(t, store)
			assert.Equal(t, before.Version, after.Version)
			assert.Equal(t, before.Items, after.Items)
		})
	}
}

func TestAddItemFindsMenuItemIgnoringCase(t *testing.T) {
	e, _ := newTestEngine(t)
	res := addItem(t, e, "  cole slaw ", 1)
	assert.Equal(t, "Cole Slaw", res.Item.ItemName)
}

func TestAddModifiers(t *testing.T) {
	ctx := context.Background()

	t.Run("item not in cart leaves cart unchanged", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Fries", 1)
		before := storedCart(t, store)

		_, err := e.AddModifiers(ctx, ModifiersRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "Chicken Tenders",
			FirstPiece:    []string{"Add Cheese"},
		})
		require.Error(t, err)
		assert.Equal(t, entity.KindNotFound, entity.KindOf(err))

		after := storedCart(t, store)
		assert.Equal(t, before.Version, after.Version)
		assert.Equal(t, before.Items, after.Items)
	})

	t.Run("added, skipped and failed are reported", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Chicken Tenders", 2)

		res, err := e.AddModifiers(ctx, ModifiersRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "Chicken Tenders",
			FirstPiece:    []string{"Add Cheese", "Add Cheese", "add cheese", "Truffle"},
			SecondPiece:   []string{"Extra Sauce"},
		})
		require.NoError(t, err)
		require.Len(t, res.Added, 1)
		assert.Equal(t, "t-cheese", res.Added[0].OptionID)
		assert.Equal(t, []string{"Add Cheese"}, res.Skipped)
		assert.Equal(t, []string{"add cheese", "Truffle", "Extra Sauce"}, res.Failed)

		// (10.99 + 1.50) * 2
		assert.Equal(t, 24.98, res.Item.LineTotal)
		assert.Equal(t, int64(2498), storedCart(t, store).Items[0].LineTotalCents)
	})

	t.Run("most recently added entry is modified", func(t *testing.T) {
		e, store := newTestEngine(t)
		for _, instructions := range []string{"no pickles", "well done"} {
			_, err := e.AddItem(ctx, AddItemRequest{
				SessionID:           session,
				RestaurantKey:       restaurant,
				ItemName:            "Chicken Tenders",
				Quantity:            1,
				SpecialInstructions: instructions,
			})
			require.NoError(t, err)
		}

		_, err := e.AddModifiers(ctx, ModifiersRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "chicken tenders",
			FirstPiece:    []string{"Extra Sauce"},
		})
		require.NoError(t, err)

		cart := storedCart(t, store)
		require.Len(t, cart.Items, 2)
		assert.Empty(t, cart.Items[0].Modifiers)
		require.Len(t, cart.Items[1].Modifiers, 1)
		assert.Equal(t, "well done", cart.Items[1].SpecialInstructions)
	})

	t.Run("two piece modifiers go to their own piece", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Spicy Sandwich (2pc)", 1)

		res, err := e.AddModifiers(ctx, ModifiersRequest{
			SessionID:     session,
			RestaurantKey: restaurant,
			ItemName:      "Spicy Sandwich (2pc)",
			FirstPiece:    []string{"Add Cheese"},
			SecondPiece:   []string{"Add Cheese", "Hot"},
		})
		require.NoError(t, err)
		require.Len(t, res.Added, 3)
		assert.Equal(t, "m1-cheese", res.Added[0].OptionID)
		assert.Equal(t, "m2-cheese", res.Added[1].OptionID)
		assert.Equal(t, "m2-hot", res.Added[2].OptionID)
		assert.Equal(t, 10.99, res.Item.LineTotal)
	})

	t.Run("requires at least one modifier", func(t *testing.T) {
		e, _ := newTestEngine(t)
		_, err := e.AddModifiers(ctx, ModifiersRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Fries"})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})
}

func TestAddThenRemoveModifiersRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	_, err := e.AddItem(ctx, AddItemRequest{
		SessionID:       session,
		RestaurantKey:   restaurant,
		ItemName:        "Chicken Tenders",
		Quantity:        3,
		FirstPieceSpice: "Mild",
	})
	require.NoError(t, err)
	before := storedCart(t, store).Items[0]

	names := []string{"Add Cheese", "Extra Sauce"}
	_, err = e.AddModifiers(ctx, ModifiersRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Chicken Tenders", FirstPiece: names})
	require.NoError(t, err)
	assert.Equal(t, int64((1099+150+50)*3), storedCart(t, store).Items[0].LineTotalCents)

	res, err := e.RemoveModifiers(ctx, ModifiersRequest{SessionID: session, ItemName: "Chicken Tenders", FirstPiece: names})
	require.NoError(t, err)
	assert.Len(t, res.Removed, 2)
	assert.Empty(t, res.Failed)

	after := storedCart(t, store).Items[0]
	assert.Equal(t, before.Modifiers, after.Modifiers)
	assert.Equal(t, before.LineTotal, after.LineTotal)
}

func TestRemoveModifiers(t *testing.T) {
	ctx := context.Background()

	t.Run("first piece removal leaves second piece alone", func(t *testing.T) {
		e, store := newTestEngine(t)
		_, err := e.AddItem(ctx, AddItemRequest{
			SessionID:        session,
			RestaurantKey:    restaurant,
			ItemName:         "Spicy Sandwich (2pc)",
			Quantity:         1,
			FirstPieceSpice:  "Hot",
			SecondPieceSpice: "Hot",
		})
		require.NoError(t, err)

		res, err := e.RemoveModifiers(ctx, ModifiersRequest{SessionID: session, ItemName: "Spicy Sandwich (2pc)", FirstPiece: []string{"Hot"}})
		require.NoError(t, err)
		require.Len(t, res.Removed, 1)
		assert.Equal(t, "m1-hot", res.Removed[0].OptionID)

		mods := storedCart(t, store).Items[0].Modifiers
		require.Len(t, mods, 1)
		assert.Equal(t, "m2-hot", mods[0].OptionID)
	})

	t.Run("nothing matched reports all failed", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Fries", 1)

		res, err := e.RemoveModifiers(ctx, ModifiersRequest{
			SessionID:   session,
			ItemName:    "Fries",
			FirstPiece:  []string{"Add Cheese"},
			SecondPiece: []string{"Hot"},
		})
		require.NoError(t, err)
		assert.Empty(t, res.Removed)
		assert.Equal(t, []string{"Add Cheese", "Hot"}, res.Failed)
	})

	t.Run("missing item is not found", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Fries", 1)

		_, err := e.RemoveModifiers(ctx, ModifiersRequest{SessionID: session, ItemName: "Cole Slaw", FirstPiece: []string{"Hot"}})
		require.Error(t, err)
		assert.Equal(t, entity.KindNotFound, entity.KindOf(err))
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	qty := func(n int) *int { return &n }

	t.Run("empty cart", func(t *testing.T) {
		e, _ := newTestEngine(t)
		_, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "Fries"})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})

	t.Run("partial quantity", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Seasoned Fries", 3)

		res, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "fries", Quantity: qty(1)})
		require.NoError(t, err)
		assert.Equal(t, 1, res.QuantityRemoved)
		assert.Equal(t, 2, res.RemainingQuantity)
		assert.False(t, res.LineRemoved)

		cart := storedCart(t, store)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 6.98, cart.Items[0].LineTotal)
	})

	t.Run("query longer than item name still matches", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Fries", 1)

		res, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "large fries please"})
		require.NoError(t, err)
		assert.True(t, res.LineRemoved)
		assert.Empty(t, storedCart(t, store).Items)
	})

	t.Run("first match wins", func(t *testing.T) {
		e, store := newTestEngine(t)
		addItem(t, e, "Seasoned Fries", 1)
		addItem(t, e, "Fries", 1)

		res, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "Fries"})
		require.NoError(t, err)
		assert.Equal(t, "Seasoned Fries", res.ItemName)

		cart := storedCart(t, store)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "Fries", cart.Items[0].ItemName)
	})

	t.Run("removing everything twice fails the second time", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Cole Slaw", 2)
		addItem(t, e, "Fries", 1)

		_, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "Cole Slaw", Quantity: qty(2)})
		require.NoError(t, err)

		_, err = e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "Cole Slaw", Quantity: qty(2)})
		require.Error(t, err)
		assert.Equal(t, entity.KindNotFound, entity.KindOf(err))
	})

	t.Run("non positive quantity is rejected", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Fries", 1)
		_, err := e.RemoveItem(ctx, RemoveItemRequest{SessionID: session, ItemName: "Fries", Quantity: qty(0)})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		e, _ := newTestEngine(t)
		summary, err := e.Summarize(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "Your cart is empty.", summary.SpeechSummary)
		assert.Zero(t, summary.Subtotal)
		assert.Zero(t, summary.ItemCount)
		assert.Empty(t, summary.Items)
	})

	t.Run("subtotal equals unit price times quantity", func(t *testing.T) {
		for _, q := range []int{1, 2, 7} {
			e, _ := newTestEngine(t)
			addItem(t, e, "Chicken Tenders", q)
			summary, err := e.Summarize(ctx, session)
			require.NoError(t, err)
			assert.Equal(t, int64(1099*q), summary.SubtotalCents)
			assert.Equal(t, entity.Dollars(int64(1099*q)), summary.Subtotal)
			assert.Equal(t, q, summary.ItemCount)
		}
	})

	t.Run("speech text", func(t *testing.T) {
		e, _ := newTestEngine(t)
		_, err := e.AddItem(ctx, AddItemRequest{
			SessionID:        session,
			RestaurantKey:    restaurant,
			ItemName:         "Spicy Sandwich (2pc)",
			Quantity:         1,
			FirstPieceSpice:  "Mild",
			SecondPieceSpice: "Hot",
		})
		require.NoError(t, err)
		addItem(t, e, "Fries", 3)

		summary, err := e.Summarize(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.ItemCount)
		assert.Equal(t, 17.96, summary.Subtotal)
		assert.Equal(t,
			"You have 1 Spicy Sandwich 2 piece (first sandwich mild, second sandwich hot), 3 Fries. Your total is $17.96 plus tax.",
			summary.SpeechSummary,
		)
	})
}

func TestUpsellSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("offers only what is missing", func(t *testing.T) {
		e, _ := newTestEngine(t)
		addItem(t, e, "Seasoned Fries", 1)
		addItem(t, e, "Cole Slaw", 1)

		offer, err := e.UpsellSuggestions(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "Would you like to add mac and cheese or banana pudding to your order?", offer)
	})

	t.Run("empty cart offers everything", func(t *testing.T) {
		e, _ := newTestEngine(t)
		offer, err := e.UpsellSuggestions(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "Would you like to add fries, mac and cheese, cole slaw, or banana pudding to your order?", offer)
	})

	t.Run("nothing to offer", func(t *testing.T) {
		items := []entity.CartLineItem{
			{ItemName: "Fries"}, {ItemName: "Mac & Cheese"}, {ItemName: "Cole Slaw"}, {ItemName: "Banana Pudding"},
		}
		assert.Empty(t, missingOffers(items))
	})
}

// conflictStore fails the first saves with a version conflict.
type conflictStore struct {
	*repository.MemoryCartStore
	conflicts int
	saveErr   error
	saves     int
}

func (s *conflictStore) SaveCart(ctx context.Context, cart *entity.Cart, ttl time.Duration) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.conflicts > 0 {
		s.conflicts--
		return entity.ErrVersionConflict
	}
	return s.MemoryCartStore.SaveCart(ctx, cart, ttl)
}

func TestMutationConflicts(t *testing.T) {
	ctx := context.Background()
	req := AddItemRequest{SessionID: session, RestaurantKey: restaurant, ItemName: "Fries", Quantity: 1}

	t.Run("retried until the write lands", func(t *testing.T) {
		store := &conflictStore{MemoryCartStore: repository.NewMemoryCartStore(), conflicts: 2}
		e := New(store, menuMock{restaurant: testMenu()}, testLogger())

		_, err := e.AddItem(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 3, store.saves)

		cart, err := store.GetCart(ctx, session)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		store := &conflictStore{MemoryCartStore: repository.NewMemoryCartStore(), conflicts: 10}
		e := New(store, menuMock{restaurant: testMenu()}, testLogger())
		e.SetMaxRetries(2)

		_, err := e.AddItem(ctx, req)
		require.Error(t, err)
		assert.Equal(t, entity.KindConflict, entity.KindOf(err))
		assert.Equal(t, 2, store.saves)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		store := &conflictStore{MemoryCartStore: repository.NewMemoryCartStore(), saveErr: errors.New("disk full")}
		e := New(store, menuMock{restaurant: testMenu()}, testLogger())

		_, err := e.AddItem(ctx, req)
		require.Error(t, err)
		assert.Equal(t, entity.KindInternal, entity.KindOf(err))
	})
}

func TestConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	addItem(t, e, "Fries", 1)

	// a second writer saves between our read and write
	stale, err := store.GetCart(ctx, session)
	require.NoError(t, err)
	addItem(t, e, "Cole Slaw", 1)

	stale.Items = append(stale.Items, entity.CartLineItem{ItemName: "Ghost"})
	assert.ErrorIs(t, store.SaveCart(ctx, stale, time.Hour), entity.ErrVersionConflict)

	cart := storedCart(t, store)
	assert.Len(t, cart.Items, 2)
}
