package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogx "github.com/tanpawarit/smartshop-assistant/agent/catalog"
)

func newTestRegistry(t *testing.T) (*Registry, *catalogx.Store) {
	t.Helper()
	store, err := catalogx.NewStore([]catalogx.Product{
		{ID: "PH-1", Name: "Galaxy A55", Brand: "Samsung", Type: "Phone", Price: 400, Rating: 4.5, Quantity: 1},
		{ID: "PH-2", Name: "iPhone 15", Brand: "Apple", Type: "Phone", Price: 799, Rating: 4.8, Quantity: 2},
		{ID: "LP-1", Name: "ThinkPad X1", Brand: "Lenovo", Type: "Notebook", Price: 1499, Rating: 4.6, Quantity: 0},
	})
	require.NoError(t, err)

	reg, err := NewCatalogRegistry(store)
	require.NoError(t, err)
	return reg, store
}

func TestNewCatalogRegistryInfos(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	infos := reg.Infos()
	require.Len(t, infos, 3)
	assert.Equal(t, ToolFilterProducts, infos[0].Name)
	assert.Equal(t, ToolCheckInventory, infos[1].Name)
	assert.Equal(t, ToolCheckout, infos[2].Name)
	for _, info := range infos {
		assert.NotEmpty(t, info.Desc)
		assert.NotNil(t, info.ParamsOneOf)
	}
	assert.Equal(t, []string{ToolCheckInventory, ToolCheckout, ToolFilterProducts}, reg.Names())
}

func TestNewCatalogRegistryRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewCatalogRegistry(nil)
	assert.Error(t, err)
}

func TestDispatchFilterSmartphonesUnderBudget(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	out := reg.Dispatch(context.Background(), ToolFilterProducts, `{"product_type":"smartphone","price_max":500}`)
	assert.True(t, strings.HasPrefix(out, "Here are the best matches I found:"))
	assert.Contains(t, out, "PH-1")
	assert.Contains(t, out, "$400")
	assert.Contains(t, out, "4.5")
	assert.NotContains(t, out, "PH-2")
}

func TestDispatchFilterWithoutArguments(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	out := reg.Dispatch(context.Background(), ToolFilterProducts, "")
	assert.Equal(t, 4, len(strings.Split(out, "\n")))
}

func TestDispatchCheckoutTwice(t *testing.T) {
	t.Parallel()
	reg, store := newTestRegistry(t)

	first := reg.Dispatch(context.Background(), ToolCheckout, `{"product_id":"PH-1"}`)
	assert.Equal(t, "✅ Product PH-1 checked out successfully.", first)

	second := reg.Dispatch(context.Background(), ToolCheckout, `{"product_id":"PH-1"}`)
	assert.Equal(t, "❌ Product PH-1 is out of stock.", second)

	assert.Equal(t, catalogx.StatusOutOfStock, store.CheckAvailability("PH-1").Status)
}

func TestDispatchCheckInventory(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	ctx := context.Background()
	assert.Equal(t, "✅ Product PH-2 is available (2 units).", reg.Dispatch(ctx, ToolCheckInventory, `{"product_id":"PH-2"}`))
	assert.Equal(t, "❌ Product LP-1 is out of stock.", reg.Dispatch(ctx, ToolCheckInventory, `{"product_id":"LP-1"}`))
	assert.Equal(t, "❌ No product found with ID XX.", reg.Dispatch(ctx, ToolCheckInventory, `{"product_id":"XX"}`))
}

func TestDispatchUnknownTool(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)

	out := reg.Dispatch(context.Background(), "teleport", `{}`)
	assert.Equal(t, "❌ Tool 'teleport' not found.", out)
}

func TestDispatchInvalidArguments(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	out := reg.Dispatch(ctx, ToolCheckout, `{}`)
	assert.True(t, strings.HasPrefix(out, "❌ Error using checkout:"), out)
	assert.Contains(t, out, "ProductID")

	out = reg.Dispatch(ctx, ToolCheckInventory, `not json`)
	assert.True(t, strings.HasPrefix(out, "❌ Error using check_inventory:"), out)

	out = reg.Dispatch(ctx, ToolFilterProducts, `{"min_rating":"high"}`)
	assert.True(t, strings.HasPrefix(out, "❌ Error using filter_products:"), out)
}

func TestDispatchFilterUnsatisfiableBoundsFallBack(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, args := range []string{
		`{"min_rating":9}`,
		`{"price_min":500,"price_max":100}`,
		`{"price_max":-1}`,
	} {
		out := reg.Dispatch(ctx, ToolFilterProducts, args)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4, args)
		assert.Equal(t, "Here are the best matches I found:", lines[0], args)
		assert.Contains(t, lines[1], "PH-2", args)
		assert.Contains(t, lines[2], "LP-1", args)
		assert.Contains(t, lines[3], "PH-1", args)
	}
}

func TestDispatchHandlerFailures(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(
		Definition{
			Name: "broken",
			Handler: func(context.Context, string) (string, error) {
				return "", errors.New("warehouse offline")
			},
		},
		Definition{
			Name: "explodes",
			Handler: func(context.Context, string) (string, error) {
				panic("index out of range")
			},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "❌ Error using broken: warehouse offline", reg.Dispatch(context.Background(), "broken", ""))
	assert.Equal(t, "❌ Error using explodes: index out of range", reg.Dispatch(context.Background(), "explodes", ""))
}

func TestNewRegistryRejectsBadDefinitions(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, string) (string, error) { return "", nil }

	_, err := NewRegistry(Definition{Name: " ", Handler: noop})
	assert.Error(t, err)

	_, err = NewRegistry(Definition{Name: "x"})
	assert.Error(t, err)

	_, err = NewRegistry(Definition{Name: "x", Handler: noop}, Definition{Name: "x", Handler: noop})
	assert.Error(t, err)
}
