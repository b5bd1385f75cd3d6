package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	catalogx "github.com/tanpawarit/smartshop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

const (
	ToolFilterProducts = "filter_products"
	ToolCheckInventory = "check_inventory"
	ToolCheckout       = "checkout"
)

type FilterProductsArgs struct {
	ProductType string   `json:"product_type"`
	MinRating   float64  `json:"min_rating"`
	PriceMin    float64  `json:"price_min"`
	PriceMax    *float64 `json:"price_max"`
	Brand       string   `json:"brand"`
}

type ProductIDArgs struct {
	ProductID string `json:"product_id" validate:"required"`
}

// NewCatalogRegistry wires the shopping tools to store.
func NewCatalogRegistry(store *catalogx.Store) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: catalog store is required", contractx.ErrValidation)
	}

	return NewRegistry(
		Definition{
			Name: ToolFilterProducts,
			Desc: "Filter and show the top 5 products by type, price, rating or brand.",
			Params: map[string]*schema.ParameterInfo{
				"product_type": {Type: schema.String, Desc: "Product type, e.g. smartphone, laptop, earphones"},
				"min_rating":   {Type: schema.Number, Desc: "Minimum rating from 0 to 5"},
				"price_min":    {Type: schema.Number, Desc: "Minimum price"},
				"price_max":    {Type: schema.Number, Desc: "Maximum price"},
				"brand":        {Type: schema.String, Desc: "Brand name or part of it"},
			},
			// Bounds nothing satisfies fall back to the top-rated list.
			Handler: Typed(func(_ context.Context, args FilterProductsArgs) (string, error) {
				matches := store.Filter(catalogx.Query{
					ProductType: args.ProductType,
					MinRating:   args.MinRating,
					PriceMin:    args.PriceMin,
					PriceMax:    args.PriceMax,
					Brand:       args.Brand,
				})
				return catalogx.RenderMatches(matches), nil
			}),
		},
		Definition{
			Name: ToolCheckInventory,
			Desc: "Check if a product is in stock.",
			Params: map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Product ID", Required: true},
			},
			Handler: Typed(func(_ context.Context, args ProductIDArgs) (string, error) {
				return store.CheckAvailability(args.ProductID).String(), nil
			}),
		},
		Definition{
			Name: ToolCheckout,
			Desc: "Checkout a product by reducing inventory by one unit.",
			Params: map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Product ID", Required: true},
			},
			Handler: Typed(func(_ context.Context, args ProductIDArgs) (string, error) {
				return store.Checkout(args.ProductID).String(), nil
			}),
		},
	)
}
