package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	catalogx "github.com/tanpawarit/smartshop-assistant/agent/catalog"
)

type CatalogCmd struct {
	List CatalogListCmd `cmd:"" help:"List products, optionally filtered the way the assistant filters them"`
}

type CatalogListCmd struct {
	Type      string  `short:"t" help:"Product type, synonyms such as smartphone are accepted"`
	Brand     string  `short:"b" help:"Brand name or part of it"`
	MinRating float64 `help:"Minimum rating"`
	PriceMin  float64 `help:"Minimum price"`
	PriceMax  float64 `help:"Maximum price, 0 for none"`
	JSON      bool    `help:"Print JSON instead of a table"`
}

func (c *CatalogListCmd) Run(ctx context.Context) error {
	store, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	products := store.Products()
	if c.filtered() {
		q := catalogx.Query{
			ProductType: c.Type,
			Brand:       c.Brand,
			MinRating:   c.MinRating,
			PriceMin:    c.PriceMin,
		}
		if c.PriceMax > 0 {
			q.PriceMax = &c.PriceMax
		}
		products = store.Filter(q)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	fmt.Println(renderProducts(products))
	return nil
}

func (c *CatalogListCmd) filtered() bool {
	return c.Type != "" || c.Brand != "" || c.MinRating > 0 || c.PriceMin > 0 || c.PriceMax > 0
}

func renderProducts(products []catalogx.Product) string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Brand,
			p.Type,
			"$" + strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.Quantity),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BRAND", "TYPE", "PRICE", "RATING", "QTY").
		Rows(rows...).
		String()
}
