package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// LoadPostgres reads the whole product table once. The connection is closed
// before returning; checkouts only touch the in-memory store.
func LoadPostgres(ctx context.Context, dsn string, table string) ([]Product, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(strings.TrimSpace(dsn))))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	return SelectProducts(ctx, db, table)
}

// SelectProducts loads products through an existing bun handle.
func SelectProducts(ctx context.Context, db bun.IDB, table string) ([]Product, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		table = "products"
	}

	var products []Product
	err := db.NewSelect().
		Model(&products).
		ModelTableExpr("?", bun.Ident(table)).
		OrderExpr("product_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select catalog from %s: %w", table, err)
	}
	return products, nil
}
