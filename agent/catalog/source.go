package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrInvalidRow = errors.New("invalid catalog row")
	ErrNoSource   = errors.New("no catalog source configured")
)

type Config struct {
	Path  string `split_words:"true" default:"products.csv"`
	DSN   string `split_words:"true"`
	Table string `split_words:"true" default:"products"`
}

// Load builds the store from the configured source. A DSN wins over Path.
func Load(ctx context.Context, cfg Config, fs afero.Fs) (*Store, error) {
	var (
		products []Product
		source   string
		err      error
	)

	switch {
	case strings.TrimSpace(cfg.DSN) != "":
		source = "postgres"
		products, err = LoadPostgres(ctx, cfg.DSN, cfg.Table)
	case strings.TrimSpace(cfg.Path) != "":
		source = cfg.Path
		products, err = LoadCSV(fs, cfg.Path)
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}

	store, err := NewStore(products)
	if err != nil {
		return nil, err
	}

	log.Info().Str("source", source).Int("products", store.Len()).Msg("catalog loaded")
	return store, nil
}

func rowError(row int, reason string) error {
	return fmt.Errorf("%w: row %d: %s", ErrInvalidRow, row, reason)
}
