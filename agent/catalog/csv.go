package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var requiredColumns = []string{
	"product_id",
	"product_name",
	"brand_name",
	"product_type",
	"price",
	"rating",
	"quantity",
}

// LoadCSV reads products from a CSV file with a header row. Column order is
// free; extra columns are ignored.
func LoadCSV(fs afero.Fs, path string) ([]Product, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func ReadCSV(r io.Reader) ([]Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrInvalidRow)
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRow, name)
		}
	}

	var products []Product
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row %d: %w", row, err)
		}

		p, err := parseRecord(record, cols, row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func parseRecord(record []string, cols map[string]int, row int) (Product, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil {
		return Product{}, rowError(row, "price: "+err.Error())
	}
	rating, err := strconv.ParseFloat(field("rating"), 64)
	if err != nil {
		return Product{}, rowError(row, "rating: "+err.Error())
	}
	quantity, err := parseQuantity(field("quantity"))
	if err != nil {
		return Product{}, rowError(row, "quantity: "+err.Error())
	}

	return Product{
		ID:       field("product_id"),
		Name:     field("product_name"),
		Brand:    field("brand_name"),
		Type:     field("product_type"),
		Price:    price,
		Rating:   rating,
		Quantity: quantity,
	}, nil
}

// parseQuantity accepts "3" and spreadsheet-style "3.0".
func parseQuantity(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return int(f), nil
}
