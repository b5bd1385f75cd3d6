package catalog

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// MaxResults caps every filter result.
const MaxResults = 5

type Product struct {
	ID       string  `json:"product_id" bun:"product_id,pk"`
	Name     string  `json:"product_name" bun:"product_name"`
	Brand    string  `json:"brand_name" bun:"brand_name"`
	Type     string  `json:"product_type" bun:"product_type"`
	Price    float64 `json:"price" bun:"price"`
	Rating   float64 `json:"rating" bun:"rating"`
	Quantity int     `json:"quantity" bun:"quantity"`
}

// Query holds filter criteria. Zero values mean "no constraint", except
// PriceMax where nil means unbounded.
type Query struct {
	ProductType string
	MinRating   float64
	PriceMin    float64
	PriceMax    *float64
	Brand       string
}

var typeSynonyms = map[string][]string{
	"earphones":  {"earbuds", "headphones"},
	"smartphone": {"phone", "mobile"},
	"laptop":     {"notebook", "pc"},
}

// ExpandType returns the lower-cased substrings a product type must contain
// to match productType.
func ExpandType(productType string) []string {
	key := strings.ToLower(strings.TrimSpace(productType))
	if related, ok := typeSynonyms[key]; ok {
		return related
	}
	return []string{key}
}

// Store is the in-memory product table. Quantity is the only field that
// changes after load.
type Store struct {
	mu       sync.RWMutex
	products []Product
	index    map[string]int
}

func NewStore(products []Product) (*Store, error) {
	s := &Store{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, rowError(i+1, "product_id is empty")
		}
		if _, dup := s.index[p.ID]; dup {
			return nil, rowError(i+1, "duplicate product_id "+p.ID)
		}
		if p.Quantity < 0 {
			return nil, rowError(i+1, "quantity must be >= 0")
		}
		s.index[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return s, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Products returns a snapshot copy in catalog order.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[strings.TrimSpace(id)]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Filter returns up to MaxResults products matching q, best rated first.
// When nothing matches it falls back to the globally best rated products.
func (s *Store) Filter(q Query) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	priceMax := math.Inf(1)
	if q.PriceMax != nil {
		priceMax = *q.PriceMax
	}

	var related []string
	if strings.TrimSpace(q.ProductType) != "" {
		related = ExpandType(q.ProductType)
	}
	brand := strings.ToLower(strings.TrimSpace(q.Brand))

	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Rating < q.MinRating || p.Price < q.PriceMin || p.Price > priceMax {
			continue
		}
		if related != nil && !containsAny(strings.ToLower(p.Type), related) {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		matched = append(matched, p)
	}

	if len(matched) == 0 {
		matched = append(matched, s.products...)
	}
	return topRated(matched, MaxResults)
}

func (s *Store) CheckAvailability(id string) Availability {
	id = strings.TrimSpace(id)
	p, ok := s.Get(id)
	switch {
	case !ok:
		return Availability{ProductID: id, Status: StatusNotFound}
	case p.Quantity > 0:
		return Availability{ProductID: id, Status: StatusInStock, Quantity: p.Quantity}
	default:
		return Availability{ProductID: id, Status: StatusOutOfStock}
	}
}

// Checkout takes one unit of id. The check and the decrement happen under
// one write lock.
func (s *Store) Checkout(id string) CheckoutResult {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return CheckoutResult{ProductID: id, Status: StatusNotFound}
	}
	if s.products[i].Quantity <= 0 {
		return CheckoutResult{ProductID: id, Status: StatusOutOfStock}
	}
	s.products[i].Quantity--
	return CheckoutResult{ProductID: id, Status: StatusCheckedOut, Remaining: s.products[i].Quantity}
}

func topRated(products []Product, n int) []Product {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Rating > products[j].Rating
	})
	if len(products) > n {
		products = products[:n]
	}
	return products
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
