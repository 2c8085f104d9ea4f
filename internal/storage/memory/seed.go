package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Seed — начальные данные in-memory хранилища (каталог, пользователи, корзины).
type Seed struct {
	Users    []string              `json:"users"`
	Products []SeedProduct         `json:"products"`
	Carts    map[string][]SeedItem `json:"carts"`
}

// SeedProduct описывает товар в seed-файле.
type SeedProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Active   *bool           `json:"active,omitempty"`
	Stock    int             `json:"stock"`
	Variants []SeedVariant   `json:"variants,omitempty"`
}

// SeedVariant задаёт остаток одного варианта.
type SeedVariant struct {
	Variant string `json:"variant"`
	Stock   int    `json:"stock"`
}

// SeedItem описывает позицию корзины.
type SeedItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variant   string          `json:"variant,omitempty"`
}

// LoadSeedFile читает seed из JSON-файла.
func LoadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// DecodeSeed разбирает seed и проверяет остатки.
func DecodeSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	for _, p := range seed.Products {
		if p.ID == "" {
			return Seed{}, fmt.Errorf("seed product without id")
		}
		if p.Stock < 0 {
			return Seed{}, fmt.Errorf("seed product %s: negative stock", p.ID)
		}
		if p.Stock > 0 && len(p.Variants) > 0 {
			return Seed{}, fmt.Errorf("seed product %s: stock and variants are mutually exclusive", p.ID)
		}
		for _, v := range p.Variants {
			if v.Variant == "" || v.Stock < 0 {
				return Seed{}, fmt.Errorf("seed product %s: invalid variant %q", p.ID, v.Variant)
			}
		}
	}
	return seed, nil
}

// Apply загружает seed в хранилище, заменяя одноимённые записи.
func (s *Store) Apply(seed Seed) {
	for _, userID := range seed.Users {
		s.PutUser(userID)
	}
	for _, p := range seed.Products {
		product := domain.Product{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Active: p.Active == nil || *p.Active,
			Stock:  p.Stock,
		}
		for _, v := range p.Variants {
			product.Variants = append(product.Variants, domain.VariantStock{Variant: v.Variant, Stock: v.Stock})
		}
		s.PutProduct(product)
	}
	for userID, items := range seed.Carts {
		cart := make([]domain.CartItem, 0, len(items))
		for _, item := range items {
			cart = append(cart, domain.CartItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
				Variant:   item.Variant,
			})
		}
		s.PutCart(userID, cart)
	}
}
