package domain

import (
	"math"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidProductName  = &ValidationError{Message: "invalid name"}
	ErrInvalidProductPrice = &ValidationError{Message: "invalid price"}
)

// Product represents the product entity.
// ID, CreatedAt and UpdatedAt are assigned by the repository on Create.
type Product struct {
	ID        string
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a new product with validation.
// The name is trimmed before it is checked and stored.
func NewProduct(name string, price float64) (*Product, error) {
	// drop negative zero
	if price == 0 {
		price = 0
	}

	product := &Product{
		Name:  TrimName(name),
		Price: price,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product.
// Name is checked before price; the first failure wins.
func (p *Product) Validate() error {
	if TrimName(p.Name) == "" {
		return ErrInvalidProductName
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		return ErrInvalidProductPrice
	}
	return nil
}

// TrimName strips surrounding whitespace, including the byte order mark.
func TrimName(name string) string {
	return strings.TrimFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
