package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/mrops-br/catalog-api/internal/domain"
)

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DecodeCreateProductRequest reads an untyped JSON payload.
//
// A name that is not a JSON string decodes as "", and a price that is not a
// JSON number decodes as NaN, so both are rejected later by domain validation
// in the usual order. Only a body that is not exactly one JSON value fails here.
func DecodeCreateProductRequest(r io.Reader) (*CreateProductRequest, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	req := &CreateProductRequest{Price: math.NaN()}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", domain.ErrInvalidPayload)
	}

	fields, ok := payload.(map[string]any)
	if !ok {
		return req, nil
	}

	if name, ok := fields["name"].(string); ok {
		req.Name = name
	}
	if num, ok := fields["price"].(json.Number); ok {
		if price, err := num.Float64(); err == nil {
			req.Price = price
		}
	}

	return req, nil
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
