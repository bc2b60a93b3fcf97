package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrInvalidStock  = errors.New("product stock cannot be negative")
	ErrEmptyCategory = errors.New("product category is required")
)

// Product models a catalog listing offered by an artisan.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Pictures    []string
	OwnerID     string
}

// NewProduct validates and constructs a new Product aggregate.
func NewProduct(name, description string, price float64, stock int, category, ownerID string, pictures []string) (*Product, error) {
	product := &Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    strings.TrimSpace(category),
		Pictures:    append([]string{}, pictures...),
		OwnerID:     ownerID,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	if p.Category == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Rename replaces the listing name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice replaces the listing price.
func (p *Product) Reprice(price float64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	return nil
}

// Restock sets the absolute stock level.
func (p *Product) Restock(stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	p.Stock = stock
	return nil
}

// ReplacePictures swaps the picture URLs.
func (p *Product) ReplacePictures(pictures []string) {
	p.Pictures = append([]string{}, pictures...)
}
