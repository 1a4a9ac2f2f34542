package catalog

import (
	"context"
	"errors"
)

// Product is a single catalog item.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Rating      float64 `json:"rating"`
	Image       string  `json:"image"`
}

// Fields holds every attribute of a product except its id.
type Fields struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Stock       int64
	Rating      float64
	Image       string
}

func (f Fields) product(id int64) Product {
	return Product{
		ID:          id,
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Price:       f.Price,
		Stock:       f.Stock,
		Rating:      f.Rating,
		Image:       f.Image,
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Category    *string
	Description *string
	Price       *float64
	Stock       *int64
	Rating      *float64
	Image       *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil &&
		p.Price == nil && p.Stock == nil && p.Rating == nil && p.Image == nil
}

// Apply copies the supplied fields onto dst.
func (p Patch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Rating != nil {
		dst.Rating = *p.Rating
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Category string
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Product) bool {
	return f.Category == "" || p.Category == f.Category
}

var ErrConflict = errors.New("product id conflict")

// Store owns the product collection. Implementations serialize mutations.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context, f Filter) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
	Create(ctx context.Context, f Fields) (Product, error)
	Update(ctx context.Context, id int64, p Patch) (Product, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
