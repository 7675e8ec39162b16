// Package catalog serves the marketplace product listing. The catalog
// is loaded once at startup and validated field by field; a product
// that fails validation never reaches the storefront.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// Product is a catalog entry. Prices are minor currency units.
type Product struct {
	ID              string  `json:"id" validate:"required"`
	Slug            string  `json:"slug" validate:"required,lowercase"`
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	VendorID        string  `json:"vendor_id" validate:"required"`
	VendorName      string  `json:"vendor_name" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Price           int64   `json:"price" validate:"gt=0"`
	OriginalPrice   int64   `json:"original_price,omitempty" validate:"omitempty,gtefield=Price"`
	DiscountPercent int     `json:"discount_percent,omitempty" validate:"gte=0,lt=100"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount     int     `json:"review_count" validate:"gte=0"`
	ImageURL        string  `json:"image_url" validate:"omitempty,url"`
}

// LineItem converts a product to a cart line item.
func (p Product) LineItem() domain.CartLineItem {
	return domain.CartLineItem{
		ID:                p.ID,
		Name:              p.Name,
		UnitPrice:         p.Price,
		Quantity:          1,
		OriginalUnitPrice: p.OriginalPrice,
		DiscountPercent:   p.DiscountPercent,
	}
}

// Vendor is a selling shop on the marketplace.
type Vendor struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	City   string  `json:"city"`
	Rating float64 `json:"rating"`
}

// Catalog is an in-memory, read-only product directory.
type Catalog struct {
	products []Product
	bySlug   map[string]int
	byID     map[string]int
	vendors  []Vendor
}

// New validates every product and builds the lookup indexes.
// A duplicate ID or slug, or any field out of range, fails loading.
func New(products []Product, vendors []Vendor) (*Catalog, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	c := &Catalog{
		products: products,
		bySlug:   make(map[string]int, len(products)),
		byID:     make(map[string]int, len(products)),
		vendors:  vendors,
	}
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid product %q: %w", p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		c.byID[p.ID] = i
		c.bySlug[p.Slug] = i
	}
	return c, nil
}

// List returns all products, optionally filtered by category and vendor.
func (c *Catalog) List(ctx context.Context, category, vendorID string) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		if vendorID != "" && p.VendorID != vendorID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// BySlug looks up a product by its URL slug.
func (c *Catalog) BySlug(ctx context.Context, slug string) (*Product, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil, domain.NotFound("catalog.by_slug", "product", slug)
	}
	p := c.products[i]
	return &p, nil
}

// ByID looks up a product by ID.
func (c *Catalog) ByID(ctx context.Context, id string) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, domain.NotFound("catalog.by_id", "product", id)
	}
	p := c.products[i]
	return &p, nil
}

// Vendors lists marketplace vendors sorted by name.
func (c *Catalog) Vendors(ctx context.Context) []Vendor {
	out := make([]Vendor, len(c.vendors))
	copy(out, c.vendors)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories lists the distinct categories present in the catalog.
func (c *Catalog) Categories(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}
