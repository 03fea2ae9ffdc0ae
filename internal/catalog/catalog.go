// Package catalog talks to the remote catalog service that owns products
// and categories. The importer only consumes the Service interface, so
// tests substitute an in-memory fake.
package catalog

import "context"

// Category is a taxonomy entry in the remote catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is the creation payload for one catalog product.
// Barcode is omitted when empty so the server assigns one.
type Product struct {
	Barcode     string  `json:"barcode,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Stock       int     `json:"stock"`
	Unit        string  `json:"unit"`
	TaxRate     float64 `json:"taxRate"`
	MinStock    int     `json:"minStock"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"categoryId,omitempty"`
}

// Service is the remote catalog contract consumed by the import pipeline.
type Service interface {
	// ListCategories returns all categories. Called once per import run.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a category; description carries the parent
	// category name from the sheet.
	CreateCategory(ctx context.Context, name, description string) (Category, error)

	// CreateProduct creates a product and returns its id.
	CreateProduct(ctx context.Context, p Product) (string, error)
}
