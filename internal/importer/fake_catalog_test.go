package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stokpos/importer/internal/catalog"
)

// fakeCatalog is an in-memory catalog.Service for tests. rejectProduct
// lets a test fail specific products; failCreateCategory fails every
// category creation.
type fakeCatalog struct {
	mu sync.Mutex

	categories []catalog.Category
	products   []catalog.Product

	listErr            error
	failCreateCategory bool
	rejectProduct      func(p catalog.Product) error
	onCreateProduct    func(p catalog.Product)

	listCalls           int
	createCategoryCalls int
	createProductCalls  int
}

var _ catalog.Service = (*fakeCatalog)(nil)

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]catalog.Category(nil), f.categories...), nil
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, name, description string) (catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCategoryCalls++
	if f.failCreateCategory {
		return catalog.Category{}, errors.New("category rejected")
	}

	c := catalog.Category{
		ID:   fmt.Sprintf("cat-%d", len(f.categories)+1),
		Name: name,
	}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, p catalog.Product) (string, error) {
	f.mu.Lock()
	onCreate := f.onCreateProduct
	f.createProductCalls++
	if err := ctx.Err(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if f.rejectProduct != nil {
		if err := f.rejectProduct(p); err != nil {
			f.mu.Unlock()
			return "", err
		}
	}
	f.products = append(f.products, p)
	id := fmt.Sprintf("prod-%d", len(f.products))
	f.mu.Unlock()

	if onCreate != nil {
		onCreate(p)
	}
	return id, nil
}
