package importer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stokpos/importer/internal/catalog"
)

// Resolver maps free-text category names to catalog ids for the lifetime
// of one import run. The remote category list is fetched once and only
// appended to locally; the cache guarantees at most one lookup-or-create
// round trip per distinct name per run.
//
// A Resolver is owned by a single run's worker and is not safe for
// concurrent use.
type Resolver struct {
	svc catalog.Service
	log *slog.Logger

	known []catalog.Category
	cache map[string]string // lower-cased name -> id ("" = known unresolvable)
}

// NewResolver creates a Resolver for one run.
func NewResolver(svc catalog.Service, log *slog.Logger) *Resolver {
	return &Resolver{
		svc:   svc,
		log:   log,
		cache: make(map[string]string),
	}
}

// Load fetches the remote category list. Called once at the start of a
// run; a failure leaves the list empty and is non-fatal, since rows can
// still create the categories they need.
func (r *Resolver) Load(ctx context.Context) {
	cats, err := r.svc.ListCategories(ctx)
	if err != nil {
		r.log.Warn("category list unavailable, starting empty", "error", err)
		return
	}
	r.known = cats
}

// Resolve returns the category id for a name, creating the category when
// it does not exist. An empty name, or any resolution failure, yields ""
// and the product is submitted uncategorized; resolution never fails a
// row. The parent category name is stored as the new category's
// description.
func (r *Resolver) Resolve(ctx context.Context, name, parent string) string {
	if name == "" {
		return ""
	}

	key := strings.ToLower(name)
	if id, ok := r.cache[key]; ok {
		return id
	}

	for _, c := range r.known {
		if strings.EqualFold(c.Name, name) {
			r.cache[key] = c.ID
			return c.ID
		}
	}

	created, err := r.svc.CreateCategory(ctx, name, parent)
	if err != nil {
		r.log.Error("category create failed, row proceeds uncategorized",
			"category", name, "error", err)
		// Cache the failure too: one round trip per name per run.
		r.cache[key] = ""
		return ""
	}

	r.known = append(r.known, created)
	r.cache[key] = created.ID
	return created.ID
}
