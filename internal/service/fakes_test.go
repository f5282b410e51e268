package service

import (
	"context"
	stderrors "errors"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/bulkupload"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/pricing"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type fakeDealers struct {
	tiers map[uuid.UUID]decimal.Decimal
}

func (f *fakeDealers) GetByAPIKey(context.Context, string) (*domain.Dealer, error) {
	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (f *fakeDealers) GetByID(_ context.Context, id uuid.UUID) (*domain.Dealer, error) {
	return nil, &errors.ErrNotFound{Resource: "dealer", ID: id.String()}
}

func (f *fakeDealers) Create(context.Context, *domain.Dealer) error { return nil }

func (f *fakeDealers) TierDiscountFor(_ context.Context, id uuid.UUID) (decimal.Decimal, error) {
	pct, ok := f.tiers[id]
	if !ok {
		return decimal.Zero, &errors.ErrNotFound{Resource: "dealer", ID: id.String()}
	}
	return pct, nil
}

type fakeCatalog struct {
	entries  map[int64]*domain.CatalogEntry
	upserted []*domain.CatalogEntry
}

func (f *fakeCatalog) Resolve(_ context.Context, _, variantID int64) (*domain.CatalogEntry, error) {
	e, ok := f.entries[variantID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "variant", ID: strconv.FormatInt(variantID, 10)}
	}
	return e, nil
}

func (f *fakeCatalog) ResolveSKU(_ context.Context, sku string) (*domain.CatalogEntry, error) {
	for _, e := range f.entries {
		if e.SKU == sku {
			return e, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "sku", ID: sku}
}

func (f *fakeCatalog) Upsert(_ context.Context, entry *domain.CatalogEntry) error {
	f.upserted = append(f.upserted, entry)
	return nil
}

func (f *fakeCatalog) ListByFilter(context.Context, string, int, int) ([]*domain.CatalogEntry, error) {
	return []*domain.CatalogEntry{}, nil
}

type fakeCartItems struct {
	mu    sync.Mutex
	lines map[uuid.UUID][]*domain.CartLine
	// failVariant makes any write touching that variant fail
	failVariant int64
}

func newFakeCartItems() *fakeCartItems {
	return &fakeCartItems{lines: make(map[uuid.UUID][]*domain.CartLine)}
}

func (f *fakeCartItems) ListByDealer(_ context.Context, dealerID uuid.UUID) ([]*domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.CartLine, 0, len(f.lines[dealerID]))
	for _, l := range f.lines[dealerID] {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeCartItems) AddQuantity(_ context.Context, line *domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines[line.DealerID] {
		if l.ShopifyVariantID == line.ShopifyVariantID {
			l.Quantity += line.Quantity
			return nil
		}
	}
	c := *line
	c.ID = uuid.New()
	f.lines[line.DealerID] = append(f.lines[line.DealerID], &c)
	return nil
}

func (f *fakeCartItems) AddQuantities(_ context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, line := range lines {
		if f.failVariant != 0 && line.ShopifyVariantID == f.failVariant {
			return stderrors.New("connection reset")
		}
	}

	for _, line := range lines {
		merged := false
		for _, l := range f.lines[dealerID] {
			if l.ShopifyVariantID == line.ShopifyVariantID {
				l.Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c := *line
			c.ID = uuid.New()
			c.DealerID = dealerID
			f.lines[dealerID] = append(f.lines[dealerID], &c)
		}
	}
	return nil
}

func (f *fakeCartItems) SetQuantity(_ context.Context, dealerID uuid.UUID, variantID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines[dealerID] {
		if l.ShopifyVariantID == variantID {
			l.Quantity = quantity
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "cart item", ID: strconv.FormatInt(variantID, 10)}
}

func (f *fakeCartItems) Delete(_ context.Context, dealerID uuid.UUID, variantID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := f.lines[dealerID]
	for i, l := range lines {
		if l.ShopifyVariantID == variantID {
			f.lines[dealerID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "cart item", ID: strconv.FormatInt(variantID, 10)}
}

func (f *fakeCartItems) Clear(_ context.Context, dealerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, dealerID)
	return nil
}

func (f *fakeCartItems) Replace(_ context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.CartLine, 0, len(lines))
	for _, l := range lines {
		c := *l
		c.ID = uuid.New()
		c.DealerID = dealerID
		out = append(out, &c)
	}
	f.lines[dealerID] = out
	return nil
}

type fakeSavedCarts struct {
	carts map[uuid.UUID]*domain.SavedCart
	items map[uuid.UUID][]*domain.SavedCartItem
}

func newFakeSavedCarts() *fakeSavedCarts {
	return &fakeSavedCarts{
		carts: make(map[uuid.UUID]*domain.SavedCart),
		items: make(map[uuid.UUID][]*domain.SavedCartItem),
	}
}

func (f *fakeSavedCarts) Create(_ context.Context, cart *domain.SavedCart, items []*domain.SavedCartItem) error {
	for _, c := range f.carts {
		if c.DealerID == cart.DealerID && c.Name == cart.Name {
			return &errors.ErrValidation{Field: "name", Message: "already exists"}
		}
	}
	cart.ID = uuid.New()
	for _, item := range items {
		item.ID = uuid.New()
		item.SavedCartID = cart.ID
	}
	f.carts[cart.ID] = cart
	f.items[cart.ID] = items
	return nil
}

func (f *fakeSavedCarts) ListByDealer(_ context.Context, dealerID uuid.UUID) ([]*domain.SavedCart, error) {
	out := make([]*domain.SavedCart, 0)
	for _, c := range f.carts {
		if c.DealerID == dealerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSavedCarts) GetByID(_ context.Context, id uuid.UUID) (*domain.SavedCart, error) {
	c, ok := f.carts[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "saved cart", ID: id.String()}
	}
	return c, nil
}

func (f *fakeSavedCarts) GetItems(_ context.Context, id uuid.UUID) ([]*domain.SavedCartItem, error) {
	return f.items[id], nil
}

func (f *fakeSavedCarts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.carts[id]; !ok {
		return &errors.ErrNotFound{Resource: "saved cart", ID: id.String()}
	}
	delete(f.carts, id)
	delete(f.items, id)
	return nil
}

func intPtr(v int) *int { return &v }

// fixture wires the real engine and reconciler over in-memory repositories
type fixture struct {
	dealerID uuid.UUID
	catalog  *fakeCatalog
	items    *fakeCartItems
	saved    *fakeSavedCarts
	repos    *repository.Repositories
	carts    *cartService
}

func newFixture() *fixture {
	dealerID := uuid.New()
	catalog := &fakeCatalog{entries: map[int64]*domain.CatalogEntry{
		11: {ShopifyProductID: 1, ShopifyVariantID: 11, SKU: "ML-100", Title: "Mortise Lock", ListPrice: decimal.NewFromInt(100), InStock: true, IsActive: true},
		22: {ShopifyProductID: 2, ShopifyVariantID: 22, SKU: "HG-200", Title: "Butt Hinge", ListPrice: decimal.NewFromInt(20), InStock: true, IsActive: true, MinimumQuantity: intPtr(10)},
		33: {ShopifyProductID: 3, ShopifyVariantID: 33, SKU: "OLD-1", Title: "Old Latch", ListPrice: decimal.NewFromInt(5), InStock: true, IsActive: false},
	}}
	items := newFakeCartItems()
	saved := newFakeSavedCarts()
	repos := &repository.Repositories{
		Dealer:    &fakeDealers{tiers: map[uuid.UUID]decimal.Decimal{dealerID: decimal.NewFromInt(3)}},
		Catalog:   catalog,
		CartItem:  items,
		SavedCart: saved,
	}

	ladder, err := pricing.ParseLadder("5:5,10:10")
	if err != nil {
		panic(err)
	}
	engine, err := pricing.NewEngine(pricing.EngineDeps{Catalog: catalog, Tiers: repos.Dealer, Ladder: ladder})
	if err != nil {
		panic(err)
	}
	reconciler := bulkupload.NewReconciler(catalog, engine, 100, zap.NewNop())

	return &fixture{
		dealerID: dealerID,
		catalog:  catalog,
		items:    items,
		saved:    saved,
		repos:    repos,
		carts:    NewCartService(repos, catalog, engine, reconciler, zap.NewNop()),
	}
}
