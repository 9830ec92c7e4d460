// Package memory provides in-memory repository implementations with a
// snapshot-based transaction manager. It backs the test suites and the
// seed tooling; production storage lives in the postgres package.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
	"stocktally/internal/domain/catalog/category"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/catalog/supplier"
	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/sale"
)

// Store holds all in-memory state behind a single mutex.
type Store struct {
	mu sync.RWMutex

	products   map[id.ID]product.Product
	movements  []ledger.Movement
	sales      map[id.ID]sale.Sale
	saleItems  map[id.ID][]sale.SaleItem
	categories map[id.ID]category.Category
	suppliers  map[id.ID]supplier.Supplier
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:   make(map[id.ID]product.Product),
		sales:      make(map[id.ID]sale.Sale),
		saleItems:  make(map[id.ID][]sale.SaleItem),
		categories: make(map[id.ID]category.Category),
		suppliers:  make(map[id.ID]supplier.Supplier),
	}
}

func (s *Store) Products() product.Repository    { return &productRepo{s} }
func (s *Store) Movements() ledger.Repository    { return &ledgerRepo{s} }
func (s *Store) Sales() sale.Repository          { return &saleRepo{s} }
func (s *Store) Categories() category.Repository { return &categoryRepo{s} }
func (s *Store) Suppliers() supplier.Repository  { return &supplierRepo{s} }

type txKey struct{}

// RunInTransaction snapshots the store, runs fn, and restores the
// snapshot when fn fails. Nested calls join the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		s.mu.Lock()
		s.restoreLocked(snap)
		s.mu.Unlock()
	}
	return err
}

// ReadOnly runs fn without snapshotting.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ tx.ReadOnlyManager = (*Store)(nil)

type snapshot struct {
	products   map[id.ID]product.Product
	movements  []ledger.Movement
	sales      map[id.ID]sale.Sale
	saleItems  map[id.ID][]sale.SaleItem
	categories map[id.ID]category.Category
	suppliers  map[id.ID]supplier.Supplier
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		products:   make(map[id.ID]product.Product, len(s.products)),
		movements:  make([]ledger.Movement, len(s.movements)),
		sales:      make(map[id.ID]sale.Sale, len(s.sales)),
		saleItems:  make(map[id.ID][]sale.SaleItem, len(s.saleItems)),
		categories: make(map[id.ID]category.Category, len(s.categories)),
		suppliers:  make(map[id.ID]supplier.Supplier, len(s.suppliers)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	copy(snap.movements, s.movements)
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.saleItems {
		items := make([]sale.SaleItem, len(v))
		copy(items, v)
		snap.saleItems[k] = items
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	for k, v := range s.suppliers {
		snap.suppliers[k] = v
	}
	return snap
}

func (s *Store) restoreLocked(snap snapshot) {
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.categories = snap.categories
	s.suppliers = snap.suppliers
}

// productRepo implements product.Repository.
type productRepo struct {
	s *Store
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

// GetForUpdate behaves like GetByID; the store mutex already serializes
// writers, so no separate row lock is needed.
func (r *productRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}

	// Catalog updates never touch the cached balance.
	updated := *p
	updated.CurrentStock = current.CurrentStock
	r.s.products[p.ID] = updated
	return nil
}

func (r *productRepo) UpdateStock(ctx context.Context, productID id.ID, newStock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.CurrentStock = newStock
	p.Touch()
	r.s.products[productID] = p
	return nil
}

func (r *productRepo) Delete(ctx context.Context, productID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[productID]; !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			return apperror.NewConflict("product has ledger history")
		}
	}
	delete(r.s.products, productID)
	return nil
}

func (r *productRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []product.Product
	search := strings.ToLower(filter.Search)
	for _, p := range r.s.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.SupplierID != nil && (p.SupplierID == nil || *p.SupplierID != *filter.SupplierID) {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Limit, filter.Offset), nil
}

// ledgerRepo implements ledger.Repository.
type ledgerRepo struct {
	s *Store
}

func (r *ledgerRepo) Append(ctx context.Context, movement *ledger.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[movement.ProductID]; !ok {
		return apperror.NewConflict("movement references unknown product")
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *ledgerRepo) GetByID(ctx context.Context, movementID id.ID) (*ledger.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.movements {
		if m.ID == movementID {
			m := m
			return &m, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID.String())
}

func (r *ledgerRepo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []ledger.Movement
	// Walk newest first; movements are appended in creation order.
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, m)
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *ledgerRepo) CountByProduct(ctx context.Context, productID id.ID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// saleRepo implements sale.Repository.
type saleRepo struct {
	s *Store
}

func (r *saleRepo) Create(ctx context.Context, sl *sale.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sales {
		if existing.Number == sl.Number {
			return apperror.NewDuplicate("sale", "number", sl.Number)
		}
	}
	stored := *sl
	stored.Items = nil
	r.s.sales[sl.ID] = stored
	return nil
}

func (r *saleRepo) CreateItems(ctx context.Context, items []sale.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, item := range items {
		if _, ok := r.s.sales[item.SaleID]; !ok {
			return apperror.NewConflict("sale item references unknown sale")
		}
		r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], item)
	}
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sl, ok := r.s.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return &sl, nil
}

func (r *saleRepo) GetByNumber(ctx context.Context, number string) (*sale.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sl := range r.s.sales {
		if sl.Number == number {
			sl := sl
			return &sl, nil
		}
	}
	return nil, apperror.NewNotFound("sale", number)
}

func (r *saleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sale.SaleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]sale.SaleItem, len(r.s.saleItems[saleID]))
	copy(items, r.s.saleItems[saleID])
	return items, nil
}

func (r *saleRepo) Delete(ctx context.Context, saleID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sales[saleID]; !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	delete(r.s.sales, saleID)
	delete(r.s.saleItems, saleID)
	return nil
}

func (r *saleRepo) List(ctx context.Context, filter sale.ListFilter) ([]sale.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []sale.Sale
	for _, sl := range r.s.sales {
		if filter.From != nil && sl.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sl.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, sl)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *saleRepo) CountItemsByProduct(ctx context.Context, productID id.ID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, items := range r.s.saleItems {
		for _, item := range items {
			if item.ProductID == productID {
				n++
			}
		}
	}
	return n, nil
}

// categoryRepo implements category.Repository.
type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) Create(ctx context.Context, c *category.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("category", name)
}

func (r *categoryRepo) Update(ctx context.Context, c *category.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return apperror.NewNotFound("category", c.ID.String())
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[categoryID]; !ok {
		return apperror.NewNotFound("category", categoryID.String())
	}
	delete(r.s.categories, categoryID)

	// Mirror the SET NULL foreign key.
	for pid, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			p.CategoryID = nil
			r.s.products[pid] = p
		}
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context) ([]category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]category.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// supplierRepo implements supplier.Repository.
type supplierRepo struct {
	s *Store
}

func (r *supplierRepo) Create(ctx context.Context, sp *supplier.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.suppliers {
		if existing.Name == sp.Name {
			return apperror.NewDuplicate("supplier", "name", sp.Name)
		}
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sp, ok := r.s.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return &sp, nil
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*supplier.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sp := range r.s.suppliers {
		if sp.Name == name {
			sp := sp
			return &sp, nil
		}
	}
	return nil, apperror.NewNotFound("supplier", name)
}

func (r *supplierRepo) Update(ctx context.Context, sp *supplier.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return apperror.NewNotFound("supplier", sp.ID.String())
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.suppliers[supplierID]; !ok {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	delete(r.s.suppliers, supplierID)

	for pid, p := range r.s.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			p.SupplierID = nil
			r.s.products[pid] = p
		}
	}
	return nil
}

func (r *supplierRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]supplier.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
