package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryProductRepo keeps products in process memory. It evaluates the same
// predicates as the SQL store and serializes writes behind one mutex.
type memoryProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
	users    UserRepository
	now      func() time.Time
}

// NewMemoryProductRepo returns an in-process store. users, when non-nil,
// resolves creator and editor references on read.
func NewMemoryProductRepo(users UserRepository) ProductRepository {
	return &memoryProductRepo{
		products: make(map[uuid.UUID]model.Product),
		users:    users,
		now:      time.Now,
	}
}

func (r *memoryProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(product.SKU, uuid.Nil) {
		return ErrDuplicateSKU
	}
	product.EnsureID()
	if _, exists := r.products[product.ID]; exists {
		return ErrDuplicateSKU
	}
	now := r.now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = stripped(*product)
	return nil
}

func (r *memoryProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.RLock()
	p, ok := r.products[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	r.resolveUsers(ctx, &p)
	return &p, nil
}

func (r *memoryProductRepo) Find(ctx context.Context, pred query.Predicate, rules []query.SortRule, window *query.Window) ([]model.Product, error) {
	r.mu.RLock()
	matched := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(&p, pred) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, rules)

	if window != nil {
		start := min(max(window.Skip, 0), len(matched))
		end := min(start+max(window.Limit, 0), len(matched))
		matched = matched[start:end]
	}
	for i := range matched {
		r.resolveUsers(ctx, &matched[i])
	}
	return matched, nil
}

func (r *memoryProductRepo) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if matches(&p, pred) {
			n++
		}
	}
	return n, nil
}

func (r *memoryProductRepo) SumStockValue(ctx context.Context, pred query.Predicate) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, p := range r.products {
		if matches(&p, pred) {
			total = total.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}
	return total, nil
}

func (r *memoryProductRepo) CountByCategory(ctx context.Context, pred query.Predicate) ([]model.CategoryBreakdown, error) {
	r.mu.RLock()
	groups := map[string]*model.CategoryBreakdown{}
	for _, p := range r.products {
		if !matches(&p, pred) {
			continue
		}
		g, ok := groups[p.Category]
		if !ok {
			g = &model.CategoryBreakdown{Category: p.Category}
			groups[p.Category] = g
		}
		g.Count++
		g.TotalStock += int64(p.Stock)
	}
	r.mu.RUnlock()

	rows := make([]model.CategoryBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	if r.skuTaken(product.SKU, product.ID) {
		return ErrDuplicateSKU
	}
	product.CreatedAt = existing.CreatedAt
	product.CreatedByID = existing.CreatedByID
	product.UpdatedAt = r.now()
	r.products[product.ID] = stripped(*product)
	return nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	p, ok := r.products[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	if p.Stock+delta < 0 {
		r.mu.Unlock()
		r.resolveUsers(ctx, &p)
		return &p, ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedByID = &updatedBy
	p.UpdatedAt = r.now()
	r.products[id] = p
	r.mu.Unlock()

	r.resolveUsers(ctx, &p)
	return &p, nil
}

// skuTaken must be called with mu held.
func (r *memoryProductRepo) skuTaken(sku string, except uuid.UUID) bool {
	for id, p := range r.products {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}

func (r *memoryProductRepo) resolveUsers(ctx context.Context, p *model.Product) {
	if r.users == nil {
		return
	}
	if u, err := r.users.FindByID(ctx, p.CreatedByID); err == nil {
		p.CreatedBy = u
	}
	if p.UpdatedByID != nil {
		if u, err := r.users.FindByID(ctx, *p.UpdatedByID); err == nil {
			p.UpdatedBy = u
		}
	}
}

func stripped(p model.Product) model.Product {
	p.CreatedBy = nil
	p.UpdatedBy = nil
	if p.UpdatedByID != nil {
		id := *p.UpdatedByID
		p.UpdatedByID = &id
	}
	return p
}

func matches(p *model.Product, pred query.Predicate) bool {
	for _, c := range pred {
		if !matchConstraint(p, c) {
			return false
		}
	}
	return true
}

func matchConstraint(p *model.Product, c query.Constraint) bool {
	switch c := c.(type) {
	case query.Equals:
		v, ok := fieldValue(p, c.Field)
		if !ok {
			return false
		}
		if d, isDec := v.(decimal.Decimal); isDec {
			other, isOtherDec := c.Value.(decimal.Decimal)
			return isOtherDec && d.Equal(other)
		}
		return v == c.Value

	case query.Range:
		v, ok := numericValue(p, c.Field)
		if !ok {
			return false
		}
		if c.Min != nil && v.LessThan(*c.Min) {
			return false
		}
		if c.Max != nil && v.GreaterThan(*c.Max) {
			return false
		}
		return true

	case query.Search:
		needle := strings.ToLower(c.Text)
		for _, f := range c.Fields {
			v, ok := fieldValue(p, f)
			if s, isStr := v.(string); ok && isStr && strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false

	case query.FieldLTE:
		left, okL := numericValue(p, c.Field)
		right, okR := numericValue(p, c.Other)
		return okL && okR && left.LessThanOrEqual(right)

	case query.Since:
		v, ok := fieldValue(p, c.Field)
		t, isTime := v.(time.Time)
		return ok && isTime && !t.Before(c.Time)
	}
	return false
}

func fieldValue(p *model.Product, f query.Field) (any, bool) {
	switch f {
	case query.FieldID:
		return p.ID.String(), true
	case query.FieldName:
		return p.Name, true
	case query.FieldSKU:
		return p.SKU, true
	case query.FieldDescription:
		return p.Description, true
	case query.FieldCategory:
		return p.Category, true
	case query.FieldUnit:
		return p.Unit, true
	case query.FieldPrice:
		return p.Price, true
	case query.FieldCost:
		return p.Cost, true
	case query.FieldStock:
		return decimal.NewFromInt(int64(p.Stock)), true
	case query.FieldMinStock:
		return decimal.NewFromInt(int64(p.MinStock)), true
	case query.FieldIsActive:
		return p.IsActive, true
	case query.FieldCreatedAt:
		return p.CreatedAt, true
	case query.FieldUpdatedAt:
		return p.UpdatedAt, true
	}
	return nil, false
}

func numericValue(p *model.Product, f query.Field) (decimal.Decimal, bool) {
	v, ok := fieldValue(p, f)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, ok := v.(decimal.Decimal)
	return d, ok
}

func sortProducts(products []model.Product, rules []query.SortRule) {
	sort.SliceStable(products, func(i, j int) bool {
		for _, rule := range rules {
			c := compareField(&products[i], &products[j], rule.Field)
			if c == 0 {
				continue
			}
			if rule.Direction == query.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareField(a, b *model.Product, f query.Field) int {
	va, ok := fieldValue(a, f)
	if !ok {
		return 0
	}
	vb, _ := fieldValue(b, f)
	switch x := va.(type) {
	case string:
		return strings.Compare(x, vb.(string))
	case decimal.Decimal:
		return x.Cmp(vb.(decimal.Decimal))
	case time.Time:
		return x.Compare(vb.(time.Time))
	case bool:
		y := vb.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}
