package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"
)

func seedMemory(t *testing.T, repo ProductRepository, products ...*model.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
	}
}

func newProduct(name, sku, category string, price string, stock, minStock int) *model.Product {
	return &model.Product{
		Name:        name,
		SKU:         sku,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Cost:        decimal.RequireFromString("1"),
		Stock:       stock,
		MinStock:    minStock,
		Unit:        model.DefaultUnit,
		IsActive:    true,
		CreatedByID: uuid.New(),
	}
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestMemoryProductRepo_Find(t *testing.T) {
	repo := NewMemoryProductRepo(nil)
	widget := newProduct("Widget", "WID-01", "Hardware", "9.99", 3, 5)
	widget.Description = "100% steel_core"
	gadget := newProduct("Gadget", "GAD-01", "Electronics", "49.50", 12, 5)
	gizmo := newProduct("Gizmo", "GIZ-01", "Electronics", "49.50", 0, 0)
	gizmo.IsActive = false
	seedMemory(t, repo, widget, gadget, gizmo)

	tests := []struct {
		name string
		pred query.Predicate
		sort []query.SortRule
		want []string
	}{
		{
			name: "price range inclusive",
			pred: query.Build(query.Filters{MinPrice: "9.99", MaxPrice: "49.5"}),
			sort: query.ParseSort("name"),
			want: []string{"Gadget", "Gizmo", "Widget"},
		},
		{
			name: "low stock uses field comparison",
			pred: query.Predicate{query.LowStock()},
			sort: query.ParseSort("stock"),
			want: []string{"Gizmo", "Widget"},
		},
		{
			name: "search treats percent literally",
			pred: query.Build(query.Filters{Search: "100%"}),
			want: []string{"Widget"},
		},
		{
			name: "search treats underscore literally",
			pred: query.Build(query.Filters{Search: "l_c"}),
			want: []string{"Widget"},
		},
		{
			name: "underscore is not a wildcard",
			pred: query.Build(query.Filters{Search: "Wi_get"}),
			want: []string{},
		},
		{
			name: "tie-break chain",
			pred: query.Build(query.Filters{Category: "Electronics"}),
			sort: query.ParseSort("-price,name"),
			want: []string{"Gadget", "Gizmo"},
		},
		{
			name: "unknown sort field is ignored",
			pred: query.Build(query.Filters{Category: "Electronics"}),
			sort: query.ParseSort("colour,-name"),
			want: []string{"Gizmo", "Gadget"},
		},
		{
			name: "inactive filter",
			pred: query.Build(query.Filters{IsActive: strPtr("false")}),
			want: []string{"Gizmo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(context.Background(), tt.pred, tt.sort, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))

			n, err := repo.Count(context.Background(), tt.pred)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestMemoryProductRepo_Window(t *testing.T) {
	repo := NewMemoryProductRepo(nil)
	for i, name := range []string{"A", "B", "C", "D", "E"} {
		seedMemory(t, repo, newProduct(name, "SKU-"+name, "Other", "1", i, 0))
	}
	sort := query.ParseSort("name")

	w := query.NewWindow(2, 2)
	got, err := repo.Find(context.Background(), nil, sort, &w)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D"}, names(got))

	w = query.NewWindow(4, 2)
	got, err = repo.Find(context.Background(), nil, sort, &w)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryProductRepo_Aggregates(t *testing.T) {
	repo := NewMemoryProductRepo(nil)
	a := newProduct("A", "A-1", "Hardware", "1", 4, 0)
	a.Cost = decimal.RequireFromString("2.50")
	b := newProduct("B", "B-1", "Hardware", "1", 6, 0)
	b.Cost = decimal.RequireFromString("1.25")
	c := newProduct("C", "C-1", "Clothing", "1", 10, 0)
	c.Cost = decimal.RequireFromString("3")
	d := newProduct("D", "D-1", "Other", "1", 1, 0)
	seedMemory(t, repo, a, b, c, d)

	value, err := repo.SumStockValue(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "48.5", value.String())

	rows, err := repo.CountByCategory(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryBreakdown{
		{Category: "Hardware", Count: 2, TotalStock: 10},
		{Category: "Clothing", Count: 1, TotalStock: 10},
		{Category: "Other", Count: 1, TotalStock: 1},
	}, rows)

	empty := NewMemoryProductRepo(nil)
	value, err = empty.SumStockValue(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, value.IsZero())
	rows, err = empty.CountByCategory(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestMemoryProductRepo_Since(t *testing.T) {
	repo := NewMemoryProductRepo(nil)
	old := newProduct("Old", "OLD-1", "Other", "1", 1, 0)
	old.CreatedAt = time.Now().Add(-10 * 24 * time.Hour)
	fresh := newProduct("Fresh", "FRE-1", "Other", "1", 1, 0)
	seedMemory(t, repo, old, fresh)

	got, err := repo.Find(context.Background(), query.Predicate{query.CreatedSince(time.Now().Add(-7 * 24 * time.Hour))}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, names(got))
}

func TestMemoryProductRepo_Writes(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepo()
	creator := &model.User{Name: "Creator", Email: "c@example.com", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, users.Create(ctx, creator))

	repo := NewMemoryProductRepo(users)
	p := newProduct("Lamp", "LMP-1", "Furniture", "20", 3, 5)
	p.CreatedByID = creator.ID
	seedMemory(t, repo, p)

	t.Run("duplicate sku", func(t *testing.T) {
		err := repo.Create(ctx, newProduct("Lamp 2", "LMP-1", "Furniture", "20", 1, 0))
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})

	t.Run("find resolves creator", func(t *testing.T) {
		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CreatedBy)
		assert.Equal(t, "Creator", got.CreatedBy.Name)
	})

	t.Run("returned copies are detached", func(t *testing.T) {
		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		got.Stock = 999

		again, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, again.Stock)
	})

	t.Run("adjust below zero", func(t *testing.T) {
		got, err := repo.AdjustStock(ctx, p.ID, -4, creator.ID)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("adjust missing", func(t *testing.T) {
		_, err := repo.AdjustStock(ctx, uuid.New(), 1, creator.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update keeps creation stamp", func(t *testing.T) {
		changed := newProduct("Desk Lamp", "LMP-1", "Furniture", "25", 3, 5)
		changed.ID = p.ID
		changed.CreatedByID = uuid.New()
		require.NoError(t, repo.Update(ctx, changed))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", got.Name)
		assert.Equal(t, creator.ID, got.CreatedByID)
	})

	t.Run("update missing", func(t *testing.T) {
		missing := newProduct("Ghost", "GHO-1", "Other", "1", 0, 0)
		missing.ID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, p.ID))
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	u := &model.User{Name: "Ana", Email: "ana@example.com", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	assert.ErrorIs(t, repo.Create(ctx, &model.User{Name: "Ana 2", Email: "ana@example.com"}), ErrDuplicateEmail)

	found, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	found, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.Password)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), ErrNotFound)
}
