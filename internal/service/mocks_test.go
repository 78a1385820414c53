package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"
	"go-inventory-api/internal/ws"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockProductRepo) Find(ctx context.Context, pred query.Predicate, sort []query.SortRule, window *query.Window) ([]model.Product, error) {
	args := m.Called(ctx, pred, sort, window)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	args := m.Called(ctx, pred)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) SumStockValue(ctx context.Context, pred query.Predicate) (decimal.Decimal, error) {
	args := m.Called(ctx, pred)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockProductRepo) CountByCategory(ctx context.Context, pred query.Predicate) ([]model.CategoryBreakdown, error) {
	args := m.Called(ctx, pred)
	rows, _ := args.Get(0).([]model.CategoryBreakdown)
	return rows, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id, delta, updatedBy)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordingNotifier) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
