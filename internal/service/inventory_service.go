package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-inventory-api/internal/metrics"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
)

// Stock operations accepted by AdjustStock.
const (
	OperationAdd      = "add"
	OperationSubtract = "subtract"
)

// ListParams carries raw query-string input; nothing here is validated.
type ListParams struct {
	Filters query.Filters
	Sort    string
	Page    string
	Limit   string
}

// ProductList is one page of a listing.
type ProductList struct {
	Items []model.Product
	Count int
	Stats query.Stats
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	SKU         string          `json:"sku" validate:"required,min=3,max=20"`
	Description string          `json:"description" validate:"max=500"`
	Category    string          `json:"category" validate:"required,category"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Cost        *decimal.Decimal `json:"cost" validate:"required,gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	MinStock    *int            `json:"minStock" validate:"omitempty,gte=0"`
	Unit        *string         `json:"unit" validate:"omitempty,unit"`
	Supplier    model.Supplier  `json:"supplier"`
	IsActive    *bool           `json:"isActive"`
}

// MaxStockQuantity bounds a single stock adjustment.
const MaxStockQuantity = math.MaxInt32

// StockAdjustment is a signed change request: Quantity is always positive,
// Operation carries the direction.
type StockAdjustment struct {
	Quantity  int    `json:"quantity" validate:"required,gt=0,max=2147483647"`
	Operation string `json:"operation" validate:"required"`
}

func (a StockAdjustment) delta() (int, error) {
	var sign int
	switch a.Operation {
	case OperationAdd:
		sign = 1
	case OperationSubtract:
		sign = -1
	default:
		return 0, ErrInvalidOperation
	}
	if a.Quantity <= 0 || a.Quantity > MaxStockQuantity {
		return 0, ErrInvalidQuantity
	}
	return sign * a.Quantity, nil
}

type InventoryService interface {
	ListProducts(ctx context.Context, params ListParams) (*ProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	AdjustStock(ctx context.Context, id uuid.UUID, adj StockAdjustment, actor Actor) (*model.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	notifier    Notifier
	log         *zap.Logger
}

func NewInventoryService(productRepo repository.ProductRepository, notifier Notifier, log *zap.Logger) InventoryService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &inventoryService{
		productRepo: productRepo,
		notifier:    notifier,
		log:         log,
	}
}

func (s *inventoryService) ListProducts(ctx context.Context, params ListParams) (*ProductList, error) {
	pred := query.Build(params.Filters)
	rules := query.ParseSort(params.Sort)
	window := query.ParseWindow(params.Page, params.Limit)

	items, err := s.productRepo.Find(ctx, pred, rules, &window)
	if err != nil {
		return nil, storeErr(err)
	}
	total, err := s.productRepo.Count(ctx, pred)
	if err != nil {
		return nil, storeErr(err)
	}

	return &ProductList{
		Items: items,
		Count: len(items),
		Stats: window.Stats(total),
	}, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	pred := query.Predicate{query.ActiveOnly(), query.LowStock()}
	items, err := s.productRepo.Find(ctx, pred, []query.SortRule{{Field: query.FieldStock, Direction: query.Asc}}, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

func (s *inventoryService) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	pred := query.Predicate{query.ActiveOnly(), query.InCategory(category)}
	items, err := s.productRepo.Find(ctx, pred, []query.SortRule{{Field: query.FieldName, Direction: query.Asc}}, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, in ProductInput, actor Actor) (*model.Product, error) {
	product := &model.Product{
		CreatedByID: actor.ID,
		MinStock:    model.DefaultMinStock,
		Unit:        model.DefaultUnit,
		IsActive:    true,
	}
	in.applyTo(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storeErr(err)
	}

	created, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, storeErr(err)
	}

	metrics.ProductsCreated.Inc()
	s.log.Info("product created",
		zap.String("product_id", created.ID.String()),
		zap.String("sku", created.SKU),
		zap.String("user_id", actor.ID.String()),
	)
	s.notifier.Publish(ws.Event{
		Type:    ws.EventProductCreated,
		Product: created.ToResponse(),
		User:    actor.summary(),
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, created.Name),
	})
	return created, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actor Actor) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	in.applyTo(product)
	product.UpdatedByID = &actor.ID
	product.CreatedBy, product.UpdatedBy = nil, nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storeErr(err)
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	metrics.ProductsUpdated.Inc()
	s.log.Info("product updated",
		zap.String("product_id", id.String()),
		zap.String("user_id", actor.ID.String()),
	)
	s.notifier.Publish(ws.Event{
		Type:    ws.EventProductUpdated,
		Product: updated.ToResponse(),
		User:    actor.summary(),
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})
	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}

	metrics.ProductsDeleted.Inc()
	s.log.Info("product deleted",
		zap.String("product_id", id.String()),
		zap.String("user_id", actor.ID.String()),
	)
	s.notifier.Publish(ws.Event{
		Type:    ws.EventProductDeleted,
		Product: map[string]interface{}{"id": id},
		User:    actor.summary(),
		Message: fmt.Sprintf("%s deleted a product", actor.Name),
	})
	return nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, adj StockAdjustment, actor Actor) (*model.Product, error) {
	delta, err := adj.delta()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.AdjustStock(ctx, id, delta, actor.ID)
	if err != nil {
		outcome := metrics.OutcomeError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			outcome = metrics.OutcomeNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			outcome = metrics.OutcomeInsufficient
			fields := []zap.Field{zap.String("product_id", id.String()), zap.Int("requested", adj.Quantity)}
			if product != nil {
				fields = append(fields, zap.Int("available", product.Stock))
			}
			s.log.Info("stock adjustment rejected", fields...)
		default:
			s.log.Error("stock adjustment failed", zap.String("product_id", id.String()), zap.Error(err))
		}
		metrics.StockAdjustments.WithLabelValues(adj.Operation, outcome).Inc()
		return nil, storeErr(err)
	}

	metrics.StockAdjustments.WithLabelValues(adj.Operation, metrics.OutcomeOK).Inc()
	s.log.Info("stock adjusted",
		zap.String("product_id", id.String()),
		zap.String("operation", adj.Operation),
		zap.Int("quantity", adj.Quantity),
		zap.Int("stock", product.Stock),
		zap.String("user_id", actor.ID.String()),
	)

	verb := "added"
	if delta < 0 {
		verb = "removed"
	}
	s.notifier.Publish(ws.Event{
		Type:    ws.EventStockUpdated,
		Product: product.ToResponse(),
		User:    actor.summary(),
		Message: fmt.Sprintf("%s %s %d %s of '%s'", actor.Name, verb, adj.Quantity, product.Unit, product.Name),
	})
	return product, nil
}

// applyTo copies the normalized input onto p. Optional fields the input
// leaves unset keep the value already on p.
func (in ProductInput) applyTo(p *model.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	p.Description = strings.TrimSpace(in.Description)
	p.Category = in.Category
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	p.Stock = in.Stock
	p.Supplier = model.Supplier{
		Name:    strings.TrimSpace(in.Supplier.Name),
		Contact: strings.TrimSpace(in.Supplier.Contact),
	}

	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
