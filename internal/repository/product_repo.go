package repository

import (
	"context"
	"errors"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Find(ctx context.Context, pred query.Predicate, sort []query.SortRule, window *query.Window) ([]model.Product, error)
	Count(ctx context.Context, pred query.Predicate) (int64, error)
	SumStockValue(ctx context.Context, pred query.Predicate) (decimal.Decimal, error)
	CountByCategory(ctx context.Context, pred query.Predicate) ([]model.CategoryBreakdown, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock adds delta to stock in a single conditional write. A
	// negative delta only applies while stock stays non-negative; otherwise
	// ErrInsufficientStock is returned with the unchanged product.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy uuid.UUID) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
	return translateProductErr(err)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.withUsers(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateProductErr(err)
	}
	return &product, nil
}

func (r *productRepo) Find(ctx context.Context, pred query.Predicate, sort []query.SortRule, window *query.Window) ([]model.Product, error) {
	products := []model.Product{}
	db := applySort(applyPredicate(r.withUsers(ctx).Model(&model.Product{}), pred), sort)
	if window != nil {
		db = db.Offset(window.Skip).Limit(window.Limit)
	}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var n int64
	err := applyPredicate(r.db.WithContext(ctx).Model(&model.Product{}), pred).Count(&n).Error
	return n, err
}

func (r *productRepo) SumStockValue(ctx context.Context, pred query.Predicate) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := applyPredicate(r.db.WithContext(ctx).Model(&model.Product{}), pred).
		Select("COALESCE(SUM(stock * cost), 0)").
		Row().
		Scan(&total)
	return total, err
}

func (r *productRepo) CountByCategory(ctx context.Context, pred query.Predicate) ([]model.CategoryBreakdown, error) {
	rows := []model.CategoryBreakdown{}
	err := applyPredicate(r.db.WithContext(ctx).Model(&model.Product{}), pred).
		Select("category, COUNT(*) AS count, COALESCE(SUM(stock), 0) AS total_stock").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update replaces every mutable column. It never inserts: a missing row is
// reported as ErrNotFound.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("*").
		Omit("ID", "CreatedAt", "CreatedByID", clause.Associations).
		Updates(product)
	if res.Error != nil {
		return translateProductErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock relies on the row lock Postgres takes for the UPDATE, so two
// concurrent decrements cannot both pass the stock >= n guard.
func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy uuid.UUID) (*model.Product, error) {
	update := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id)
	if delta < 0 {
		update = update.Where("stock >= ?", -delta)
	}
	res := update.Updates(map[string]interface{}{
		"stock":         gorm.Expr("stock + ?", delta),
		"updated_by_id": updatedBy,
	})
	if res.Error != nil {
		return nil, res.Error
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return product, ErrInsufficientStock
	}
	return product, nil
}

func (r *productRepo) withUsers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("CreatedBy").Preload("UpdatedBy")
}

func translateProductErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateSKU
	}
	return err
}
