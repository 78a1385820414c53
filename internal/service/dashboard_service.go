package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"
	"go-inventory-api/internal/repository"
)

// RecentWindow is how far back a product still counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// DashboardStats summarizes the active catalogue.
type DashboardStats struct {
	TotalProducts      int64                     `json:"totalProducts"`
	LowStockCount      int64                     `json:"lowStockCount"`
	TotalStockValue    decimal.Decimal           `json:"totalStockValue"`
	RecentProducts     int64                     `json:"recentProducts"`
	ProductsByCategory []model.CategoryBreakdown `json:"productsByCategory"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewDashboardService(productRepo repository.ProductRepository) DashboardService {
	return &dashboardService{productRepo: productRepo, now: time.Now}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	active := query.Predicate{query.ActiveOnly()}

	total, err := s.productRepo.Count(ctx, active)
	if err != nil {
		return nil, storeErr(err)
	}
	lowStock, err := s.productRepo.Count(ctx, active.And(query.LowStock()))
	if err != nil {
		return nil, storeErr(err)
	}
	value, err := s.productRepo.SumStockValue(ctx, active)
	if err != nil {
		return nil, storeErr(err)
	}
	recent, err := s.productRepo.Count(ctx, active.And(query.CreatedSince(s.now().Add(-RecentWindow))))
	if err != nil {
		return nil, storeErr(err)
	}
	byCategory, err := s.productRepo.CountByCategory(ctx, active)
	if err != nil {
		return nil, storeErr(err)
	}
	if byCategory == nil {
		byCategory = []model.CategoryBreakdown{}
	}

	return &DashboardStats{
		TotalProducts:      total,
		LowStockCount:      lowStock,
		TotalStockValue:    value,
		RecentProducts:     recent,
		ProductsByCategory: byCategory,
	}, nil
}
