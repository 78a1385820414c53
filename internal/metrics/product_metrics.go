package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated counts products created through the API.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_products_created_total",
		Help: "The total number of products created",
	})

	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_products_updated_total",
		Help: "The total number of full product updates",
	})

	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_products_deleted_total",
		Help: "The total number of products deleted",
	})

	// StockAdjustments is labelled by operation (add, subtract) and outcome
	// (ok, insufficient, not_found, error).
	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_adjustments_total",
		Help: "Stock adjustment attempts by operation and outcome",
	}, []string{"operation", "outcome"})
)

const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)
