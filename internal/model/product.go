package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultMinStock = 10
	DefaultUnit     = "pcs"
)

// Categories is the fixed set of product categories.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Food & Beverage",
	"Furniture",
	"Stationery",
	"Hardware",
	"Other",
}

// Units is the fixed set of stock units.
var Units = []string{"pcs", "box", "kg", "liter", "meter", "set"}

func IsValidCategory(c string) bool { return slices.Contains(Categories, c) }

func IsValidUnit(u string) bool { return slices.Contains(Units, u) }

type Supplier struct {
	Name    string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Contact string `gorm:"type:varchar(255)" json:"contact,omitempty"`
}

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Category    string          `gorm:"type:varchar(50);not null;index:idx_products_category_active" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	Stock       int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	MinStock    int             `gorm:"not null" json:"minStock"`
	Unit        string          `gorm:"type:varchar(10);not null" json:"unit"`
	Supplier    Supplier        `gorm:"embedded;embeddedPrefix:supplier_" json:"supplier"`
	IsActive    bool            `gorm:"not null;index:idx_products_category_active" json:"isActive"`

	// User tracking
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"-"`
	UpdatedByID *uuid.UUID `gorm:"type:uuid" json:"-"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`
	UpdatedBy   *User      `gorm:"foreignKey:UpdatedByID;references:ID" json:"-"`
}

// ProfitMargin is (price - cost) / cost * 100, or zero when cost is zero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.Cost.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(p.Cost).Div(p.Cost).Mul(decimal.NewFromInt(100))
}

// IsLowStock reports whether stock has reached the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductResponse is the API view of a product including derived fields
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	Unit         string          `json:"unit"`
	Supplier     *Supplier       `json:"supplier,omitempty"`
	IsActive     bool            `json:"isActive"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	IsLowStock   bool            `json:"isLowStock"`
	CreatedBy    *UserSummary    `json:"createdBy"`
	UpdatedBy    *UserSummary    `json:"updatedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	response := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Cost:         p.Cost,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		Unit:         p.Unit,
		IsActive:     p.IsActive,
		ProfitMargin: p.ProfitMargin().Round(2),
		IsLowStock:   p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	if p.Supplier != (Supplier{}) {
		supplier := p.Supplier
		response.Supplier = &supplier
	}

	response.CreatedBy = summarize(p.CreatedBy, &p.CreatedByID)
	response.UpdatedBy = summarize(p.UpdatedBy, p.UpdatedByID)

	return response
}

// ToResponses converts a slice, keeping an empty result as [] rather than null
func ToResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, products[i].ToResponse())
	}
	return out
}

func summarize(user *User, id *uuid.UUID) *UserSummary {
	if user != nil {
		s := user.Summary()
		return &s
	}
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return &UserSummary{ID: *id}
}

// CategoryBreakdown is one row of the per-category dashboard report
type CategoryBreakdown struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	TotalStock int64  `json:"totalStock"`
}
