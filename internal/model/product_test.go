package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductProfitMargin(t *testing.T) {
	tests := []struct {
		name        string
		price, cost string
		want        string
	}{
		{"zero cost is zero", "150", "0", "0"},
		{"zero cost ignores price", "999999", "0", "0"},
		{"fifty percent", "150", "100", "50"},
		{"loss", "80", "100", "-20"},
		{"break even", "12.50", "12.50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tt.price), Cost: decimal.RequireFromString(tt.cost)}

			assert.True(t, decimal.RequireFromString(tt.want).Equal(p.ProfitMargin()), "got %s", p.ProfitMargin())
		})
	}
}

func TestProductIsLowStock(t *testing.T) {
	for stock := 0; stock <= 15; stock++ {
		for minStock := 0; minStock <= 15; minStock++ {
			p := Product{Stock: stock, MinStock: minStock}
			assert.Equal(t, stock <= minStock, p.IsLowStock(), "stock=%d minStock=%d", stock, minStock)
		}
	}
}

func TestProductToResponse(t *testing.T) {
	creator := &User{BaseModel: BaseModel{ID: uuid.New()}, Name: "Ana", Email: "ana@example.com"}
	editorID := uuid.New()
	p := Product{
		BaseModel:   BaseModel{ID: uuid.New()},
		Name:        "USB Cable",
		SKU:         "USB-01",
		Category:    "Electronics",
		Price:       decimal.RequireFromString("10"),
		Cost:        decimal.RequireFromString("3"),
		Stock:       4,
		MinStock:    10,
		Unit:        "pcs",
		IsActive:    true,
		CreatedByID: creator.ID,
		CreatedBy:   creator,
		UpdatedByID: &editorID,
	}

	resp := p.ToResponse()

	assert.Equal(t, p.ID, resp.ID)
	assert.True(t, resp.IsLowStock)
	assert.Equal(t, "233.33", resp.ProfitMargin.StringFixed(2))
	assert.Nil(t, resp.Supplier)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "Ana", resp.CreatedBy.Name)
	require.NotNil(t, resp.UpdatedBy)
	assert.Equal(t, editorID, resp.UpdatedBy.ID)
	assert.Empty(t, resp.UpdatedBy.Name)
}

func TestToResponsesEmpty(t *testing.T) {
	out := ToResponses(nil)

	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}

func TestBaseModelEnsureID(t *testing.T) {
	var b BaseModel
	id := b.EnsureID()

	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, b.EnsureID())
}
