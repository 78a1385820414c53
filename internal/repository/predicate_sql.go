package repository

import (
	"strings"

	"go-inventory-api/internal/query"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productColumns maps API field names to columns. Fields outside the map
// are ignored when sorting.
var productColumns = map[query.Field]string{
	query.FieldID:          "id",
	query.FieldName:        "name",
	query.FieldSKU:         "sku",
	query.FieldDescription: "description",
	query.FieldCategory:    "category",
	query.FieldPrice:       "price",
	query.FieldCost:        "cost",
	query.FieldStock:       "stock",
	query.FieldMinStock:    "min_stock",
	query.FieldUnit:        "unit",
	query.FieldIsActive:    "is_active",
	query.FieldCreatedAt:   "created_at",
	query.FieldUpdatedAt:   "updated_at",
}

var integerColumns = map[string]bool{"stock": true, "min_stock": true}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyPredicate(db *gorm.DB, pred query.Predicate) *gorm.DB {
	for _, c := range pred {
		if expr, ok := compileConstraint(c); ok {
			db = db.Where(expr)
		}
	}
	return db
}

func compileConstraint(c query.Constraint) (clause.Expression, bool) {
	switch c := c.(type) {
	case query.Equals:
		col, ok := productColumns[c.Field]
		if !ok {
			return nil, false
		}
		return clause.Eq{Column: clause.Column{Name: col}, Value: c.Value}, true

	case query.Range:
		col, ok := productColumns[c.Field]
		if !ok {
			return nil, false
		}
		var exprs []clause.Expression
		if c.Min != nil {
			exprs = append(exprs, clause.Gte{Column: clause.Column{Name: col}, Value: boundValue(col, c.Min)})
		}
		if c.Max != nil {
			exprs = append(exprs, clause.Lte{Column: clause.Column{Name: col}, Value: boundValue(col, c.Max)})
		}
		if len(exprs) == 0 {
			return nil, false
		}
		return clause.And(exprs...), true

	case query.Search:
		pattern := "%" + likeEscaper.Replace(c.Text) + "%"
		var exprs []clause.Expression
		for _, f := range c.Fields {
			if col, ok := productColumns[f]; ok {
				exprs = append(exprs, clause.Expr{SQL: "? ILIKE ?", Vars: []interface{}{clause.Column{Name: col}, pattern}})
			}
		}
		if len(exprs) == 0 {
			return nil, false
		}
		return clause.Or(exprs...), true

	case query.FieldLTE:
		left, okL := productColumns[c.Field]
		right, okR := productColumns[c.Other]
		if !okL || !okR {
			return nil, false
		}
		return clause.Expr{SQL: "? <= ?", Vars: []interface{}{clause.Column{Name: left}, clause.Column{Name: right}}}, true

	case query.Since:
		col, ok := productColumns[c.Field]
		if !ok {
			return nil, false
		}
		return clause.Gte{Column: clause.Column{Name: col}, Value: c.Time}, true
	}
	return nil, false
}

// boundValue keeps integer columns comparable with fractional bounds.
func boundValue(col string, d *decimal.Decimal) interface{} {
	if integerColumns[col] {
		return d.InexactFloat64()
	}
	return *d
}

func applySort(db *gorm.DB, rules []query.SortRule) *gorm.DB {
	for _, rule := range rules {
		col, ok := productColumns[rule.Field]
		if !ok {
			continue
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: rule.Direction == query.Desc})
	}
	return db
}
