package query

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Constraint is a single conjunct of a Predicate. Stores compile each
// concrete type into their own query language.
type Constraint interface {
	constraint()
}

// Equals matches records whose Field equals Value.
type Equals struct {
	Field Field
	Value any
}

// Range matches records whose Field lies within the inclusive bounds.
// A nil bound is open.
type Range struct {
	Field Field
	Min   *decimal.Decimal
	Max   *decimal.Decimal
}

// Search matches records where any of Fields contains Text, ignoring case.
// Text is literal; stores must not interpret pattern syntax in it.
type Search struct {
	Fields []Field
	Text   string
}

// FieldLTE matches records whose Field is less than or equal to Other.
type FieldLTE struct {
	Field Field
	Other Field
}

// Since matches records whose time-valued Field is at or after Time.
type Since struct {
	Field Field
	Time  time.Time
}

func (Equals) constraint()   {}
func (Range) constraint()    {}
func (Search) constraint()   {}
func (FieldLTE) constraint() {}
func (Since) constraint()    {}

// Predicate is the conjunction of its constraints. The empty predicate
// matches every record.
type Predicate []Constraint

// And returns a new predicate with cs appended; p is not modified.
func (p Predicate) And(cs ...Constraint) Predicate {
	out := make(Predicate, 0, len(p)+len(cs))
	out = append(out, p...)
	return append(out, cs...)
}

// Filters holds raw listing parameters as received from the client.
// IsActive is nil when the parameter was not supplied at all.
type Filters struct {
	Category string
	MinPrice string
	MaxPrice string
	MinStock string
	MaxStock string
	IsActive *string
	Search   string
}

// Spec derives at most one constraint from the filters.
type Spec func(Filters) (Constraint, bool)

// FilterSpecs is the ordered set of specs applied to product listings.
var FilterSpecs = []Spec{
	CategorySpec,
	PriceSpec,
	StockSpec,
	ActiveSpec,
	SearchSpec,
}

// Build folds FilterSpecs over f. It never fails: malformed values impose
// no constraint.
func Build(f Filters) Predicate {
	return Fold(f, FilterSpecs...)
}

// Fold applies specs in order and collects every constraint they yield.
func Fold(f Filters, specs ...Spec) Predicate {
	pred := Predicate{}
	for _, spec := range specs {
		if c, ok := spec(f); ok {
			pred = append(pred, c)
		}
	}
	return pred
}

func CategorySpec(f Filters) (Constraint, bool) {
	category := strings.TrimSpace(f.Category)
	if category == "" {
		return nil, false
	}
	return InCategory(category), true
}

func PriceSpec(f Filters) (Constraint, bool) {
	return rangeOf(FieldPrice, f.MinPrice, f.MaxPrice)
}

func StockSpec(f Filters) (Constraint, bool) {
	return rangeOf(FieldStock, f.MinStock, f.MaxStock)
}

// ActiveSpec treats "true" as true and any other supplied value as false.
func ActiveSpec(f Filters) (Constraint, bool) {
	if f.IsActive == nil {
		return nil, false
	}
	return Equals{Field: FieldIsActive, Value: *f.IsActive == "true"}, true
}

func SearchSpec(f Filters) (Constraint, bool) {
	text := strings.TrimSpace(f.Search)
	if text == "" {
		return nil, false
	}
	return Search{
		Fields: []Field{FieldName, FieldSKU, FieldDescription},
		Text:   text,
	}, true
}

func rangeOf(field Field, minRaw, maxRaw string) (Constraint, bool) {
	r := Range{Field: field, Min: parseBound(minRaw), Max: parseBound(maxRaw)}
	if r.Min == nil && r.Max == nil {
		return nil, false
	}
	return r, true
}

func parseBound(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// ActiveOnly restricts to products with isActive = true.
func ActiveOnly() Constraint {
	return Equals{Field: FieldIsActive, Value: true}
}

// LowStock restricts to products with stock <= minStock.
func LowStock() Constraint {
	return FieldLTE{Field: FieldStock, Other: FieldMinStock}
}

func InCategory(category string) Constraint {
	return Equals{Field: FieldCategory, Value: category}
}

func CreatedSince(t time.Time) Constraint {
	return Since{Field: FieldCreatedAt, Time: t}
}
