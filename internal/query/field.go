// Package query turns loosely-typed listing inputs into store-neutral
// predicates, sort rules and page windows.
package query

// Field names a product attribute as it appears in the API.
type Field string

const (
	FieldID          Field = "id"
	FieldName        Field = "name"
	FieldSKU         Field = "sku"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldPrice       Field = "price"
	FieldCost        Field = "cost"
	FieldStock       Field = "stock"
	FieldMinStock    Field = "minStock"
	FieldUnit        Field = "unit"
	FieldIsActive    Field = "isActive"
	FieldCreatedAt   Field = "createdAt"
	FieldUpdatedAt   Field = "updatedAt"
)
