package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultQuantityUnit is used when an item is added without a unit.
const DefaultQuantityUnit = "unidade"

// Stored scales of the quantity and unit price columns
const (
	QuantityPlaces  = 3
	UnitPricePlaces = 2
)

// Item represents a line item in a sale
type Item struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"venda_id"`
	Position     int             `gorm:"not null;default:0" json:"-"`
	ProductName  string          `gorm:"size:255;not null" json:"nome_produto"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"-"`
	QuantityUnit string          `gorm:"size:30;not null;default:'unidade'" json:"tipo_quantidade"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"-"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"-"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

// ItemSpec carries the fields used to create an item. Nil means not provided.
type ItemSpec struct {
	ProductName  *string
	Quantity     *decimal.Decimal
	QuantityUnit *string
	UnitPrice    *decimal.Decimal
}

// ItemUpdate carries a partial set of item fields. Nil fields are left untouched.
type ItemUpdate struct {
	Quantity     *decimal.Decimal
	QuantityUnit *string
	UnitPrice    *decimal.Decimal
}

// IsEmpty reports whether the update carries no field at all
func (u ItemUpdate) IsEmpty() bool {
	return u.Quantity == nil && u.QuantityUnit == nil && u.UnitPrice == nil
}

// NewItem builds an item for the given sale and computes its subtotal.
// Quantity and unit price are rounded to their stored scale first.
func NewItem(saleID uuid.UUID, spec ItemSpec) (*Item, error) {
	var fieldErrors []apperror.FieldError
	if spec.ProductName == nil || strings.TrimSpace(*spec.ProductName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "nome_produto", Message: "is required"})
	}
	if spec.UnitPrice == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "preco_unitario", Message: "is required"})
	}

	quantity := decimal.NewFromInt(1)
	if spec.Quantity != nil {
		quantity = *spec.Quantity
	}
	unit := DefaultQuantityUnit
	if spec.QuantityUnit != nil && strings.TrimSpace(*spec.QuantityUnit) != "" {
		unit = strings.TrimSpace(*spec.QuantityUnit)
	}

	fieldErrors = append(fieldErrors, checkAmounts(&quantity, spec.UnitPrice)...)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	item := &Item{
		ID:           uuid.New(),
		SaleID:       saleID,
		ProductName:  strings.TrimSpace(*spec.ProductName),
		Quantity:     quantity.Round(QuantityPlaces),
		QuantityUnit: unit,
		UnitPrice:    spec.UnitPrice.Round(UnitPricePlaces),
	}
	item.ComputeSubtotal()
	return item, nil
}

// Apply validates and applies a partial update, then recomputes the subtotal.
// On error the item is left unchanged.
func (i *Item) Apply(upd ItemUpdate) error {
	if fieldErrors := checkAmounts(upd.Quantity, upd.UnitPrice); len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	if upd.Quantity != nil {
		i.Quantity = upd.Quantity.Round(QuantityPlaces)
	}
	if upd.QuantityUnit != nil && strings.TrimSpace(*upd.QuantityUnit) != "" {
		i.QuantityUnit = strings.TrimSpace(*upd.QuantityUnit)
	}
	if upd.UnitPrice != nil {
		i.UnitPrice = upd.UnitPrice.Round(UnitPricePlaces)
	}
	i.ComputeSubtotal()
	return nil
}

// ComputeSubtotal sets subtotal = quantity x unit price, rounded to cents
func (i *Item) ComputeSubtotal() decimal.Decimal {
	i.Subtotal = i.Quantity.Mul(i.UnitPrice).Round(2)
	return i.Subtotal
}

func checkAmounts(quantity, unitPrice *decimal.Decimal) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if quantity != nil && !quantity.Round(QuantityPlaces).IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantidade", Message: "must be greater than zero"})
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "preco_unitario", Message: "must not be negative"})
	}
	return fieldErrors
}

// MarshalJSON custom marshaler to emit decimal amounts as JSON numbers
func (i Item) MarshalJSON() ([]byte, error) {
	type Alias Item
	return json.Marshal(&struct {
		Alias
		Quantity  float64 `json:"quantidade"`
		UnitPrice float64 `json:"preco_unitario"`
		Subtotal  float64 `json:"subtotal"`
	}{
		Alias:     Alias(i),
		Quantity:  i.Quantity.InexactFloat64(),
		UnitPrice: i.UnitPrice.InexactFloat64(),
		Subtotal:  i.Subtotal.InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "itens_venda"
}
