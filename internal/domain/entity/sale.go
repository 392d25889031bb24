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

// SaleStatus is the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "open"
	SaleStatusFinalized SaleStatus = "finalized"
)

// Sale represents a point-of-sale transaction. At most one sale may be open.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Finalized     bool            `gorm:"not null;default:false;uniqueIndex:idx_vendas_single_open,where:finalized = false" json:"finalizada"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"-"`
	CustomerName  *string         `gorm:"size:255" json:"nome_cliente"`
	PaymentMethod *string         `gorm:"size:50" json:"forma_pagamento"`
	CreatedAt     time.Time       `gorm:"index" json:"data_venda"`
	UpdatedAt     time.Time       `json:"-"`
	FinalizedAt   *time.Time      `json:"data_finalizacao,omitempty"`

	// Relationships
	Items []Item `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"itens"`
}

// NewSale creates an open sale with no items
func NewSale() *Sale {
	return &Sale{
		ID:    uuid.New(),
		Total: decimal.Zero,
		Items: []Item{},
	}
}

// Status reports whether the sale is open or finalized
func (s *Sale) Status() SaleStatus {
	if s.Finalized {
		return SaleStatusFinalized
	}
	return SaleStatusOpen
}

// AddItem validates the spec, attaches a new item and recomputes the total
func (s *Sale) AddItem(spec ItemSpec) (*Item, error) {
	if s.Finalized {
		return nil, apperror.ErrSaleFinalized
	}

	item, err := NewItem(s.ID, spec)
	if err != nil {
		return nil, err
	}
	item.Position = s.nextPosition()

	s.Items = append(s.Items, *item)
	s.ComputeTotal()
	return &s.Items[len(s.Items)-1], nil
}

// UpdateItem applies a partial update to one of the sale's items
func (s *Sale) UpdateItem(itemID uuid.UUID, upd ItemUpdate) (*Item, error) {
	if s.Finalized {
		return nil, apperror.ErrSaleFinalized
	}

	item := s.FindItem(itemID)
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	if err := item.Apply(upd); err != nil {
		return nil, err
	}

	s.ComputeTotal()
	return item, nil
}

// RemoveItem detaches an item from the sale and returns it
func (s *Sale) RemoveItem(itemID uuid.UUID) (*Item, error) {
	if s.Finalized {
		return nil, apperror.ErrSaleFinalized
	}

	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			removed := s.Items[idx]
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.ComputeTotal()
			return &removed, nil
		}
	}
	return nil, apperror.NewNotFoundError("Item")
}

// Finalize closes the sale. Only non-empty customer and payment values are recorded.
func (s *Sale) Finalize(customerName, paymentMethod *string) error {
	if s.Finalized {
		return apperror.ErrSaleAlreadyFinalized
	}
	if len(s.Items) == 0 {
		return apperror.ErrEmptySale
	}

	if v := trimmed(customerName); v != nil {
		s.CustomerName = v
	}
	if v := trimmed(paymentMethod); v != nil {
		s.PaymentMethod = v
	}

	now := time.Now()
	s.Finalized = true
	s.FinalizedAt = &now
	s.ComputeTotal()
	return nil
}

// ComputeTotal sets the total to the sum of item subtotals
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Subtotal)
	}
	s.Total = total.Round(2)
	return s.Total
}

// EnsureDeletable fails when the sale has been finalized
func (s *Sale) EnsureDeletable() error {
	if s.Finalized {
		return apperror.ErrSaleFinalized
	}
	return nil
}

// FindItem returns the item with the given id, or nil
func (s *Sale) FindItem(itemID uuid.UUID) *Item {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

func (s *Sale) nextPosition() int {
	next := 1
	for i := range s.Items {
		if s.Items[i].Position >= next {
			next = s.Items[i].Position + 1
		}
	}
	return next
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// MarshalJSON custom marshaler to emit the total as a JSON number
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
		Items []Item  `json:"itens"`
	}{
		Alias: Alias(s),
		Total: s.Total.InexactFloat64(),
		Items: items,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "vendas"
}

// SaleSummary is a lightweight row used by the debug listing of all sales
type SaleSummary struct {
	ID         uuid.UUID       `json:"id"`
	Finalized  bool            `json:"finalizada"`
	Total      decimal.Decimal `json:"-"`
	CreatedAt  time.Time       `json:"data_venda"`
	ItemsCount int             `json:"itens_count"`
}

// MarshalJSON custom marshaler to emit the total as a JSON number
func (s SaleSummary) MarshalJSON() ([]byte, error) {
	type Alias SaleSummary
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(s),
		Total: s.Total.InexactFloat64(),
	})
}
