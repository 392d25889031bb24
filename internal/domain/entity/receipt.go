package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReceiptTitle is printed at the top of every sale receipt.
const ReceiptTitle = "TICKET DE VENDA"

// ReceiptFooter lines are printed after the total.
var ReceiptFooter = []string{"Obrigado pela preferência!", "Volte sempre!"}

// ReceiptDateLayout renders dates as dd/mm/yyyy às HH:MM
const ReceiptDateLayout = "02/01/2006 às 15:04"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// QuantityLabel renders the quantity with one decimal place and its unit, e.g. "0.5 kg"
func (i ReceiptItem) QuantityLabel() string {
	return i.Quantity.StringFixed(1) + " " + i.QuantityUnit
}

// Receipt is a value object composed from a sale at render time. It is not persisted.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	Title         string          `json:"title"`
	Number        string          `json:"number"`
	Date          string          `json:"date"`
	Customer      string          `json:"customer,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Items         []ReceiptItem   `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Footer        []string        `json:"footer"`
}

// NewSaleReceipt builds the receipt for a sale. store may be nil.
func NewSaleReceipt(sale *Sale, store *Store) *Receipt {
	r := &Receipt{
		Title:  ReceiptTitle,
		Number: ShortID(sale),
		Date:   sale.CreatedAt.Format(ReceiptDateLayout),
		Total:  sale.Total,
		Footer: ReceiptFooter,
		Items:  make([]ReceiptItem, 0, len(sale.Items)),
	}
	if store != nil {
		r.Header = ReceiptHeader{StoreName: store.Name, Address: store.Address, Phone: store.Phone}
	}
	if sale.CustomerName != nil {
		r.Customer = *sale.CustomerName
	}
	if sale.PaymentMethod != nil {
		r.PaymentMethod = *sale.PaymentMethod
	}
	for _, item := range sale.Items {
		r.Items = append(r.Items, ReceiptItem{
			Name:         item.ProductName,
			Quantity:     item.Quantity,
			QuantityUnit: item.QuantityUnit,
			UnitPrice:    item.UnitPrice,
			Subtotal:     item.Subtotal,
		})
	}
	return r
}

// ShortID returns the first block of the sale UUID, used as a human receipt number
func ShortID(sale *Sale) string {
	return strings.ToUpper(sale.ID.String()[:8])
}

// Money renders an amount as Brazilian currency, e.g. "R$ 24.00"
func Money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
