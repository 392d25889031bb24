package request

import (
	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents the body of POST /vendas/:id/itens.
// Amounts accept JSON numbers or numeric strings.
type AddItemRequest struct {
	ProductName  *string          `json:"nome_produto"`
	Quantity     *decimal.Decimal `json:"quantidade"`
	QuantityUnit *string          `json:"tipo_quantidade"`
	UnitPrice    *decimal.Decimal `json:"preco_unitario"`
}

// ToSpec converts the request into an item spec
func (r *AddItemRequest) ToSpec() entity.ItemSpec {
	return entity.ItemSpec{
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		QuantityUnit: r.QuantityUnit,
		UnitPrice:    r.UnitPrice,
	}
}

// UpdateItemRequest represents the body of PUT /vendas/:id/itens/:item_id
type UpdateItemRequest struct {
	Quantity     *decimal.Decimal `json:"quantidade"`
	QuantityUnit *string          `json:"tipo_quantidade"`
	UnitPrice    *decimal.Decimal `json:"preco_unitario"`
}

// ToUpdate converts the request into an item update
func (r *UpdateItemRequest) ToUpdate() entity.ItemUpdate {
	return entity.ItemUpdate{
		Quantity:     r.Quantity,
		QuantityUnit: r.QuantityUnit,
		UnitPrice:    r.UnitPrice,
	}
}

// FinalizeSaleRequest represents the optional body of PUT /vendas/:id/finalizar
type FinalizeSaleRequest struct {
	CustomerName  *string `json:"nome_cliente"`
	PaymentMethod *string `json:"forma_pagamento"`
}

// ToInput converts the request into service input
func (r *FinalizeSaleRequest) ToInput() *service.FinalizeSaleInput {
	return &service.FinalizeSaleInput{
		CustomerName:  r.CustomerName,
		PaymentMethod: r.PaymentMethod,
	}
}
