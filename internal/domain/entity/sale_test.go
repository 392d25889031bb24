package entity

import (
	"encoding/json"
	"testing"

	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewSale(t *testing.T) {
	sale := NewSale()

	assert.NotEqual(t, uuid.Nil, sale.ID)
	assert.False(t, sale.Finalized)
	assert.Equal(t, SaleStatusOpen, sale.Status())
	assert.True(t, sale.Total.IsZero())
	assert.Empty(t, sale.Items)
}

func TestSale_AddItemScenario(t *testing.T) {
	sale := NewSale()

	rice, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), Quantity: dec("2"), UnitPrice: dec("10.00")})
	require.NoError(t, err)
	assert.Equal(t, "20", rice.Subtotal.String())
	assert.Equal(t, "20", sale.Total.String())

	beans, err := sale.AddItem(ItemSpec{
		ProductName:  ptr("Beans"),
		Quantity:     dec("0.5"),
		QuantityUnit: ptr("kg"),
		UnitPrice:    dec("8.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4", beans.Subtotal.String())
	assert.Equal(t, "kg", beans.QuantityUnit)
	assert.Equal(t, "24", sale.Total.String())

	require.NoError(t, sale.Finalize(ptr("Maria"), nil))
	assert.True(t, sale.Finalized)
	assert.Equal(t, SaleStatusFinalized, sale.Status())
	assert.Equal(t, "Maria", *sale.CustomerName)
	assert.Nil(t, sale.PaymentMethod)
	assert.NotNil(t, sale.FinalizedAt)
	assert.Equal(t, "24", sale.Total.String())

	_, err = sale.AddItem(ItemSpec{ProductName: ptr("Salt"), UnitPrice: dec("1")})
	assert.ErrorIs(t, err, apperror.ErrSaleFinalized)
	assert.Len(t, sale.Items, 2)
}

func TestSale_AddItemDefaults(t *testing.T) {
	sale := NewSale()

	item, err := sale.AddItem(ItemSpec{ProductName: ptr("  Coffee "), UnitPrice: dec("7.5")})
	require.NoError(t, err)

	assert.Equal(t, "Coffee", item.ProductName)
	assert.Equal(t, "1", item.Quantity.String())
	assert.Equal(t, DefaultQuantityUnit, item.QuantityUnit)
	assert.Equal(t, 1, item.Position)
	assert.Equal(t, sale.ID, item.SaleID)
}

func TestSale_AddItemValidation(t *testing.T) {
	tests := []struct {
		name   string
		spec   ItemSpec
		fields []string
	}{
		{"missing name", ItemSpec{UnitPrice: dec("1")}, []string{"nome_produto"}},
		{"blank name", ItemSpec{ProductName: ptr("  "), UnitPrice: dec("1")}, []string{"nome_produto"}},
		{"missing price", ItemSpec{ProductName: ptr("Rice")}, []string{"preco_unitario"}},
		{"missing both", ItemSpec{}, []string{"nome_produto", "preco_unitario"}},
		{"zero quantity", ItemSpec{ProductName: ptr("Rice"), Quantity: dec("0"), UnitPrice: dec("1")}, []string{"quantidade"}},
		{"negative price", ItemSpec{ProductName: ptr("Rice"), UnitPrice: dec("-1")}, []string{"preco_unitario"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := NewSale()

			_, err := sale.AddItem(tt.spec)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.Code)
			var fields []string
			for _, fe := range appErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Empty(t, sale.Items)
			assert.True(t, sale.Total.IsZero())
		})
	}
}

func TestSale_UpdateItem(t *testing.T) {
	sale := NewSale()
	item, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), Quantity: dec("2"), UnitPrice: dec("10")})
	require.NoError(t, err)
	_, err = sale.AddItem(ItemSpec{ProductName: ptr("Beans"), UnitPrice: dec("3")})
	require.NoError(t, err)

	updated, err := sale.UpdateItem(item.ID, ItemUpdate{Quantity: dec("3")})
	require.NoError(t, err)

	assert.Equal(t, "30", updated.Subtotal.String())
	assert.Equal(t, "10", updated.UnitPrice.String())
	assert.Equal(t, DefaultQuantityUnit, updated.QuantityUnit)
	assert.Equal(t, "33", sale.Total.String())

	_, err = sale.UpdateItem(uuid.New(), ItemUpdate{Quantity: dec("1")})
	assert.ErrorContains(t, err, "Item not found")
}

func TestSale_UpdateItemRejectsInvalidValues(t *testing.T) {
	sale := NewSale()
	item, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), Quantity: dec("2"), UnitPrice: dec("10")})
	require.NoError(t, err)

	_, err = sale.UpdateItem(item.ID, ItemUpdate{Quantity: dec("-1"), UnitPrice: dec("99")})

	assert.Error(t, err)
	assert.Equal(t, "2", sale.Items[0].Quantity.String())
	assert.Equal(t, "10", sale.Items[0].UnitPrice.String())
	assert.Equal(t, "20", sale.Total.String())
}

func TestSale_RemoveItem(t *testing.T) {
	sale := NewSale()
	first, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), Quantity: dec("2"), UnitPrice: dec("10")})
	require.NoError(t, err)
	firstID := first.ID
	_, err = sale.AddItem(ItemSpec{ProductName: ptr("Beans"), Quantity: dec("0.5"), UnitPrice: dec("8")})
	require.NoError(t, err)

	removed, err := sale.RemoveItem(firstID)
	require.NoError(t, err)

	assert.Equal(t, "Rice", removed.ProductName)
	assert.Len(t, sale.Items, 1)
	assert.Equal(t, "4", sale.Total.String())

	_, err = sale.RemoveItem(firstID)
	assert.ErrorContains(t, err, "Item not found")
}

func TestSale_PositionsKeepIncreasingAfterRemoval(t *testing.T) {
	sale := NewSale()
	a, _ := sale.AddItem(ItemSpec{ProductName: ptr("A"), UnitPrice: dec("1")})
	aID := a.ID
	_, _ = sale.AddItem(ItemSpec{ProductName: ptr("B"), UnitPrice: dec("1")})
	_, err := sale.RemoveItem(aID)
	require.NoError(t, err)

	c, err := sale.AddItem(ItemSpec{ProductName: ptr("C"), UnitPrice: dec("1")})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Position)
}

func TestSale_FinalizeEmptySale(t *testing.T) {
	sale := NewSale()

	err := sale.Finalize(ptr("Maria"), ptr("pix"))

	assert.ErrorIs(t, err, apperror.ErrEmptySale)
	assert.False(t, sale.Finalized)
	assert.Nil(t, sale.CustomerName)
	assert.Nil(t, sale.FinalizedAt)
}

func TestSale_FinalizeTwice(t *testing.T) {
	sale := NewSale()
	_, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), UnitPrice: dec("10")})
	require.NoError(t, err)
	require.NoError(t, sale.Finalize(nil, ptr("dinheiro")))

	err = sale.Finalize(ptr("Other"), nil)

	assert.ErrorIs(t, err, apperror.ErrSaleAlreadyFinalized)
	assert.Nil(t, sale.CustomerName)
	assert.Equal(t, "dinheiro", *sale.PaymentMethod)
}

func TestSale_FinalizeIgnoresBlankCustomerAndPayment(t *testing.T) {
	sale := NewSale()
	_, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), UnitPrice: dec("10")})
	require.NoError(t, err)

	require.NoError(t, sale.Finalize(ptr("   "), ptr(" pix ")))

	assert.True(t, sale.Finalized)
	assert.Nil(t, sale.CustomerName)
	require.NotNil(t, sale.PaymentMethod)
	assert.Equal(t, "pix", *sale.PaymentMethod)
}

func TestSale_FinalizedSaleRejectsMutations(t *testing.T) {
	sale := NewSale()
	item, err := sale.AddItem(ItemSpec{ProductName: ptr("Rice"), Quantity: dec("2"), UnitPrice: dec("10")})
	require.NoError(t, err)
	itemID := item.ID
	require.NoError(t, sale.Finalize(nil, nil))

	_, err = sale.UpdateItem(itemID, ItemUpdate{Quantity: dec("5")})
	assert.ErrorIs(t, err, apperror.ErrSaleFinalized)

	_, err = sale.UpdateItem(uuid.New(), ItemUpdate{Quantity: dec("5")})
	assert.ErrorIs(t, err, apperror.ErrSaleFinalized)

	_, err = sale.RemoveItem(itemID)
	assert.ErrorIs(t, err, apperror.ErrSaleFinalized)

	assert.ErrorIs(t, sale.EnsureDeletable(), apperror.ErrSaleFinalized)

	assert.Len(t, sale.Items, 1)
	assert.Equal(t, "20", sale.Total.String())
}

func TestSale_TotalMatchesSubtotalsAfterMutations(t *testing.T) {
	sale := NewSale()
	var ids []uuid.UUID
	for _, p := range []string{"1.99", "0.01", "15.35", "3.333"} {
		item, err := sale.AddItem(ItemSpec{ProductName: ptr("P" + p), Quantity: dec("1.5"), UnitPrice: dec(p)})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}
	_, err := sale.UpdateItem(ids[1], ItemUpdate{Quantity: dec("7.25"), UnitPrice: dec("2.10")})
	require.NoError(t, err)
	_, err = sale.RemoveItem(ids[2])
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range sale.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(sale.Total), "total %s != sum %s", sale.Total, sum)
}

func TestSale_MarshalJSON(t *testing.T) {
	sale := NewSale()
	_, err := sale.AddItem(ItemSpec{ProductName: ptr("Beans"), Quantity: dec("0.5"), QuantityUnit: ptr("kg"), UnitPrice: dec("8")})
	require.NoError(t, err)

	raw, err := json.Marshal(sale)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 4.0, got["total"])
	assert.Equal(t, false, got["finalizada"])
	assert.Contains(t, got, "data_venda")
	assert.Nil(t, got["nome_cliente"])

	items := got["itens"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Beans", first["nome_produto"])
	assert.Equal(t, 0.5, first["quantidade"])
	assert.Equal(t, "kg", first["tipo_quantidade"])
	assert.Equal(t, 8.0, first["preco_unitario"])
	assert.Equal(t, 4.0, first["subtotal"])
}

func TestSale_MarshalJSONEmptyItems(t *testing.T) {
	raw, err := json.Marshal(Sale{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"itens":[]`)
}
