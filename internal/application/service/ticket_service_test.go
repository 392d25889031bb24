package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/infrastructure/receipt"
	infraRepo "github.com/ferrigb/sistema-nota/internal/infrastructure/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/printer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type ticketFixture struct {
	sales   *SaleService
	stores  *StoreService
	tickets *TicketService
	db      *gorm.DB
}

func newTicketFixture(t *testing.T) *ticketFixture {
	sales, db := newSaleService(t)
	stores := NewStoreService(infraRepo.NewStoreRepository(db))
	renderers := map[string]TicketRenderer{
		TicketFormatPDF:  receipt.NewPDFRenderer(),
		TicketFormatText: receipt.NewTextRenderer(),
	}
	tickets := NewTicketService(infraRepo.NewSaleRepository(db), stores, renderers, TicketFormatPDF, zaptest.NewLogger(t))
	return &ticketFixture{sales: sales, stores: stores, tickets: tickets, db: db}
}

func (f *ticketFixture) finalizedSale(t *testing.T) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	current, err := f.sales.GetOrCreateCurrentSale(ctx)
	require.NoError(t, err)
	addItem(t, f.sales, current.ID, "Arroz", "2", "kg", "10.00")
	addItem(t, f.sales, current.ID, "Feijão", "1", "", "4.00")
	sale, err := f.sales.FinalizeSale(ctx, current.ID, &FinalizeSaleInput{CustomerName: str("Maria")})
	require.NoError(t, err)
	return sale
}

func TestTicketService_RenderText(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	_, err := f.stores.ConfigureStore(ctx, &ConfigureStoreInput{Name: "Agro Norte", Address: "Rua A, 1", Phone: "1199999"})
	require.NoError(t, err)
	sale := f.finalizedSale(t)

	file, err := f.tickets.RenderTicket(ctx, sale.ID, "TXT")
	require.NoError(t, err)

	assert.Equal(t, "ticket_venda_"+sale.ID.String()+".txt", file.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", file.ContentType)
	text := string(file.Content)
	assert.True(t, strings.HasPrefix(text, "Agro Norte\n"))
	assert.Contains(t, text, "Cliente: Maria")
	assert.Contains(t, text, "TOTAL: R$ 24.00")
}

func TestTicketService_DefaultFormatIsPDF(t *testing.T) {
	f := newTicketFixture(t)
	sale := f.finalizedSale(t)

	file, err := f.tickets.RenderTicket(context.Background(), sale.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "ticket_venda_"+sale.ID.String()+".pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestTicketService_Errors(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.tickets.RenderTicket(ctx, uuid.New(), "txt")
	assert.ErrorContains(t, err, "Sale not found")

	open, err := f.sales.GetOrCreateCurrentSale(ctx)
	require.NoError(t, err)
	addItem(t, f.sales, open.ID, "Arroz", "1", "", "5.00")
	_, err = f.tickets.RenderTicket(ctx, open.ID, "txt")
	assert.ErrorIs(t, err, apperror.ErrSaleNotFinalized)

	_, err = f.tickets.RenderTicket(ctx, open.ID, "docx")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(_ context.Context) bool { return p.err == nil }

func (p *recordingPrinter) Type() string { return printer.TypeNetwork }

func TestPrinterService_PrintSaleReceipt(t *testing.T) {
	f := newTicketFixture(t)
	sale := f.finalizedSale(t)
	dev := &recordingPrinter{}
	svc := NewPrinterService(dev, receipt.NewESCPOSRenderer(32), infraRepo.NewSaleRepository(f.db), f.stores, zaptest.NewLogger(t))

	r, err := svc.PrintSaleReceipt(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "24.00", r.Total.StringFixed(2))
	require.Len(t, dev.jobs, 1)
	assert.Contains(t, string(dev.jobs[0]), "TICKET DE VENDA")
}

func TestPrinterService_PrinterFailureKeepsReceipt(t *testing.T) {
	f := newTicketFixture(t)
	sale := f.finalizedSale(t)
	dev := &recordingPrinter{err: errors.New("paper out")}
	svc := NewPrinterService(dev, receipt.NewESCPOSRenderer(32), infraRepo.NewSaleRepository(f.db), f.stores, zaptest.NewLogger(t))

	r, err := svc.PrintSaleReceipt(context.Background(), sale.ID)

	assert.ErrorContains(t, err, "paper out")
	require.NotNil(t, r)
	assert.Len(t, r.Items, 2)

	status := svc.GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)
}

func TestPrinterService_RejectsOpenSale(t *testing.T) {
	f := newTicketFixture(t)
	open, err := f.sales.GetOrCreateCurrentSale(context.Background())
	require.NoError(t, err)
	svc := NewPrinterService(printer.NewNullPrinter(), receipt.NewESCPOSRenderer(32), infraRepo.NewSaleRepository(f.db), f.stores, nil)

	r, err := svc.PrintSaleReceipt(context.Background(), open.ID)

	assert.Nil(t, r)
	assert.ErrorIs(t, err, apperror.ErrSaleNotFinalized)
}

func TestPrinterService_TestPrint(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), receipt.NewESCPOSRenderer(32), nil, nil, nil)

	r, err := svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20.00", r.Total.StringFixed(2))

	status := svc.GetStatus(context.Background())
	assert.False(t, status.Configured)
	assert.Equal(t, "none", status.Type)
}
