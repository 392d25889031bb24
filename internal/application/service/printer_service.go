package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/logger"
	"github.com/ferrigb/sistema-nota/pkg/printer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer      printer.Printer
	formatter    TicketRenderer
	saleRepo     repository.SaleRepository
	storeService *StoreService
	logger       *zap.Logger
}

// NewPrinterService creates a new printer service. formatter produces the ESC/POS bytes.
func NewPrinterService(
	p printer.Printer,
	formatter TicketRenderer,
	saleRepo repository.SaleRepository,
	storeService *StoreService,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		formatter:    formatter,
		saleRepo:     saleRepo,
		storeService: storeService,
		logger:       logger.OrNop(log),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

// TestPrint sends a sample receipt to the printer.
// The receipt is returned even when printing fails.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{StoreName: "TESTE DE IMPRESSÃO"},
		Title:  entity.ReceiptTitle,
		Number: "TESTE",
		Date:   time.Now().Format(entity.ReceiptDateLayout),
		Items: []entity.ReceiptItem{
			{Name: "Produto teste 1", Quantity: decimal.NewFromInt(1), QuantityUnit: "unidade", UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(10)},
			{Name: "Produto teste 2", Quantity: decimal.RequireFromString("0.5"), QuantityUnit: "kg", UnitPrice: decimal.NewFromInt(20), Subtotal: decimal.NewFromInt(10)},
		},
		Total:  decimal.NewFromInt(20),
		Footer: entity.ReceiptFooter,
	}

	if err := s.print(ctx, receipt); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintSaleReceipt prints the receipt of a finalized sale.
// When the printer fails the built receipt is returned with the error.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := buildSaleReceipt(ctx, s.saleRepo, s.storeService, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.print(ctx, receipt); err != nil {
		s.logger.Warn("printer error", zap.String("sale_id", saleID.String()), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	s.logger.Info("receipt printed", zap.String("sale_id", saleID.String()))
	return receipt, nil
}

func (s *PrinterService) print(ctx context.Context, receipt *entity.Receipt) error {
	data, err := s.formatter.Render(ctx, receipt)
	if err != nil {
		return err
	}
	return s.printer.Print(ctx, data)
}
