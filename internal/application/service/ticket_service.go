package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ticket formats
const (
	TicketFormatPDF  = "pdf"
	TicketFormatText = "txt"
)

// TicketRenderer turns a receipt into a downloadable document
type TicketRenderer interface {
	Render(ctx context.Context, r *entity.Receipt) ([]byte, error)
	ContentType() string
	Extension() string
}

// TicketFile is a rendered receipt ready to be sent as an attachment
type TicketFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// TicketService renders receipts of finalized sales
type TicketService struct {
	saleRepo      repository.SaleRepository
	storeService  *StoreService
	renderers     map[string]TicketRenderer
	defaultFormat string
	logger        *zap.Logger
}

// NewTicketService creates a new ticket service. renderers is keyed by format.
func NewTicketService(
	saleRepo repository.SaleRepository,
	storeService *StoreService,
	renderers map[string]TicketRenderer,
	defaultFormat string,
	log *zap.Logger,
) *TicketService {
	if defaultFormat == "" {
		defaultFormat = TicketFormatPDF
	}
	return &TicketService{
		saleRepo:      saleRepo,
		storeService:  storeService,
		renderers:     renderers,
		defaultFormat: defaultFormat,
		logger:        logger.OrNop(log),
	}
}

// RenderTicket renders the receipt of a finalized sale. An empty format uses the default.
func (s *TicketService) RenderTicket(ctx context.Context, saleID uuid.UUID, format string) (*TicketFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = s.defaultFormat
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unsupported ticket format %q", format))
	}

	receipt, err := buildSaleReceipt(ctx, s.saleRepo, s.storeService, saleID)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(ctx, receipt)
	if err != nil {
		s.logger.Error("failed to render ticket",
			zap.String("sale_id", saleID.String()),
			zap.String("format", format),
			zap.Error(err))
		return nil, apperror.NewAppError(http.StatusInternalServerError, "Failed to generate ticket")
	}

	return &TicketFile{
		Filename:    fmt.Sprintf("ticket_venda_%s.%s", saleID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// buildSaleReceipt loads a finalized sale and the store header into a receipt
func buildSaleReceipt(ctx context.Context, saleRepo repository.SaleRepository, storeService *StoreService, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !sale.Finalized {
		return nil, apperror.ErrSaleNotFinalized
	}

	store, err := storeService.FindStore(ctx)
	if err != nil {
		return nil, err
	}
	return entity.NewSaleReceipt(sale, store), nil
}
