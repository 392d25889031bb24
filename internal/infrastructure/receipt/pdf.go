package receipt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/pkg/printer"
	"github.com/go-pdf/fpdf"
)

// PDFRenderer draws an A4 receipt with fpdf's core fonts.
type PDFRenderer struct{}

// NewPDFRenderer creates an fpdf based renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Extension() string { return "pdf" }

// column widths in mm, 180mm usable on A4 with 15mm margins
var pdfColumns = []float64{80, 30, 35, 35}

func (PDFRenderer) Render(_ context.Context, r *entity.Receipt) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(r.Title+" "+r.Number, true)
	pdf.AddPage()
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.Header.StoreName != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 7, tr(r.Header.StoreName), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if r.Header.Address != "" {
			pdf.CellFormat(0, 5, tr(r.Header.Address), "", 1, "C", false, 0, "")
		}
		if r.Header.Phone != "" {
			pdf.CellFormat(0, 5, tr("Tel: "+r.Header.Phone), "", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 100, 0)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 8, tr("Venda #"+r.Number), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Data: "+r.Date), "", 1, "L", false, 0, "")
	if r.Customer != "" {
		pdf.CellFormat(0, 6, tr("Cliente: "+r.Customer), "", 1, "L", false, 0, "")
	}
	if r.PaymentMethod != "" {
		pdf.CellFormat(0, 6, tr("Pagamento: "+r.PaymentMethod), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 8, "Produtos:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(0, 100, 0)
	pdf.SetTextColor(245, 245, 245)
	for i, head := range []string{"Produto", "Qtd", "Preço Unit.", "Subtotal"} {
		pdf.CellFormat(pdfColumns[i], 9, tr(head), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range r.Items {
		pdf.CellFormat(pdfColumns[0], 8, tr(printer.Truncate(item.Name, 40)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(pdfColumns[1], 8, tr(item.QuantityLabel()), "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfColumns[2], 8, entity.Money(item.UnitPrice), "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfColumns[3], 8, entity.Money(item.Subtotal), "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 100, 0)
	pdf.CellFormat(0, 10, "TOTAL: "+entity.Money(r.Total), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	for _, line := range r.Footer {
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
