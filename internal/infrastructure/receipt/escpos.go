package receipt

import (
	"context"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/pkg/printer"
)

// ESCPOSRenderer converts a receipt into thermal printer commands.
type ESCPOSRenderer struct {
	width int
}

// NewESCPOSRenderer creates a renderer for paper of the given character width
func NewESCPOSRenderer(charWidth int) *ESCPOSRenderer {
	if charWidth <= 0 {
		charWidth = printer.DefaultWidth
	}
	return &ESCPOSRenderer{width: charWidth}
}

func (ESCPOSRenderer) ContentType() string { return "application/octet-stream" }

func (ESCPOSRenderer) Extension() string { return "bin" }

func (e *ESCPOSRenderer) Render(_ context.Context, r *entity.Receipt) ([]byte, error) {
	doc := printer.NewDocument(e.width)

	// Header
	doc.SetAlign(printer.AlignCenter)
	if r.Header.StoreName != "" {
		doc.SetBold(true).
			SetFontSize(printer.FontDouble).
			Text(printer.Truncate(r.Header.StoreName, e.width/2)).
			SetFontSize(printer.FontNormal).
			SetBold(false)
		if r.Header.Address != "" {
			doc.Text(r.Header.Address)
		}
		if r.Header.Phone != "" {
			doc.TextF("Tel: %s", r.Header.Phone)
		}
		doc.LineFeed()
	}
	doc.SetBold(true).Text(r.Title).SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('=').
		KeyValue("Venda:", "#"+r.Number).
		KeyValue("Data:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Pagamento:", r.PaymentMethod)
	}

	doc.Separator('-')
	for _, item := range r.Items {
		doc.ItemLine(item.Name, item.QuantityLabel(), item.UnitPrice.StringFixed(2), item.Subtotal.StringFixed(2))
	}
	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", entity.Money(r.Total)).
		SetBold(false).
		Separator('=')

	// Footer
	doc.SetAlign(printer.AlignCenter).LineFeed()
	for _, line := range r.Footer {
		doc.Text(line)
	}
	doc.SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes(), nil
}
