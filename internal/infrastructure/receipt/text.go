package receipt

import (
	"context"
	"fmt"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
)

const textWidth = 50

// TextRenderer renders a receipt as plain UTF-8 text.
type TextRenderer struct{}

// NewTextRenderer creates a plain text renderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Extension() string { return "txt" }

// Render writes the receipt in the fixed 50 column layout
func (TextRenderer) Render(_ context.Context, r *entity.Receipt) ([]byte, error) {
	thick := strings.Repeat("=", textWidth)
	thin := strings.Repeat("-", textWidth)

	var b strings.Builder
	if r.Header.StoreName != "" {
		b.WriteString(r.Header.StoreName + "\n")
		if r.Header.Address != "" {
			b.WriteString(r.Header.Address + "\n")
		}
		if r.Header.Phone != "" {
			b.WriteString("Tel: " + r.Header.Phone + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(r.Title + "\n")
	b.WriteString(thick + "\n\n")
	fmt.Fprintf(&b, "Venda #%s\n", r.Number)
	fmt.Fprintf(&b, "Data: %s\n", r.Date)
	if r.Customer != "" {
		fmt.Fprintf(&b, "Cliente: %s\n", r.Customer)
	}
	if r.PaymentMethod != "" {
		fmt.Fprintf(&b, "Pagamento: %s\n", r.PaymentMethod)
	}

	b.WriteString("\nPRODUTOS:\n")
	b.WriteString(thin + "\n")
	for _, item := range r.Items {
		b.WriteString(item.Name + "\n")
		fmt.Fprintf(&b, "  Qtd: %s x %s = %s\n\n",
			item.QuantityLabel(), entity.Money(item.UnitPrice), entity.Money(item.Subtotal))
	}

	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "TOTAL: %s\n", entity.Money(r.Total))
	b.WriteString(thick + "\n\n")
	for _, line := range r.Footer {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + thick + "\n")

	return []byte(b.String()), nil
}
