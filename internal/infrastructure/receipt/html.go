package receipt

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
)

//go:embed templates/ticket.html
var templateFS embed.FS

var ticketTemplate = template.Must(
	template.New("ticket.html").
		Funcs(template.FuncMap{"money": entity.Money}).
		ParseFS(templateFS, "templates/ticket.html"),
)

// RenderHTML renders the receipt as a standalone HTML page
func RenderHTML(r *entity.Receipt) (string, error) {
	var buf bytes.Buffer
	if err := ticketTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render ticket template: %w", err)
	}
	return buf.String(), nil
}
