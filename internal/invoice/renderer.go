package invoice

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"go.uber.org/zap"
)

//go:embed templates/invoice.html.tmpl
var templateFS embed.FS

// Renderer turns invoice data into a PDF byte stream. It is an interface so
// the rendering engine can be swapped without touching the webhook pipeline.
type Renderer interface {
	Render(ctx context.Context, data Data) ([]byte, error)
}

// PDFRenderer renders the embedded HTML invoice template through wkhtmltopdf.
type PDFRenderer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// NewPDFRenderer parses the embedded invoice template.
func NewPDFRenderer(logger *zap.Logger) (*PDFRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &PDFRenderer{tmpl: tmpl, logger: logger}, nil
}

// Render produces an A4 portrait PDF. An empty output is an error: an
// invoice that rendered to nothing must never reach the guest.
func (r *PDFRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	var html bytes.Buffer
	if err := r.tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to execute invoice template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to init pdf generator: %w", err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.AddPage(wkhtmltopdf.NewPageReader(&html))

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}

	out := pdfg.Bytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("pdf rendering produced empty output")
	}

	r.logger.Debug("invoice pdf rendered",
		zap.String("invoice", data.InvoiceNumber),
		zap.Int("bytes", len(out)),
	)
	return out, nil
}
