// Package receipt renders payment receipts as single page PDF documents.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// DateLayout is the timestamp format printed on receipts.
const DateLayout = "2006-01-02 15:04:05"

// Letter page height in points. Baselines are given from the bottom edge
// (x=100, y=750 downwards) and flipped for fpdf.
const pageHeight = 792.0

// Data is the snapshot printed on a receipt.
type Data struct {
	Name      string
	PaymentID string
	Amount    string // already formatted with two decimals
	Status    string
	CreatedAt time.Time
}

// Lines returns the receipt text in print order.
func (d Data) Lines() []string {
	return []string{
		"Receipt for " + d.Name,
		"Payment ID: " + d.PaymentID,
		"Amount: $" + d.Amount,
		"Status: " + d.Status,
		"Date: " + d.CreatedAt.Format(DateLayout),
		"Thank you for your transaction!",
	}
}

// Renderer produces PDF bytes. Output depends only on the Data passed in.
type Renderer struct {
	Font     string
	FontSize float64
}

func NewRenderer() *Renderer {
	return &Renderer{Font: "Helvetica", FontSize: 12}
}

func (r *Renderer) Render(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(d.CreatedAt)
	pdf.SetModificationDate(d.CreatedAt)
	pdf.SetTitle("Payment receipt "+d.PaymentID, false)
	pdf.AddPage()
	pdf.SetFont(r.Font, "", r.FontSize)
	// Core fonts are cp1252 encoded; runes outside it print as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := 750.0
	for _, line := range d.Lines() {
		pdf.Text(100, pageHeight-y, tr(line))
		y -= 20
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
