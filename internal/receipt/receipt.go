// Package receipt renders a bill's allocation as a one-page PDF.
package receipt

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/mmynk/patungan/internal/calculator"
	"github.com/mmynk/patungan/internal/models"
)

const (
	margin     = 15.0
	valueWidth = 45.0
	lineHeight = 7.0
)

// Line is a label with a monetary amount.
type Line struct {
	Label  string
	Amount decimal.Decimal
}

// Receipt is everything printed on the PDF.
type Receipt struct {
	Title       string
	GeneratedAt time.Time

	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tip      decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal

	// Participants is the per-person breakdown, in participant order.
	Participants []Line
}

// New builds a receipt from an allocation, rounding every amount to cents.
func New(title string, participants []models.Participant, alloc *calculator.Allocation, generatedAt time.Time) Receipt {
	r := Receipt{
		Title:       title,
		GeneratedAt: generatedAt,
		Subtotal:    cents(alloc.Subtotal),
		Discount:    cents(alloc.Discount),
		Tip:         cents(alloc.Tip),
		Tax:         cents(alloc.Tax),
		Total:       cents(alloc.Total),
	}
	for _, p := range participants {
		r.Participants = append(r.Participants, Line{Label: p.Name, Amount: cents(alloc.Totals[p.ID])})
	}
	return r
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// SummaryLines returns the summary block. Discount, tip and tax are left out when zero.
func (r Receipt) SummaryLines() []Line {
	lines := []Line{{Label: "Subtotal", Amount: r.Subtotal}}
	for _, l := range []Line{
		{Label: "Discount", Amount: r.Discount},
		{Label: "Tip", Amount: r.Tip},
		{Label: "Tax", Amount: r.Tax},
	} {
		if l.Amount.IsPositive() {
			lines = append(lines, l)
		}
	}
	return lines
}

// Render writes the receipt as PDF to w.
func Render(w io.Writer, r Receipt) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*margin
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentWidth, 12, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(contentWidth, 6, "Bill split receipt", "", 1, "C", false, 0, "")
	divider(pdf, contentWidth)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(contentWidth, 9, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	for _, l := range r.SummaryLines() {
		row(pdf, contentWidth, tr(l.Label), l.Amount)
	}
	divider(pdf, contentWidth)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	row(pdf, contentWidth, "Total", r.Total)
	divider(pdf, contentWidth)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(50, 50, 50)
	for _, l := range r.Participants {
		row(pdf, contentWidth, tr(l.Label), l.Amount)
	}

	pdf.Ln(lineHeight)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(180, 180, 180)
	pdf.CellFormat(contentWidth, 5, "Generated: "+r.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build receipt: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

func row(pdf *fpdf.Fpdf, width float64, label string, amount decimal.Decimal) {
	pdf.CellFormat(width-valueWidth, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, lineHeight, amount.StringFixed(2), "", 1, "R", false, 0, "")
}

func divider(pdf *fpdf.Fpdf, width float64) {
	pdf.Ln(2)
	pdf.SetDrawColor(224, 224, 224)
	y := pdf.GetY()
	pdf.Line(margin, y, margin+width, y)
	pdf.Ln(3)
}
