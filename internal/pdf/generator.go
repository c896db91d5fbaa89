package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(doc model.CartDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Cart quote", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Owner: %s", safeValue(doc.Owner)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", formatDate(doc.GeneratedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Service", "Category", "Unit price", "Qty", "Final price"}
	colWidths := []float64{60, 45, 25, 15, 35}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, line := range doc.Lines {
		drawTableRow(pdf, g.fontName, []string{
			line.ServiceName,
			line.CategoryName,
			formatAmount(line.UnitPrice),
			fmt.Sprintf("%d", line.Quantity),
			formatAmount(line.FinalPrice),
		}, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", formatAmount(doc.Total)), "", 1, "R", false, 0, "")

	notes := explanationNotes(doc.Lines)
	if len(notes) > 0 {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Applied price rules", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, note := range notes {
			pdf.MultiCell(0, 5, note, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func explanationNotes(lines []model.QuoteLine) []string {
	var notes []string
	for _, line := range lines {
		if len(line.Explanations) == 0 {
			continue
		}
		notes = append(notes, fmt.Sprintf("%s: %s", line.ServiceName, strings.Join(line.Explanations, " ")))
	}
	return notes
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		border := "1"
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, border, 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
