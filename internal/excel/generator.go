package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/service-cart/internal/model"
)

const (
	cartSheet  = "Cart"
	rulesSheet = "Rules"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.CartDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", cartSheet); err != nil {
		return nil, err
	}
	if err := g.writeCart(file, cartSheet, doc); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(rulesSheet); err != nil {
		return nil, err
	}
	if err := g.writeRules(file, rulesSheet, doc); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeCart(file *excelize.File, sheet string, doc model.CartDocument) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Owner")
	set("B1", doc.Owner)
	set("A2", "Generated")
	set("B2", formatDateTime(doc.GeneratedAt))
	set("A3", "Items")
	set("B3", len(doc.Lines))
	set("A4", "Total")
	set("B4", formatMoney(doc.Total))

	tableRow := 6
	headers := []string{
		"Service",
		"Category",
		"Unit price",
		"Quantity",
		"Final price",
		"Applied rules",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, line := range doc.Lines {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), line.ServiceName)
		set(fmt.Sprintf("B%d", row), line.CategoryName)
		set(fmt.Sprintf("C%d", row), formatMoney(line.UnitPrice))
		set(fmt.Sprintf("D%d", row), line.Quantity)
		set(fmt.Sprintf("E%d", row), formatMoney(line.FinalPrice))
		set(fmt.Sprintf("F%d", row), strings.Join(line.Explanations, " "))
	}

	_ = file.SetColWidth(sheet, "A", "B", 32)
	_ = file.SetColWidth(sheet, "C", "E", 14)
	_ = file.SetColWidth(sheet, "F", "F", 60)
	return nil
}

func (g *Generator) writeRules(file *excelize.File, sheet string, doc model.CartDocument) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Category")
	set("B1", "Rule")

	row := 2
	for _, category := range doc.Rules {
		if len(category.Rules) == 0 {
			set(fmt.Sprintf("A%d", row), category.CategoryName)
			set(fmt.Sprintf("B%d", row), "No price rules")
			row++
			continue
		}
		for _, rule := range category.Rules {
			set(fmt.Sprintf("A%d", row), category.CategoryName)
			set(fmt.Sprintf("B%d", row), rule)
			row++
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 70)
	return nil
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMoney(value decimal.Decimal) string {
	return value.StringFixed(2)
}
