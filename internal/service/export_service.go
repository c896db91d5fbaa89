package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/pricing"
)

type ExcelGenerator interface {
	Generate(doc model.CartDocument) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc model.CartDocument) ([]byte, error)
}

type ExportService struct {
	catalog *CatalogService
	carts   *CartService
	excel   ExcelGenerator
	pdf     PDFGenerator
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewExportService(catalog *CatalogService, carts *CartService, excel ExcelGenerator, pdf PDFGenerator) *ExportService {
	return &ExportService{catalog: catalog, carts: carts, excel: excel, pdf: pdf}
}

func (s *ExportService) ExportXLSX(ctx context.Context, owner string) (*ExportResult, error) {
	doc, err := s.document(ctx, owner)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*doc)
	if err != nil {
		return nil, fmt.Errorf("generate xlsx: %w", err)
	}
	return &ExportResult{FileName: buildFileName(*doc, "xlsx"), Content: content}, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, owner string) (*ExportResult, error) {
	doc, err := s.document(ctx, owner)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*doc)
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return &ExportResult{FileName: buildFileName(*doc, "pdf"), Content: content}, nil
}

func (s *ExportService) document(ctx context.Context, owner string) (*model.CartDocument, error) {
	cart, err := s.carts.Cart(ctx, owner)
	if err != nil {
		return nil, err
	}

	doc := &model.CartDocument{
		Owner:       owner,
		GeneratedAt: s.carts.now().UTC(),
		Lines:       make([]model.QuoteLine, 0, len(cart.Lines)),
		Total:       cart.Total,
	}

	seen := make(map[int64]struct{})
	for _, line := range cart.Lines {
		doc.Lines = append(doc.Lines, model.QuoteLine{
			ServiceName:  line.Service.Name,
			CategoryName: line.CategoryName,
			UnitPrice:    line.Service.UnitPrice,
			Quantity:     line.Quantity,
			FinalPrice:   line.FinalPrice,
			Explanations: line.Explanations,
		})

		if _, ok := seen[line.Service.CategoryID]; ok {
			continue
		}
		seen[line.Service.CategoryID] = struct{}{}
		category, err := s.catalog.Category(line.Service.CategoryID)
		if err != nil {
			continue
		}
		doc.Rules = append(doc.Rules, model.CategoryRules{
			CategoryName: category.Name,
			Rules:        pricing.RenderRules(category.PriceRules),
		})
	}
	return doc, nil
}

func buildFileName(doc model.CartDocument, ext string) string {
	owner := sanitizeFileName(doc.Owner)
	if owner == "" {
		owner = "cart"
	}
	return fmt.Sprintf("cart-%s-%s.%s", owner, doc.GeneratedAt.Format("20060102"), ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
