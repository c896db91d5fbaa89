package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/pricing"
)

type CatalogService struct {
	catalog *model.Catalog
}

type CategoryView struct {
	Category  model.Category
	RulesText []string
	Services  []model.Service
}

// Quote is the priced result for one service and quantity.
type Quote struct {
	Service      model.Service
	CategoryName string
	Quantity     int
	BasePrice    decimal.Decimal
	FinalPrice   decimal.Decimal
	Explanations []string
}

func NewCatalogService(catalog *model.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListCategories() []CategoryView {
	views := make([]CategoryView, 0, len(s.catalog.Categories))
	for _, category := range s.catalog.Categories {
		views = append(views, CategoryView{
			Category:  category,
			RulesText: pricing.RenderRules(category.PriceRules),
			Services:  s.catalog.ServicesIn(category.ID),
		})
	}
	return views
}

func (s *CatalogService) Category(id int64) (model.Category, error) {
	category, ok := s.catalog.Category(id)
	if !ok {
		return model.Category{}, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return category, nil
}

func (s *CatalogService) GetService(id int64) (model.Service, error) {
	service, ok := s.catalog.Service(id)
	if !ok {
		return model.Service{}, fmt.Errorf("%w: service %d", ErrNotFound, id)
	}
	return service, nil
}

func (s *CatalogService) ApplicableRules(serviceID int64) ([]pricing.Rule, error) {
	service, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	return s.catalog.RulesFor(service), nil
}

func (s *CatalogService) RulesText(serviceID int64) ([]string, error) {
	rules, err := s.ApplicableRules(serviceID)
	if err != nil {
		return nil, err
	}
	return pricing.RenderRules(rules), nil
}

func (s *CatalogService) Quote(serviceID int64, quantity int) (*Quote, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	service, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	quote := s.price(service, quantity)
	return &quote, nil
}

func (s *CatalogService) price(service model.Service, quantity int) Quote {
	result := pricing.ComputeFinalPrice(s.catalog.RulesFor(service), service.UnitPrice, quantity)

	categoryName := ""
	if category, ok := s.catalog.Category(service.CategoryID); ok {
		categoryName = category.Name
	}

	return Quote{
		Service:      service,
		CategoryName: categoryName,
		Quantity:     quantity,
		BasePrice:    service.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		FinalPrice:   result.FinalPrice,
		Explanations: result.Explanations,
	}
}
