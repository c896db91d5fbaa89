package model

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/pricing"
)

type Category struct {
	ID         int64
	Name       string
	PriceRules []pricing.Rule
}

type Service struct {
	ID          int64
	Name        string
	Description string
	CategoryID  int64
	UnitPrice   decimal.Decimal
}

// Catalog is loaded once at startup and only read afterwards.
type Catalog struct {
	Categories []Category
	Services   []Service

	categoryIndex map[int64]int
	serviceIndex  map[int64]int
}

func NewCatalog(categories []Category, services []Service) *Catalog {
	c := &Catalog{
		Categories:    categories,
		Services:      services,
		categoryIndex: make(map[int64]int, len(categories)),
		serviceIndex:  make(map[int64]int, len(services)),
	}
	for i, category := range categories {
		c.categoryIndex[category.ID] = i
	}
	for i, service := range services {
		c.serviceIndex[service.ID] = i
	}
	return c
}

func (c *Catalog) Category(id int64) (Category, bool) {
	pos, ok := c.categoryIndex[id]
	if !ok {
		return Category{}, false
	}
	return c.Categories[pos], true
}

func (c *Catalog) Service(id int64) (Service, bool) {
	pos, ok := c.serviceIndex[id]
	if !ok {
		return Service{}, false
	}
	return c.Services[pos], true
}

// ServicesIn returns the services of a category in catalog order.
func (c *Catalog) ServicesIn(categoryID int64) []Service {
	var result []Service
	for _, service := range c.Services {
		if service.CategoryID == categoryID {
			result = append(result, service)
		}
	}
	return result
}

// RulesFor returns the rules of the service's category, or none when the
// category is unknown.
func (c *Catalog) RulesFor(service Service) []pricing.Rule {
	category, ok := c.Category(service.CategoryID)
	if !ok {
		return []pricing.Rule{}
	}
	return category.PriceRules
}
