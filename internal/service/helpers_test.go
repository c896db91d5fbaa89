package service

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/pricing"
	"github.com/nurpe/service-cart/internal/repository"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func testCatalog() *model.Catalog {
	categories := []model.Category{
		{ID: 1, Name: "Cleaning", PriceRules: []pricing.Rule{pricing.NewDiscount(0.1).WithMinimumQuantity(3)}},
		{ID: 2, Name: "Repairs", PriceRules: []pricing.Rule{pricing.NewDiscount(0.1), pricing.NewFlatFee(15)}},
	}
	services := []model.Service{
		{ID: 1, Name: "Windows", Description: "per window", CategoryID: 1, UnitPrice: decimal.NewFromInt(100)},
		{ID: 2, Name: "Carpets", Description: "per room", CategoryID: 1, UnitPrice: decimal.NewFromInt(40)},
		{ID: 3, Name: "Taps", Description: "per tap", CategoryID: 2, UnitPrice: decimal.NewFromInt(100)},
		{ID: 4, Name: "Stray", Description: "unknown category", CategoryID: 9, UnitPrice: decimal.NewFromInt(10)},
	}
	return model.NewCatalog(categories, services)
}

func newTestCartService() (*CartService, *repository.MemorySessionRepository) {
	store := repository.NewMemorySessionRepository()
	carts := NewCartService(NewCatalogService(testCatalog()), store, zerolog.Nop())
	carts.now = func() time.Time { return fixedNow }
	return carts, store
}
