package http

import (
	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/service"
)

type serviceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type serviceDetailResponse struct {
	serviceResponse
	Rules []string `json:"rules"`
}

type categoryResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Rules    []string          `json:"rules"`
	Services []serviceResponse `json:"services"`
}

type quoteResponse struct {
	Service      serviceResponse `json:"service"`
	CategoryName string          `json:"category_name"`
	Quantity     int             `json:"quantity"`
	BasePrice    float64         `json:"base_price"`
	FinalPrice   float64         `json:"final_price"`
	Explanations []string        `json:"explanations"`
}

type pricedResponse struct {
	Items []quoteResponse `json:"items"`
	Total float64         `json:"total"`
}

func toServiceResponse(svc model.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		CategoryID:  svc.CategoryID,
		UnitPrice:   svc.UnitPrice.InexactFloat64(),
	}
}

func toCategoryResponses(views []service.CategoryView) []categoryResponse {
	result := make([]categoryResponse, 0, len(views))
	for _, view := range views {
		services := make([]serviceResponse, 0, len(view.Services))
		for _, svc := range view.Services {
			services = append(services, toServiceResponse(svc))
		}
		result = append(result, categoryResponse{
			ID:       view.Category.ID,
			Name:     view.Category.Name,
			Rules:    view.RulesText,
			Services: services,
		})
	}
	return result
}

func toQuoteResponse(quote service.Quote) quoteResponse {
	return quoteResponse{
		Service:      toServiceResponse(quote.Service),
		CategoryName: quote.CategoryName,
		Quantity:     quote.Quantity,
		BasePrice:    quote.BasePrice.InexactFloat64(),
		FinalPrice:   quote.FinalPrice.InexactFloat64(),
		Explanations: quote.Explanations,
	}
}

func toPricedResponse(items *service.PricedItems) pricedResponse {
	result := pricedResponse{
		Items: make([]quoteResponse, 0, len(items.Lines)),
		Total: items.Total.InexactFloat64(),
	}
	for _, line := range items.Lines {
		result.Items = append(result.Items, toQuoteResponse(line))
	}
	return result
}
