package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteLine struct {
	ServiceName  string
	CategoryName string
	UnitPrice    decimal.Decimal
	Quantity     int
	FinalPrice   decimal.Decimal
	Explanations []string
}

type CategoryRules struct {
	CategoryName string
	Rules        []string
}

// CartDocument is the input of the XLSX and PDF exports.
type CartDocument struct {
	Owner       string
	GeneratedAt time.Time
	Lines       []QuoteLine
	Total       decimal.Decimal
	Rules       []CategoryRules
}
