package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/service-cart/internal/model"
	"github.com/nurpe/service-cart/internal/pricing"
)

const (
	categoriesFile = "categories.json"
	servicesFile   = "services.json"
	priceRulesFile = "pricerules.json"
)

//go:embed data/*.json
var defaultData embed.FS

type categoriesDoc struct {
	Categories []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

type servicesDoc struct {
	Services []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		CategoryID  int64  `json:"categoryId"`
	} `json:"services"`
}

// priceRuleRecord is either a unit price for a service or a rule for a category.
type priceRuleRecord struct {
	ServiceID         int64            `json:"serviceId"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	CategoryID        int64            `json:"categoryId"`
	MinimumQuantity   *decimal.Decimal `json:"minimumQuantity"`
	Discount          *decimal.Decimal `json:"discount"`
	AdditionalFlatFee *decimal.Decimal `json:"additionalFlatFee"`
}

type priceRulesDoc struct {
	PriceRules []priceRuleRecord `json:"priceRules"`
}

type Loader struct {
	log zerolog.Logger
}

func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadDir reads the datasets from dir, or the embedded catalog when dir is empty.
func (l *Loader) LoadDir(dir string) (*model.Catalog, error) {
	if dir == "" {
		return l.LoadDefault()
	}
	return l.Load(os.DirFS(dir))
}

func (l *Loader) LoadDefault() (*model.Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, err
	}
	return l.Load(sub)
}

func (l *Loader) Load(fsys fs.FS) (*model.Catalog, error) {
	var cats categoriesDoc
	if err := readJSON(fsys, categoriesFile, &cats); err != nil {
		return nil, err
	}
	var svcs servicesDoc
	if err := readJSON(fsys, servicesFile, &svcs); err != nil {
		return nil, err
	}
	var rules priceRulesDoc
	if err := readJSON(fsys, priceRulesFile, &rules); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(cats.Categories))
	categoryIndex := make(map[int64]int, len(cats.Categories))
	for _, c := range cats.Categories {
		categories = append(categories, model.Category{
			ID:         c.ID,
			Name:       c.Name,
			PriceRules: []pricing.Rule{},
		})
		categoryIndex[c.ID] = len(categories) - 1
	}

	services := make([]model.Service, 0, len(svcs.Services))
	serviceIndex := make(map[int64]int, len(svcs.Services))
	for _, s := range svcs.Services {
		services = append(services, model.Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			CategoryID:  s.CategoryID,
			UnitPrice:   decimal.Zero,
		})
		serviceIndex[s.ID] = len(services) - 1
	}

	for i, record := range rules.PriceRules {
		switch {
		case record.ServiceID != 0:
			pos, ok := serviceIndex[record.ServiceID]
			if !ok {
				l.log.Warn().Int("record", i).Int64("service_id", record.ServiceID).Msg("unit price for unknown service skipped")
				continue
			}
			services[pos].UnitPrice = record.UnitPrice

		case record.CategoryID != 0:
			pos, ok := categoryIndex[record.CategoryID]
			if !ok {
				l.log.Warn().Int("record", i).Int64("category_id", record.CategoryID).Msg("price rule for unknown category skipped")
				continue
			}
			rule, err := parseRecord(record)
			if err != nil {
				l.log.Warn().Err(err).Int("record", i).Int64("category_id", record.CategoryID).Msg("malformed price rule skipped")
				continue
			}
			categories[pos].PriceRules = append(categories[pos].PriceRules, rule)

		default:
			l.log.Warn().Int("record", i).Msg("price rule record without service or category skipped")
		}
	}

	l.log.Debug().
		Int("categories", len(categories)).
		Int("services", len(services)).
		Msg("catalog loaded")

	return model.NewCatalog(categories, services), nil
}

// parseRecord treats zero values like absent fields.
func parseRecord(record priceRuleRecord) (pricing.Rule, error) {
	conditionTag := ""
	conditionValue := decimal.Zero
	if present(record.MinimumQuantity) {
		conditionTag = pricing.ConditionTagMinimumQuantity
		conditionValue = *record.MinimumQuantity
	}

	effectTag := ""
	effectValue := decimal.Zero
	switch {
	case present(record.Discount):
		effectTag = pricing.EffectTagDiscount
		effectValue = *record.Discount
	case present(record.AdditionalFlatFee):
		effectTag = pricing.EffectTagAdditionalFlatFee
		effectValue = *record.AdditionalFlatFee
	}

	return pricing.ParseRule(conditionTag, conditionValue, effectTag, effectValue)
}

func present(value *decimal.Decimal) bool {
	return value != nil && !value.IsZero()
}

func readJSON(fsys fs.FS, name string, dst any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
