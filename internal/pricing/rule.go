package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Wire tags used by the catalog datasets.
const (
	ConditionTagMinimumQuantity = "minimumQuantity"
	EffectTagDiscount           = "discount"
	EffectTagAdditionalFlatFee  = "additionalFlatFee"
)

var (
	ErrUnknownCondition = errors.New("unknown rule condition")
	ErrUnknownEffect    = errors.New("unknown rule effect")
)

// Condition decides whether a rule applies to a quantity.
// A nil Condition always applies.
type Condition interface {
	Holds(quantity int) bool
	Tag() string
	Value() decimal.Decimal
}

// Effect transforms the running price.
type Effect interface {
	Apply(price decimal.Decimal) decimal.Decimal
	Explain() string
	Tag() string
	Value() decimal.Decimal
}

type Rule struct {
	Condition Condition
	Effect    Effect
}

// MinimumQuantity holds from Threshold units on. Thresholds need not be
// whole numbers: 2.5 is first met by a quantity of 3.
type MinimumQuantity struct {
	Threshold decimal.Decimal
}

func (c MinimumQuantity) Holds(quantity int) bool {
	return decimal.NewFromInt(int64(quantity)).GreaterThanOrEqual(c.Threshold)
}

func (c MinimumQuantity) Tag() string            { return ConditionTagMinimumQuantity }
func (c MinimumQuantity) Value() decimal.Decimal { return c.Threshold }

// Discount subtracts Rate (0..1) of the running price.
type Discount struct {
	Rate decimal.Decimal
}

func (e Discount) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(e.Rate))
}

func (e Discount) Explain() string {
	return fmt.Sprintf("Discount of %s%% applied.", e.Rate.Mul(decimal.NewFromInt(100)).String())
}

func (e Discount) Tag() string            { return EffectTagDiscount }
func (e Discount) Value() decimal.Decimal { return e.Rate }

// FlatFee adds a fixed Amount to the running price.
type FlatFee struct {
	Amount decimal.Decimal
}

func (e FlatFee) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Add(e.Amount)
}

func (e FlatFee) Explain() string {
	return fmt.Sprintf("Additional fee of %s applied.", e.Amount.String())
}

func (e FlatFee) Tag() string            { return EffectTagAdditionalFlatFee }
func (e FlatFee) Value() decimal.Decimal { return e.Amount }

func NewDiscount(rate float64) Rule {
	return Rule{Effect: Discount{Rate: decimal.NewFromFloat(rate)}}
}

func NewFlatFee(amount float64) Rule {
	return Rule{Effect: FlatFee{Amount: decimal.NewFromFloat(amount)}}
}

// WithMinimumQuantity returns a copy of r that only applies from threshold units on.
func (r Rule) WithMinimumQuantity(threshold int) Rule {
	r.Condition = MinimumQuantity{Threshold: decimal.NewFromInt(int64(threshold))}
	return r
}

// ParseRule maps the tag/value representation of the datasets onto a Rule.
// An empty condition tag means the rule always applies.
func ParseRule(conditionTag string, conditionValue decimal.Decimal, effectTag string, effectValue decimal.Decimal) (Rule, error) {
	var rule Rule

	switch conditionTag {
	case "":
	case ConditionTagMinimumQuantity:
		rule.Condition = MinimumQuantity{Threshold: conditionValue}
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownCondition, conditionTag)
	}

	switch effectTag {
	case EffectTagDiscount:
		rule.Effect = Discount{Rate: effectValue}
	case EffectTagAdditionalFlatFee:
		rule.Effect = FlatFee{Amount: effectValue}
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownEffect, effectTag)
	}

	return rule, nil
}
