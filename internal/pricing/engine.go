// Package pricing evaluates category price rules against a service price.
// Every function here is pure and safe for concurrent use.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Result struct {
	FinalPrice   decimal.Decimal
	Explanations []string
}

// RenderRules describes each rule on one line, in input order.
func RenderRules(rules []Rule) []string {
	lines := make([]string, 0, len(rules))
	for _, rule := range rules {
		lines = append(lines, renderRule(rule))
	}
	return lines
}

func renderRule(rule Rule) string {
	line := "Rule"
	if rule.Effect != nil {
		line = capitalize(rule.Effect.Tag()) + ": " + rule.Effect.Value().String()
	}
	if rule.Condition != nil && rule.Condition.Tag() == ConditionTagMinimumQuantity {
		line += " (if quantity greater than or equal to " + rule.Condition.Value().String() + ")"
	}
	return line
}

// ComputeFinalPrice applies rules in order, each against the price left by the
// previous one, starting from unitPrice * quantity.
func ComputeFinalPrice(rules []Rule, unitPrice decimal.Decimal, quantity int) Result {
	price := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	explanations := make([]string, 0, len(rules))

	for _, rule := range rules {
		if rule.Condition != nil && !rule.Condition.Holds(quantity) {
			continue
		}
		if rule.Effect == nil {
			continue
		}
		price = rule.Effect.Apply(price)
		explanations = append(explanations, rule.Effect.Explain())
	}

	return Result{FinalPrice: price, Explanations: explanations}
}

func capitalize(tag string) string {
	if tag == "" {
		return tag
	}
	return strings.ToUpper(tag[:1]) + tag[1:]
}
