package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFinalPrice(t *testing.T) {
	unitPrice := decimal.NewFromInt(100)

	tests := []struct {
		name         string
		rules        []Rule
		quantity     int
		wantPrice    string
		explanations []string
	}{
		{
			name:         "no rules",
			quantity:     2,
			wantPrice:    "200",
			explanations: []string{},
		},
		{
			name:         "discount",
			rules:        []Rule{NewDiscount(0.1)},
			quantity:     1,
			wantPrice:    "90",
			explanations: []string{"Discount of 10% applied."},
		},
		{
			name:         "flat fee",
			rules:        []Rule{NewFlatFee(20)},
			quantity:     1,
			wantPrice:    "120",
			explanations: []string{"Additional fee of 20 applied."},
		},
		{
			name:         "discount then fee",
			rules:        []Rule{NewDiscount(0.1), NewFlatFee(15)},
			quantity:     1,
			wantPrice:    "105",
			explanations: []string{"Discount of 10% applied.", "Additional fee of 15 applied."},
		},
		{
			name:         "fee then discount uses the running price",
			rules:        []Rule{NewFlatFee(20), NewDiscount(0.5)},
			quantity:     1,
			wantPrice:    "60",
			explanations: []string{"Additional fee of 20 applied.", "Discount of 50% applied."},
		},
		{
			name:         "minimum quantity not reached",
			rules:        []Rule{NewDiscount(0.2).WithMinimumQuantity(3)},
			quantity:     2,
			wantPrice:    "200",
			explanations: []string{},
		},
		{
			name:         "minimum quantity reached",
			rules:        []Rule{NewDiscount(0.2).WithMinimumQuantity(3)},
			quantity:     3,
			wantPrice:    "240",
			explanations: []string{"Discount of 20% applied."},
		},
		{
			name: "fractional threshold not reached",
			rules: []Rule{{
				Condition: MinimumQuantity{Threshold: decimal.RequireFromString("2.5")},
				Effect:    Discount{Rate: decimal.RequireFromString("0.5")},
			}},
			quantity:     2,
			wantPrice:    "200",
			explanations: []string{},
		},
		{
			name: "fractional threshold reached",
			rules: []Rule{{
				Condition: MinimumQuantity{Threshold: decimal.RequireFromString("2.5")},
				Effect:    Discount{Rate: decimal.RequireFromString("0.5")},
			}},
			quantity:     3,
			wantPrice:    "150",
			explanations: []string{"Discount of 50% applied."},
		},
		{
			name:         "full discount",
			rules:        []Rule{NewDiscount(1)},
			quantity:     4,
			wantPrice:    "0",
			explanations: []string{"Discount of 100% applied."},
		},
		{
			name:         "rule without effect is skipped",
			rules:        []Rule{{}, NewFlatFee(5)},
			quantity:     1,
			wantPrice:    "105",
			explanations: []string{"Additional fee of 5 applied."},
		},
		{
			name:         "zero quantity",
			rules:        []Rule{NewFlatFee(7.5)},
			quantity:     0,
			wantPrice:    "7.5",
			explanations: []string{"Additional fee of 7.5 applied."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFinalPrice(tt.rules, unitPrice, tt.quantity)
			assert.Equal(t, tt.wantPrice, got.FinalPrice.String())
			assert.Equal(t, tt.explanations, got.Explanations)
		})
	}
}

func TestComputeFinalPrice_SequentialChaining(t *testing.T) {
	rules := []Rule{NewDiscount(0.1), NewDiscount(0.1)}

	got := ComputeFinalPrice(rules, decimal.NewFromInt(100), 1)

	// second discount is taken from 90, not from 100
	assert.Equal(t, "81", got.FinalPrice.String())
	assert.Len(t, got.Explanations, 2)
}

func TestRenderRules(t *testing.T) {
	rules := []Rule{
		NewDiscount(0.1),
		NewFlatFee(15),
		NewDiscount(0.2).WithMinimumQuantity(3),
		{Condition: MinimumQuantity{Threshold: decimal.NewFromInt(2)}},
	}

	got := RenderRules(rules)

	assert.Equal(t, []string{
		"Discount: 0.1",
		"AdditionalFlatFee: 15",
		"Discount: 0.2 (if quantity greater than or equal to 3)",
		"Rule (if quantity greater than or equal to 2)",
	}, got)
}

func TestRenderRules_Empty(t *testing.T) {
	assert.Empty(t, RenderRules(nil))
}

func TestParseRule(t *testing.T) {
	rule, err := ParseRule(ConditionTagMinimumQuantity, decimal.NewFromInt(5), EffectTagAdditionalFlatFee, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.IsType(t, MinimumQuantity{}, rule.Condition)
	assert.Equal(t, "5", rule.Condition.Value().String())
	assert.Equal(t, "30", rule.Effect.Value().String())

	rule, err = ParseRule("", decimal.Zero, EffectTagDiscount, decimal.RequireFromString("0.25"))
	require.NoError(t, err)
	assert.Nil(t, rule.Condition)
	assert.Equal(t, EffectTagDiscount, rule.Effect.Tag())

	rule, err = ParseRule(ConditionTagMinimumQuantity, decimal.RequireFromString("2.5"), EffectTagDiscount, decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "2.5", rule.Condition.Value().String())
	assert.Equal(t, []string{"Discount: 0.5 (if quantity greater than or equal to 2.5)"}, RenderRules([]Rule{rule}))

	_, err = ParseRule("maximumQuantity", decimal.NewFromInt(1), EffectTagDiscount, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, ErrUnknownCondition))

	_, err = ParseRule("", decimal.Zero, "surcharge", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, ErrUnknownEffect))
}
