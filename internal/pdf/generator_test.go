package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/service-cart/internal/model"
)

func TestGenerator_Generate(t *testing.T) {
	doc := model.CartDocument{
		Owner:       "anon:5d1c",
		GeneratedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []model.QuoteLine{
			{ServiceName: "Windows", CategoryName: "Cleaning", UnitPrice: decimal.NewFromInt(12), Quantity: 2, FinalPrice: decimal.NewFromInt(24)},
			{ServiceName: "Taps", CategoryName: "Repairs", UnitPrice: decimal.NewFromInt(60), Quantity: 1, FinalPrice: decimal.NewFromInt(80), Explanations: []string{"Additional fee of 20 applied."}},
		},
		Total: decimal.NewFromInt(104),
	}

	content, err := NewGenerator().Generate(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestExplanationNotes(t *testing.T) {
	notes := explanationNotes([]model.QuoteLine{
		{ServiceName: "Windows"},
		{ServiceName: "Taps", Explanations: []string{"Discount of 10% applied.", "Additional fee of 15 applied."}},
	})
	assert.Equal(t, []string{"Taps: Discount of 10% applied. Additional fee of 15 applied."}, notes)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", formatDate(time.Time{}))
	assert.Equal(t, "15.03.2024", formatDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
}
