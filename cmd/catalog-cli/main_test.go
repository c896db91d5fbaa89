package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	// embedded catalog: Window cleaning costs 12, 10% off from 5 windows
	out, err := run(t, "quote", "1", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "base price:  60")
	assert.Contains(t, out, "Discount of 10% applied.")
	assert.Contains(t, out, "final price: 54")
}

func TestQuoteCommand_Errors(t *testing.T) {
	_, err := run(t, "quote", "x", "1")
	assert.Error(t, err)

	_, err = run(t, "quote", "999", "1")
	assert.Error(t, err)

	_, err = run(t, "quote", "1")
	assert.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	out, err := run(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Gardening")
	assert.Contains(t, out, "  - AdditionalFlatFee: 15")
	assert.Contains(t, out, "  - Discount: 0.05 (if quantity greater than or equal to 3)")
}
