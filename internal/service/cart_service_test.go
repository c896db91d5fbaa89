package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/service-cart/internal/model"
)

const owner = "user:alice"

func TestCartService_AddMergesQuantities(t *testing.T) {
	ctx := context.Background()
	carts, store := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, 2)
	require.NoError(t, err)
	cart, err := carts.AddToCart(ctx, owner, 1, 1)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, "270", cart.Total.String())

	session, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ServiceID: 1, Quantity: 3}}, session.Cart)
	assert.True(t, fixedNow.Equal(session.UpdatedAt))
}

func TestCartService_AddValidation(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = carts.AddToCart(ctx, owner, 42, 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = carts.AddToCart(ctx, "", 1, 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCartService_AddRejectsQuantityOverflow(t *testing.T) {
	ctx := context.Background()
	carts, store := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, math.MaxInt)
	require.NoError(t, err)

	_, err = carts.AddToCart(ctx, owner, 1, 2)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	require.NoError(t, carts.SetSelection(ctx, owner, 1, 1))
	_, err = carts.AddSelectionsToCart(ctx, owner)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	session, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ServiceID: 1, Quantity: math.MaxInt}}, session.Cart)
	assert.Equal(t, map[int64]int{1: 1}, session.Selections, "rejected merge keeps the selections")
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, owner, 3, 1)
	require.NoError(t, err)

	cart, err := carts.UpdateQuantity(ctx, owner, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	cart, err = carts.UpdateQuantity(ctx, owner, 2, 4)
	require.NoError(t, err, "update of an item not in the cart is a no-op")
	assert.Len(t, cart.Lines, 2)

	_, err = carts.UpdateQuantity(ctx, owner, 1, -1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	cart, err = carts.RemoveFromCart(ctx, owner, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(3), cart.Lines[0].Service.ID)
	assert.Equal(t, "105", cart.Total.String())
}

func TestCartService_SelectionsFlow(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	require.NoError(t, carts.SetSelection(ctx, owner, 2, 3))
	require.NoError(t, carts.SetSelection(ctx, owner, 1, 1))
	require.NoError(t, carts.SetSelection(ctx, owner, 3, 0))

	selected, err := carts.Selections(ctx, owner)
	require.NoError(t, err)
	require.Len(t, selected.Lines, 2)
	assert.Equal(t, int64(1), selected.Lines[0].Service.ID)
	// 100 + (120 - 12)
	assert.Equal(t, "208", selected.Total.String())

	cart, err := carts.AddSelectionsToCart(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)

	selected, err = carts.Selections(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, selected.Lines)
	assert.True(t, selected.Total.IsZero())

	assert.True(t, errors.Is(carts.SetSelection(ctx, owner, 1, -2), ErrInvalidInput))
	assert.True(t, errors.Is(carts.SetSelection(ctx, owner, 77, 1), ErrNotFound))
}

func TestCartService_ResetSelections(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	require.NoError(t, carts.SetSelection(ctx, owner, 1, 2))
	require.NoError(t, carts.ResetSelections(ctx, owner))

	selected, err := carts.Selections(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, selected.Lines)
}

func TestCartService_CheckoutClearsCart(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	_, err := carts.Checkout(ctx, owner)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = carts.AddToCart(ctx, owner, 3, 1)
	require.NoError(t, err)

	receipt, err := carts.Checkout(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "105", receipt.Total.String())

	cart, err := carts.Cart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartService_ClearCart(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, 1)
	require.NoError(t, err)
	require.NoError(t, carts.ClearCart(ctx, owner))

	cart, err := carts.Cart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartService_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	_, err := carts.AddToCart(ctx, owner, 1, 1)
	require.NoError(t, err)

	other, err := carts.Cart(ctx, "anon:bob")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	carts, _ := newTestCartService()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := carts.AddToCart(ctx, owner, 2, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := carts.Cart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 20, cart.Lines[0].Quantity)
}
