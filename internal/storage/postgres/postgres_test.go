package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/checkout"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// testPool connects to the database named by CART_TEST_DATABASE_URL and
// runs migrations. Tests are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("CART_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CART_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testPool(t))

	id := "test-" + uuid.New().String()
	p := catalog.Product{
		ID:       id,
		Name:     "Test Set",
		Price:    decimal.RequireFromString("49.99"),
		Category: "test",
		Image:    "/images/test.jpg",
		Pieces:   100,
	}
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.Pieces, got.Pieces)

	// Upsert replaces.
	p.Price = decimal.RequireFromString("59.99")
	require.NoError(t, repo.Upsert(ctx, p))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(got.Price))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	_, err = repo.GetByID(ctx, "missing-"+uuid.New().String())
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCouponRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository(testPool(t))

	code := "TEST" + uuid.New().String()[:8]
	rule := coupon.Rule{
		Code:             code,
		Kind:             coupon.KindPercentage,
		Value:            decimal.NewFromInt(10),
		Description:      "test coupon",
		MinOrderSubtotal: decimal.NewFromInt(25),
		MaxDiscount:      decimal.NewFromInt(30),
	}
	require.NoError(t, repo.Upsert(ctx, rule))

	// Lookup is case-insensitive.
	got, err := repo.FindByCode(ctx, code)
	require.NoError(t, err)
	assert.True(t, rule.Value.Equal(got.Value))
	assert.True(t, rule.MinOrderSubtotal.Equal(got.MinOrderSubtotal))

	require.NoError(t, repo.IncrementUses(ctx, code))
	got, err = repo.FindByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Uses)

	_, err = repo.FindByCode(ctx, "MISSING"+uuid.New().String()[:8])
	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)
}

func TestCartStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartStateRepository(testPool(t))

	sessionID := uuid.New().String()
	state := cart.State{
		Items: []cart.LineItem{
			{
				ProductID: "set-75192",
				Name:      "Millennium Falcon",
				UnitPrice: decimal.RequireFromString("849.99"),
				Quantity:  1,
				Variant:   cart.Variant{"edition": "ucs"},
			},
		},
		ShippingMethod: shipping.Express,
	}

	require.NoError(t, repo.Save(ctx, sessionID, state))

	got, err := repo.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, state.Items[0].UnitPrice.Equal(got.Items[0].UnitPrice))
	assert.Equal(t, shipping.Express, got.ShippingMethod)

	// Save upserts.
	state.Items[0].Quantity = 2
	require.NoError(t, repo.Save(ctx, sessionID, state))
	got, err = repo.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)

	// Missing session means an empty cart, not an error.
	got, err = repo.Load(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	require.NoError(t, repo.Delete(ctx, sessionID))
	got, err = repo.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	repo := NewCartStateRepository(testPool(t))

	store := repo.ForSession(uuid.New().String())
	state := cart.State{
		Items:          []cart.LineItem{{ProductID: "p1", UnitPrice: decimal.NewFromInt(10), Quantity: 3}},
		ShippingMethod: shipping.Standard,
	}

	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testPool(t))

	o := &checkout.Order{
		ID: uuid.New().String(),
		Items: []checkout.Item{
			{ProductID: "set-10497", Name: "Galaxy Explorer", UnitPrice: decimal.RequireFromString("99.99"), Quantity: 2},
		},
		Subtotal:       decimal.RequireFromString("199.98"),
		Discount:       decimal.Zero,
		Tax:            decimal.RequireFromString("16.00"),
		Shipping:       decimal.Zero,
		Total:          decimal.RequireFromString("215.98"),
		ShippingMethod: shipping.Standard,
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, repo.Create(ctx, o))

	// Duplicate IDs violate the primary key.
	assert.Error(t, repo.Create(ctx, o))
}
