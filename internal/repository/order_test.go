package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createOrder(t *testing.T, db *gorm.DB, userID string, method model.PaymentMethod, paid bool, createdAt time.Time) *model.Order {
	t.Helper()
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        499,
		Address:       model.JSONMap{"city": "Pune"},
		Status:        model.StatusProcessing,
		PaymentMethod: method,
		Paid:          paid,
		CreatedAt:     createdAt,
	}
	items := []*model.OrderItem{{OrderID: order.ID, ProductID: "p1", Name: "Tee", Price: 499, Size: "M", Quantity: 1, Images: model.StringList{"a.png"}}}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := repo.Create(ctx, tx, order); err != nil {
			return err
		}
		return repo.CreateOrderItems(ctx, tx, items)
	}))
	return order
}

func ids(orders []*model.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestOrderVisibility(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cod := createOrder(t, db, alice.ID, model.PaymentCOD, false, base)
	unpaid := createOrder(t, db, alice.ID, model.PaymentGateway, false, base.Add(time.Minute))
	paid := createOrder(t, db, bob.ID, model.PaymentGateway, true, base.Add(2*time.Minute))

	all, err := repo.FindVisible(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{paid.ID, cod.ID}, ids(all))
	require.NotNil(t, all[0].User)
	assert.Equal(t, "bob", all[0].User.Name)
	assert.Equal(t, "bob@example.com", all[0].User.Email)
	require.Len(t, all[1].Items, 1)
	assert.Equal(t, model.StringList{"a.png"}, all[1].Items[0].Images)

	mine, err := repo.FindVisibleByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cod.ID}, ids(mine))
	assert.NotContains(t, ids(mine), unpaid.ID)
}

func TestOrderMarkPaid(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	order := createOrder(t, db, alice.ID, model.PaymentGateway, false, time.Now())
	require.NoError(t, repo.SetGatewayOrderID(ctx, db, order.ID, "order_gw_1"))

	// someone else's order is not found
	_, _, err := repo.MarkPaid(ctx, db, bob.ID, "order_gw_1", "pay_1")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	paid, already, err := repo.MarkPaid(ctx, db, alice.ID, "order_gw_1", "pay_1")
	require.NoError(t, err)
	assert.False(t, already)
	assert.True(t, paid.Paid)
	assert.Equal(t, model.StatusProcessing, paid.Status)
	require.NotNil(t, paid.GatewayPaymentID)
	assert.Equal(t, "pay_1", *paid.GatewayPaymentID)

	again, already, err := repo.MarkPaid(ctx, db, alice.ID, "order_gw_1", "pay_2")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, "pay_1", *again.GatewayPaymentID)
}

func TestOrderMarkPaidIgnoresCashOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	order := createOrder(t, db, alice.ID, model.PaymentCOD, false, time.Now())
	require.NoError(t, repo.SetGatewayOrderID(ctx, db, order.ID, "order_gw_cod"))

	_, _, err := repo.MarkPaid(ctx, db, alice.ID, "order_gw_cod", "pay_1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	order := createOrder(t, db, alice.ID, model.PaymentCOD, false, time.Now())

	updated, err := repo.UpdateStatus(ctx, db, order.ID, model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)

	// same status again is not an error
	_, err = repo.UpdateStatus(ctx, db, order.ID, model.StatusShipped)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, db, uuid.NewString(), model.StatusShipped)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetGatewayOrderIDUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	err := repo.SetGatewayOrderID(context.Background(), db, uuid.NewString(), "order_gw")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
