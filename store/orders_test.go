package store

import (
	"context"
	"testing"

	"basket-backend/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newOrderStore(mt *mtest.T) *OrderStore {
	return NewOrderStore(mt.Client.Database("Orders"), NewTenantSelector(mt.Client))
}

func TestOrderStore_PlaceOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("snapshots cart then clears it", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testTenant+".cart", mtest.FirstBatch,
				bson.D{{Key: "productId", Value: "p1"}, {Key: "name", Value: "Apple"}, {Key: "price", Value: 10.5}, {Key: "quantity", Value: 2}},
				bson.D{{Key: "productId", Value: "p2"}, {Key: "name", Value: "Milk"}, {Key: "price", Value: 3.25}, {Key: "quantity", Value: 1}},
			),
			mtest.CreateCursorResponse(0, testTenant+".profile", mtest.FirstBatch,
				bson.D{{Key: "userId", Value: testTenant}, {Key: "username", Value: "Ravi"}, {Key: "phone", Value: "9876543210"}},
			),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		order, created, err := newOrderStore(mt).PlaceOrder(context.Background(), testTenant, "", "")
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Len(mt, order.Items, 2)
		assert.Equal(mt, 24.25, order.TotalAmount)
		assert.Equal(mt, "Not specified", order.PaymentMethod)
		assert.Equal(mt, "Ravi", order.User.Username)
		assert.False(mt, order.ID.IsZero())

		find := mt.GetStartedEvent()
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, testTenant, find.DatabaseName)
		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)

		insert := mt.GetStartedEvent()
		require.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, "Orders", insert.DatabaseName)
		assert.Equal(mt, "neworders", insert.Command.Lookup("insert").StringValue())
		_, err = insert.Command.LookupErr("documents", "0", "idempotencyKey")
		assert.Error(mt, err)

		del := mt.GetStartedEvent()
		require.Equal(mt, "delete", del.CommandName)
		assert.Equal(mt, testTenant, del.DatabaseName)
	})

	mt.Run("empty cart is rejected", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testTenant+".cart", mtest.FirstBatch))

		_, created, err := newOrderStore(mt).PlaceOrder(context.Background(), testTenant, "COD", "")
		assert.ErrorIs(mt, err, errs.ErrCartEmpty)
		assert.False(mt, created)

		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("retry with same key returns stored order and clears cart", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "Orders.neworders", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: id}, {Key: "userDbName", Value: testTenant}, {Key: "idempotencyKey", Value: "k-1"}, {Key: "totalAmount", Value: 24.25}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		order, created, err := newOrderStore(mt).PlaceOrder(context.Background(), testTenant, "COD", "k-1")
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, id, order.ID)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "k-1", evt.Command.Lookup("filter", "idempotencyKey").StringValue())

		del := mt.GetStartedEvent()
		require.NotNil(mt, del)
		assert.Equal(mt, "delete", del.CommandName)
		assert.Equal(mt, testTenant, del.DatabaseName)
		assert.Equal(mt, "cart", del.Command.Lookup("delete").StringValue())
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("retry after failed cart clear empties the cart", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "Orders.neworders", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, testTenant+".cart", mtest.FirstBatch,
				bson.D{{Key: "productId", Value: "p1"}, {Key: "price", Value: 5.0}, {Key: "quantity", Value: 1}},
			),
			mtest.CreateCursorResponse(0, testTenant+".profile", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "cart unavailable"}),
		)

		store := newOrderStore(mt)
		_, created, err := store.PlaceOrder(context.Background(), testTenant, "", "k")
		require.Error(mt, err)
		assert.True(mt, created, "order is stored even though the cart was not cleared")

		mt.ClearEvents()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "Orders.neworders", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: id}, {Key: "userDbName", Value: testTenant}, {Key: "idempotencyKey", Value: "k"}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		order, created, err := store.PlaceOrder(context.Background(), testTenant, "", "k")
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, id, order.ID)

		find := mt.GetStartedEvent()
		require.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, "Orders", find.DatabaseName)

		del := mt.GetStartedEvent()
		require.NotNil(mt, del)
		assert.Equal(mt, "delete", del.CommandName)
		assert.Equal(mt, testTenant, del.DatabaseName)
	})

	mt.Run("first use of a key stores it", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "Orders.neworders", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, testTenant+".cart", mtest.FirstBatch,
				bson.D{{Key: "productId", Value: "p1"}, {Key: "price", Value: 5.0}, {Key: "quantity", Value: 1}},
			),
			mtest.CreateCursorResponse(0, testTenant+".profile", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		order, created, err := newOrderStore(mt).PlaceOrder(context.Background(), testTenant, "UPI", "k-2")
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, "k-2", order.IdempotencyKey)
		assert.Equal(mt, "UPI", order.PaymentMethod)
		assert.Equal(mt, "User", order.User.Username, "buyer without a profile")
		assert.Empty(mt, order.User.Phone)

		mt.GetStartedEvent()
		mt.GetStartedEvent()
		mt.GetStartedEvent()
		insert := mt.GetStartedEvent()
		require.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, "k-2", insert.Command.Lookup("documents", "0", "idempotencyKey").StringValue())
	})

	mt.Run("missing tenant", func(mt *mtest.T) {
		_, _, err := newOrderStore(mt).PlaceOrder(context.Background(), "", "COD", "")
		assert.ErrorIs(mt, err, errs.ErrMissingTenant)
	})
}
