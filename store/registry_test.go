package store

import (
	"context"
	"sync"
	"testing"

	"basket-backend/models"
	"basket-backend/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestProductRegistry_Bind(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("same id returns same handle", func(mt *mtest.T) {
		r := NewProductRegistry(mt.DB)

		first := r.Bind("fruits")
		assert.Same(mt, first, r.Bind("fruits"))
		assert.Equal(mt, "fruits", first.Name())
	})

	mt.Run("distinct ids return distinct handles", func(mt *mtest.T) {
		r := NewProductRegistry(mt.DB)

		assert.NotSame(mt, r.Bind("fruits"), r.Bind("vegetables"))
	})

	mt.Run("concurrent first bind shares one handle", func(mt *mtest.T) {
		r := NewProductRegistry(mt.DB)

		const workers = 64
		handles := make([]*ProductCollection, workers)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				handles[i] = r.Bind("dairy")
			}(i)
		}
		close(start)
		wg.Wait()

		for _, h := range handles {
			assert.Same(mt, handles[0], h)
		}
	})

	mt.Run("bind sends no command", func(mt *mtest.T) {
		r := NewProductRegistry(mt.DB)
		r.Bind("snacks")

		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestProductRegistry_Exists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "fruits"}, {Key: "type", Value: "collection"}},
		))

		exists, err := NewProductRegistry(mt.DB).Exists(context.Background(), "fruits")
		require.NoError(mt, err)
		assert.True(mt, exists)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "listCollections", evt.CommandName)
		assert.Equal(mt, "fruits", evt.Command.Lookup("filter", "name").StringValue())
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("missing collection is not created", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.$cmd.listCollections", mtest.FirstBatch))

		exists, err := NewProductRegistry(mt.DB).Exists(context.Background(), "ghost")
		require.NoError(mt, err)
		assert.False(mt, exists)

		assert.Equal(mt, "listCollections", mt.GetStartedEvent().CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestProductRegistry_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, NewProductRegistry(mt.DB).Create(context.Background(), "fruits"))

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "create", evt.CommandName)
		assert.Equal(mt, "fruits", evt.Command.Lookup("create").StringValue())
	})

	mt.Run("existing namespace is fine", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    48,
			Name:    "NamespaceExists",
			Message: "Collection already exists",
		}))

		assert.NoError(mt, NewProductRegistry(mt.DB).Create(context.Background(), "fruits"))
	})

	mt.Run("other errors surface", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    73,
			Name:    "InvalidNamespace",
			Message: "Invalid collection name",
		}))

		assert.Error(mt, NewProductRegistry(mt.DB).Create(context.Background(), "bad"))
	})
}

func TestProductRegistry_Collections(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("skips shared and system collections", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "fruits"}},
			bson.D{{Key: "name", Value: "categories"}},
			bson.D{{Key: "name", Value: "banners"}},
			bson.D{{Key: "name", Value: "system.views"}},
			bson.D{{Key: "name", Value: "vegetables"}},
		))

		names, err := NewProductRegistry(mt.DB).Collections(context.Background())
		require.NoError(mt, err)
		assert.ElementsMatch(mt, []string{"fruits", "vegetables"}, names)
	})
}

func TestProductCollection_Search(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("literal case-insensitive pattern", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.fruits", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Apple 1.5kg"}, {Key: "price", Value: 120.0}},
		))

		products, err := NewProductRegistry(mt.DB).Bind("fruits").Search(context.Background(), "1.5")
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, "fruits", products[0].CategoryName)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "find", evt.CommandName)
		pattern, options := evt.Command.Lookup("filter", "$or", "0", "name").Regex()
		assert.Equal(mt, `1\.5`, pattern)
		assert.Equal(mt, "i", options)
	})
}

func TestProductCollection_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		_, err := NewProductRegistry(mt.DB).Bind("fruits").FindByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, errs.ErrNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.fruits", mtest.FirstBatch))

		_, err := NewProductRegistry(mt.DB).Bind("fruits").FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, errs.ErrNotFound)
	})
}

func TestProductCollection_UpdateWithoutFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("falls back to a read", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "TestDB.fruits", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "name", Value: "Mango"}},
		))

		product, err := NewProductRegistry(mt.DB).Bind("fruits").Update(context.Background(), id.Hex(), models.ProductUpdate{})
		require.NoError(mt, err)
		assert.Equal(mt, "Mango", product.Name)
		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
	})
}
