package store

import (
	"context"
	"time"

	"basket-backend/models"
	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "neworders"

// DefaultPaymentMethod is recorded when checkout does not name one.
const DefaultPaymentMethod = "Not specified"

// defaultOrderUsername names the buyer when the tenant has no profile yet.
const defaultOrderUsername = "User"

// OrderStore appends orders to the shared orders database.
type OrderStore struct {
	db       *mongo.Database
	selector *TenantSelector
}

func NewOrderStore(db *mongo.Database, selector *TenantSelector) *OrderStore {
	return &OrderStore{db: db, selector: selector}
}

// PlaceOrder snapshots the tenant's cart into an order and then empties the
// cart. The order is written before the cart is cleared, so a failure in
// between leaves the cart intact and a retry may store a second order.
//
// With a non-empty idempotency key a retry returns the stored order and
// created is false. The cart is cleared again on that path, so a retry after
// a failed clear still leaves the cart empty.
func (s *OrderStore) PlaceOrder(ctx context.Context, tenant, paymentMethod, idempotencyKey string) (order models.Order, created bool, err error) {
	db, err := s.selector.Select(tenant)
	if err != nil {
		return order, false, err
	}
	orders := s.db.Collection(ordersCollection)
	cart := db.Collection(cartCollection)

	if idempotencyKey != "" {
		order, err = s.findByKey(ctx, tenant, idempotencyKey)
		if err == nil {
			return order, false, clearCart(ctx, cart, order)
		}
		if !errors.Is(err, errs.ErrNotFound) {
			return order, false, err
		}
	}

	cursor, err := cart.Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderStore.PlaceOrder").Msg("")
		return order, false, errors.Wrap(err, "read cart")
	}
	var items []models.CartItem
	if err = cursor.All(ctx, &items); err != nil {
		return order, false, errors.Wrap(err, "decode cart")
	}
	if len(items) == 0 {
		return order, false, errs.ErrCartEmpty
	}

	var profile models.Profile
	err = db.Collection(profileCollection).FindOne(ctx, bson.D{{Key: "userId", Value: tenant}}).Decode(&profile)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return order, false, errors.Wrap(err, "read profile")
	}

	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	order = models.Order{
		PlacedAt:      time.Now(),
		UserDBName:    tenant,
		PaymentMethod: paymentMethod,
		User: models.OrderUser{
			Username: orderUsername(profile),
			Phone:    profile.Phone,
			Address:  profile.Address,
		},
		Items:          make([]models.OrderItem, 0, len(items)),
		IdempotencyKey: idempotencyKey,
	}

	total := decimal.Zero
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			Category:   item.Category,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Weight:     item.Weight,
			WeightUnit: item.WeightUnit,
		})
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalAmount = total.Round(2).InexactFloat64()

	result, err := orders.InsertOne(ctx, order)
	if err != nil {
		if idempotencyKey != "" && mongo.IsDuplicateKeyError(err) {
			// lost the race against a retry carrying the same key
			existing, findErr := s.findByKey(ctx, tenant, idempotencyKey)
			if findErr != nil {
				return existing, false, findErr
			}
			return existing, false, clearCart(ctx, cart, existing)
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderStore.PlaceOrder").Msg("")
		return order, false, errors.Wrap(err, "insert order")
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}

	return order, true, clearCart(ctx, cart, order)
}

func clearCart(ctx context.Context, cart *mongo.Collection, order models.Order) error {
	if _, err := cart.DeleteMany(ctx, bson.D{}); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderStore.PlaceOrder").Str("order", order.ID.Hex()).Msg("order stored but cart not cleared")
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func orderUsername(profile models.Profile) string {
	if profile.Username == "" {
		return defaultOrderUsername
	}
	return profile.Username
}

func (s *OrderStore) findByKey(ctx context.Context, tenant, key string) (order models.Order, err error) {
	filter := bson.D{
		{Key: "userDbName", Value: tenant},
		{Key: "idempotencyKey", Value: key},
	}
	err = s.db.Collection(ordersCollection).FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return order, errs.ErrNotFound
		}
		return order, errors.Wrap(err, "find order by idempotency key")
	}
	return order, nil
}

// ListOrders returns every order, newest first.
func (s *OrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}})
	cursor, err := s.db.Collection(ordersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderStore.ListOrders").Msg("")
		return nil, errors.Wrap(err, "find orders")
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	n, err := s.db.Collection(ordersCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return n, nil
}
