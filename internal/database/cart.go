package repository

import (
	"VoiceCart/entity"
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"time"
)

// GetCart returns the stored cart or an empty one. An expired document that the TTL
// monitor has not removed yet reads as empty but keeps its version so it can be overwritten.
func (m *MongoDB) GetCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(cartsCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}}

	result := collection.FindOne(ctx, filter)
	if result.Err() != nil {
		if err = m.findError(result.Err()); err != nil {
			return nil, err
		}
		return entity.NewCart(sessionID), nil
	}

	cart := &entity.Cart{}
	if err = result.Decode(cart); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	if !cart.ExpireAt.IsZero() && time.Now().After(cart.ExpireAt) {
		empty := entity.NewCart(sessionID)
		empty.Version = cart.Version
		return empty, nil
	}
	if cart.Items == nil {
		cart.Items = []entity.CartLineItem{}
	}
	return cart, nil
}

// SaveCart writes the cart only if the stored version still equals cart.Version.
func (m *MongoDB) SaveCart(ctx context.Context, cart *entity.Cart, ttl time.Duration) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(cartsCollection)

	now := time.Now()
	next := *cart
	next.Version = uuid.NewString()
	next.UpdatedAt = now
	next.ExpireAt = now.Add(ttl)

	if cart.Version == "" {
		_, err = collection.InsertOne(ctx, next)
		if mongo.IsDuplicateKeyError(err) {
			return entity.ErrVersionConflict
		}
		if err != nil {
			return fmt.Errorf("mongodb insert error: %w", err)
		}
		*cart = next
		return nil
	}

	filter := bson.D{{Key: "session_id", Value: cart.SessionID}, {Key: "version", Value: cart.Version}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "items", Value: next.Items},
		{Key: "version", Value: next.Version},
		{Key: "updated_at", Value: next.UpdatedAt},
		{Key: "expire_at", Value: next.ExpireAt},
	}}}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrVersionConflict
	}
	*cart = next
	return nil
}

func (m *MongoDB) DeleteCart(ctx context.Context, sessionID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(cartsCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}}

	_, err = collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	return nil
}
