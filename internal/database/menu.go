package repository

import (
	"VoiceCart/entity"
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMenu returns nil when no menu is stored for the key.
func (m *MongoDB) GetMenu(ctx context.Context, restaurantKey string) (*entity.MenuDocument, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(menusCollection)
	filter := bson.D{{Key: "restaurant_key", Value: restaurantKey}}

	result := collection.FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, m.findError(result.Err())
	}
	doc := &entity.MenuDocument{}
	if err = result.Decode(doc); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return doc, nil
}

func (m *MongoDB) UpsertMenu(ctx context.Context, doc *entity.MenuDocument) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(menusCollection)

	filter := bson.D{{Key: "restaurant_key", Value: doc.RestaurantKey}}
	update := bson.M{"$set": doc}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}
