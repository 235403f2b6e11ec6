package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) FindProduct(ctx context.Context, organizationID, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{
		"_id":            productID,
		"organizationId": organizationID,
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
