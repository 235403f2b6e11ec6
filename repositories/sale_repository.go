package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

// SaleRepository persists sales and their commission rows. Every query is
// scoped by organizationId; rows of other tenants are indistinguishable from
// absent rows.
type SaleRepository struct {
	db *mongo.Database
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) FindProspect(ctx context.Context, organizationID, prospectID primitive.ObjectID) (*models.Prospect, error) {
	var prospect models.Prospect
	err := r.db.Collection("prospects").FindOne(ctx, bson.M{
		"_id":            prospectID,
		"organizationId": organizationID,
	}).Decode(&prospect)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("prospect not found")
	}
	if err != nil {
		return nil, err
	}
	return &prospect, nil
}

func (r *SaleRepository) FindOrganization(ctx context.Context, organizationID primitive.ObjectID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.Collection("organizations").FindOne(ctx, bson.M{"_id": organizationID}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("organization not found")
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// InsertSaleWithCommissions writes the sale and its commission rows as one
// atomic unit. When the deployment supports multi-document transactions the
// writes run inside one; on a standalone server the writes are sequenced with
// best-effort compensation so a mid-sequence failure leaves no partial rows.
func (r *SaleRepository) InsertSaleWithCommissions(ctx context.Context, sale *models.Sale, commissions []models.AdvisorCommission) error {
	sess, err := r.db.Client().StartSession()
	if err == nil {
		defer sess.EndSession(ctx)

		_, txErr := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := r.db.Collection("sales").InsertOne(sc, sale); err != nil {
				return nil, err
			}
			for _, commission := range commissions {
				if _, err := r.db.Collection("advisorCommissions").InsertOne(sc, commission); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		if txErr == nil {
			return nil
		}
		if mongo.IsDuplicateKeyError(txErr) {
			return utils.NewConflictError("a sale with this idempotency key was already recorded for this prospect")
		}
		if !transactionsUnsupported(txErr) {
			return txErr
		}
	}

	return r.insertSequenced(ctx, sale, commissions)
}

func (r *SaleRepository) insertSequenced(ctx context.Context, sale *models.Sale, commissions []models.AdvisorCommission) error {
	if _, err := r.db.Collection("sales").InsertOne(ctx, sale); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("a sale with this idempotency key was already recorded for this prospect")
		}
		return err
	}

	for i, commission := range commissions {
		if _, err := r.db.Collection("advisorCommissions").InsertOne(ctx, commission); err != nil {
			r.compensate(sale, commissions[:i])
			return err
		}
	}
	return nil
}

// compensate removes the sale and any commission rows already written after a
// mid-sequence failure. Uses a fresh context so a cancelled request cannot
// leave partial financial rows behind.
func (r *SaleRepository) compensate(sale *models.Sale, written []models.AdvisorCommission) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, commission := range written {
		r.db.Collection("advisorCommissions").DeleteOne(cleanupCtx, bson.M{"_id": commission.ID})
	}
	r.db.Collection("sales").DeleteOne(cleanupCtx, bson.M{"_id": sale.ID})
}

func (r *SaleRepository) UpdateProspectStage(ctx context.Context, organizationID, prospectID primitive.ObjectID, stage string) error {
	fields, err := utils.FilterUpdateFields(utils.MutationProspectStage, map[string]interface{}{
		"stage":     stage,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return err
	}

	result, err := r.db.Collection("prospects").UpdateOne(ctx, bson.M{
		"_id":            prospectID,
		"organizationId": organizationID,
	}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("prospect not found")
	}
	return nil
}

// DeleteCommission filters on both ids in one query so a commission owned by
// another tenant reads as not found.
func (r *SaleRepository) DeleteCommission(ctx context.Context, organizationID, commissionID primitive.ObjectID) (int64, error) {
	result, err := r.db.Collection("advisorCommissions").DeleteOne(ctx, bson.M{
		"_id":            commissionID,
		"organizationId": organizationID,
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// AggregateCommissionStats computes totals, sale count and per-role /
// per-advisor breakdowns over the commission rows of one organization.
func (r *SaleRepository) AggregateCommissionStats(ctx context.Context, organizationID primitive.ObjectID, start, end *time.Time) (*models.CommissionStats, error) {
	match := bson.M{"organizationId": organizationID}
	if start != nil || end != nil {
		createdAt := bson.M{}
		if start != nil {
			createdAt["$gte"] = *start
		}
		if end != nil {
			createdAt["$lte"] = *end
		}
		match["createdAt"] = createdAt
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$facet", Value: bson.M{
			"totals": mongo.Pipeline{
				bson.D{{Key: "$group", Value: bson.M{
					"_id":         nil,
					"totalAmount": bson.M{"$sum": "$amount"},
					"saleIds":     bson.M{"$addToSet": "$saleId"},
				}}},
				bson.D{{Key: "$project", Value: bson.M{
					"totalAmount": 1,
					"saleCount":   bson.M{"$size": "$saleIds"},
				}}},
			},
			"byRole": mongo.Pipeline{
				bson.D{{Key: "$group", Value: bson.M{
					"_id":    "$role",
					"amount": bson.M{"$sum": "$amount"},
				}}},
			},
			"byAdvisor": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{"advisorId": bson.M{"$exists": true}}}},
				bson.D{{Key: "$group", Value: bson.M{
					"_id":    "$advisorId",
					"amount": bson.M{"$sum": "$amount"},
				}}},
			},
		}}},
	}

	cursor, err := r.db.Collection("advisorCommissions").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Totals []struct {
			TotalAmount float64 `bson:"totalAmount"`
			SaleCount   int64   `bson:"saleCount"`
		} `bson:"totals"`
		ByRole []struct {
			ID     string  `bson:"_id"`
			Amount float64 `bson:"amount"`
		} `bson:"byRole"`
		ByAdvisor []struct {
			ID     primitive.ObjectID `bson:"_id"`
			Amount float64            `bson:"amount"`
		} `bson:"byAdvisor"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	stats := &models.CommissionStats{
		ByRole:    map[string]float64{},
		ByAdvisor: map[string]float64{},
	}
	if len(results) == 0 {
		return stats, nil
	}

	facets := results[0]
	if len(facets.Totals) > 0 {
		stats.TotalAmount = facets.Totals[0].TotalAmount
		stats.SaleCount = facets.Totals[0].SaleCount
	}
	for _, role := range facets.ByRole {
		stats.ByRole[role.ID] = role.Amount
	}
	for _, advisor := range facets.ByAdvisor {
		stats.ByAdvisor[advisor.ID.Hex()] = advisor.Amount
	}
	return stats, nil
}

// transactionsUnsupported reports whether err means the deployment cannot run
// multi-document transactions (standalone server without a replica set).
func transactionsUnsupported(err error) bool {
	if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Name == "IllegalOperation" {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
