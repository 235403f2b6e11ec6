package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

// RateResolving is the rate-lookup dependency of the recorder.
type RateResolving interface {
	Resolve(ctx context.Context, organizationID primitive.ObjectID, productID string) (*models.RateConfiguration, error)
}

// SaleStore is the persistence surface the recorder writes through.
// InsertSaleWithCommissions must be atomic: either the sale and every
// commission row land, or none do.
type SaleStore interface {
	FindProspect(ctx context.Context, organizationID, prospectID primitive.ObjectID) (*models.Prospect, error)
	FindOrganization(ctx context.Context, organizationID primitive.ObjectID) (*models.Organization, error)
	InsertSaleWithCommissions(ctx context.Context, sale *models.Sale, commissions []models.AdvisorCommission) error
	UpdateProspectStage(ctx context.Context, organizationID, prospectID primitive.ObjectID, stage string) error
}

// RecordSaleResult carries everything a caller needs after a recorded sale.
// StageUpdateError is set when the prospect stage advance failed after the
// financial rows were committed; the rows are never reversed for it.
type RecordSaleResult struct {
	Sale             *models.Sale               `json:"sale"`
	Commissions      []models.AdvisorCommission `json:"commissions"`
	Prospect         *models.Prospect           `json:"prospect"`
	StageUpdateError string                     `json:"stageUpdateError,omitempty"`
}

// SaleRecorder orchestrates the transactional recording of a sale and its
// derived commission rows, then advances the prospect's pipeline stage.
type SaleRecorder struct {
	store SaleStore
	rates RateResolving

	// RecordZeroCommissions keeps zero-amount rows for auditability.
	// Defaults to true; RECORD_ZERO_COMMISSIONS=false disables it.
	RecordZeroCommissions bool
}

func NewSaleRecorder(store SaleStore, rates RateResolving) *SaleRecorder {
	return &SaleRecorder{
		store:                 store,
		rates:                 rates,
		RecordZeroCommissions: true,
	}
}

// RecordSale validates, calculates and persists a sale with its commission
// rows as one atomic unit, then advances the prospect to the organization's
// won stage. Calculation failures abort before any write.
func (sr *SaleRecorder) RecordSale(ctx context.Context, organizationID, advisorID primitive.ObjectID, prospectID string, data models.SaleData, idempotencyKey string) (*RecordSaleResult, error) {
	prospectOID, err := primitive.ObjectIDFromHex(prospectID)
	if err != nil {
		return nil, utils.NewValidationError("invalid prospect ID format")
	}
	if idempotencyKey != "" {
		if _, err := uuid.Parse(idempotencyKey); err != nil {
			return nil, utils.NewValidationError("idempotencyKey must be a valid UUID")
		}
	}

	prospect, err := sr.store.FindProspect(ctx, organizationID, prospectOID)
	if err != nil {
		return nil, err
	}

	rates, err := sr.rates.Resolve(ctx, organizationID, data.ProductID)
	if err != nil {
		return nil, err
	}

	breakdown, err := CalculateCommission(data, *rates)
	if err != nil {
		return nil, err
	}

	productOID, _ := primitive.ObjectIDFromHex(data.ProductID)
	now := time.Now()

	sale := &models.Sale{
		ID:               primitive.NewObjectID(),
		OrganizationID:   organizationID,
		AdvisorID:        advisorID,
		ProspectID:       prospectOID,
		ProductID:        productOID,
		VersementInitial: data.VersementInitial,
		VersementMensuel: data.VersementMensuel,
		FraisTaux:        breakdown.FraisTaux,
		FraisSur:         breakdown.FraisSur,
		IdempotencyKey:   idempotencyKey,
		CreatedAt:        now,
	}

	commissions := sr.buildCommissions(sale, breakdown, now)

	if err := sr.store.InsertSaleWithCommissions(ctx, sale, commissions); err != nil {
		return nil, err
	}

	result := &RecordSaleResult{
		Sale:        sale,
		Commissions: commissions,
		Prospect:    prospect,
	}

	// Financial rows are committed at this point; a stage-advance failure
	// is reported separately and never reverses them.
	wonStage := models.DefaultWonStage
	if org, err := sr.store.FindOrganization(ctx, organizationID); err == nil && org.WonStage != "" {
		wonStage = org.WonStage
	}
	if err := sr.store.UpdateProspectStage(ctx, organizationID, prospectOID, wonStage); err != nil {
		log.Printf("Failed to advance prospect %s to stage %q: %v", prospectOID.Hex(), wonStage, err)
		result.StageUpdateError = "sale recorded but prospect stage update failed"
	} else {
		prospect.Stage = wonStage
		prospect.UpdatedAt = now
	}

	return result, nil
}

func (sr *SaleRecorder) buildCommissions(sale *models.Sale, breakdown *models.CommissionBreakdown, now time.Time) []models.AdvisorCommission {
	var commissions []models.AdvisorCommission

	add := func(role string, advisorID primitive.ObjectID, rc models.RoleCommission) {
		if rc.Amount == 0 && !sr.RecordZeroCommissions {
			return
		}
		commissions = append(commissions, models.AdvisorCommission{
			ID:             primitive.NewObjectID(),
			OrganizationID: sale.OrganizationID,
			AdvisorID:      advisorID,
			SaleID:         sale.ID,
			Role:           role,
			Amount:         rc.Amount,
			GrossBase:      rc.GrossBase,
			FeeAmount:      rc.FeeAmount,
			Currency:       "EUR",
			CreatedAt:      now,
		})
	}

	add(models.BeneficiaryOrganization, primitive.NilObjectID, breakdown.Organization)
	add(models.BeneficiaryAdvisor, sale.AdvisorID, breakdown.Advisor)
	return commissions
}
