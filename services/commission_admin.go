package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

// CommissionAdminStore deletes commission rows. The delete must filter on
// both the commission id and the organization id in a single query so a
// cross-tenant id never reveals existence.
type CommissionAdminStore interface {
	DeleteCommission(ctx context.Context, organizationID, commissionID primitive.ObjectID) (int64, error)
}

// CommissionAdmin performs administrative corrections on commission rows.
type CommissionAdmin struct {
	store CommissionAdminStore
}

func NewCommissionAdmin(store CommissionAdminStore) *CommissionAdmin {
	return &CommissionAdmin{store: store}
}

// DeleteCommission hard-deletes one commission row. Admin only; the role
// check runs before any lookup so non-admins learn nothing about existence.
// No cascade to the associated sale.
func (ca *CommissionAdmin) DeleteCommission(ctx context.Context, organizationID primitive.ObjectID, commissionID, requestingUserRole string) error {
	if requestingUserRole != models.RoleAdmin {
		return utils.NewForbiddenError("only organization admins may delete commissions")
	}

	commissionOID, err := primitive.ObjectIDFromHex(commissionID)
	if err != nil {
		return utils.NewValidationError("invalid commission ID format")
	}

	deleted, err := ca.store.DeleteCommission(ctx, organizationID, commissionOID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return utils.NewNotFoundError("commission not found")
	}
	return nil
}
