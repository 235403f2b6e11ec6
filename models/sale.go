package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fee basis values: which contribution stream(s) the fee is deducted from
// before commission is computed.
const (
	FraisSurInitial = "initial"
	FraisSurMensuel = "mensuel"
	FraisSurBoth    = "both"
)

// SaleData is the raw sale input supplied by the caller. FraisTaux is a
// pointer so an absent fee rate falls back to the product default instead of
// being read as zero.
type SaleData struct {
	ProductID        string   `json:"productId" validate:"required"`
	VersementInitial float64  `json:"versementInitial"`
	VersementMensuel float64  `json:"versementMensuel"`
	FraisTaux        *float64 `json:"fraisTaux,omitempty"`
	FraisSur         string   `json:"fraisSur,omitempty"`
}

type Sale struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID   primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	AdvisorID        primitive.ObjectID `bson:"advisorId" json:"advisorId"`
	ProspectID       primitive.ObjectID `bson:"prospectId" json:"prospectId"`
	ProductID        primitive.ObjectID `bson:"productId" json:"productId"`
	VersementInitial float64            `bson:"versementInitial" json:"versementInitial"`
	VersementMensuel float64            `bson:"versementMensuel" json:"versementMensuel"`
	FraisTaux        float64            `bson:"fraisTaux" json:"fraisTaux"`
	FraisSur         string             `bson:"fraisSur" json:"fraisSur"`
	IdempotencyKey   string             `bson:"idempotencyKey,omitempty" json:"idempotencyKey,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

type RecordSaleRequest struct {
	ProspectID     string   `json:"prospectId" validate:"required"`
	SaleData       SaleData `json:"saleData"`
	IdempotencyKey string   `json:"idempotencyKey,omitempty"`
}
