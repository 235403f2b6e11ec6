package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreamRates maps the two contribution streams of a sale to commission rates.
type StreamRates struct {
	Initial float64 `bson:"initial" json:"initial"`
	Mensuel float64 `bson:"mensuel" json:"mensuel"`
}

// RateConfiguration is the commission-rate setup of a product: the default fee
// rate applied when the sale does not override it, and one rate table per
// beneficiary role.
type RateConfiguration struct {
	DefaultFraisTaux float64     `bson:"defaultFraisTaux" json:"defaultFraisTaux"`
	Organization     StreamRates `bson:"organization" json:"organization"`
	Advisor          StreamRates `bson:"advisor" json:"advisor"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	Name           string             `bson:"name" json:"name"`
	Active         bool               `bson:"active" json:"active"`
	Rates          RateConfiguration  `bson:"rates" json:"rates"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
