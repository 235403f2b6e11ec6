package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default pipeline stage a prospect is advanced to when a sale is recorded,
// used when the organization has no wonStage configured.
const DefaultWonStage = "client"

type Prospect struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Stage          string             `bson:"stage" json:"stage"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
