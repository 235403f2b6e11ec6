package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Beneficiary roles of a commission.
const (
	BeneficiaryOrganization = "organization"
	BeneficiaryAdvisor      = "advisor"
)

// RoleCommission is the audited calculation result for one beneficiary role:
// the rounded commission amount, the gross base it was computed from, the fee
// actually deducted from that base, and the per-stream rates applied.
type RoleCommission struct {
	Amount      float64 `json:"amount"`
	GrossBase   float64 `json:"grossBase"`
	FeeAmount   float64 `json:"feeAmount"`
	InitialRate float64 `json:"initialRate"`
	MensuelRate float64 `json:"mensuelRate"`
}

// CommissionBreakdown is the full calculation result before persistence.
type CommissionBreakdown struct {
	FraisTaux    float64        `json:"fraisTaux"`
	FraisSur     string         `json:"fraisSur"`
	FeeAmount    float64        `json:"feeAmount"`
	NetInitial   float64        `json:"netInitial"`
	NetMensuel   float64        `json:"netMensuel"`
	Organization RoleCommission `json:"organization"`
	Advisor      RoleCommission `json:"advisor"`
}

// AdvisorCommission is one persisted commission row per beneficiary per sale.
// AdvisorID is the zero ObjectID for the organization-level row.
type AdvisorCommission struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	AdvisorID      primitive.ObjectID `bson:"advisorId,omitempty" json:"advisorId,omitempty"`
	SaleID         primitive.ObjectID `bson:"saleId" json:"saleId"`
	Role           string             `bson:"role" json:"role"`
	Amount         float64            `bson:"amount" json:"amount"`
	GrossBase      float64            `bson:"grossBase" json:"grossBase"`
	FeeAmount      float64            `bson:"feeAmount" json:"feeAmount"`
	Currency       string             `bson:"currency" json:"currency"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// CommissionStats is the aggregate reporting result over a date range.
type CommissionStats struct {
	TotalAmount float64            `json:"totalAmount"`
	SaleCount   int64              `json:"saleCount"`
	ByRole      map[string]float64 `json:"byRole"`
	ByAdvisor   map[string]float64 `json:"byAdvisor"`
}
