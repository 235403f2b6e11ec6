package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleAdvisor = "advisor"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Role           string             `bson:"role" json:"role"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	LastLogin      time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Organization struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	WonStage  string             `bson:"wonStage" json:"wonStage"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
