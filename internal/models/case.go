package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseStatus string

const (
	CaseStatusPending    CaseStatus = "pending"
	CaseStatusSafe       CaseStatus = "safe"
	CaseStatusEmergency  CaseStatus = "emergency"
	CaseStatusNoResponse CaseStatus = "no_response"
)

// Case tracks one tourist position report through the safety-check lifecycle.
// Status starts pending and moves exactly once: to safe or emergency when the
// tourist replies, or to no_response when the escalation window elapses.
type Case struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseCode               string             `json:"caseId" bson:"case_code"`
	Name                   string             `json:"name" bson:"name" validate:"required"`
	Lat                    float64            `json:"lat" bson:"lat"`
	Lon                    float64            `json:"lon" bson:"lon"`
	Zone                   ZoneLevel          `json:"zone" bson:"zone"`
	Status                 CaseStatus         `json:"status" bson:"status" default:"pending"`
	LawEnforcementNotified bool               `json:"lawEnforcementNotified" bson:"law_enforcement_notified"`
	Mobile                 string             `json:"mobile,omitempty" bson:"mobile,omitempty"`
	Resolved               bool               `json:"resolved" bson:"resolved"`
	ResolvedAt             *time.Time         `json:"resolvedAt,omitempty" bson:"resolved_at,omitempty"`
	ResolvedBy             string             `json:"resolvedBy,omitempty" bson:"resolved_by,omitempty"`
	CreatedAt              time.Time          `json:"timestamp" bson:"created_at"`
	UpdatedAt              time.Time          `json:"updatedAt" bson:"updated_at"`
}
