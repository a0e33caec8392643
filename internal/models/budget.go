package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusDenied    RequestStatus = "DENIED"
	StatusCompleted RequestStatus = "COMPLETED"
)

// EventBudget with a nil TeamID is the club-wide ceiling for the event.
type EventBudget struct {
	ID        string          `db:"id" json:"id"`
	ClubID    string          `db:"club_id" json:"clubId"`
	EventID   string          `db:"event_id" json:"eventId"`
	TeamID    *string         `db:"team_id" json:"teamId,omitempty"`
	MaxBudget decimal.Decimal `db:"max_budget" json:"maxBudget"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type Expense struct {
	ID                string          `db:"id" json:"id"`
	ClubID            string          `db:"club_id" json:"clubId"`
	EventID           *string         `db:"event_id" json:"eventId,omitempty"`
	TeamID            *string         `db:"team_id" json:"teamId,omitempty"`
	Description       string          `db:"description" json:"description"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Date              time.Time       `db:"date" json:"date"`
	AddedBy           string          `db:"added_by" json:"addedBy"`
	PurchaseRequestID *string         `db:"purchase_request_id" json:"purchaseRequestId,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

type PurchaseRequest struct {
	ID              string          `db:"id" json:"id"`
	ClubID          string          `db:"club_id" json:"clubId"`
	EventID         *string         `db:"event_id" json:"eventId,omitempty"`
	TeamID          *string         `db:"team_id" json:"teamId,omitempty"`
	RequesterID     *string         `db:"requester_id" json:"requesterId,omitempty"`
	Description     string          `db:"description" json:"description"`
	Justification   string          `db:"justification" json:"justification"`
	EstimatedAmount decimal.Decimal `db:"estimated_amount" json:"estimatedAmount"`
	Status          RequestStatus   `db:"status" json:"status"`
	AdminOverride   bool            `db:"admin_override" json:"adminOverride"`
	ReviewedBy      *string         `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewNote      string          `db:"review_note" json:"reviewNote"`
	ReviewedAt      *time.Time      `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}
